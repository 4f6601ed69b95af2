// Copyright 2025 Translathon Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/pkg/errs"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/jwt"
	"github.com/translathon/translathon/pkg/log"
	"github.com/translathon/translathon/pkg/oauth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GoogleTokenVerifier abstracts the OIDC round trip so the login flow
// can be tested without Google.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oauth.GoogleClaims, error)
}

type AuthService struct {
	userRepo repo.IUserRepository
	verifier GoogleTokenVerifier
	auth     httpx.Auth
}

func NewAuthService(userRepo repo.IUserRepository, verifier GoogleTokenVerifier, auth httpx.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		verifier: verifier,
		auth:     auth,
	}
}

func (as *AuthService) Signup(req *model.SignupReq) (*model.AuthResp, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to hash password", err)
	}

	password := string(hash)
	user := &model.User{
		Email:        req.Email,
		Password:     &password,
		Nickname:     req.Nickname,
		ProfileImage: req.ProfileImage,
		Role:         model.RoleUser,
		Grade:        model.GradeNormal,
	}
	if err := as.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.New(errs.Conflict, "email already in use")
		}
		return nil, errs.Wrap(errs.Internal, "failed to create user", err)
	}

	return as.issueUserToken(user)
}

func (as *AuthService) Login(req *model.LoginReq) (*model.AuthResp, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, errs.New(errs.BadRequest, "email and password are required")
	}

	user, err := as.userRepo.FindUserByEmail(email)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to look up user", err)
	}
	if user == nil || user.Password == nil {
		// OAuth-only accounts have no password and cannot log in here.
		return nil, errs.New(errs.Unauthorized, "invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)) != nil {
		return nil, errs.New(errs.Unauthorized, "invalid email or password")
	}

	// Bumping the version invalidates every previously issued token.
	version, err := as.userRepo.IncrementTokenVersion(user.ID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to rotate token version", err)
	}
	user.TokenVersion = version

	return as.issueUserToken(user)
}

// GoogleLogin resolves the verified identity in order: existing linked
// account, then linking to a user with the same email, then creating a
// fresh user. Linking and creation are atomic with the account row.
func (as *AuthService) GoogleLogin(c context.Context, req *model.GoogleLoginReq) (*model.AuthResp, error) {
	if req.IDToken == "" {
		return nil, errs.New(errs.BadRequest, "idToken is required")
	}
	if as.verifier == nil {
		return nil, errs.New(errs.Internal, "google login is not configured")
	}

	identity, err := as.verifier.Verify(c, req.IDToken)
	if err != nil {
		return nil, errs.Wrap(errs.Unauthorized, "invalid google token", err)
	}
	if identity.Subject == "" || identity.Email == "" {
		return nil, errs.New(errs.Unauthorized, "google token is missing required claims")
	}
	if !identity.EmailVerified {
		return nil, errs.New(errs.Unauthorized, "google account email is not verified")
	}
	email := strings.TrimSpace(strings.ToLower(identity.Email))

	account, err := as.userRepo.FindOAuthAccount("google", identity.Subject)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to look up oauth account", err)
	}

	var user *model.User
	switch {
	case account != nil:
		user, err = as.userRepo.FindUserByID(account.UserID)
		if err != nil {
			return nil, errs.Wrap(errs.Internal, "failed to load user", err)
		}
		if user == nil {
			return nil, errs.New(errs.Internal, "oauth account references a missing user")
		}

	default:
		user, err = as.userRepo.FindUserByEmail(email)
		if err != nil {
			return nil, errs.Wrap(errs.Internal, "failed to look up user", err)
		}
		if user != nil {
			err = as.userRepo.CreateOAuthAccount(&model.OAuthAccount{
				Provider:   "google",
				ProviderID: identity.Subject,
				Email:      email,
				UserID:     user.ID,
			})
			if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, errs.Wrap(errs.Internal, "failed to link oauth account", err)
			}
		} else {
			nickname := identity.Name
			if nickname == "" {
				nickname, _, _ = strings.Cut(email, "@")
			}
			user = &model.User{
				Email:    email,
				Nickname: nickname,
				Role:     model.RoleUser,
				Grade:    model.GradeNormal,
			}
			err = as.userRepo.CreateUserWithOAuth(user, &model.OAuthAccount{
				Provider:   "google",
				ProviderID: identity.Subject,
				Email:      email,
			})
			if err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return nil, errs.New(errs.Conflict, "email already in use")
				}
				return nil, errs.Wrap(errs.Internal, "failed to create user", err)
			}
		}
	}

	version, err := as.userRepo.IncrementTokenVersion(user.ID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to rotate token version", err)
	}
	user.TokenVersion = version

	return as.issueUserToken(user)
}

func (as *AuthService) Me(userID int64) (*model.UserProfile, error) {
	user, err := as.userRepo.FindUserByID(userID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load user", err)
	}
	if user == nil {
		return nil, errs.New(errs.NotFound, "user not found")
	}
	return user.Profile(), nil
}

// Profile is the public projection of any user, served through the
// redis read-through cache when one is configured.
func (as *AuthService) Profile(c context.Context, id int64) (*model.UserSummary, error) {
	summary, err := as.userRepo.FetchUserSummary(c, id)
	if err != nil {
		if errs.IsKind(err, errs.NotFound) {
			return nil, err
		}
		return nil, errs.Wrap(errs.Internal, "failed to load user profile", err)
	}
	return summary, nil
}

// Logout bumps the token version so every outstanding token for the
// user, including the one presented, stops verifying.
func (as *AuthService) Logout(userID int64) error {
	if _, err := as.userRepo.IncrementTokenVersion(userID); err != nil {
		log.Errorf("failed to revoke tokens for user %d: %v", userID, err)
		return errs.Wrap(errs.Internal, "failed to log out", err)
	}
	return nil
}

func (as *AuthService) issueUserToken(user *model.User) (*model.AuthResp, error) {
	token, err := jwt.GenToken(user.ID, jwt.TypeUser, string(user.Role), user.TokenVersion,
		[]byte(as.auth.SecretKey), as.auth.AccessExpire)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to sign token", err)
	}
	return &model.AuthResp{AccessToken: token, User: user.Profile()}, nil
}

func validateSignup(req *model.SignupReq) error {
	if req.Email == "" || req.Password == "" || req.Nickname == "" {
		return errs.New(errs.BadRequest, "email, password and nickname are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errs.New(errs.BadRequest, "invalid email address")
	}
	if len(req.Password) < 8 {
		return errs.New(errs.BadRequest, "password must be at least 8 characters")
	}
	return nil
}
