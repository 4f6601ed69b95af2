package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/pkg/errs"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/jwt"
	"github.com/translathon/translathon/pkg/oauth"
)

type fakeVerifier struct {
	claims *oauth.GoogleClaims
	err    error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*oauth.GoogleClaims, error) {
	return f.claims, f.err
}

func testAuthConf() httpx.Auth {
	return httpx.Auth{SecretKey: "test-secret", AccessExpire: 10080}
}

func newAuthService(users *fakeUserRepo, verifier GoogleTokenVerifier) *AuthService {
	return NewAuthService(users, verifier, testAuthConf())
}

func TestSignup(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, nil)

	resp, err := svc.Signup(&model.SignupReq{
		Email:    "Alice@Example.com",
		Password: "correct horse",
		Nickname: "alice",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, model.GradeNormal, resp.User.Grade)
	assert.NotEmpty(t, resp.AccessToken)

	// the issued token verifies and carries version 0
	claims, err := jwt.ParseToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, jwt.TypeUser, claims.Type)
	assert.Equal(t, 0, claims.TokenVersion)

	// duplicate email is a conflict
	_, err = svc.Signup(&model.SignupReq{Email: "alice@example.com", Password: "another one", Nickname: "al"})
	assert.Equal(t, errs.Conflict, errs.KindOf(err))

	// weak input
	_, err = svc.Signup(&model.SignupReq{Email: "bob@example.com", Password: "short", Nickname: "bob"})
	assert.Equal(t, errs.BadRequest, errs.KindOf(err))
	_, err = svc.Signup(&model.SignupReq{Email: "not-an-email", Password: "long enough", Nickname: "bob"})
	assert.Equal(t, errs.BadRequest, errs.KindOf(err))
}

func TestLoginRotatesTokenVersion(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, nil)

	signed, err := svc.Signup(&model.SignupReq{Email: "alice@example.com", Password: "correct horse", Nickname: "alice"})
	require.NoError(t, err)

	resp, err := svc.Login(&model.LoginReq{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	newClaims, err := jwt.ParseToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 1, newClaims.TokenVersion)

	// the signup-era token now belongs to a stale generation
	oldClaims, err := jwt.ParseToken(signed.AccessToken, "test-secret")
	require.NoError(t, err)
	current, err := users.TokenVersion(context.Background(), oldClaims.Type, oldClaims.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, oldClaims.TokenVersion, current)

	// wrong password and unknown user both read as unauthorized
	_, err = svc.Login(&model.LoginReq{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, errs.Unauthorized, errs.KindOf(err))
	_, err = svc.Login(&model.LoginReq{Email: "ghost@example.com", Password: "whatever"})
	assert.Equal(t, errs.Unauthorized, errs.KindOf(err))
}

func TestLogoutRevokesAllTokens(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, nil)

	resp, err := svc.Signup(&model.SignupReq{Email: "alice@example.com", Password: "correct horse", Nickname: "alice"})
	require.NoError(t, err)

	claims, err := jwt.ParseToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(claims.UserID))

	current, err := users.TokenVersion(context.Background(), claims.Type, claims.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, claims.TokenVersion, current)
}

func TestGoogleLoginExistingAccount(t *testing.T) {
	users := newFakeUserRepo()
	alice := &model.User{Email: "alice@example.com", Nickname: "alice"}
	require.NoError(t, users.CreateUser(alice))
	require.NoError(t, users.CreateOAuthAccount(&model.OAuthAccount{
		Provider: "google", ProviderID: "sub-1", Email: alice.Email, UserID: alice.ID,
	}))

	svc := newAuthService(users, &fakeVerifier{claims: &oauth.GoogleClaims{
		Subject: "sub-1", Email: "alice@example.com", EmailVerified: true, Name: "Alice",
	}})

	resp, err := svc.GoogleLogin(context.Background(), &model.GoogleLoginReq{IDToken: "raw"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, resp.User.ID)
	assert.Len(t, users.accounts, 1)
}

func TestGoogleLoginLinksByEmail(t *testing.T) {
	users := newFakeUserRepo()
	alice := &model.User{Email: "alice@example.com", Nickname: "alice"}
	require.NoError(t, users.CreateUser(alice))

	svc := newAuthService(users, &fakeVerifier{claims: &oauth.GoogleClaims{
		Subject: "sub-2", Email: "Alice@Example.com", EmailVerified: true, Name: "Alice",
	}})

	resp, err := svc.GoogleLogin(context.Background(), &model.GoogleLoginReq{IDToken: "raw"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, resp.User.ID)

	// a new account row now links the subject to the existing user
	account, err := users.FindOAuthAccount("google", "sub-2")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, alice.ID, account.UserID)
}

func TestGoogleLoginCreatesUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, &fakeVerifier{claims: &oauth.GoogleClaims{
		Subject: "sub-3", Email: "new@example.com", EmailVerified: true, Name: "Newcomer",
	}})

	resp, err := svc.GoogleLogin(context.Background(), &model.GoogleLoginReq{IDToken: "raw"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, "Newcomer", resp.User.Nickname)

	// OAuth-only account: no password, login by password refused
	u, err := users.FindUserByEmail("new@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Nil(t, u.Password)

	_, err = svc.Login(&model.LoginReq{Email: "new@example.com", Password: "anything at all"})
	assert.Equal(t, errs.Unauthorized, errs.KindOf(err))
}

func TestGoogleLoginRejectsUnverifiedEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, &fakeVerifier{claims: &oauth.GoogleClaims{
		Subject: "sub-4", Email: "sketchy@example.com", EmailVerified: false,
	}})

	_, err := svc.GoogleLogin(context.Background(), &model.GoogleLoginReq{IDToken: "raw"})
	assert.Equal(t, errs.Unauthorized, errs.KindOf(err))
}

func TestGoogleLoginRejectsMissingClaims(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, &fakeVerifier{claims: &oauth.GoogleClaims{
		Subject: "", Email: "", EmailVerified: true,
	}})

	_, err := svc.GoogleLogin(context.Background(), &model.GoogleLoginReq{IDToken: "raw"})
	assert.Equal(t, errs.Unauthorized, errs.KindOf(err))

	// no half-baked user row behind the rejection
	u, err := users.FindUserByEmail("")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGoogleLoginInvalidToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, &fakeVerifier{err: errors.New("bad signature")})

	_, err := svc.GoogleLogin(context.Background(), &model.GoogleLoginReq{IDToken: "raw"})
	assert.Equal(t, errs.Unauthorized, errs.KindOf(err))

	_, err = svc.GoogleLogin(context.Background(), &model.GoogleLoginReq{})
	assert.Equal(t, errs.BadRequest, errs.KindOf(err))
}

func TestAdminSignupAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAdminService(users, testAuthConf())

	resp, err := svc.Signup(&model.SignupReq{Email: "root@example.com", Password: "super secret", Nickname: "root"})
	require.NoError(t, err)
	require.NotNil(t, resp.Admin)

	claims, err := jwt.ParseToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, jwt.TypeAdmin, claims.Type)
	assert.True(t, claims.IsAdmin())

	_, err = svc.Signup(&model.SignupReq{Email: "root@example.com", Password: "super secret", Nickname: "root2"})
	assert.Equal(t, errs.Conflict, errs.KindOf(err))

	logged, err := svc.Login(&model.LoginReq{Email: "root@example.com", Password: "super secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, logged.AccessToken)

	_, err = svc.Login(&model.LoginReq{Email: "root@example.com", Password: "nope nope"})
	assert.Equal(t, errs.Unauthorized, errs.KindOf(err))
}

func TestMe(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, nil)

	resp, err := svc.Signup(&model.SignupReq{Email: "alice@example.com", Password: "correct horse", Nickname: "alice"})
	require.NoError(t, err)

	profile, err := svc.Me(resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Nickname)

	_, err = svc.Me(999)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestPublicProfile(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, nil)

	resp, err := svc.Signup(&model.SignupReq{Email: "alice@example.com", Password: "correct horse", Nickname: "alice"})
	require.NoError(t, err)

	summary, err := svc.Profile(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, summary.ID)
	assert.Equal(t, "alice", summary.Nickname)

	_, err = svc.Profile(context.Background(), 999)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}
