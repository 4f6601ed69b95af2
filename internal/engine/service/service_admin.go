package service

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/pkg/errs"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService struct {
	userRepo repo.IUserRepository
	auth     httpx.Auth
}

func NewAdminService(userRepo repo.IUserRepository, auth httpx.Auth) *AdminService {
	return &AdminService{userRepo: userRepo, auth: auth}
}

func (s *AdminService) Signup(req *model.SignupReq) (*model.AdminAuthResp, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" || req.Nickname == "" {
		return nil, errs.New(errs.BadRequest, "email, password and nickname are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, errs.New(errs.BadRequest, "invalid email address")
	}
	if len(req.Password) < 8 {
		return nil, errs.New(errs.BadRequest, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to hash password", err)
	}

	admin := &model.Admin{
		Email:    req.Email,
		Password: string(hash),
		Nickname: req.Nickname,
	}
	if err := s.userRepo.CreateAdmin(admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.New(errs.Conflict, "email already in use")
		}
		return nil, errs.Wrap(errs.Internal, "failed to create admin", err)
	}

	return s.issueAdminToken(admin)
}

func (s *AdminService) Login(req *model.LoginReq) (*model.AdminAuthResp, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, errs.New(errs.BadRequest, "email and password are required")
	}

	admin, err := s.userRepo.FindAdminByEmail(email)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to look up admin", err)
	}
	if admin == nil {
		return nil, errs.New(errs.Unauthorized, "invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		return nil, errs.New(errs.Unauthorized, "invalid email or password")
	}

	return s.issueAdminToken(admin)
}

func (s *AdminService) issueAdminToken(admin *model.Admin) (*model.AdminAuthResp, error) {
	// Admin tokens carry no revocation counter; only existence of the
	// admin row is checked on each request.
	token, err := jwt.GenToken(admin.ID, jwt.TypeAdmin, jwt.RoleAdmin, 0,
		[]byte(s.auth.SecretKey), s.auth.AccessExpire)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to sign token", err)
	}
	return &model.AdminAuthResp{AccessToken: token, Admin: admin.Profile()}, nil
}
