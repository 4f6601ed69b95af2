package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/translathon/translathon/internal/engine/consts"
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/pkg/cache"
	"github.com/translathon/translathon/pkg/ctx"
	"github.com/translathon/translathon/pkg/errs"
	"github.com/translathon/translathon/pkg/httpx/jwt"
	"github.com/translathon/translathon/pkg/log"
	"gorm.io/gorm"
)

type IUserRepository interface {
	CreateUser(user *model.User) error
	CreateUserWithOAuth(user *model.User, account *model.OAuthAccount) error
	FindUserByEmail(email string) (*model.User, error)
	FindUserByID(id int64) (*model.User, error)
	FetchUserSummary(ctx context.Context, id int64) (*model.UserSummary, error)
	IncrementTokenVersion(userID int64) (int, error)
	TokenVersion(ctx context.Context, typ string, id int64) (int, error)

	FindOAuthAccount(provider, providerID string) (*model.OAuthAccount, error)
	CreateOAuthAccount(account *model.OAuthAccount) error

	CreateAdmin(admin *model.Admin) error
	FindAdminByEmail(email string) (*model.Admin, error)
	FindAdminByID(id int64) (*model.Admin, error)
}

type UserRepo struct {
	db    *gorm.DB
	cache cache.ICache
}

func NewUserRepo(c *ctx.Context) IUserRepository {
	var ic cache.ICache
	if c.Redis != nil {
		ic = cache.NewRedisCache(c.Redis)
	}
	return &UserRepo{db: c.DB, cache: ic}
}

func (ur *UserRepo) CreateUser(user *model.User) error {
	return ur.db.Create(user).Error
}

// CreateUserWithOAuth creates the user and its linked OAuth account in
// one transaction so a social signup is all-or-nothing.
func (ur *UserRepo) CreateUserWithOAuth(user *model.User, account *model.OAuthAccount) error {
	return ur.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		account.UserID = user.ID
		return tx.Create(account).Error
	})
}

func (ur *UserRepo) FindUserByEmail(email string) (*model.User, error) {
	var u model.User
	err := ur.db.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *UserRepo) FindUserByID(id int64) (*model.User, error) {
	var u model.User
	err := ur.db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FetchUserSummary returns the public projection of a user, cached in
// redis when available. Nickname and image are immutable, so the cache
// needs no invalidation.
func (ur *UserRepo) FetchUserSummary(c context.Context, id int64) (*model.UserSummary, error) {
	key := consts.UserSummaryKey(id)

	if ur.cache != nil {
		if raw, err := ur.cache.Get(c, key).Result(); err == nil && raw != "" {
			var s model.UserSummary
			if err := json.Unmarshal([]byte(raw), &s); err == nil {
				return &s, nil
			}
			log.Warnw("failed to unmarshal cached user summary", "userId", id)
		}
	}

	var s model.UserSummary
	err := ur.db.Model(&model.User{}).
		Select("id, nickname, profile_image").
		Where("id = ?", id).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.New(errs.NotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}

	if ur.cache != nil {
		if raw, err := json.Marshal(&s); err == nil {
			if err := ur.cache.Set(c, key, raw, time.Hour).Err(); err != nil {
				log.Warnw("failed to cache user summary", "userId", id, "error", err)
			}
		}
	}

	return &s, nil
}

// IncrementTokenVersion bumps the revocation counter and returns the
// new value; every prior token generation becomes stale.
func (ur *UserRepo) IncrementTokenVersion(userID int64) (int, error) {
	var version int
	err := ur.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Select("token_version").
			Where("id = ?", userID).
			Scan(&version).Error
	})
	return version, err
}

// TokenVersion resolves the stored revocation counter for a token's
// subject. Admin identities carry no counter; existence is the check.
func (ur *UserRepo) TokenVersion(c context.Context, typ string, id int64) (int, error) {
	if typ == jwt.TypeAdmin {
		admin, err := ur.FindAdminByID(id)
		if err != nil {
			return 0, err
		}
		if admin == nil {
			return 0, errs.New(errs.NotFound, "admin not found")
		}
		return 0, nil
	}

	var version int
	err := ur.db.Model(&model.User{}).
		Select("token_version").
		Where("id = ?", id).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errs.New(errs.NotFound, "user not found")
	}
	return version, err
}

func (ur *UserRepo) FindOAuthAccount(provider, providerID string) (*model.OAuthAccount, error) {
	var a model.OAuthAccount
	err := ur.db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (ur *UserRepo) CreateOAuthAccount(account *model.OAuthAccount) error {
	return ur.db.Create(account).Error
}

func (ur *UserRepo) CreateAdmin(admin *model.Admin) error {
	return ur.db.Create(admin).Error
}

func (ur *UserRepo) FindAdminByEmail(email string) (*model.Admin, error) {
	var a model.Admin
	err := ur.db.Where("email = ?", email).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (ur *UserRepo) FindAdminByID(id int64) (*model.Admin, error) {
	var a model.Admin
	err := ur.db.First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
