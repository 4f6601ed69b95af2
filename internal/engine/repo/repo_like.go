package repo

import (
	"errors"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/pkg/ctx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ILikeRepository interface {
	Add(userID, workID int64) (int64, error)
	Remove(userID, workID int64) (int64, error)
	Count(workID int64) (int64, error)
	Exists(userID, workID int64) (bool, error)
}

type LikeRepo struct {
	db *gorm.DB
}

func NewLikeRepo(c *ctx.Context) ILikeRepository {
	return &LikeRepo{db: c.DB}
}

// Add records the like if absent and returns the resulting count.
// ON CONFLICT DO NOTHING makes repeated likes a no-op rather than an
// error.
func (lr *LikeRepo) Add(userID, workID int64) (int64, error) {
	var count int64
	err := lr.db.Transaction(func(tx *gorm.DB) error {
		like := model.Like{UserID: userID, WorkID: workID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil &&
			!errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return tx.Model(&model.Like{}).Where("work_id = ?", workID).Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Remove deletes the like if present and returns the resulting count.
func (lr *LikeRepo) Remove(userID, workID int64) (int64, error) {
	var count int64
	err := lr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND work_id = ?", userID, workID).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Like{}).Where("work_id = ?", workID).Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (lr *LikeRepo) Count(workID int64) (int64, error) {
	var count int64
	err := lr.db.Model(&model.Like{}).Where("work_id = ?", workID).Count(&count).Error
	return count, err
}

func (lr *LikeRepo) Exists(userID, workID int64) (bool, error) {
	var count int64
	err := lr.db.Model(&model.Like{}).
		Where("user_id = ? AND work_id = ?", userID, workID).
		Count(&count).Error
	return count > 0, err
}
