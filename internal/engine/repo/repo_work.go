package repo

import (
	"errors"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/pkg/ctx"
	"gorm.io/gorm"
)

type IWorkRepository interface {
	Create(work *model.Work) error
	GetByID(id int64) (*model.Work, error)
	List(q model.ListWorksQuery) ([]model.Work, error)
	Update(id int64, updates map[string]any) (*model.Work, error)
	Delete(id int64) error
}

type WorkRepo struct {
	db *gorm.DB
}

func NewWorkRepo(c *ctx.Context) IWorkRepository {
	return &WorkRepo{db: c.DB}
}

func (wr *WorkRepo) Create(work *model.Work) error {
	return wr.db.Create(work).Error
}

func (wr *WorkRepo) GetByID(id int64) (*model.Work, error) {
	var w model.Work
	err := wr.db.First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (wr *WorkRepo) List(q model.ListWorksQuery) ([]model.Work, error) {
	tx := wr.db.Model(&model.Work{})
	if q.ChallengeID != nil {
		tx = tx.Where("challenge_id = ?", *q.ChallengeID)
	}
	if q.UserID != nil {
		tx = tx.Where("user_id = ?", *q.UserID)
	}
	if q.WorkStatus != "" {
		tx = tx.Where("work_status = ?", q.WorkStatus)
	}

	var rows []model.Work
	err := tx.Order("created_at DESC, id DESC").Find(&rows).Error
	return rows, err
}

func (wr *WorkRepo) Update(id int64, updates map[string]any) (*model.Work, error) {
	if err := wr.db.Model(&model.Work{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return wr.GetByID(id)
}

func (wr *WorkRepo) Delete(id int64) error {
	return wr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_id = ?", id).Delete(&model.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("work_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Work{}, id).Error
	})
}
