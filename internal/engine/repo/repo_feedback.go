package repo

import (
	"errors"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/pkg/ctx"
	"gorm.io/gorm"
)

type IFeedbackRepository interface {
	Create(feedback *model.Feedback) error
	GetByID(id int64) (*model.Feedback, error)
	ListByWork(workID int64, page, limit int) ([]model.Feedback, int64, error)
	Update(id int64, content string) (*model.Feedback, error)
	Delete(id int64) error
}

type FeedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(c *ctx.Context) IFeedbackRepository {
	return &FeedbackRepo{db: c.DB}
}

func (fr *FeedbackRepo) Create(feedback *model.Feedback) error {
	return fr.db.Create(feedback).Error
}

func (fr *FeedbackRepo) GetByID(id int64) (*model.Feedback, error) {
	var f model.Feedback
	err := fr.db.First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (fr *FeedbackRepo) ListByWork(workID int64, page, limit int) ([]model.Feedback, int64, error) {
	tx := fr.db.Model(&model.Feedback{}).Where("work_id = ?", workID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Feedback
	err := tx.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (fr *FeedbackRepo) Update(id int64, content string) (*model.Feedback, error) {
	if err := fr.db.Model(&model.Feedback{}).Where("id = ?", id).Update("content", content).Error; err != nil {
		return nil, err
	}
	return fr.GetByID(id)
}

func (fr *FeedbackRepo) Delete(id int64) error {
	return fr.db.Delete(&model.Feedback{}, id).Error
}
