package repo

import (
	"errors"
	"time"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/pkg/ctx"
	"gorm.io/gorm"
)

type INotificationRepository interface {
	Create(notification *model.Notification) error
	GetByID(id int64) (*model.Notification, error)
	List(q model.ListNotificationsQuery) (*model.NotificationPage, error)
	MarkRead(id int64, now time.Time) (*model.Notification, error)
	CountUnread(userID int64) (int64, error)
}

type NotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(c *ctx.Context) INotificationRepository {
	return &NotificationRepo{db: c.DB}
}

func (nr *NotificationRepo) Create(notification *model.Notification) error {
	return nr.db.Create(notification).Error
}

func (nr *NotificationRepo) GetByID(id int64) (*model.Notification, error) {
	var n model.Notification
	err := nr.db.First(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// List walks the feed newest-first. Fetching limit+1 rows decides
// hasNext without a separate count, and the (created_at, id) predicate
// keeps pages stable while new rows are appended.
func (nr *NotificationRepo) List(q model.ListNotificationsQuery) (*model.NotificationPage, error) {
	tx := nr.db.Where("user_id = ?", q.UserID)
	if !q.IncludeRead {
		tx = tx.Where("read_at IS NULL")
	}
	if q.Cursor != nil {
		tx = tx.Where("created_at < ? OR (created_at = ? AND id < ?)",
			q.Cursor.CreatedAt, q.Cursor.CreatedAt, q.Cursor.ID)
	}

	var rows []model.Notification
	err := tx.Order("created_at DESC, id DESC").
		Limit(q.Limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	page := &model.NotificationPage{Items: rows}
	if len(rows) > q.Limit {
		page.Items = rows[:q.Limit]
		page.HasNext = true
		last := page.Items[len(page.Items)-1]
		cursor := model.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.String()
		page.NextCursor = &cursor
	}
	return page, nil
}

// MarkRead is idempotent: a second call leaves the original readAt.
func (nr *NotificationRepo) MarkRead(id int64, now time.Time) (*model.Notification, error) {
	if err := nr.db.Model(&model.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", now).Error; err != nil {
		return nil, err
	}
	return nr.GetByID(id)
}

func (nr *NotificationRepo) CountUnread(userID int64) (int64, error) {
	var n int64
	err := nr.db.Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&n).Error
	return n, err
}
