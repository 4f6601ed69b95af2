package service

import (
	"time"

	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/pkg/errs"
)

// DefaultNotificationLimit caps one page of the feed.
const DefaultNotificationLimit = 20

type NotificationService struct {
	notificationRepo repo.INotificationRepository
	now              func() time.Time
}

func NewNotificationService(notificationRepo repo.INotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, now: time.Now}
}

// List pages the feed newest-first with an opaque "<timestamp>|<id>"
// cursor. Read notifications are excluded unless asked for.
func (ns *NotificationService) List(userID int64, rawCursor string, limit int, includeRead bool) (*model.NotificationPage, error) {
	if limit < 1 || limit > 100 {
		limit = DefaultNotificationLimit
	}

	q := model.ListNotificationsQuery{
		UserID:      userID,
		Limit:       limit,
		IncludeRead: includeRead,
	}
	if rawCursor != "" {
		cursor, err := model.ParseCursor(rawCursor)
		if err != nil {
			return nil, errs.New(errs.BadRequest, "invalid cursor")
		}
		q.Cursor = &cursor
	}

	page, err := ns.notificationRepo.List(q)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to list notifications", err)
	}
	return page, nil
}

// MarkRead stamps readAt once; marking an already-read notification
// returns it unchanged.
func (ns *NotificationService) MarkRead(userID, id int64) (*model.Notification, error) {
	notification, err := ns.notificationRepo.GetByID(id)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to load notification", err)
	}
	if notification == nil || notification.UserID != userID {
		return nil, errs.New(errs.NotFound, "notification not found")
	}
	if notification.ReadAt != nil {
		return notification, nil
	}

	updated, err := ns.notificationRepo.MarkRead(id, ns.now())
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to mark notification read", err)
	}
	return updated, nil
}

func (ns *NotificationService) CountUnread(userID int64) (int64, error) {
	n, err := ns.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, errs.Wrap(errs.Internal, "failed to count notifications", err)
	}
	return n, nil
}
