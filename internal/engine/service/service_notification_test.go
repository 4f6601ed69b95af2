package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/pkg/errs"
)

func seedNotifications(t *testing.T, repo *fakeNotificationRepo, clock *fakeClock, userID int64, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		notification := &model.Notification{
			UserID:  userID,
			Type:    model.NotificationParticipantApproved,
			Message: "approved",
		}
		require.NoError(t, repo.Create(notification))
		ids = append(ids, notification.ID)
		clock.Advance(time.Second)
	}
	return ids
}

func TestNotificationCursorPaging(t *testing.T) {
	clock := newFakeClock()
	notifications := newFakeNotificationRepo(clock)
	svc := NewNotificationService(notifications)
	svc.now = clock.Now

	ids := seedNotifications(t, notifications, clock, 7, 5)

	// page one: newest first, [N5, N4]
	page1, err := svc.List(7, "", 2, false)
	require.NoError(t, err)
	require.Len(t, page1.Items, 2)
	assert.Equal(t, ids[4], page1.Items[0].ID)
	assert.Equal(t, ids[3], page1.Items[1].ID)
	assert.True(t, page1.HasNext)
	require.NotNil(t, page1.NextCursor)

	// page two resumes exactly after the watermark: [N3, N2]
	page2, err := svc.List(7, *page1.NextCursor, 2, false)
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	assert.Equal(t, ids[2], page2.Items[0].ID)
	assert.Equal(t, ids[1], page2.Items[1].ID)
	assert.True(t, page2.HasNext)

	// final page: [N1], no further cursor
	page3, err := svc.List(7, *page2.NextCursor, 2, false)
	require.NoError(t, err)
	require.Len(t, page3.Items, 1)
	assert.Equal(t, ids[0], page3.Items[0].ID)
	assert.False(t, page3.HasNext)
	assert.Nil(t, page3.NextCursor)
}

func TestNotificationCursorTieBreaksOnID(t *testing.T) {
	clock := newFakeClock()
	notifications := newFakeNotificationRepo(clock)
	svc := NewNotificationService(notifications)
	svc.now = clock.Now

	// three rows sharing one timestamp
	for i := 0; i < 3; i++ {
		require.NoError(t, notifications.Create(&model.Notification{
			UserID: 7, Type: model.NotificationParticipantApproved, Message: "approved",
		}))
	}

	page1, err := svc.List(7, "", 2, false)
	require.NoError(t, err)
	require.Len(t, page1.Items, 2)
	assert.EqualValues(t, 3, page1.Items[0].ID)
	assert.EqualValues(t, 2, page1.Items[1].ID)
	require.True(t, page1.HasNext)

	page2, err := svc.List(7, *page1.NextCursor, 2, false)
	require.NoError(t, err)
	require.Len(t, page2.Items, 1)
	assert.EqualValues(t, 1, page2.Items[0].ID)
}

func TestListExcludesReadByDefault(t *testing.T) {
	clock := newFakeClock()
	notifications := newFakeNotificationRepo(clock)
	svc := NewNotificationService(notifications)
	svc.now = clock.Now

	ids := seedNotifications(t, notifications, clock, 7, 3)

	_, err := svc.MarkRead(7, ids[1])
	require.NoError(t, err)

	unread, err := svc.List(7, "", 10, false)
	require.NoError(t, err)
	assert.Len(t, unread.Items, 2)

	all, err := svc.List(7, "", 10, true)
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	notifications := newFakeNotificationRepo(clock)
	svc := NewNotificationService(notifications)
	svc.now = clock.Now

	ids := seedNotifications(t, notifications, clock, 7, 1)

	first, err := svc.MarkRead(7, ids[0])
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)

	clock.Advance(time.Hour)

	// second call returns the identical row, not a fresh timestamp
	second, err := svc.MarkRead(7, ids[0])
	require.NoError(t, err)
	require.NotNil(t, second.ReadAt)
	assert.True(t, second.ReadAt.Equal(*first.ReadAt))
}

func TestMarkReadOwnership(t *testing.T) {
	clock := newFakeClock()
	notifications := newFakeNotificationRepo(clock)
	svc := NewNotificationService(notifications)
	svc.now = clock.Now

	ids := seedNotifications(t, notifications, clock, 7, 1)

	_, err := svc.MarkRead(8, ids[0])
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	_, err = svc.MarkRead(7, 999)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestListRejectsMalformedCursor(t *testing.T) {
	clock := newFakeClock()
	notifications := newFakeNotificationRepo(clock)
	svc := NewNotificationService(notifications)

	_, err := svc.List(7, "garbage", 10, false)
	assert.Equal(t, errs.BadRequest, errs.KindOf(err))
}
