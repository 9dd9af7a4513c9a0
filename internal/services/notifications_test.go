package services

import (
	"context"
	"testing"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_PersistsUnreadAndDeliversOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.notifications.Send(ctx, &models.Notification{
		MemberID: "member-1",
		Category: models.NotificationCategorySystem,
		Title:    "Welcome",
		Body:     "Your account is ready.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var stored models.Notification
	require.NoError(t, env.store.Get(ctx, store.CollectionNotifications, id, &stored))
	assert.Equal(t, models.NotificationStatusUnread, stored.Status)
	assert.Equal(t, models.NotificationPriorityMedium, stored.Priority, "default priority")
	assert.Equal(t, []string{id}, env.transport.delivered)

	// Redelivery of an already-seen notification is suppressed.
	env.notifications.deliver(ctx, &stored)
	assert.Len(t, env.transport.delivered, 1)
}

func TestSendBulk_OneBatchAllDelivered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	batch := []*models.Notification{
		{MemberID: "member-1", Category: models.NotificationCategorySystem, Title: "A", Body: "a"},
		{MemberID: "member-2", Category: models.NotificationCategorySystem, Title: "B", Body: "b"},
		{MemberID: "member-3", Category: models.NotificationCategorySystem, Title: "C", Body: "c"},
	}
	ids, err := env.notifications.SendBulk(ctx, batch)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Len(t, env.transport.delivered, 3)

	for i, memberID := range []string{"member-1", "member-2", "member-3"} {
		count, err := env.notifications.UnreadCount(ctx, memberID)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "member %d", i)
	}
}

func TestSendBulk_Empty(t *testing.T) {
	env := newTestEnv(t)

	ids, err := env.notifications.SendBulk(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBroadcast_ReachesActiveMembersOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, m := range []models.Member{
		{ID: "m-active-1", FullName: "Ana Ruiz", Status: models.MemberStatusActive},
		{ID: "m-active-2", FullName: "Ben Cho", Status: models.MemberStatusActive},
		{ID: "m-inactive", FullName: "Old Member", Status: models.MemberStatusInactive},
	} {
		require.NoError(t, env.store.Put(ctx, store.CollectionMembers, m.ID, m))
	}

	ids, err := env.notifications.Broadcast(ctx, models.NotificationCategoryAdmin, "Holiday hours", "Closed Monday.", models.NotificationPriorityLow, nil)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	count, err := env.notifications.UnreadCount(ctx, "m-inactive")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkRead_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.notifications.Send(ctx, &models.Notification{
		MemberID: "member-1", Category: models.NotificationCategorySystem, Title: "T", Body: "b",
	})
	require.NoError(t, err)

	require.NoError(t, env.notifications.MarkRead(ctx, id))

	var n models.Notification
	require.NoError(t, env.store.Get(ctx, store.CollectionNotifications, id, &n))
	assert.Equal(t, models.NotificationStatusRead, n.Status)
	require.NotNil(t, n.ReadAt)
	firstReadAt := *n.ReadAt

	// Second mark is a no-op; the original read timestamp survives.
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, env.notifications.MarkRead(ctx, id))
	require.NoError(t, env.store.Get(ctx, store.CollectionNotifications, id, &n))
	assert.True(t, n.ReadAt.Equal(firstReadAt))
}

func TestMarkAllRead_ClearsUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := env.notifications.Send(ctx, &models.Notification{
			MemberID: "member-1", Category: models.NotificationCategorySystem, Title: "T", Body: "b",
		})
		require.NoError(t, err)
	}
	_, err := env.notifications.Send(ctx, &models.Notification{
		MemberID: "member-2", Category: models.NotificationCategorySystem, Title: "T", Body: "b",
	})
	require.NoError(t, err)

	count, err := env.notifications.UnreadCount(ctx, "member-1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	require.NoError(t, env.notifications.MarkAllRead(ctx, "member-1"))

	count, err = env.notifications.UnreadCount(ctx, "member-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Other members' notifications are untouched.
	count, err = env.notifications.UnreadCount(ctx, "member-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Another pass with nothing unread is a no-op.
	require.NoError(t, env.notifications.MarkAllRead(ctx, "member-1"))
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var last string
	for _, title := range []string{"first", "second", "third"} {
		id, err := env.notifications.Send(ctx, &models.Notification{
			MemberID: "member-1", Category: models.NotificationCategorySystem, Title: title, Body: "b",
		})
		require.NoError(t, err)
		last = id
		time.Sleep(5 * time.Millisecond)
	}

	notifications, err := env.notifications.List(ctx, "member-1", 2)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, last, notifications[0].ID)
	assert.Equal(t, "third", notifications[0].Title)
}

type countingMailer struct {
	sent []string
}

func (m *countingMailer) SendNotificationEmail(ctx context.Context, to, name, title, body string) error {
	m.sent = append(m.sent, to)
	return nil
}

func TestDeliver_EmailsUrgentAndPaymentOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mailer := &countingMailer{}
	env.notifications.mailer = mailer

	member := models.Member{ID: "member-1", FullName: "Ana Ruiz", Email: "ana@example.com", Status: models.MemberStatusActive}
	require.NoError(t, env.store.Put(ctx, store.CollectionMembers, member.ID, member))

	_, err := env.notifications.Send(ctx, &models.Notification{
		MemberID: "member-1", Category: models.NotificationCategorySystem, Title: "Routine", Body: "b",
		Priority: models.NotificationPriorityLow,
	})
	require.NoError(t, err)
	assert.Empty(t, mailer.sent, "routine system notice stays in-app")

	_, err = env.notifications.Send(ctx, &models.Notification{
		MemberID: "member-1", Category: models.NotificationCategoryPayment, Title: "Payment confirmed", Body: "b",
	})
	require.NoError(t, err)

	_, err = env.notifications.Send(ctx, &models.Notification{
		MemberID: "member-1", Category: models.NotificationCategorySystem, Title: "Club closing early", Body: "b",
		Priority: models.NotificationPriorityUrgent,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ana@example.com", "ana@example.com"}, mailer.sent)
}
