package service

import (
	"context"
	"testing"

	"anoa.com/newsaddiction/internal/entity"
	notifRepo "anoa.com/newsaddiction/internal/modules/notification/repository"
	"anoa.com/newsaddiction/internal/testutil"
	"anoa.com/newsaddiction/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotificationReadState(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(notifRepo.NewNotificationRepository(db), nil, zap.NewNop())
	ctx := context.Background()

	author := testutil.CreateUser(t, db, entity.RoleJournalist, "author")
	alice := testutil.CreateUser(t, db, entity.RoleReader, "alice")
	bob := testutil.CreateUser(t, db, entity.RoleReader, "bob")

	notify := func(user *entity.User) *entity.Notification {
		n := &entity.Notification{
			UserID:     user.ID,
			ActorID:    author.ID,
			EntityID:   uuid.New(),
			EntityType: entity.NotificationEntityArticle,
			Type:       entity.NotificationArticlePublished,
			Message:    "hello",
		}
		require.NoError(t, svc.CreateNotification(ctx, n))
		return n
	}

	first := notify(alice)
	notify(alice)
	bobs := notify(bob)

	list, total, err := svc.GetNotifications(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Actor)
	assert.Equal(t, "author", list[0].Actor.Username)

	assert.ErrorIs(t, svc.MarkAsRead(ctx, bobs.ID, alice.ID), apperror.ErrNotFound, "cannot read someone else's notification")
	require.NoError(t, svc.MarkAsRead(ctx, first.ID, alice.ID))

	unread, err := svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, svc.MarkAllAsRead(ctx, alice.ID))
	unread, err = svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	unread, err = svc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestChannel(t *testing.T) {
	id := uuid.MustParse("0190a3c4-0000-7000-8000-000000000001")
	assert.Equal(t, "user_notifications:0190a3c4-0000-7000-8000-000000000001", Channel(id))
}
