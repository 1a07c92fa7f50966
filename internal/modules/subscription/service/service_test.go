package service

import (
	"context"
	"testing"

	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/modules/subscription/repository"
	userRepo "anoa.com/newsaddiction/internal/modules/user/repository"
	"anoa.com/newsaddiction/internal/testutil"
	"anoa.com/newsaddiction/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(db *gorm.DB) SubscriptionService {
	return NewSubscriptionService(repository.NewSubscriptionRepository(db), userRepo.NewUserRepository(db))
}

func TestSubscribeToJournalist(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")
	journalist := testutil.CreateUser(t, db, entity.RoleJournalist, "journo")
	testutil.CreateArticle(t, db, journalist, "out", entity.StatusPublished, entity.SelfAuthorRef(journalist.ID))
	testutil.CreateArticle(t, db, journalist, "draft", entity.StatusDraft, entity.PublisherRef{})

	require.NoError(t, svc.Subscribe(ctx, reader.ID, journalist.ID))
	require.NoError(t, svc.Subscribe(ctx, reader.ID, journalist.ID))

	details, err := svc.GetJournalistDetails(ctx, reader.ID, journalist.ID)
	require.NoError(t, err)
	assert.True(t, details.Subscribed)
	assert.Equal(t, int64(1), details.SubscriberCount)
	assert.Equal(t, int64(1), details.PublishedArticles)
	assert.Equal(t, entity.DefaultBiography, details.Biography)
	assert.Equal(t, "journo Display", details.DisplayName)

	require.NoError(t, svc.Unsubscribe(ctx, reader.ID, journalist.ID))
	details, err = svc.GetJournalistDetails(ctx, reader.ID, journalist.ID)
	require.NoError(t, err)
	assert.False(t, details.Subscribed)
}

func TestToggleJournalistSubscription(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")
	journalist := testutil.CreateUser(t, db, entity.RoleJournalist, "journo")

	on, err := svc.Toggle(ctx, reader.ID, journalist.ID)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = svc.Toggle(ctx, reader.ID, journalist.ID)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestOnlyJournalistsCanBeFollowed(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)

	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")
	editor := testutil.CreateUser(t, db, entity.RoleEditor, "editor")

	assert.ErrorIs(t, svc.Subscribe(context.Background(), reader.ID, editor.ID), apperror.ErrNotFound)
	_, err := svc.GetJournalistDetails(context.Background(), reader.ID, editor.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
