package service

import (
	"context"
	"testing"

	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/modules/publisher/repository"
	"anoa.com/newsaddiction/internal/testutil"
	"anoa.com/newsaddiction/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(db *gorm.DB) PublisherService {
	return NewPublisherService(repository.NewPublisherRepository(db), zap.NewNop())
}

func TestSubscribeIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")
	p := testutil.CreatePublisher(t, db, "Acme")

	require.NoError(t, svc.Subscribe(ctx, reader.ID, p.ID))
	require.NoError(t, svc.Subscribe(ctx, reader.ID, p.ID))

	details, err := svc.GetPublisherDetails(ctx, reader.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, details.Subscribed)
	assert.Equal(t, int64(1), details.SubscriberCount)

	require.NoError(t, svc.Unsubscribe(ctx, reader.ID, p.ID))
	require.NoError(t, svc.Unsubscribe(ctx, reader.ID, p.ID))

	details, err = svc.GetPublisherDetails(ctx, reader.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, details.Subscribed)
	assert.Zero(t, details.SubscriberCount)
}

func TestToggleSubscriptionFlipsState(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")
	p := testutil.CreatePublisher(t, db, "Acme")

	subscribed, err := svc.ToggleSubscription(ctx, reader.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribed, err = svc.ToggleSubscription(ctx, reader.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestPublisherDetailsCountsOnlyPublishedArticles(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)

	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")
	journalist := testutil.CreateUser(t, db, entity.RoleJournalist, "journo")
	p := testutil.CreatePublisher(t, db, "Acme")

	testutil.CreateArticle(t, db, journalist, "live", entity.StatusPublished, entity.PublisherRefTo(p.ID))
	testutil.CreateArticle(t, db, journalist, "pending", entity.StatusAwaitingApproval, entity.PublisherRefTo(p.ID))
	testutil.CreateArticle(t, db, journalist, "own", entity.StatusPublished, entity.SelfAuthorRef(journalist.ID))

	details, err := svc.GetPublisherDetails(context.Background(), reader.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", details.Name)
	assert.Equal(t, int64(1), details.PublishedArticles)
}

func TestUnknownPublisher(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")

	_, err := svc.GetPublisherDetails(context.Background(), reader.ID, reader.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, svc.Subscribe(context.Background(), reader.ID, reader.ID), apperror.ErrNotFound)
}

func TestEditorOperationsRequireAssignment(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	editor := testutil.CreateUser(t, db, entity.RoleEditor, "editor")
	outsider := testutil.CreateUser(t, db, entity.RoleEditor, "outsider")
	journalist := testutil.CreateUser(t, db, entity.RoleJournalist, "journo")
	p := testutil.CreatePublisher(t, db, "Acme")
	testutil.AddMember(t, db, p, editor, entity.MemberEditor)

	assigned, err := svc.AssignedPublishers(ctx, editor.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, p.ID.String(), assigned[0].ID)

	assigned, err = svc.AssignedPublishers(ctx, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, assigned)

	_, err = svc.Dashboard(ctx, outsider.ID, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.Journalists(ctx, outsider.ID, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, svc.AssignJournalist(ctx, outsider.ID, p.ID, journalist.ID), apperror.ErrNotFound)

	members, err := svc.Journalists(ctx, editor.ID, p.ID)
	require.NoError(t, err)
	assert.Empty(t, members, "rejected assignment left nothing behind")
}

func TestAssignJournalist(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	editor := testutil.CreateUser(t, db, entity.RoleEditor, "editor")
	alice := testutil.CreateUser(t, db, entity.RoleJournalist, "alice")
	bob := testutil.CreateUser(t, db, entity.RoleJournalist, "bob")
	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")
	p := testutil.CreatePublisher(t, db, "Acme")
	testutil.AddMember(t, db, p, editor, entity.MemberEditor)

	assignable, err := svc.AssignableJournalists(ctx, editor.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, assignable, 2)
	assert.Equal(t, "alice", assignable[0].Username)
	assert.Equal(t, "bob", assignable[1].Username)

	require.NoError(t, svc.AssignJournalist(ctx, editor.ID, p.ID, alice.ID))

	assignable, err = svc.AssignableJournalists(ctx, editor.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, assignable, 1)
	assert.Equal(t, bob.ID.String(), assignable[0].ID)

	assert.ErrorIs(t, svc.AssignJournalist(ctx, editor.ID, p.ID, alice.ID), apperror.ErrInvalidInput, "already assigned")
	assert.ErrorIs(t, svc.AssignJournalist(ctx, editor.ID, p.ID, reader.ID), apperror.ErrInvalidInput, "not a journalist")

	dashboard, err := svc.Dashboard(ctx, editor.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard.JournalistCount)
	require.Len(t, dashboard.Editors, 1)
	assert.Equal(t, "editor", dashboard.Editors[0].Username)

	require.NoError(t, svc.UnassignJournalist(ctx, editor.ID, p.ID, alice.ID))
	assert.ErrorIs(t, svc.UnassignJournalist(ctx, editor.ID, p.ID, alice.ID), apperror.ErrNotFound)

	members, err := svc.Journalists(ctx, editor.ID, p.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}
