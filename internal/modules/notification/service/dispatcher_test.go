package service

import (
	"context"
	"testing"

	"anoa.com/newsaddiction/internal/entity"
	notifRepo "anoa.com/newsaddiction/internal/modules/notification/repository"
	"anoa.com/newsaddiction/internal/testutil"
	"anoa.com/newsaddiction/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	mailer     *testutil.Mailer
	poster     *testutil.Poster
	dispatcher Dispatcher
	notifs     NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	repo := notifRepo.NewNotificationRepository(db)
	notifs := NewNotificationService(repo, nil, zap.NewNop())
	f := &fixture{
		db:     db,
		mailer: &testutil.Mailer{},
		poster: &testutil.Poster{},
		notifs: notifs,
	}
	f.dispatcher = NewDispatcher(repo, notifs, f.mailer, f.poster, DispatchOptions{
		SiteName: "News Addiction",
		SiteURL:  "http://news.test/",
		MailFrom: "noreply@news.test",
	}, zap.NewNop())
	return f
}

func TestDispatchDeduplicatesRecipients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.db, entity.RoleJournalist, "author")
	both := testutil.CreateUser(t, f.db, entity.RoleReader, "both")
	onlyJournalist := testutil.CreateUser(t, f.db, entity.RoleReader, "fan")
	onlyPublisher := testutil.CreateUser(t, f.db, entity.RoleReader, "loyal")
	testutil.CreateUser(t, f.db, entity.RoleReader, "stranger")
	p := testutil.CreatePublisher(t, f.db, "Acme")

	testutil.SubscribeToJournalist(t, f.db, both, author)
	testutil.SubscribeToJournalist(t, f.db, onlyJournalist, author)
	testutil.AddMember(t, f.db, p, both, entity.MemberSubscriber)
	testutil.AddMember(t, f.db, p, onlyPublisher, entity.MemberSubscriber)

	article := testutil.CreateArticle(t, f.db, author, "Big News", entity.StatusPublished, entity.PublisherRefTo(p.ID))

	report, err := f.dispatcher.ArticlePublished(ctx, article, author)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Recipients)
	assert.Equal(t, 3, report.Emailed)
	assert.Equal(t, "post-1", report.PostID)

	assert.Equal(t, []string{both.Email, onlyJournalist.Email, onlyPublisher.Email}, f.mailer.Recipients())

	msg := f.mailer.Sent[0]
	assert.Equal(t, "New Article Published on News Addiction!: Big News", msg.Subject)
	assert.Equal(t, "noreply@news.test", msg.From)
	assert.Contains(t, msg.Body, "Hi both Display,")
	assert.Contains(t, msg.Body, "Title: Big News\n")
	assert.Contains(t, msg.Body, "Author: author Display\n")
	assert.Contains(t, msg.Body, "Content: \nBig News body\n")
	assert.Contains(t, msg.Body, "http://news.test/")

	require.Len(t, f.poster.Posts, 1)
	assert.Equal(t, "New Article Published on News Addiction!:\nTitle: Big News\nAuthor: author Display\nContent: \nBig News body\n\nView the article and more at http://news.test/", f.poster.Posts[0].Text)
	assert.Empty(t, f.poster.Posts[0].ImageURL)

	unread, err := f.notifs.UnreadCount(ctx, both.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestDispatchSelfPublishedIgnoresPublisherSubscribers(t *testing.T) {
	f := newFixture(t)

	author := testutil.CreateUser(t, f.db, entity.RoleJournalist, "author")
	fan := testutil.CreateUser(t, f.db, entity.RoleReader, "fan")
	loyal := testutil.CreateUser(t, f.db, entity.RoleReader, "loyal")
	p := testutil.CreatePublisher(t, f.db, "Acme")
	testutil.SubscribeToJournalist(t, f.db, fan, author)
	testutil.AddMember(t, f.db, p, loyal, entity.MemberSubscriber)

	image := "https://cdn.example.com/articles/cover.png"
	article := testutil.CreateArticle(t, f.db, author, "Solo", entity.StatusPublished, entity.SelfAuthorRef(author.ID))
	article.ImageURL = &image

	_, err := f.dispatcher.ArticlePublished(context.Background(), article, author)
	require.NoError(t, err)

	assert.Equal(t, []string{fan.Email}, f.mailer.Recipients())
	require.Len(t, f.poster.Posts, 1)
	assert.Equal(t, image, f.poster.Posts[0].ImageURL)
}

func TestDispatchAbortsOnFirstEmailFailure(t *testing.T) {
	f := newFixture(t)
	f.mailer.FailOn = 2

	author := testutil.CreateUser(t, f.db, entity.RoleJournalist, "author")
	for _, name := range []string{"r1", "r2", "r3"} {
		testutil.SubscribeToJournalist(t, f.db, testutil.CreateUser(t, f.db, entity.RoleReader, name), author)
	}
	article := testutil.CreateArticle(t, f.db, author, "Partial", entity.StatusPublished, entity.SelfAuthorRef(author.ID))

	report, err := f.dispatcher.ArticlePublished(context.Background(), article, author)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrExternalService)
	assert.ErrorIs(t, err, testutil.ErrFakeFailure)
	assert.Equal(t, 1, report.Emailed)

	assert.Equal(t, []string{"r1@example.com"}, f.mailer.Recipients())
	assert.Empty(t, f.poster.Posts, "no social post after an aborted fan-out")

	var stored int64
	f.db.Model(&entity.Notification{}).Count(&stored)
	assert.Equal(t, int64(1), stored)
}

func TestDispatchReportsSocialFailure(t *testing.T) {
	f := newFixture(t)
	f.poster.Fail = true

	author := testutil.CreateUser(t, f.db, entity.RoleJournalist, "author")
	testutil.SubscribeToJournalist(t, f.db, testutil.CreateUser(t, f.db, entity.RoleReader, "fan"), author)
	article := testutil.CreateArticle(t, f.db, author, "Offline", entity.StatusPublished, entity.SelfAuthorRef(author.ID))

	report, err := f.dispatcher.ArticlePublished(context.Background(), article, author)
	assert.ErrorIs(t, err, apperror.ErrExternalService)
	assert.Equal(t, 1, report.Emailed)
	assert.Empty(t, report.PostID)
}

func TestDispatchIsNotIdempotent(t *testing.T) {
	f := newFixture(t)

	author := testutil.CreateUser(t, f.db, entity.RoleJournalist, "author")
	testutil.SubscribeToJournalist(t, f.db, testutil.CreateUser(t, f.db, entity.RoleReader, "fan"), author)
	article := testutil.CreateArticle(t, f.db, author, "Again", entity.StatusPublished, entity.SelfAuthorRef(author.ID))

	for i := 0; i < 2; i++ {
		_, err := f.dispatcher.ArticlePublished(context.Background(), article, author)
		require.NoError(t, err)
	}

	assert.Len(t, f.mailer.Sent, 2)
	assert.Len(t, f.poster.Posts, 2)
}

func TestDispatchWithoutSubscribersStillPosts(t *testing.T) {
	f := newFixture(t)

	author := testutil.CreateUser(t, f.db, entity.RoleJournalist, "author")
	article := testutil.CreateArticle(t, f.db, author, "Quiet", entity.StatusPublished, entity.SelfAuthorRef(author.ID))

	report, err := f.dispatcher.ArticlePublished(context.Background(), article, author)
	require.NoError(t, err)
	assert.Zero(t, report.Recipients)
	assert.Empty(t, f.mailer.Sent)
	assert.Len(t, f.poster.Posts, 1)
}
