package service

import (
	"bytes"
	"context"
	"testing"

	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/modules/article/dto"
	"anoa.com/newsaddiction/internal/modules/article/repository"
	notifRepo "anoa.com/newsaddiction/internal/modules/notification/repository"
	notifService "anoa.com/newsaddiction/internal/modules/notification/service"
	publisherRepo "anoa.com/newsaddiction/internal/modules/publisher/repository"
	userRepo "anoa.com/newsaddiction/internal/modules/user/repository"
	"anoa.com/newsaddiction/internal/testutil"
	"anoa.com/newsaddiction/pkg/apperror"
	commonDto "anoa.com/newsaddiction/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	db      *gorm.DB
	svc     ArticleService
	mailer  *testutil.Mailer
	poster  *testutil.Poster
	storage *testutil.Storage
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()

	e := &env{
		db:      db,
		mailer:  &testutil.Mailer{},
		poster:  &testutil.Poster{},
		storage: &testutil.Storage{},
	}

	nRepo := notifRepo.NewNotificationRepository(db)
	dispatcher := notifService.NewDispatcher(
		nRepo,
		notifService.NewNotificationService(nRepo, nil, log),
		e.mailer,
		e.poster,
		notifService.DispatchOptions{SiteName: "News Addiction", SiteURL: "http://news.test/", MailFrom: "noreply@news.test"},
		log,
	)
	pRepo := publisherRepo.NewPublisherRepository(db)
	e.svc = NewArticleService(
		repository.NewArticleRepository(db),
		pRepo,
		NewResolver(pRepo, userRepo.NewUserRepository(db)),
		dispatcher,
		e.storage,
		nil,
		log,
	)
	return e
}

func (e *env) reload(t *testing.T, a *entity.Article) *entity.Article {
	t.Helper()
	var out entity.Article
	require.NoError(t, e.db.First(&out, "id = ?", a.ID).Error)
	return &out
}

func (e *env) assertRoutingInvariant(t *testing.T) {
	t.Helper()
	var articles []entity.Article
	require.NoError(t, e.db.Find(&articles).Error)
	for i := range articles {
		assert.NoError(t, articles[i].Validate(), articles[i].Title)
	}
}

func TestCreateArticleStartsAsUnroutedDraft(t *testing.T) {
	e := newEnv(t)
	journalist := testutil.CreateUser(t, e.db, entity.RoleJournalist, "journo")

	resp, err := e.svc.CreateArticle(context.Background(), journalist.ID, dto.ArticleInput{
		Title:   "Hello",
		Content: "World",
		Image:   &commonDto.UploadFile{Reader: bytes.NewReader([]byte("png")), FileName: "cover.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.StatusDraft), resp.Status)
	assert.Equal(t, string(entity.CategoryCurrentEvents), resp.Category)
	assert.Equal(t, "", resp.Publisher.Kind)
	assert.Nil(t, resp.Publisher.ID)
	assert.Equal(t, "No Publisher", resp.Publisher.Name)
	assert.Equal(t, "journo", resp.Author.Username)
	require.NotNil(t, resp.ImageURL)
	assert.Equal(t, "https://cdn.example.com/articles/cover.png", *resp.ImageURL)

	require.Len(t, e.storage.Uploads, 1)
	assert.Equal(t, "articles", e.storage.Uploads[0].Folder)
}

func TestJournalistCannotTouchOthersArticles(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, e.db, entity.RoleJournalist, "owner")
	other := testutil.CreateUser(t, e.db, entity.RoleJournalist, "other")
	a := testutil.CreateArticle(t, e.db, owner, "Mine", entity.StatusDraft, entity.PublisherRef{})

	_, err := e.svc.GetMyArticle(ctx, other.ID, a.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = e.svc.UpdateArticle(ctx, other.ID, a.ID, dto.ArticleInput{Title: "Stolen", Content: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = e.svc.Publish(ctx, other.ID, a.ID, dto.DirectChoice)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, e.svc.DeleteArticle(ctx, other.ID, a.ID), apperror.ErrNotFound)

	stored := e.reload(t, a)
	assert.Equal(t, "Mine", stored.Title)
	assert.Equal(t, entity.StatusDraft, stored.Status)
}

func TestUpdateArticleKeepsStatus(t *testing.T) {
	e := newEnv(t)
	journalist := testutil.CreateUser(t, e.db, entity.RoleJournalist, "journo")
	a := testutil.CreateArticle(t, e.db, journalist, "Old", entity.StatusPublished, entity.SelfAuthorRef(journalist.ID))

	resp, err := e.svc.UpdateArticle(context.Background(), journalist.ID, a.ID, dto.ArticleInput{
		Title:    "New",
		Content:  "Fresh",
		Category: string(entity.CategoryPolitics),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", resp.Title)
	assert.Equal(t, string(entity.StatusPublished), resp.Status)
	assert.Empty(t, e.mailer.Sent, "editing is not publishing")

	_, err = e.svc.UpdateArticle(context.Background(), journalist.ID, a.ID, dto.ArticleInput{Title: "x", Content: "y", Category: "GOSSIP"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestPublishWithoutPublishersOnlyOffersDirect(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	journalist := testutil.CreateUser(t, e.db, entity.RoleJournalist, "journo")
	fan := testutil.CreateUser(t, e.db, entity.RoleReader, "fan")
	testutil.SubscribeToJournalist(t, e.db, fan, journalist)
	a := testutil.CreateArticle(t, e.db, journalist, "Scoop", entity.StatusDraft, entity.PublisherRef{})

	options, err := e.svc.PublishOptions(ctx, journalist.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, options.Options, 1)
	assert.Equal(t, dto.DirectChoice, options.Options[0].Value)
	assert.NotEmpty(t, options.HelpText)

	result, err := e.svc.Publish(ctx, journalist.ID, a.ID, dto.DirectChoice)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusPublished), result.Article.Status)
	assert.True(t, result.Article.SelfPublished)
	assert.Equal(t, "journo Display", result.Article.Publisher.Name)
	require.NotNil(t, result.Article.PublishedAt)

	require.NotNil(t, result.Notification)
	assert.True(t, result.Notification.Delivered)
	assert.Equal(t, 1, result.Notification.Emailed)
	assert.Equal(t, []string{fan.Email}, e.mailer.Recipients())
	assert.Len(t, e.poster.Posts, 1)

	stored := e.reload(t, a)
	assert.Equal(t, entity.SelfAuthorRef(journalist.ID), stored.Publisher)
	e.assertRoutingInvariant(t)
}

func TestPublishThroughAssignedPublisherAwaitsApproval(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	journalist := testutil.CreateUser(t, e.db, entity.RoleJournalist, "journo")
	p := testutil.CreatePublisher(t, e.db, "Acme")
	testutil.AddMember(t, e.db, p, journalist, entity.MemberJournalist)
	a := testutil.CreateArticle(t, e.db, journalist, "Pitch", entity.StatusPublished, entity.SelfAuthorRef(journalist.ID))

	options, err := e.svc.PublishOptions(ctx, journalist.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, options.Options, 2)
	assert.Equal(t, p.ID.String(), options.Options[1].Value)
	assert.Equal(t, "Acme", options.Options[1].Label)
	assert.Empty(t, options.HelpText)

	result, err := e.svc.Publish(ctx, journalist.ID, a.ID, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusAwaitingApproval), result.Article.Status)
	assert.Equal(t, "Acme", result.Article.Publisher.Name)
	assert.Nil(t, result.Notification)
	assert.Empty(t, e.mailer.Sent)
	assert.Empty(t, e.poster.Posts)
	e.assertRoutingInvariant(t)
}

func TestPublishToUnassignedPublisherIsRejected(t *testing.T) {
	e := newEnv(t)
	journalist := testutil.CreateUser(t, e.db, entity.RoleJournalist, "journo")
	p := testutil.CreatePublisher(t, e.db, "Elsewhere")
	a := testutil.CreateArticle(t, e.db, journalist, "Pitch", entity.StatusDraft, entity.PublisherRef{})

	_, err := e.svc.Publish(context.Background(), journalist.ID, a.ID, p.ID.String())
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = e.svc.Publish(context.Background(), journalist.ID, a.ID, "not-a-choice")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	stored := e.reload(t, a)
	assert.Equal(t, entity.StatusDraft, stored.Status)
	assert.False(t, stored.Publisher.IsSet())
}

type reviewFixture struct {
	*env
	editor, outsider, journalist, both, fan, loyal *entity.User
	publisher                                      *entity.Publisher
	article                                        *entity.Article
}

func newReviewFixture(t *testing.T) *reviewFixture {
	e := newEnv(t)
	f := &reviewFixture{env: e}
	f.editor = testutil.CreateUser(t, e.db, entity.RoleEditor, "editor")
	f.outsider = testutil.CreateUser(t, e.db, entity.RoleEditor, "outsider")
	f.journalist = testutil.CreateUser(t, e.db, entity.RoleJournalist, "journo")
	f.both = testutil.CreateUser(t, e.db, entity.RoleReader, "both")
	f.fan = testutil.CreateUser(t, e.db, entity.RoleReader, "fan")
	f.loyal = testutil.CreateUser(t, e.db, entity.RoleReader, "loyal")
	f.publisher = testutil.CreatePublisher(t, e.db, "Acme")

	testutil.AddMember(t, e.db, f.publisher, f.editor, entity.MemberEditor)
	testutil.AddMember(t, e.db, f.publisher, f.journalist, entity.MemberJournalist)
	testutil.AddMember(t, e.db, f.publisher, f.both, entity.MemberSubscriber)
	testutil.AddMember(t, e.db, f.publisher, f.loyal, entity.MemberSubscriber)
	testutil.SubscribeToJournalist(t, e.db, f.both, f.journalist)
	testutil.SubscribeToJournalist(t, e.db, f.fan, f.journalist)

	f.article = testutil.CreateArticle(t, e.db, f.journalist, "Pending", entity.StatusAwaitingApproval, entity.PublisherRefTo(f.publisher.ID))
	return f
}

func TestApproveByAssignedEditor(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	result, err := f.svc.Approve(ctx, f.editor.ID, f.article.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusPublished), result.Article.Status)
	require.NotNil(t, result.Article.PublishedAt)

	require.NotNil(t, result.Notification)
	assert.True(t, result.Notification.Delivered)
	assert.Equal(t, 3, result.Notification.Recipients)
	assert.Equal(t, []string{f.both.Email, f.fan.Email, f.loyal.Email}, f.mailer.Recipients(), "reader on both lists gets one email")
	assert.Len(t, f.poster.Posts, 1)

	again, err := f.svc.Approve(ctx, f.editor.ID, f.article.ID)
	require.NoError(t, err)
	assert.Nil(t, again.Notification, "approving a published article does not announce it again")
	assert.Len(t, f.mailer.Sent, 3)
}

func TestApproveByOtherEditorChangesNothing(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, f.outsider.ID, f.article.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.svc.Reject(ctx, f.outsider.ID, f.article.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.svc.EditorGet(ctx, f.outsider.ID, f.article.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, f.svc.EditorDelete(ctx, f.outsider.ID, f.article.ID), apperror.ErrNotFound)
	_, err = f.svc.ListPublisherArticles(ctx, f.outsider.ID, f.publisher.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Equal(t, entity.StatusAwaitingApproval, f.reload(t, f.article).Status)
	assert.Empty(t, f.mailer.Sent)
}

func TestEditorCannotReviewSelfPublishedArticles(t *testing.T) {
	f := newReviewFixture(t)
	own := testutil.CreateArticle(t, f.db, f.journalist, "Own", entity.StatusPublished, entity.SelfAuthorRef(f.journalist.ID))

	_, err := f.svc.Reject(context.Background(), f.editor.ID, own.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, entity.StatusPublished, f.reload(t, own).Status)
}

func TestRejectByAssignedEditor(t *testing.T) {
	f := newReviewFixture(t)

	result, err := f.svc.Reject(context.Background(), f.editor.ID, f.article.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusRejected), result.Article.Status)
	assert.Nil(t, result.Notification)
	assert.Empty(t, f.mailer.Sent)
}

func TestFailedAnnouncementKeepsPublication(t *testing.T) {
	f := newReviewFixture(t)
	f.mailer.FailOn = 2

	result, err := f.svc.Approve(context.Background(), f.editor.ID, f.article.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusPublished), result.Article.Status)

	require.NotNil(t, result.Notification)
	assert.False(t, result.Notification.Delivered)
	assert.NotEmpty(t, result.Notification.Error)
	assert.Equal(t, 1, result.Notification.Emailed)
	assert.Empty(t, f.poster.Posts)

	assert.Equal(t, entity.StatusPublished, f.reload(t, f.article).Status)
}

func TestEditorUpdate(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	input := dto.EditorArticleInput{ArticleInput: dto.ArticleInput{Title: "Edited", Content: "Tightened", Category: string(entity.CategoryCrime)}}
	result, err := f.svc.EditorUpdate(ctx, f.editor.ID, f.article.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Edited", result.Article.Title)
	assert.Equal(t, string(entity.StatusAwaitingApproval), result.Article.Status)
	assert.Nil(t, result.Notification)

	input.Status = string(entity.StatusPublished)
	result, err = f.svc.EditorUpdate(ctx, f.editor.ID, f.article.ID, input)
	require.NoError(t, err)
	require.NotNil(t, result.Notification)
	assert.True(t, result.Notification.Delivered)
	assert.Len(t, f.mailer.Sent, 3)

	input.Status = string(entity.StatusDraft)
	result, err = f.svc.EditorUpdate(ctx, f.editor.ID, f.article.ID, input)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusDraft), result.Article.Status)
	assert.Equal(t, "Acme", result.Article.Publisher.Name, "routing survives a move back to draft")

	_, err = f.svc.EditorUpdate(ctx, f.outsider.ID, f.article.ID, input)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	f.assertRoutingInvariant(t)
}

func TestEditorListsAndDeletes(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	testutil.CreateArticle(t, f.db, f.journalist, "Own", entity.StatusPublished, entity.SelfAuthorRef(f.journalist.ID))

	list, err := f.svc.ListPublisherArticles(ctx, f.editor.ID, f.publisher.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pending", list[0].Title)

	got, err := f.svc.EditorGet(ctx, f.editor.ID, f.article.ID)
	require.NoError(t, err)
	assert.Equal(t, f.article.ID.String(), got.ID)

	require.NoError(t, f.svc.EditorDelete(ctx, f.editor.ID, f.article.ID))
	_, err = f.svc.EditorGet(ctx, f.editor.ID, f.article.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBrowsePublished(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	journalist := testutil.CreateUser(t, e.db, entity.RoleJournalist, "journo")
	p := testutil.CreatePublisher(t, e.db, "Acme")

	testutil.CreateArticle(t, e.db, journalist, "Election Results", entity.StatusPublished, entity.PublisherRefTo(p.ID))
	testutil.CreateArticle(t, e.db, journalist, "Cup Final", entity.StatusPublished, entity.SelfAuthorRef(journalist.ID))
	hidden := testutil.CreateArticle(t, e.db, journalist, "Election Draft", entity.StatusDraft, entity.PublisherRef{})

	list, meta, err := e.svc.BrowsePublished(ctx, dto.BrowseQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(2), meta.TotalItems)
	assert.Equal(t, 1, meta.CurrentPage)

	list, _, err = e.svc.BrowsePublished(ctx, dto.BrowseQuery{Search: "election"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Election Results", list[0].Title)
	assert.Equal(t, "Acme", list[0].Publisher.Name)

	_, err = e.svc.GetPublished(ctx, hidden.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListForAPI(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, entity.RoleJournalist, "alice")
	bob := testutil.CreateUser(t, e.db, entity.RoleJournalist, "bob")
	acme := testutil.CreatePublisher(t, e.db, "Acme")
	other := testutil.CreatePublisher(t, e.db, "Other")

	testutil.CreateArticle(t, e.db, alice, "alice-acme", entity.StatusPublished, entity.PublisherRefTo(acme.ID))
	testutil.CreateArticle(t, e.db, alice, "alice-other", entity.StatusPublished, entity.PublisherRefTo(other.ID))
	testutil.CreateArticle(t, e.db, alice, "alice-self", entity.StatusPublished, entity.SelfAuthorRef(alice.ID))
	testutil.CreateArticle(t, e.db, alice, "alice-draft", entity.StatusDraft, entity.PublisherRef{})
	testutil.CreateArticle(t, e.db, bob, "bob-acme", entity.StatusRejected, entity.PublisherRefTo(acme.ID))

	titles := func(q dto.APIQuery) []string {
		list, err := e.svc.ListForAPI(ctx, q)
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, a := range list {
			out = append(out, a.Title)
		}
		return out
	}

	assert.Len(t, titles(dto.APIQuery{}), 5, "no status filter")
	assert.ElementsMatch(t, []string{"alice-acme"}, titles(dto.APIQuery{AuthorName: "alice", PublisherName: "Acme"}))
	assert.ElementsMatch(t, []string{"alice-acme", "bob-acme"}, titles(dto.APIQuery{PublisherName: "acme"}))
	assert.ElementsMatch(t, []string{"alice-self"}, titles(dto.APIQuery{PublisherName: "ALICE"}))
	assert.ElementsMatch(t, []string{"alice-acme", "alice-other", "alice-self", "alice-draft"}, titles(dto.APIQuery{AuthorName: "Alice"}))
	assert.Empty(t, titles(dto.APIQuery{AuthorName: "nobody"}))

	list, err := e.svc.ListForAPI(ctx, dto.APIQuery{AuthorName: "alice", PublisherName: "alice"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice Display", list[0].AuthorDisplayName)
	assert.Equal(t, "alice", list[0].AuthorUserName)
	assert.Equal(t, "alice Display", list[0].PublisherName)
	assert.Equal(t, "user", list[0].PublisherKind)
}
