package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/modules/article/dto"
	"anoa.com/newsaddiction/internal/modules/article/repository"
	notifService "anoa.com/newsaddiction/internal/modules/notification/service"
	publisherRepo "anoa.com/newsaddiction/internal/modules/publisher/repository"
	search "anoa.com/newsaddiction/internal/modules/search/service"
	"anoa.com/newsaddiction/pkg/apperror"
	commonDto "anoa.com/newsaddiction/pkg/dto"
	"anoa.com/newsaddiction/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const noPublishersHelp = "You are not assigned to any publisher yet, so your article can only be published directly under your own name."

type ArticleService interface {
	CreateArticle(ctx context.Context, journalistID uuid.UUID, input dto.ArticleInput) (*dto.ArticleResponse, error)
	UpdateArticle(ctx context.Context, journalistID, id uuid.UUID, input dto.ArticleInput) (*dto.ArticleResponse, error)
	DeleteArticle(ctx context.Context, journalistID, id uuid.UUID) error
	ListMyArticles(ctx context.Context, journalistID uuid.UUID) ([]dto.ArticleResponse, error)
	GetMyArticle(ctx context.Context, journalistID, id uuid.UUID) (*dto.ArticleResponse, error)
	PublishOptions(ctx context.Context, journalistID, id uuid.UUID) (*dto.PublishOptionsResponse, error)
	Publish(ctx context.Context, journalistID, id uuid.UUID, choice string) (*dto.ArticleResult, error)

	Approve(ctx context.Context, editorID, id uuid.UUID) (*dto.ArticleResult, error)
	Reject(ctx context.Context, editorID, id uuid.UUID) (*dto.ArticleResult, error)
	EditorUpdate(ctx context.Context, editorID, id uuid.UUID, input dto.EditorArticleInput) (*dto.ArticleResult, error)
	EditorDelete(ctx context.Context, editorID, id uuid.UUID) error
	EditorGet(ctx context.Context, editorID, id uuid.UUID) (*dto.ArticleResponse, error)
	ListPublisherArticles(ctx context.Context, editorID, publisherID uuid.UUID) ([]dto.ArticleResponse, error)

	BrowsePublished(ctx context.Context, query dto.BrowseQuery) ([]dto.ArticleResponse, commonDto.PaginationMeta, error)
	GetPublished(ctx context.Context, id uuid.UUID) (*dto.ArticleResponse, error)
	ListForAPI(ctx context.Context, query dto.APIQuery) ([]dto.APIArticle, error)
}

type articleService struct {
	repo         repository.ArticleRepository
	publishers   publisherRepo.PublisherRepository
	resolver     *Resolver
	dispatcher   notifService.Dispatcher
	imageStorage storage.ImageStorage
	meili        search.MeiliSearchService
	log          *zap.Logger
}

func NewArticleService(
	repo repository.ArticleRepository,
	publishers publisherRepo.PublisherRepository,
	resolver *Resolver,
	dispatcher notifService.Dispatcher,
	imageStorage storage.ImageStorage,
	meili search.MeiliSearchService,
	log *zap.Logger,
) ArticleService {
	return &articleService{
		repo:         repo,
		publishers:   publishers,
		resolver:     resolver,
		dispatcher:   dispatcher,
		imageStorage: imageStorage,
		meili:        meili,
		log:          log.Named("article"),
	}
}

var (
	errArticleNotFound   = fmt.Errorf("article: %w", apperror.ErrNotFound)
	errPublisherNotFound = fmt.Errorf("publisher: %w", apperror.ErrNotFound)
)

func (s *articleService) find(ctx context.Context, id uuid.UUID) (*entity.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

// owned loads an article written by the journalist. Other people's articles do not exist.
func (s *articleService) owned(ctx context.Context, journalistID, id uuid.UUID) (*entity.Article, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != journalistID {
		return nil, errArticleNotFound
	}
	return article, nil
}

// mutate wraps the repository transaction and maps its errors.
func (s *articleService) mutate(ctx context.Context, id uuid.UUID, fn func(a *entity.Article) error) (*entity.Article, error) {
	article, err := s.repo.Mutate(ctx, id, fn)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, errArticleNotFound
		case errors.Is(err, entity.ErrPublisherRequired):
			return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidInput, err)
		}
		return nil, err
	}
	return article, nil
}

func (s *articleService) uploadImage(ctx context.Context, image *commonDto.UploadFile) (*string, error) {
	if image == nil {
		return nil, nil
	}
	if s.imageStorage == nil {
		s.log.Warn("image upload skipped, storage is not configured", zap.String("file", image.FileName))
		return nil, nil
	}
	url, err := s.imageStorage.UploadImage(ctx, image.Reader, storage.FolderArticleImages, image.FileName)
	if err != nil {
		return nil, fmt.Errorf("upload article image: %w", err)
	}
	return &url, nil
}

func (s *articleService) deleteImage(ctx context.Context, url *string) {
	if url == nil || s.imageStorage == nil {
		return
	}
	if err := s.imageStorage.DeleteImage(ctx, *url); err != nil {
		s.log.Warn("failed to delete article image", zap.String("url", *url), zap.Error(err))
	}
}

func (s *articleService) response(ctx context.Context, article *entity.Article) (*dto.ArticleResponse, error) {
	resolved, err := s.resolver.Resolve(ctx, article.Publisher)
	if err != nil {
		return nil, err
	}
	resp := toResponse(article, resolved)
	return &resp, nil
}

func (s *articleService) responses(ctx context.Context, articles []entity.Article) ([]dto.ArticleResponse, error) {
	refs := make([]entity.PublisherRef, 0, len(articles))
	for i := range articles {
		refs = append(refs, articles[i].Publisher)
	}
	resolved, err := s.resolver.ResolveMany(ctx, refs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		out = append(out, toResponse(&articles[i], resolved[articles[i].Publisher]))
	}
	return out, nil
}

// afterChange keeps the search index in step and announces newly published articles.
// Neither can undo the committed change.
func (s *articleService) afterChange(ctx context.Context, article *entity.Article, t Transition) (*dto.ArticleResult, error) {
	resolved, err := s.resolver.Resolve(ctx, article.Publisher)
	if err != nil {
		return nil, err
	}

	s.syncIndex(article, resolved, t)

	result := &dto.ArticleResult{Article: toResponse(article, resolved)}
	if !t.EntersPublished() {
		return result, nil
	}

	status := &dto.NotificationStatus{}
	report, err := s.dispatcher.ArticlePublished(ctx, article, article.Author)
	if report != nil {
		status.Recipients = report.Recipients
		status.Emailed = report.Emailed
		status.PostID = report.PostID
	}
	if err != nil {
		s.log.Error("article published but announcement failed",
			zap.String("article_id", article.ID.String()),
			zap.Error(err),
		)
		status.Error = err.Error()
	} else {
		status.Delivered = true
	}
	result.Notification = status
	return result, nil
}

func (s *articleService) syncIndex(article *entity.Article, resolved ResolvedPublisher, t Transition) {
	if s.meili == nil {
		return
	}

	switch {
	case article.Status == entity.StatusPublished:
		authorName := ""
		if article.Author != nil {
			authorName = article.Author.Name()
		}
		if err := s.meili.IndexArticle(article, authorName, resolved.DisplayName()); err != nil {
			s.log.Warn("failed to index article", zap.String("article_id", article.ID.String()), zap.Error(err))
		}
	case t.LeavesPublished():
		s.unindex(article.ID)
	}
}

func (s *articleService) unindex(id uuid.UUID) {
	if s.meili == nil {
		return
	}
	if err := s.meili.DeleteArticle(id.String()); err != nil {
		s.log.Warn("failed to remove article from index", zap.String("article_id", id.String()), zap.Error(err))
	}
}

func (s *articleService) CreateArticle(ctx context.Context, journalistID uuid.UUID, input dto.ArticleInput) (*dto.ArticleResponse, error) {
	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.uploadImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	article := &entity.Article{
		Title:    input.Title,
		Content:  input.Content,
		Category: category,
		Status:   entity.StatusDraft,
		AuthorID: journalistID,
		ImageURL: imageURL,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		s.deleteImage(ctx, imageURL)
		return nil, err
	}

	article, err = s.find(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	return s.response(ctx, article)
}

func (s *articleService) UpdateArticle(ctx context.Context, journalistID, id uuid.UUID, input dto.ArticleInput) (*dto.ArticleResponse, error) {
	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, journalistID, id); err != nil {
		return nil, err
	}

	imageURL, err := s.uploadImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	var oldImage *string
	article, err := s.mutate(ctx, id, func(a *entity.Article) error {
		if a.AuthorID != journalistID {
			return errArticleNotFound
		}
		a.Title = input.Title
		a.Content = input.Content
		a.Category = category
		if imageURL != nil {
			oldImage = a.ImageURL
			a.ImageURL = imageURL
		}
		return nil
	})
	if err != nil {
		s.deleteImage(ctx, imageURL)
		return nil, err
	}
	s.deleteImage(ctx, oldImage)

	result, err := s.afterChange(ctx, article, Transition{From: article.Status, To: article.Status})
	if err != nil {
		return nil, err
	}
	return &result.Article, nil
}

func (s *articleService) DeleteArticle(ctx context.Context, journalistID, id uuid.UUID) error {
	article, err := s.owned(ctx, journalistID, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, article)
}

func (s *articleService) remove(ctx context.Context, article *entity.Article) error {
	if err := s.repo.Delete(ctx, article.ID); err != nil {
		return err
	}
	s.unindex(article.ID)
	s.deleteImage(ctx, article.ImageURL)

	s.log.Info("article deleted", zap.String("article_id", article.ID.String()))
	return nil
}

func (s *articleService) ListMyArticles(ctx context.Context, journalistID uuid.UUID) ([]dto.ArticleResponse, error) {
	articles, err := s.repo.ListByAuthor(ctx, journalistID)
	if err != nil {
		return nil, err
	}
	return s.responses(ctx, articles)
}

func (s *articleService) GetMyArticle(ctx context.Context, journalistID, id uuid.UUID) (*dto.ArticleResponse, error) {
	article, err := s.owned(ctx, journalistID, id)
	if err != nil {
		return nil, err
	}
	return s.response(ctx, article)
}

// publishOptions builds the closed set of choices from the journalist's current assignments.
func (s *articleService) publishOptions(ctx context.Context, journalistID uuid.UUID) (*dto.PublishOptionsResponse, error) {
	assigned, err := s.publishers.ListForMember(ctx, journalistID, entity.MemberJournalist)
	if err != nil {
		return nil, err
	}

	resp := &dto.PublishOptionsResponse{
		Options: []dto.PublishOption{{Value: dto.DirectChoice, Label: "Publish directly"}},
	}
	for _, p := range assigned {
		resp.Options = append(resp.Options, dto.PublishOption{Value: p.ID.String(), Label: p.Name})
	}
	if len(assigned) == 0 {
		resp.HelpText = noPublishersHelp
	}
	return resp, nil
}

func (s *articleService) PublishOptions(ctx context.Context, journalistID, id uuid.UUID) (*dto.PublishOptionsResponse, error) {
	if _, err := s.owned(ctx, journalistID, id); err != nil {
		return nil, err
	}
	return s.publishOptions(ctx, journalistID)
}

func (s *articleService) Publish(ctx context.Context, journalistID, id uuid.UUID, choice string) (*dto.ArticleResult, error) {
	if _, err := s.owned(ctx, journalistID, id); err != nil {
		return nil, err
	}

	options, err := s.publishOptions(ctx, journalistID)
	if err != nil {
		return nil, err
	}
	valid := false
	for _, opt := range options.Options {
		if opt.Value == choice {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("publish choice %q is not available: %w", choice, apperror.ErrInvalidInput)
	}

	var t Transition
	article, err := s.mutate(ctx, id, func(a *entity.Article) error {
		if choice == dto.DirectChoice {
			t = SelfPublish(a, time.Now())
			return nil
		}
		t = SubmitToPublisher(a, uuid.MustParse(choice))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("article published",
		zap.String("article_id", article.ID.String()),
		zap.String("choice", choice),
		zap.String("status", string(article.Status)),
	)
	return s.afterChange(ctx, article, t)
}

func parseCategory(raw string) (entity.Category, error) {
	if raw == "" {
		return entity.CategoryCurrentEvents, nil
	}
	category := entity.Category(raw)
	if !category.Valid() {
		return "", fmt.Errorf("category %q: %w", raw, apperror.ErrInvalidInput)
	}
	return category, nil
}
