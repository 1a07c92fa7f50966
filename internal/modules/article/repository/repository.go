package repository

import (
	"context"
	"strings"

	"anoa.com/newsaddiction/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIFilter narrows the basic-auth listing. Empty fields match everything.
type APIFilter struct {
	AuthorName    string
	PublisherName string
}

type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Article, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]entity.Article, error)
	ListByPublisher(ctx context.Context, publisherID uuid.UUID) ([]entity.Article, error)
	// Mutate loads the article, applies fn and saves the result in one transaction.
	// A non-nil error from fn rolls back and is returned as is.
	Mutate(ctx context.Context, id uuid.UUID, fn func(article *entity.Article) error) (*entity.Article, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListPublished(ctx context.Context, search string, limit, offset int) ([]entity.Article, int64, error)
	FindPublished(ctx context.Context, id uuid.UUID) (*entity.Article, error)
	ListForAPI(ctx context.Context, filter APIFilter) ([]entity.Article, error)
}

var mutableColumns = []string{
	"title", "content", "category", "status", "image_url", "published_at",
	"publisher_kind", "publisher_object_id", "updated_at",
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *entity.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Article, error) {
	var article entity.Article
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListByPublisher(ctx context.Context, publisherID uuid.UUID) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("publisher_kind = ? AND publisher_object_id = ?", entity.PublisherKindPublisher, publisherID).
		Order("created_at DESC").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(article *entity.Article) error) (*entity.Article, error) {
	var article entity.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Author").Where("id = ?", id).First(&article).Error; err != nil {
			return err
		}
		if err := fn(&article); err != nil {
			return err
		}
		if err := article.Validate(); err != nil {
			return err
		}
		return tx.Model(&article).Select(mutableColumns).Updates(&article).Error
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Article{}, "id = ?", id).Error
}

func (r *articleRepository) ListPublished(ctx context.Context, search string, limit, offset int) ([]entity.Article, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&entity.Article{}).
		Where("status = ?", entity.StatusPublished)
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []entity.Article
	err := q.Preload("Author").
		Order("published_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	return articles, total, err
}

func (r *articleRepository) FindPublished(ctx context.Context, id uuid.UUID) (*entity.Article, error) {
	var article entity.Article
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND status = ?", id, entity.StatusPublished).
		First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) ListForAPI(ctx context.Context, filter APIFilter) ([]entity.Article, error) {
	q := r.db.WithContext(ctx).Model(&entity.Article{})

	if name := strings.ToLower(strings.TrimSpace(filter.AuthorName)); name != "" {
		authors := r.db.Model(&entity.User{}).Select("id").Where("LOWER(username) = ?", name)
		q = q.Where("author_id IN (?)", authors)
	}

	if name := strings.ToLower(strings.TrimSpace(filter.PublisherName)); name != "" {
		publishers := r.db.Model(&entity.Publisher{}).Select("id").Where("LOWER(name) = ?", name)
		selfPublishers := r.db.Model(&entity.User{}).Select("id").Where("LOWER(username) = ?", name)
		q = q.Where(
			"(publisher_kind = ? AND publisher_object_id IN (?)) OR (publisher_kind = ? AND publisher_object_id IN (?))",
			entity.PublisherKindPublisher, publishers,
			entity.PublisherKindUser, selfPublishers,
		)
	}

	var articles []entity.Article
	err := q.Preload("Author").Order("created_at DESC").Find(&articles).Error
	return articles, err
}
