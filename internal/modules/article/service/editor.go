package service

import (
	"context"
	"time"

	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/modules/article/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reviewable loads an article routed to a publisher the editor is assigned to.
// Anything else, including self-published articles, is reported as not found.
func (s *articleService) reviewable(ctx context.Context, editorID, id uuid.UUID) (*entity.Article, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	publisherID, ok := article.Publisher.PublisherID()
	if !ok {
		return nil, errArticleNotFound
	}
	assigned, err := s.publishers.IsMember(ctx, publisherID, editorID, entity.MemberEditor)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, errArticleNotFound
	}
	return article, nil
}

// review runs fn on an article the editor may act on. The routing checked
// up front must still hold inside the transaction.
func (s *articleService) review(ctx context.Context, editorID, id uuid.UUID, fn func(a *entity.Article) (Transition, error)) (*dto.ArticleResult, error) {
	checked, err := s.reviewable(ctx, editorID, id)
	if err != nil {
		return nil, err
	}

	var t Transition
	article, err := s.mutate(ctx, id, func(a *entity.Article) error {
		if a.Publisher != checked.Publisher {
			return errArticleNotFound
		}
		var err error
		t, err = fn(a)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("article reviewed",
		zap.String("article_id", article.ID.String()),
		zap.String("editor_id", editorID.String()),
		zap.String("from", string(t.From)),
		zap.String("to", string(t.To)),
	)
	return s.afterChange(ctx, article, t)
}

func (s *articleService) Approve(ctx context.Context, editorID, id uuid.UUID) (*dto.ArticleResult, error) {
	return s.review(ctx, editorID, id, func(a *entity.Article) (Transition, error) {
		return Approve(a, time.Now()), nil
	})
}

func (s *articleService) Reject(ctx context.Context, editorID, id uuid.UUID) (*dto.ArticleResult, error) {
	return s.review(ctx, editorID, id, func(a *entity.Article) (Transition, error) {
		return Reject(a), nil
	})
}

func (s *articleService) EditorUpdate(ctx context.Context, editorID, id uuid.UUID, input dto.EditorArticleInput) (*dto.ArticleResult, error) {
	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	if _, err := s.reviewable(ctx, editorID, id); err != nil {
		return nil, err
	}

	imageURL, err := s.uploadImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	var oldImage *string
	result, err := s.review(ctx, editorID, id, func(a *entity.Article) (Transition, error) {
		a.Title = input.Title
		a.Content = input.Content
		a.Category = category
		if imageURL != nil {
			oldImage = a.ImageURL
			a.ImageURL = imageURL
		}
		if input.Status == "" {
			return Transition{From: a.Status, To: a.Status}, nil
		}
		return SetStatus(a, entity.ArticleStatus(input.Status), time.Now())
	})
	if err != nil {
		s.deleteImage(ctx, imageURL)
		return nil, err
	}
	s.deleteImage(ctx, oldImage)
	return result, nil
}

func (s *articleService) EditorDelete(ctx context.Context, editorID, id uuid.UUID) error {
	article, err := s.reviewable(ctx, editorID, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, article)
}

func (s *articleService) EditorGet(ctx context.Context, editorID, id uuid.UUID) (*dto.ArticleResponse, error) {
	article, err := s.reviewable(ctx, editorID, id)
	if err != nil {
		return nil, err
	}
	return s.response(ctx, article)
}

func (s *articleService) ListPublisherArticles(ctx context.Context, editorID, publisherID uuid.UUID) ([]dto.ArticleResponse, error) {
	assigned, err := s.publishers.IsMember(ctx, publisherID, editorID, entity.MemberEditor)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, errPublisherNotFound
	}

	articles, err := s.repo.ListByPublisher(ctx, publisherID)
	if err != nil {
		return nil, err
	}
	return s.responses(ctx, articles)
}
