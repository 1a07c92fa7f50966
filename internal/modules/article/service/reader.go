package service

import (
	"context"
	"errors"

	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/modules/article/dto"
	"anoa.com/newsaddiction/internal/modules/article/repository"
	commonDto "anoa.com/newsaddiction/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *articleService) BrowsePublished(ctx context.Context, query dto.BrowseQuery) ([]dto.ArticleResponse, commonDto.PaginationMeta, error) {
	query.Normalize()

	articles, total, err := s.repo.ListPublished(ctx, query.Search, query.Limit, query.Offset())
	if err != nil {
		return nil, commonDto.PaginationMeta{}, err
	}

	out, err := s.responses(ctx, articles)
	if err != nil {
		return nil, commonDto.PaginationMeta{}, err
	}
	return out, commonDto.NewPaginationMeta(query.Page, query.Limit, total), nil
}

func (s *articleService) GetPublished(ctx context.Context, id uuid.UUID) (*dto.ArticleResponse, error) {
	article, err := s.repo.FindPublished(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errArticleNotFound
		}
		return nil, err
	}
	return s.response(ctx, article)
}

// ListForAPI applies no status filter: drafts and rejected articles are listed too.
func (s *articleService) ListForAPI(ctx context.Context, query dto.APIQuery) ([]dto.APIArticle, error) {
	articles, err := s.repo.ListForAPI(ctx, repository.APIFilter{
		AuthorName:    query.AuthorName,
		PublisherName: query.PublisherName,
	})
	if err != nil {
		return nil, err
	}

	refs := make([]entity.PublisherRef, 0, len(articles))
	for i := range articles {
		refs = append(refs, articles[i].Publisher)
	}
	resolved, err := s.resolver.ResolveMany(ctx, refs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.APIArticle, 0, len(articles))
	for i := range articles {
		out = append(out, toAPIArticle(&articles[i], resolved[articles[i].Publisher]))
	}
	return out, nil
}
