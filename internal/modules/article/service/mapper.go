package service

import (
	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/modules/article/dto"
	commonDto "anoa.com/newsaddiction/pkg/dto"
)

func refID(ref entity.PublisherRef) *string {
	if !ref.ObjectID.Valid {
		return nil
	}
	id := ref.ObjectID.UUID.String()
	return &id
}

func toResponse(a *entity.Article, resolved ResolvedPublisher) dto.ArticleResponse {
	resp := dto.ArticleResponse{
		ID:            a.ID.String(),
		Title:         a.Title,
		Content:       a.Content,
		Category:      string(a.Category),
		CategoryLabel: a.Category.Label(),
		Status:        string(a.Status),
		ImageURL:      a.ImageURL,
		PublishedAt:   a.PublishedAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		Publisher: dto.PublisherInfo{
			Kind: string(a.Publisher.Kind),
			ID:   refID(a.Publisher),
			Name: resolved.DisplayName(),
		},
		SelfPublished: a.IsSelfPublished(),
	}
	if a.Author != nil {
		resp.Author = commonDto.AuthorResponse{
			ID:          a.Author.ID.String(),
			Username:    a.Author.Username,
			DisplayName: a.Author.Name(),
			AvatarURL:   a.Author.ProfilePictureURL,
		}
	}
	return resp
}

func toAPIArticle(a *entity.Article, resolved ResolvedPublisher) dto.APIArticle {
	out := dto.APIArticle{
		PublisherName: resolved.DisplayName(),
		ID:            a.ID.String(),
		Title:         a.Title,
		Content:       a.Content,
		Category:      string(a.Category),
		Status:        string(a.Status),
		Author:        a.AuthorID.String(),
		Image:         a.ImageURL,
		PublishedAt:   a.PublishedAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		PublisherKind: string(a.Publisher.Kind),
		PublisherID:   refID(a.Publisher),
	}
	if a.Author != nil {
		out.AuthorDisplayName = a.Author.DisplayName
		out.AuthorUserName = a.Author.Username
	}
	return out
}
