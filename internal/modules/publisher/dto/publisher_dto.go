package dto

import (
	"anoa.com/newsaddiction/internal/entity"
	commonDto "anoa.com/newsaddiction/pkg/dto"
)

type PublisherResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Website     *string `json:"website,omitempty"`
	Email       *string `json:"email,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

type PublisherDetailResponse struct {
	PublisherResponse
	Subscribed        bool  `json:"subscribed"`
	SubscriberCount   int64 `json:"subscriber_count"`
	PublishedArticles int64 `json:"published_articles"`
}

type DashboardResponse struct {
	Publisher        PublisherResponse          `json:"publisher"`
	Editors          []commonDto.AuthorResponse `json:"editors"`
	JournalistCount  int64                      `json:"journalist_count"`
	SubscriberCount  int64                      `json:"subscriber_count"`
	AwaitingApproval int64                      `json:"awaiting_approval"`
	Published        int64                      `json:"published"`
	Rejected         int64                      `json:"rejected"`
}

type AssignJournalistInput struct {
	JournalistID string `json:"journalist_id" binding:"required,uuid"`
}

type SubscriptionResponse struct {
	Subscribed bool `json:"subscribed"`
}

func NewPublisherResponse(p *entity.Publisher) PublisherResponse {
	return PublisherResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Website:     p.Website,
		Email:       p.Email,
		LogoURL:     p.LogoURL,
	}
}

func NewAuthorResponse(u *entity.User) commonDto.AuthorResponse {
	return commonDto.AuthorResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		DisplayName: u.Name(),
		AvatarURL:   u.ProfilePictureURL,
	}
}

func NewAuthorResponses(users []entity.User) []commonDto.AuthorResponse {
	out := make([]commonDto.AuthorResponse, 0, len(users))
	for i := range users {
		out = append(out, NewAuthorResponse(&users[i]))
	}
	return out
}
