package dto

import (
	"time"

	commonDto "anoa.com/newsaddiction/pkg/dto"
)

// DirectChoice is the publish option that skips editorial review.
const DirectChoice = "DIRECT"

type ArticleInput struct {
	Title    string `form:"title" json:"title" binding:"required,max=200"`
	Content  string `form:"content" json:"content" binding:"required"`
	Category string `form:"category" json:"category" binding:"omitempty,oneof=CURRENT_EVENTS SPORTS PERSONAL_FINANCE LIFESTYLE CRIME POLITICS ENTERTAINMENT OPINION TECHNOLOGY"`

	Image *commonDto.UploadFile `form:"-" json:"-"`
}

// EditorArticleInput is an editor's edit. An empty status leaves it unchanged.
type EditorArticleInput struct {
	ArticleInput
	Status string `form:"status" json:"status" binding:"omitempty,oneof=DRAFT AWAITING_APPROVAL PUBLISHED REJECTED"`
}

type PublishInput struct {
	// Choice is DirectChoice or the id of an assigned publisher.
	Choice string `form:"choice" json:"choice" binding:"required"`
}

type PublishOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type PublishOptionsResponse struct {
	Options  []PublishOption `json:"options"`
	HelpText string          `json:"help_text,omitempty"`
}

type BrowseQuery struct {
	commonDto.PaginationQuery
	Search string `form:"search" binding:"omitempty,max=200"`
}

type APIQuery struct {
	AuthorName    string `form:"author_name"`
	PublisherName string `form:"publisher_name"`
}

type PublisherInfo struct {
	Kind string  `json:"kind"`
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

type ArticleResponse struct {
	ID            string                   `json:"id"`
	Title         string                   `json:"title"`
	Content       string                   `json:"content"`
	Category      string                   `json:"category"`
	CategoryLabel string                   `json:"category_label"`
	Status        string                   `json:"status"`
	ImageURL      *string                  `json:"image_url"`
	PublishedAt   *time.Time               `json:"published_at"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	Author        commonDto.AuthorResponse `json:"author"`
	Publisher     PublisherInfo            `json:"publisher"`
	SelfPublished bool                     `json:"self_published"`
}

// NotificationStatus reports how the announcement of a newly published article went.
type NotificationStatus struct {
	Delivered  bool   `json:"delivered"`
	Recipients int    `json:"recipients"`
	Emailed    int    `json:"emailed"`
	PostID     string `json:"post_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ArticleResult is a state change plus the outcome of any announcement it triggered.
type ArticleResult struct {
	Article      ArticleResponse     `json:"data"`
	Notification *NotificationStatus `json:"notification,omitempty"`
}

// APIArticle is the record served by the basic-auth articles endpoint.
type APIArticle struct {
	AuthorDisplayName string     `json:"author_display_name"`
	AuthorUserName    string     `json:"author_user_name"`
	PublisherName     string     `json:"publisher_name"`
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	Category          string     `json:"category"`
	Status            string     `json:"status"`
	Author            string     `json:"author"`
	Image             *string    `json:"image"`
	PublishedAt       *time.Time `json:"published_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	PublisherKind     string     `json:"publisher_kind"`
	PublisherID       *string    `json:"publisher_id"`
}
