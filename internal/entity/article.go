package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArticleStatus string

const (
	StatusDraft            ArticleStatus = "DRAFT"
	StatusAwaitingApproval ArticleStatus = "AWAITING_APPROVAL"
	StatusPublished        ArticleStatus = "PUBLISHED"
	StatusRejected         ArticleStatus = "REJECTED"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusAwaitingApproval, StatusPublished, StatusRejected:
		return true
	}
	return false
}

type Category string

const (
	CategoryCurrentEvents   Category = "CURRENT_EVENTS"
	CategorySports          Category = "SPORTS"
	CategoryPersonalFinance Category = "PERSONAL_FINANCE"
	CategoryLifestyle       Category = "LIFESTYLE"
	CategoryCrime           Category = "CRIME"
	CategoryPolitics        Category = "POLITICS"
	CategoryEntertainment   Category = "ENTERTAINMENT"
	CategoryOpinion         Category = "OPINION"
	CategoryTechnology      Category = "TECHNOLOGY"
)

var categoryLabels = map[Category]string{
	CategoryCurrentEvents:   "Current Events",
	CategorySports:          "Sports",
	CategoryPersonalFinance: "Personal Finance",
	CategoryLifestyle:       "Lifestyle",
	CategoryCrime:           "Crime",
	CategoryPolitics:        "Politics",
	CategoryEntertainment:   "Entertainment",
	CategoryOpinion:         "Opinion",
	CategoryTechnology:      "Technology",
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryCurrentEvents,
		CategorySports,
		CategoryPersonalFinance,
		CategoryLifestyle,
		CategoryCrime,
		CategoryPolitics,
		CategoryEntertainment,
		CategoryOpinion,
		CategoryTechnology,
	}
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	return categoryLabels[c]
}

var ErrPublisherRequired = errors.New("an article must have a publisher once it leaves draft")

type Article struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Content     string        `gorm:"type:text;not null" json:"content"`
	Category    Category      `gorm:"size:30;not null;index" json:"category"`
	Status      ArticleStatus `gorm:"size:20;not null;index" json:"status"`
	AuthorID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      *User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	ImageURL    *string       `gorm:"type:text" json:"image_url,omitempty"`
	PublishedAt *time.Time    `json:"published_at"`
	Publisher   PublisherRef  `gorm:"embedded;embeddedPrefix:publisher_" json:"publisher"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = id
	}
	return nil
}

// Validate checks the invariant that ties status to the publisher reference.
func (a *Article) Validate() error {
	if !a.Status.Valid() {
		return errors.New("unknown article status")
	}
	if !a.Category.Valid() {
		return errors.New("unknown article category")
	}
	if a.Status != StatusDraft && !a.Publisher.IsSet() {
		return ErrPublisherRequired
	}
	if a.Publisher.IsSelf() && a.Publisher.ObjectID.UUID != a.AuthorID {
		return errors.New("a self-published article must reference its author")
	}
	return nil
}

func (a *Article) IsSelfPublished() bool {
	return a.Publisher.IsSelf()
}
