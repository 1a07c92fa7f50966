package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationEntityArticle    = "article"
	NotificationArticlePublished = "article_published"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"` // recipient
	ActorID    uuid.UUID `gorm:"type:uuid;not null" json:"actor_id"`      // article author
	EntityID   uuid.UUID `gorm:"type:uuid;not null" json:"entity_id"`
	EntityType string    `gorm:"size:50;not null" json:"entity_type"`
	Type       string    `gorm:"size:50;not null" json:"type"`
	Message    string    `gorm:"type:text" json:"message"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	User  *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Actor *User `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE" json:"actor,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		n.ID = id
	}
	return nil
}
