package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Publisher struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Website     *string   `gorm:"type:text" json:"website,omitempty"`
	Email       *string   `gorm:"size:254" json:"email,omitempty"`
	LogoURL     *string   `gorm:"type:text" json:"logo_url,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Publisher) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		p.ID = id
	}
	return nil
}

// MemberKind names one of the three independent user sets of a publisher.
type MemberKind string

const (
	MemberEditor     MemberKind = "editor"
	MemberJournalist MemberKind = "journalist"
	MemberSubscriber MemberKind = "subscriber"
)

// RequiredRole is the only user role allowed in the set.
func (k MemberKind) RequiredRole() Role {
	switch k {
	case MemberEditor:
		return RoleEditor
	case MemberJournalist:
		return RoleJournalist
	default:
		return RoleReader
	}
}

type PublisherMember struct {
	PublisherID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"publisher_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	Kind        MemberKind `gorm:"size:20;primaryKey" json:"kind"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Publisher *Publisher `gorm:"foreignKey:PublisherID;constraint:OnDelete:CASCADE" json:"-"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
