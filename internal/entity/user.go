package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleReader     Role = "reader"
	RoleJournalist Role = "journalist"
	RoleEditor     Role = "editor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleReader, RoleJournalist, RoleEditor:
		return true
	}
	return false
}

const DefaultBiography = "Default biography - Please update."

type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username          string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email             string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash      string     `gorm:"size:255;not null" json:"-"`
	DisplayName       string     `gorm:"size:100;not null" json:"display_name"`
	PhoneNumber       *string    `gorm:"size:20" json:"phone_number,omitempty"`
	DateOfBirth       *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	ProfilePictureURL *string    `gorm:"type:text" json:"profile_picture_url,omitempty"`
	Role              Role       `gorm:"size:20;not null;index" json:"role"`
	IsActive          bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`

	ReaderProfile     *ReaderProfile     `gorm:"constraint:OnDelete:CASCADE" json:"reader_profile,omitempty"`
	JournalistProfile *JournalistProfile `gorm:"constraint:OnDelete:CASCADE" json:"journalist_profile,omitempty"`
	EditorProfile     *EditorProfile     `gorm:"constraint:OnDelete:CASCADE" json:"editor_profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		u.ID = id
	}
	return nil
}

// Name is what readers see: the display name, or the username when none is set.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

type ReaderProfile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type JournalistProfile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Biography string    `gorm:"type:text;not null" json:"biography"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type EditorProfile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// JournalistSubscription records a reader following a journalist.
type JournalistSubscription struct {
	JournalistID uuid.UUID `gorm:"type:uuid;primaryKey" json:"journalist_id"`
	ReaderID     uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"reader_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Journalist *User `gorm:"foreignKey:JournalistID;constraint:OnDelete:CASCADE" json:"-"`
	Reader     *User `gorm:"foreignKey:ReaderID;constraint:OnDelete:CASCADE" json:"-"`
}
