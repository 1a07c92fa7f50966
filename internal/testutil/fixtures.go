package testutil

import (
	"testing"
	"time"

	"anoa.com/newsaddiction/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const Password = "s3cret-pass"

var passwordHash string

func hashedPassword(t *testing.T) string {
	t.Helper()
	if passwordHash == "" {
		h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		passwordHash = string(h)
	}
	return passwordHash
}

// CreateUser inserts an active user of the given role together with its profile.
func CreateUser(t *testing.T, db *gorm.DB, role entity.Role, username string) *entity.User {
	t.Helper()

	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hashedPassword(t),
		DisplayName:  username + " Display",
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	var profile any
	switch role {
	case entity.RoleReader:
		profile = &entity.ReaderProfile{UserID: user.ID}
	case entity.RoleJournalist:
		profile = &entity.JournalistProfile{UserID: user.ID, Biography: entity.DefaultBiography}
	case entity.RoleEditor:
		profile = &entity.EditorProfile{UserID: user.ID}
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile for %s: %v", username, err)
	}

	return user
}

func CreatePublisher(t *testing.T, db *gorm.DB, name string) *entity.Publisher {
	t.Helper()

	p := &entity.Publisher{Name: name, Description: name + " newsroom"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create publisher %s: %v", name, err)
	}
	return p
}

func AddMember(t *testing.T, db *gorm.DB, p *entity.Publisher, u *entity.User, kind entity.MemberKind) {
	t.Helper()

	m := &entity.PublisherMember{PublisherID: p.ID, UserID: u.ID, Kind: kind}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("add %s %s to %s: %v", kind, u.Username, p.Name, err)
	}
}

func SubscribeToJournalist(t *testing.T, db *gorm.DB, reader, journalist *entity.User) {
	t.Helper()

	s := &entity.JournalistSubscription{JournalistID: journalist.ID, ReaderID: reader.ID}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("subscribe %s to %s: %v", reader.Username, journalist.Username, err)
	}
}

// CreateArticle inserts an article in the given state. Published articles get a publication time.
func CreateArticle(t *testing.T, db *gorm.DB, author *entity.User, title string, status entity.ArticleStatus, ref entity.PublisherRef) *entity.Article {
	t.Helper()

	a := &entity.Article{
		Title:     title,
		Content:   title + " body",
		Category:  entity.CategoryCurrentEvents,
		Status:    status,
		AuthorID:  author.ID,
		Publisher: ref,
	}
	if status == entity.StatusPublished {
		now := time.Now()
		a.PublishedAt = &now
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("create article %s: %v", title, err)
	}
	return a
}
