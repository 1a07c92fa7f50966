package repository

import (
	"context"

	"anoa.com/newsaddiction/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PublisherRepository interface {
	Create(ctx context.Context, publisher *entity.Publisher) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Publisher, error)
	FindByName(ctx context.Context, name string) (*entity.Publisher, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Publisher, error)
	ListForMember(ctx context.Context, userID uuid.UUID, kind entity.MemberKind) ([]entity.Publisher, error)

	IsMember(ctx context.Context, publisherID, userID uuid.UUID, kind entity.MemberKind) (bool, error)
	// AddMember is a no-op when the membership already exists.
	AddMember(ctx context.Context, publisherID, userID uuid.UUID, kind entity.MemberKind) error
	RemoveMember(ctx context.Context, publisherID, userID uuid.UUID, kind entity.MemberKind) error
	Members(ctx context.Context, publisherID uuid.UUID, kind entity.MemberKind) ([]entity.User, error)
	CountMembers(ctx context.Context, publisherID uuid.UUID, kind entity.MemberKind) (int64, error)
	// NonMembers lists users holding the kind's role who are not in the set.
	NonMembers(ctx context.Context, publisherID uuid.UUID, kind entity.MemberKind) ([]entity.User, error)

	CountArticles(ctx context.Context, publisherID uuid.UUID, status entity.ArticleStatus) (int64, error)
}

type publisherRepository struct {
	db *gorm.DB
}

func NewPublisherRepository(db *gorm.DB) PublisherRepository {
	return &publisherRepository{db: db}
}

func (r *publisherRepository) Create(ctx context.Context, publisher *entity.Publisher) error {
	return r.db.WithContext(ctx).Create(publisher).Error
}

func (r *publisherRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Publisher, error) {
	var publisher entity.Publisher
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&publisher).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

func (r *publisherRepository) FindByName(ctx context.Context, name string) (*entity.Publisher, error) {
	var publisher entity.Publisher
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&publisher).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

func (r *publisherRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Publisher, error) {
	var publishers []entity.Publisher
	if len(ids) == 0 {
		return publishers, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&publishers).Error
	return publishers, err
}

func (r *publisherRepository) ListForMember(ctx context.Context, userID uuid.UUID, kind entity.MemberKind) ([]entity.Publisher, error) {
	var publishers []entity.Publisher
	err := r.db.WithContext(ctx).
		Joins("JOIN publisher_members pm ON pm.publisher_id = publishers.id").
		Where("pm.user_id = ? AND pm.kind = ?", userID, kind).
		Order("publishers.name ASC").
		Find(&publishers).Error
	return publishers, err
}

func (r *publisherRepository) IsMember(ctx context.Context, publisherID, userID uuid.UUID, kind entity.MemberKind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PublisherMember{}).
		Where("publisher_id = ? AND user_id = ? AND kind = ?", publisherID, userID, kind).
		Count(&count).Error
	return count > 0, err
}

func (r *publisherRepository) AddMember(ctx context.Context, publisherID, userID uuid.UUID, kind entity.MemberKind) error {
	member := &entity.PublisherMember{PublisherID: publisherID, UserID: userID, Kind: kind}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member).Error
}

func (r *publisherRepository) RemoveMember(ctx context.Context, publisherID, userID uuid.UUID, kind entity.MemberKind) error {
	return r.db.WithContext(ctx).
		Where("publisher_id = ? AND user_id = ? AND kind = ?", publisherID, userID, kind).
		Delete(&entity.PublisherMember{}).Error
}

func (r *publisherRepository) Members(ctx context.Context, publisherID uuid.UUID, kind entity.MemberKind) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Joins("JOIN publisher_members pm ON pm.user_id = users.id").
		Where("pm.publisher_id = ? AND pm.kind = ?", publisherID, kind).
		Order("users.username ASC").
		Find(&users).Error
	return users, err
}

func (r *publisherRepository) CountMembers(ctx context.Context, publisherID uuid.UUID, kind entity.MemberKind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PublisherMember{}).
		Where("publisher_id = ? AND kind = ?", publisherID, kind).
		Count(&count).Error
	return count, err
}

func (r *publisherRepository) NonMembers(ctx context.Context, publisherID uuid.UUID, kind entity.MemberKind) ([]entity.User, error) {
	members := r.db.
		Model(&entity.PublisherMember{}).
		Select("user_id").
		Where("publisher_id = ? AND kind = ?", publisherID, kind)

	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", kind.RequiredRole(), true).
		Where("id NOT IN (?)", members).
		Order("username ASC").
		Find(&users).Error
	return users, err
}

func (r *publisherRepository) CountArticles(ctx context.Context, publisherID uuid.UUID, status entity.ArticleStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Article{}).
		Where("publisher_kind = ? AND publisher_object_id = ? AND status = ?", entity.PublisherKindPublisher, publisherID, status).
		Count(&count).Error
	return count, err
}
