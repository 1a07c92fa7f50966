package repository

import (
	"context"

	"anoa.com/newsaddiction/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkAsRead only touches a notification owned by userID.
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// Recipients returns the readers following the author, plus the publisher's
	// subscribers when publisherID is valid. Each reader appears once.
	Recipients(ctx context.Context, authorID uuid.UUID, publisherID uuid.NullUUID) ([]entity.User, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Preload("Actor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "display_name", "profile_picture_url")
		}).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Notification{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) Recipients(ctx context.Context, authorID uuid.UUID, publisherID uuid.NullUUID) ([]entity.User, error) {
	followers := r.db.
		Model(&entity.JournalistSubscription{}).
		Select("reader_id").
		Where("journalist_id = ?", authorID)

	q := r.db.WithContext(ctx).Model(&entity.User{})
	if publisherID.Valid {
		subscribers := r.db.
			Model(&entity.PublisherMember{}).
			Select("user_id").
			Where("publisher_id = ? AND kind = ?", publisherID.UUID, entity.MemberSubscriber)
		q = q.Where("role = ? AND (id IN (?) OR id IN (?))", entity.RoleReader, followers, subscribers)
	} else {
		q = q.Where("role = ? AND id IN (?)", entity.RoleReader, followers)
	}

	var users []entity.User
	err := q.Order("username ASC").Find(&users).Error
	return users, err
}
