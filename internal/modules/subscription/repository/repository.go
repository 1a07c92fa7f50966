package repository

import (
	"context"

	"anoa.com/newsaddiction/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository interface {
	// Subscribe is a no-op when the reader already follows the journalist.
	Subscribe(ctx context.Context, readerID, journalistID uuid.UUID) error
	Unsubscribe(ctx context.Context, readerID, journalistID uuid.UUID) error
	IsSubscribed(ctx context.Context, readerID, journalistID uuid.UUID) (bool, error)
	CountSubscribers(ctx context.Context, journalistID uuid.UUID) (int64, error)
	CountPublished(ctx context.Context, journalistID uuid.UUID) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, readerID, journalistID uuid.UUID) error {
	sub := &entity.JournalistSubscription{JournalistID: journalistID, ReaderID: readerID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(sub).Error
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, readerID, journalistID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("journalist_id = ? AND reader_id = ?", journalistID, readerID).
		Delete(&entity.JournalistSubscription{}).Error
}

func (r *subscriptionRepository) IsSubscribed(ctx context.Context, readerID, journalistID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.JournalistSubscription{}).
		Where("journalist_id = ? AND reader_id = ?", journalistID, readerID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, journalistID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.JournalistSubscription{}).
		Where("journalist_id = ?", journalistID).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountPublished(ctx context.Context, journalistID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Article{}).
		Where("author_id = ? AND status = ?", journalistID, entity.StatusPublished).
		Count(&count).Error
	return count, err
}
