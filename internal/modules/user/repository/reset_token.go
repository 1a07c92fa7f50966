package repository

import (
	"context"
	"time"

	"anoa.com/newsaddiction/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, token *entity.ResetToken) error
	FindUnusedByHash(ctx context.Context, hash string) (*entity.ResetToken, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Consume sets the user's password and deletes the token in one transaction.
	Consume(ctx context.Context, token *entity.ResetToken, passwordHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type resetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(ctx context.Context, token *entity.ResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *resetTokenRepository) FindUnusedByHash(ctx context.Context, hash string) (*entity.ResetToken, error) {
	var token entity.ResetToken
	if err := r.db.WithContext(ctx).
		Where("token_hash = ? AND used = ?", hash, false).
		First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *resetTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ResetToken{}, "id = ?", id).Error
}

func (r *resetTokenRepository) Consume(ctx context.Context, token *entity.ResetToken, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.User{}).
			Where("id = ?", token.UserID).
			Update("password_hash", passwordHash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		res = tx.Delete(&entity.ResetToken{}, "id = ? AND used = ?", token.ID, false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Someone else consumed it first.
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *resetTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&entity.ResetToken{})
	return res.RowsAffected, res.Error
}
