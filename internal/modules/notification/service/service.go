package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"anoa.com/newsaddiction/internal/entity"
	notifRepo "anoa.com/newsaddiction/internal/modules/notification/repository"
	"anoa.com/newsaddiction/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Channel is the redis pubsub channel carrying a user's live notifications.
func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *entity.Notification) error
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
	log         *zap.Logger
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client, log *zap.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
		log:         log.Named("notification"),
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	if s.redisClient == nil {
		return nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		s.log.Warn("failed to encode notification", zap.Error(err))
		return nil
	}
	if err := s.redisClient.Publish(ctx, Channel(notification.UserID), payload).Err(); err != nil {
		// Stored already; live delivery is best effort.
		s.log.Warn("failed to publish notification",
			zap.String("user_id", notification.UserID.String()),
			zap.Error(err),
		)
	}

	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error) {
	notifications, err := s.repo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkAsRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("notification: %w", apperror.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
