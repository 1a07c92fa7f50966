package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/modules/subscription/dto"
	"anoa.com/newsaddiction/internal/modules/subscription/repository"
	userRepo "anoa.com/newsaddiction/internal/modules/user/repository"
	"anoa.com/newsaddiction/pkg/apperror"
	commonDto "anoa.com/newsaddiction/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionService interface {
	GetJournalistDetails(ctx context.Context, readerID, journalistID uuid.UUID) (*dto.JournalistDetailResponse, error)
	Subscribe(ctx context.Context, readerID, journalistID uuid.UUID) error
	Unsubscribe(ctx context.Context, readerID, journalistID uuid.UUID) error
	Toggle(ctx context.Context, readerID, journalistID uuid.UUID) (bool, error)
}

type subscriptionService struct {
	repo  repository.SubscriptionRepository
	users userRepo.UserRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository, users userRepo.UserRepository) SubscriptionService {
	return &subscriptionService{repo: repo, users: users}
}

func (s *subscriptionService) journalist(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByRole(ctx, id, entity.RoleJournalist)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("journalist: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *subscriptionService) GetJournalistDetails(ctx context.Context, readerID, journalistID uuid.UUID) (*dto.JournalistDetailResponse, error) {
	journalist, err := s.journalist(ctx, journalistID)
	if err != nil {
		return nil, err
	}

	subscribed, err := s.repo.IsSubscribed(ctx, readerID, journalistID)
	if err != nil {
		return nil, err
	}
	subscribers, err := s.repo.CountSubscribers(ctx, journalistID)
	if err != nil {
		return nil, err
	}
	published, err := s.repo.CountPublished(ctx, journalistID)
	if err != nil {
		return nil, err
	}

	resp := &dto.JournalistDetailResponse{
		AuthorResponse: commonDto.AuthorResponse{
			ID:          journalist.ID.String(),
			Username:    journalist.Username,
			DisplayName: journalist.Name(),
			AvatarURL:   journalist.ProfilePictureURL,
		},
		Subscribed:        subscribed,
		SubscriberCount:   subscribers,
		PublishedArticles: published,
	}
	if journalist.JournalistProfile != nil {
		resp.Biography = journalist.JournalistProfile.Biography
	}
	return resp, nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, readerID, journalistID uuid.UUID) error {
	if _, err := s.journalist(ctx, journalistID); err != nil {
		return err
	}
	return s.repo.Subscribe(ctx, readerID, journalistID)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, readerID, journalistID uuid.UUID) error {
	if _, err := s.journalist(ctx, journalistID); err != nil {
		return err
	}
	return s.repo.Unsubscribe(ctx, readerID, journalistID)
}

func (s *subscriptionService) Toggle(ctx context.Context, readerID, journalistID uuid.UUID) (bool, error) {
	if _, err := s.journalist(ctx, journalistID); err != nil {
		return false, err
	}

	subscribed, err := s.repo.IsSubscribed(ctx, readerID, journalistID)
	if err != nil {
		return false, err
	}
	if subscribed {
		return false, s.repo.Unsubscribe(ctx, readerID, journalistID)
	}
	return true, s.repo.Subscribe(ctx, readerID, journalistID)
}
