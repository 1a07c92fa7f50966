package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/modules/publisher/dto"
	"anoa.com/newsaddiction/internal/modules/publisher/repository"
	"anoa.com/newsaddiction/pkg/apperror"
	commonDto "anoa.com/newsaddiction/pkg/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PublisherService interface {
	GetPublisherDetails(ctx context.Context, readerID, publisherID uuid.UUID) (*dto.PublisherDetailResponse, error)
	Subscribe(ctx context.Context, readerID, publisherID uuid.UUID) error
	Unsubscribe(ctx context.Context, readerID, publisherID uuid.UUID) error
	ToggleSubscription(ctx context.Context, readerID, publisherID uuid.UUID) (bool, error)

	AssignedPublishers(ctx context.Context, editorID uuid.UUID) ([]dto.PublisherResponse, error)
	Dashboard(ctx context.Context, editorID, publisherID uuid.UUID) (*dto.DashboardResponse, error)
	Journalists(ctx context.Context, editorID, publisherID uuid.UUID) ([]commonDto.AuthorResponse, error)
	AssignableJournalists(ctx context.Context, editorID, publisherID uuid.UUID) ([]commonDto.AuthorResponse, error)
	AssignJournalist(ctx context.Context, editorID, publisherID, journalistID uuid.UUID) error
	UnassignJournalist(ctx context.Context, editorID, publisherID, journalistID uuid.UUID) error
}

type publisherService struct {
	repo repository.PublisherRepository
	log  *zap.Logger
}

func NewPublisherService(repo repository.PublisherRepository, log *zap.Logger) PublisherService {
	return &publisherService{repo: repo, log: log.Named("publisher")}
}

func (s *publisherService) find(ctx context.Context, id uuid.UUID) (*entity.Publisher, error) {
	publisher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("publisher: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return publisher, nil
}

// editorPublisher loads a publisher the editor is assigned to. Anything else is not found.
func (s *publisherService) editorPublisher(ctx context.Context, editorID, publisherID uuid.UUID) (*entity.Publisher, error) {
	publisher, err := s.find(ctx, publisherID)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.IsMember(ctx, publisherID, editorID, entity.MemberEditor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("publisher: %w", apperror.ErrNotFound)
	}
	return publisher, nil
}

func (s *publisherService) GetPublisherDetails(ctx context.Context, readerID, publisherID uuid.UUID) (*dto.PublisherDetailResponse, error) {
	publisher, err := s.find(ctx, publisherID)
	if err != nil {
		return nil, err
	}

	subscribed, err := s.repo.IsMember(ctx, publisherID, readerID, entity.MemberSubscriber)
	if err != nil {
		return nil, err
	}
	subscribers, err := s.repo.CountMembers(ctx, publisherID, entity.MemberSubscriber)
	if err != nil {
		return nil, err
	}
	published, err := s.repo.CountArticles(ctx, publisherID, entity.StatusPublished)
	if err != nil {
		return nil, err
	}

	return &dto.PublisherDetailResponse{
		PublisherResponse: dto.NewPublisherResponse(publisher),
		Subscribed:        subscribed,
		SubscriberCount:   subscribers,
		PublishedArticles: published,
	}, nil
}

func (s *publisherService) Subscribe(ctx context.Context, readerID, publisherID uuid.UUID) error {
	if _, err := s.find(ctx, publisherID); err != nil {
		return err
	}
	return s.repo.AddMember(ctx, publisherID, readerID, entity.MemberSubscriber)
}

func (s *publisherService) Unsubscribe(ctx context.Context, readerID, publisherID uuid.UUID) error {
	if _, err := s.find(ctx, publisherID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, publisherID, readerID, entity.MemberSubscriber)
}

func (s *publisherService) ToggleSubscription(ctx context.Context, readerID, publisherID uuid.UUID) (bool, error) {
	if _, err := s.find(ctx, publisherID); err != nil {
		return false, err
	}

	subscribed, err := s.repo.IsMember(ctx, publisherID, readerID, entity.MemberSubscriber)
	if err != nil {
		return false, err
	}
	if subscribed {
		return false, s.repo.RemoveMember(ctx, publisherID, readerID, entity.MemberSubscriber)
	}
	return true, s.repo.AddMember(ctx, publisherID, readerID, entity.MemberSubscriber)
}

func (s *publisherService) AssignedPublishers(ctx context.Context, editorID uuid.UUID) ([]dto.PublisherResponse, error) {
	publishers, err := s.repo.ListForMember(ctx, editorID, entity.MemberEditor)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PublisherResponse, 0, len(publishers))
	for i := range publishers {
		out = append(out, dto.NewPublisherResponse(&publishers[i]))
	}
	return out, nil
}

func (s *publisherService) Dashboard(ctx context.Context, editorID, publisherID uuid.UUID) (*dto.DashboardResponse, error) {
	publisher, err := s.editorPublisher(ctx, editorID, publisherID)
	if err != nil {
		return nil, err
	}

	editors, err := s.repo.Members(ctx, publisherID, entity.MemberEditor)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Publisher: dto.NewPublisherResponse(publisher),
		Editors:   dto.NewAuthorResponses(editors),
	}
	if resp.JournalistCount, err = s.repo.CountMembers(ctx, publisherID, entity.MemberJournalist); err != nil {
		return nil, err
	}
	if resp.SubscriberCount, err = s.repo.CountMembers(ctx, publisherID, entity.MemberSubscriber); err != nil {
		return nil, err
	}
	if resp.AwaitingApproval, err = s.repo.CountArticles(ctx, publisherID, entity.StatusAwaitingApproval); err != nil {
		return nil, err
	}
	if resp.Published, err = s.repo.CountArticles(ctx, publisherID, entity.StatusPublished); err != nil {
		return nil, err
	}
	if resp.Rejected, err = s.repo.CountArticles(ctx, publisherID, entity.StatusRejected); err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *publisherService) Journalists(ctx context.Context, editorID, publisherID uuid.UUID) ([]commonDto.AuthorResponse, error) {
	if _, err := s.editorPublisher(ctx, editorID, publisherID); err != nil {
		return nil, err
	}

	users, err := s.repo.Members(ctx, publisherID, entity.MemberJournalist)
	if err != nil {
		return nil, err
	}
	return dto.NewAuthorResponses(users), nil
}

func (s *publisherService) AssignableJournalists(ctx context.Context, editorID, publisherID uuid.UUID) ([]commonDto.AuthorResponse, error) {
	if _, err := s.editorPublisher(ctx, editorID, publisherID); err != nil {
		return nil, err
	}

	users, err := s.repo.NonMembers(ctx, publisherID, entity.MemberJournalist)
	if err != nil {
		return nil, err
	}
	return dto.NewAuthorResponses(users), nil
}

func (s *publisherService) AssignJournalist(ctx context.Context, editorID, publisherID, journalistID uuid.UUID) error {
	if _, err := s.editorPublisher(ctx, editorID, publisherID); err != nil {
		return err
	}

	// The choice must come from the set offered right now.
	candidates, err := s.repo.NonMembers(ctx, publisherID, entity.MemberJournalist)
	if err != nil {
		return err
	}
	found := false
	for i := range candidates {
		if candidates[i].ID == journalistID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("journalist is not assignable to this publisher: %w", apperror.ErrInvalidInput)
	}

	if err := s.repo.AddMember(ctx, publisherID, journalistID, entity.MemberJournalist); err != nil {
		return err
	}

	s.log.Info("journalist assigned",
		zap.String("publisher_id", publisherID.String()),
		zap.String("journalist_id", journalistID.String()),
		zap.String("editor_id", editorID.String()),
	)
	return nil
}

func (s *publisherService) UnassignJournalist(ctx context.Context, editorID, publisherID, journalistID uuid.UUID) error {
	if _, err := s.editorPublisher(ctx, editorID, publisherID); err != nil {
		return err
	}

	ok, err := s.repo.IsMember(ctx, publisherID, journalistID, entity.MemberJournalist)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("journalist: %w", apperror.ErrNotFound)
	}

	return s.repo.RemoveMember(ctx, publisherID, journalistID, entity.MemberJournalist)
}
