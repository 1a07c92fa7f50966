package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/newsaddiction/internal/entity"
	publisherRepo "anoa.com/newsaddiction/internal/modules/publisher/repository"
	userDto "anoa.com/newsaddiction/internal/modules/user/dto"
	userRepo "anoa.com/newsaddiction/internal/modules/user/repository"
	userService "anoa.com/newsaddiction/internal/modules/user/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testPassword = "password123"

var testUsers = []userDto.RegisterInput{
	{Username: "test_editor_1", DisplayName: "Test Editor 1", PhoneNumber: "+27123456790", DateOfBirth: "1985-05-15", Role: string(entity.RoleEditor)},
	{Username: "test_editor_2", DisplayName: "Test Editor 2", PhoneNumber: "+27123456790", DateOfBirth: "1985-05-15", Role: string(entity.RoleEditor)},
	{Username: "test_journalist_1", DisplayName: "Test Journalist 1", PhoneNumber: "+27123456791", DateOfBirth: "1988-03-20", Role: string(entity.RoleJournalist),
		Biography: "World class enforcer and back to back world cup winner"},
	{Username: "test_journalist_2", DisplayName: "Test Journalist 2", PhoneNumber: "+27123456791", DateOfBirth: "1988-03-20", Role: string(entity.RoleJournalist),
		Biography: "Genius and the world's richest man"},
	{Username: "test_reader_1", DisplayName: "Test Reader 1", PhoneNumber: "+27123456792", DateOfBirth: "1995-07-10", Role: string(entity.RoleReader)},
	{Username: "test_reader_2", DisplayName: "Test Reader 2", PhoneNumber: "+27123456792", DateOfBirth: "1995-07-10", Role: string(entity.RoleReader)},
}

var testPublishers = []entity.Publisher{
	{Name: "The Star", Description: "The Star news publisher", Website: ptr("https://www.thestar.co.za"), Email: ptr("thestar@example.com")},
	{Name: "The Citizen", Description: "The Citizen news publisher", Website: ptr("https://www.citizen.co.za/"), Email: ptr("thecitizen@example.com")},
}

var testEditors = []string{"test_editor_1", "test_editor_2"}

// Seeder fills an empty database with a usable test environment.
// Running it again only adds what is missing.
type Seeder struct {
	auth       userService.AuthService
	users      userRepo.UserRepository
	publishers publisherRepo.PublisherRepository
	log        *zap.Logger
}

func NewSeeder(auth userService.AuthService, users userRepo.UserRepository, publishers publisherRepo.PublisherRepository, log *zap.Logger) *Seeder {
	return &Seeder{auth: auth, users: users, publishers: publishers, log: log.Named("seed")}
}

func (s *Seeder) SeedTestEnvironment(ctx context.Context) error {
	if err := s.seedUsers(ctx); err != nil {
		return err
	}
	if err := s.seedPublishers(ctx); err != nil {
		return err
	}
	return s.assignEditors(ctx)
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	for _, input := range testUsers {
		input.Email = input.Username + "@example.com"
		input.Password = testPassword
		input.ConfirmPassword = testPassword

		exists, err := s.users.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
		if err != nil {
			return err
		}
		if exists {
			s.log.Debug("user exists, skipping", zap.String("username", input.Username))
			continue
		}

		// Register creates the role profile alongside the account.
		if _, err := s.auth.Register(ctx, input); err != nil {
			return fmt.Errorf("seed user %s: %w", input.Username, err)
		}
		s.log.Info("user seeded", zap.String("username", input.Username), zap.String("role", input.Role))
	}
	return nil
}

func (s *Seeder) seedPublishers(ctx context.Context) error {
	for _, p := range testPublishers {
		_, err := s.publishers.FindByName(ctx, p.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.publishers.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed publisher %s: %w", p.Name, err)
		}
		s.log.Info("publisher seeded", zap.String("name", p.Name))
	}
	return nil
}

func (s *Seeder) assignEditors(ctx context.Context) error {
	for _, p := range testPublishers {
		publisher, err := s.publishers.FindByName(ctx, p.Name)
		if err != nil {
			return err
		}
		for _, username := range testEditors {
			editor, err := s.users.FindByLogin(ctx, username)
			if err != nil {
				return fmt.Errorf("find editor %s: %w", username, err)
			}
			if err := s.publishers.AddMember(ctx, publisher.ID, editor.ID, entity.MemberEditor); err != nil {
				return err
			}
		}
	}
	return nil
}

func ptr(s string) *string {
	return &s
}
