package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/newsaddiction/internal/entity"
	search "anoa.com/newsaddiction/internal/modules/search/service"
	"anoa.com/newsaddiction/internal/modules/user/dto"
	"anoa.com/newsaddiction/internal/modules/user/repository"
	"anoa.com/newsaddiction/pkg/apperror"
	"anoa.com/newsaddiction/pkg/ratelimiter"
	"anoa.com/newsaddiction/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*entity.User, error)
}

type AuthOptions struct {
	Secret         string
	TokenTTL       time.Duration
	LoginRateLimit time.Duration
}

type authService struct {
	repo         repository.UserRepository
	imageStorage storage.ImageStorage
	meili        search.MeiliSearchService
	limiter      *ratelimiter.Limiter
	opts         AuthOptions
	log          *zap.Logger
}

func NewAuthService(repo repository.UserRepository, imageStorage storage.ImageStorage, meili search.MeiliSearchService, limiter *ratelimiter.Limiter, opts AuthOptions, log *zap.Logger) AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	return &authService{
		repo:         repo,
		imageStorage: imageStorage,
		meili:        meili,
		limiter:      limiter,
		opts:         opts,
		log:          log.Named("auth"),
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*entity.User, error) {
	role := entity.Role(input.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", input.Role, apperror.ErrInvalidInput)
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("username or email: %w", apperror.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Role:         role,
		IsActive:     true,
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = &input.PhoneNumber
	}
	if input.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", input.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("date of birth: %w", apperror.ErrInvalidInput)
		}
		user.DateOfBirth = &dob
	}

	if input.ProfilePicture != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, input.ProfilePicture.Reader, storage.FolderProfilePictures, input.ProfilePicture.FileName)
		if err != nil {
			return nil, fmt.Errorf("upload profile picture: %w", err)
		}
		user.ProfilePictureURL = &url
	}

	if err := s.repo.CreateWithProfile(ctx, user, input.Biography); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", string(role)))
	return user, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	if err := s.limiter.Allow(ctx, "login", strings.ToLower(input.Username), s.opts.LoginRateLimit); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByLogin(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*entity.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Biography != nil && user.Role != entity.RoleJournalist {
		return nil, fmt.Errorf("only journalists have a biography: %w", apperror.ErrInvalidInput)
	}

	if input.DisplayName != "" {
		user.DisplayName = strings.TrimSpace(input.DisplayName)
	}
	if input.PhoneNumber != nil {
		if *input.PhoneNumber == "" {
			user.PhoneNumber = nil
		} else {
			user.PhoneNumber = input.PhoneNumber
		}
	}

	if input.ProfilePicture != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, input.ProfilePicture.Reader, storage.FolderProfilePictures, input.ProfilePicture.FileName)
		if err != nil {
			return nil, fmt.Errorf("upload profile picture: %w", err)
		}
		if old := user.ProfilePictureURL; old != nil {
			if err := s.imageStorage.DeleteImage(ctx, *old); err != nil {
				s.log.Warn("failed to delete old profile picture", zap.String("url", *old), zap.Error(err))
			}
		}
		user.ProfilePictureURL = &url
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if input.Biography != nil {
		if err := s.repo.UpdateBiography(ctx, user.ID, *input.Biography); err != nil {
			return nil, err
		}
		user.JournalistProfile.Biography = *input.Biography
	}

	return user, nil
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	var searchToken string
	if s.meili != nil {
		st, err := s.meili.GenerateSearchToken()
		if err != nil {
			s.log.Warn("failed to generate search token", zap.String("username", user.Username), zap.Error(err))
		} else {
			searchToken = st
		}
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
		Role:        user.Role,
		SearchToken: searchToken,
	}, nil
}

func (s *authService) generateToken(user *entity.User) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.opts.TokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.opts.Secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
