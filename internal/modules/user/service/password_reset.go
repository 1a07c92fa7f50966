package service

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/newsaddiction/internal/entity"
	"anoa.com/newsaddiction/internal/modules/user/dto"
	"anoa.com/newsaddiction/internal/modules/user/repository"
	"anoa.com/newsaddiction/pkg/apperror"
	"anoa.com/newsaddiction/pkg/mailer"
	"anoa.com/newsaddiction/pkg/ratelimiter"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetSubject = "Password Reset Requested"

type PasswordResetService interface {
	// RequestReset never reports whether an account matched.
	RequestReset(ctx context.Context, input dto.RequestResetInput) error
	ValidateReset(ctx context.Context, token string) error
	ConsumeReset(ctx context.Context, token, newPassword string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type ResetOptions struct {
	TTL       time.Duration
	SiteURL   string
	MailFrom  string
	RateLimit time.Duration
}

type passwordResetService struct {
	users   repository.UserRepository
	tokens  repository.ResetTokenRepository
	mailer  mailer.Mailer
	limiter *ratelimiter.Limiter
	opts    ResetOptions
	log     *zap.Logger
}

func NewPasswordResetService(users repository.UserRepository, tokens repository.ResetTokenRepository, m mailer.Mailer, limiter *ratelimiter.Limiter, opts ResetOptions, log *zap.Logger) PasswordResetService {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	return &passwordResetService{
		users:   users,
		tokens:  tokens,
		mailer:  m,
		limiter: limiter,
		opts:    opts,
		log:     log.Named("password_reset"),
	}
}

// HashToken returns the hex SHA-1 digest stored in place of the token.
func HashToken(token string) string {
	sum := sha1.Sum([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *passwordResetService) RequestReset(ctx context.Context, input dto.RequestResetInput) error {
	if err := s.limiter.Allow(ctx, "password_reset", strings.ToLower(input.Username), s.opts.RateLimit); err != nil {
		return err
	}

	user, err := s.users.FindActiveByUsernameAndEmail(ctx, input.Username, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := newToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	record := &entity.ResetToken{
		UserID:    user.ID,
		TokenHash: HashToken(token),
		ExpiresAt: time.Now().Add(s.opts.TTL),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return err
	}

	link := s.opts.SiteURL + "reset_password/" + token
	msg := mailer.Message{
		Subject: resetSubject,
		Body:    fmt.Sprintf("Hi %s,\nHere is your link to reset your password: %s", user.Username, link),
		From:    s.opts.MailFrom,
		To:      []string{user.Email},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// The caller gets the same answer either way.
		s.log.Error("failed to send reset email", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return nil
}

// lookup finds the live token row, deleting it when it has expired.
func (s *passwordResetService) lookup(ctx context.Context, token string) (*entity.ResetToken, error) {
	if token == "" {
		return nil, apperror.ErrInvalidResetLink
	}

	record, err := s.tokens.FindUnusedByHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidResetLink
		}
		return nil, err
	}

	if record.Expired(time.Now()) {
		if err := s.tokens.Delete(ctx, record.ID); err != nil {
			return nil, err
		}
		return nil, apperror.ErrExpiredResetLink
	}

	return record, nil
}

func (s *passwordResetService) ValidateReset(ctx context.Context, token string) error {
	_, err := s.lookup(ctx, token)
	return err
}

func (s *passwordResetService) ConsumeReset(ctx context.Context, token, newPassword string) error {
	record, err := s.lookup(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.tokens.Consume(ctx, record, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrInvalidResetLink
		}
		return err
	}

	s.log.Info("password reset", zap.String("user_id", record.UserID.String()))
	return nil
}

func (s *passwordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, time.Now())
}
