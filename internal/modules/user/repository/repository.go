package repository

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/newsaddiction/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	// CreateWithProfile inserts the user and then the profile matching its role.
	CreateWithProfile(ctx context.Context, user *entity.User, biography string) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error)
	FindByLogin(ctx context.Context, login string) (*entity.User, error)
	FindActiveByUsernameAndEmail(ctx context.Context, username, email string) (*entity.User, error)
	FindByRole(ctx context.Context, id uuid.UUID, role entity.Role) (*entity.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateBiography(ctx context.Context, userID uuid.UUID, biography string) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func withProfiles(db *gorm.DB) *gorm.DB {
	return db.
		Preload("ReaderProfile").
		Preload("JournalistProfile").
		Preload("EditorProfile")
}

func (r *userRepository) CreateWithProfile(ctx context.Context, user *entity.User, biography string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		switch user.Role {
		case entity.RoleReader:
			profile := &entity.ReaderProfile{UserID: user.ID}
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
			user.ReaderProfile = profile
		case entity.RoleJournalist:
			if strings.TrimSpace(biography) == "" {
				biography = entity.DefaultBiography
			}
			profile := &entity.JournalistProfile{UserID: user.ID, Biography: biography}
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
			user.JournalistProfile = profile
		case entity.RoleEditor:
			profile := &entity.EditorProfile{UserID: user.ID}
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
			user.EditorProfile = profile
		default:
			return fmt.Errorf("unknown role %q", user.Role)
		}

		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := withProfiles(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	var user entity.User
	if err := withProfiles(r.db.WithContext(ctx)).
		Where("username = ? OR LOWER(email) = ?", login, strings.ToLower(login)).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindActiveByUsernameAndEmail(ctx context.Context, username, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) = ? AND LOWER(email) = ? AND is_active = ?",
			strings.ToLower(username), strings.ToLower(email), true).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByRole(ctx context.Context, id uuid.UUID, role entity.Role) (*entity.User, error) {
	var user entity.User
	if err := withProfiles(r.db.WithContext(ctx)).
		Where("id = ? AND role = ?", id, role).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("LOWER(username) = ? OR LOWER(email) = ?", strings.ToLower(username), strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateBiography(ctx context.Context, userID uuid.UUID, biography string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.JournalistProfile{}).
		Where("user_id = ?", userID).
		Update("biography", biography)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Select("display_name", "phone_number", "date_of_birth", "profile_picture_url").
		Updates(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id).Error
}
