package dto

import (
	"anoa.com/newsaddiction/internal/entity"
	commonDto "anoa.com/newsaddiction/pkg/dto"
)

type RegisterInput struct {
	Username        string `form:"username" json:"username" binding:"required,min=3,max=150"`
	Email           string `form:"email" json:"email" binding:"required,email,max=254"`
	Password        string `form:"password" json:"password" binding:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required,eqfield=Password"`
	DisplayName     string `form:"display_name" json:"display_name" binding:"required,max=100"`
	PhoneNumber     string `form:"phone_number" json:"phone_number" binding:"omitempty,e164"`
	DateOfBirth     string `form:"date_of_birth" json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Role            string `form:"role" json:"role" binding:"required,oneof=reader journalist editor"`
	Biography       string `form:"biography" json:"biography" binding:"omitempty,max=5000"`

	ProfilePicture *commonDto.UploadFile `form:"-" json:"-"`
}

type LoginInput struct {
	// Username accepts either the username or the email address.
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
	Role        entity.Role  `json:"role"`
	SearchToken string       `json:"search_token,omitempty"`
}

type UpdateProfileInput struct {
	DisplayName string  `form:"display_name" json:"display_name" binding:"omitempty,max=100"`
	PhoneNumber *string `form:"phone_number" json:"phone_number" binding:"omitempty,e164"`
	Biography   *string `form:"biography" json:"biography" binding:"omitempty,max=5000"`

	ProfilePicture *commonDto.UploadFile `form:"-" json:"-"`
}

type RequestResetInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}
