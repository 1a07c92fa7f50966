package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"anoa.com/newsaddiction/internal/modules/user/dto"
	"anoa.com/newsaddiction/internal/modules/user/service"
	commonDto "anoa.com/newsaddiction/pkg/dto"
	"anoa.com/newsaddiction/pkg/ratelimiter"
	"anoa.com/newsaddiction/pkg/response"
	"anoa.com/newsaddiction/pkg/validator"
	"github.com/gin-gonic/gin"
)

const resetRequestedMessage = "If an active account matches those details, a reset link has been sent to its email address."

type AuthHandler struct {
	authService  service.AuthService
	resetService service.PasswordResetService
}

func NewAuthHandler(authService service.AuthService, resetService service.PasswordResetService) *AuthHandler {
	return &AuthHandler{authService: authService, resetService: resetService}
}

// formImage returns the named multipart file, or nil when the request carries none.
func formImage(c *gin.Context, field string) (*commonDto.UploadFile, func(), error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, func() {}, nil
	}
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &commonDto.UploadFile{Reader: file, FileName: header.Filename}, func() { file.Close() }, nil
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	picture, closeFile, err := formImage(c, "profile_picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile picture"})
		return
	}
	defer closeFile()
	req.ProfilePicture = picture

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		writeRateLimitOrError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateProfileInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	picture, closeFile, err := formImage(c, "profile_picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile picture"})
		return
	}
	defer closeFile()
	req.ProfilePicture = picture

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req dto.RequestResetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.resetService.RequestReset(c.Request.Context(), req); err != nil {
		writeRateLimitOrError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": resetRequestedMessage})
}

func (h *AuthHandler) ValidateReset(c *gin.Context) {
	if err := h.resetService.ValidateReset(c.Request.Context(), c.Param("token")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *AuthHandler) ConsumeReset(c *gin.Context) {
	var req dto.ResetPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.resetService.ConsumeReset(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated, please log in"})
}

func writeRateLimitOrError(c *gin.Context, err error) {
	var rateLimitErr *ratelimiter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Message})
		return
	}
	response.ResponseError(c, err)
}
