package response

import (
	"net/http"

	"anoa.com/newsaddiction/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// ParamUUID parses a path parameter as a UUID, answering 404 for anything malformed.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": apperror.ErrNotFound.Error()})
		return uuid.Nil, false
	}
	return id, true
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	switch code {
	case http.StatusInternalServerError:
		zap.L().Error("internal error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	case http.StatusUnauthorized, http.StatusForbidden:
		// Access failures never say why.
		c.JSON(code, gin.H{"error": http.StatusText(code)})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
