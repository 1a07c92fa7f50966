package middleware

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"anoa.com/newsaddiction/internal/entity"
	userRepo "anoa.com/newsaddiction/internal/modules/user/repository"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	ContextUserID = "user_id"
	ContextUser   = "user"
)

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	secret   string
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		secret:   secret,
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// RequireAuth accepts a bearer token, or a "token" query parameter for websockets,
// and loads the active user behind it.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			unauthorized(c)
			return
		}
		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.secret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c)
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			unauthorized(c)
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			unauthorized(c)
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), userID)
		if err != nil || !user.IsActive {
			unauthorized(c)
			return
		}

		c.Set(ContextUserID, user.ID.String())
		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUser)
		if !exists {
			unauthorized(c)
			return
		}
		user, ok := value.(*entity.User)
		if !ok {
			unauthorized(c)
			return
		}

		if !slices.Contains(roles, user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// BasicAuth checks HTTP basic credentials against active accounts.
func (m *AuthMiddleware) BasicAuth(realm string) gin.HandlerFunc {
	challenge := fmt.Sprintf("Basic realm=%q", realm)
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", challenge)
			unauthorized(c)
			return
		}

		user, err := m.userRepo.FindByLogin(c.Request.Context(), username)
		if err != nil || !user.IsActive ||
			bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			c.Header("WWW-Authenticate", challenge)
			unauthorized(c)
			return
		}

		c.Set(ContextUserID, user.ID.String())
		c.Set(ContextUser, user)
		c.Next()
	}
}
