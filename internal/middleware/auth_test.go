package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/newsaddiction/internal/entity"
	userRepo "anoa.com/newsaddiction/internal/modules/user/repository"
	"anoa.com/newsaddiction/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signedToken(t *testing.T, subject, key string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func newRouter(db *gorm.DB) *gin.Engine {
	m := NewAuthMiddleware(userRepo.NewUserRepository(db), secret)
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID)}) }

	r := gin.New()
	r.GET("/me", m.RequireAuth(), ok)
	r.GET("/editor", m.RequireAuth(), m.RequireRole(entity.RoleEditor), ok)
	r.GET("/basic", m.BasicAuth("articles"), ok)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	db := testutil.NewDB(t)
	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")
	r := newRouter(db)

	cases := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "missing", status: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer " + signedToken(t, reader.ID.String(), secret, time.Hour), status: http.StatusOK},
		{name: "query parameter", query: "?token=" + signedToken(t, reader.ID.String(), secret, time.Hour), status: http.StatusOK},
		{name: "wrong key", header: "Bearer " + signedToken(t, reader.ID.String(), "other", time.Hour), status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signedToken(t, reader.ID.String(), secret, -time.Minute), status: http.StatusUnauthorized},
		{name: "unknown user", header: "Bearer " + signedToken(t, "00000000-0000-0000-0000-000000000001", secret, time.Hour), status: http.StatusUnauthorized},
		{name: "not a uuid", header: "Bearer " + signedToken(t, "alice", secret, time.Hour), status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := do(r, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), reader.ID.String())
			}
		})
	}
}

func TestRequireAuthRejectsInactiveUsers(t *testing.T) {
	db := testutil.NewDB(t)
	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")
	require.NoError(t, db.Model(reader).Update("is_active", false).Error)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, reader.ID.String(), secret, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, do(newRouter(db), req).Code)
}

func TestRequireRole(t *testing.T) {
	db := testutil.NewDB(t)
	reader := testutil.CreateUser(t, db, entity.RoleReader, "reader")
	editor := testutil.CreateUser(t, db, entity.RoleEditor, "editor")
	r := newRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/editor", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, reader.ID.String(), secret, time.Hour))
	w := do(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/editor", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, editor.ID.String(), secret, time.Hour))
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestBasicAuth(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, entity.RoleJournalist, "alice")
	r := newRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/basic", nil)
	w := do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Basic realm="articles"`, w.Header().Get("WWW-Authenticate"))

	req = httptest.NewRequest(http.MethodGet, "/basic", nil)
	req.SetBasicAuth("alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/basic", nil)
	req.SetBasicAuth("nobody", testutil.Password)
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/basic", nil)
	req.SetBasicAuth("alice", testutil.Password)
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}
