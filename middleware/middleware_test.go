package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboticgen/nexus/config"
	"github.com/roboticgen/nexus/models"
	"github.com/roboticgen/nexus/services"
	"github.com/roboticgen/nexus/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Set(config.AppConfig{JWTSecret: "test-secret", AdminUsernames: []string{"root"}})
}

type staticUsers map[uint]*models.User

func (s staticUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, assert.AnError
}

func newAuthEngine(users UserLookup) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(users), func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	})
	return r
}

func bearer(t *testing.T, id uint, name string) string {
	t.Helper()
	token, err := utils.GenerateToken(id, name, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthRequired(t *testing.T) {
	users := staticUsers{1: {ID: 1, Username: "alice", Role: models.RoleInstructor}}
	r := newAuthEngine(users)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"unknown account", bearer(t, 99, "ghost"), http.StatusUnauthorized},
		{"valid", bearer(t, 1, "alice"), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestAuthRequired_RoleComesFromAccount(t *testing.T) {
	users := staticUsers{1: {ID: 1, Username: "alice", Role: models.RoleStudent}}
	r := newAuthEngine(users)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, 1, "alice"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"STUDENT"`)
}

func TestAuthRequired_RevokedToken(t *testing.T) {
	users := staticUsers{1: {ID: 1, Username: "alice", Role: models.RoleInstructor}}
	r := newAuthEngine(users)
	header := bearer(t, 1, "alice")

	claims, err := utils.ParseToken(header[len("Bearer "):])
	require.NoError(t, err)
	utils.BlacklistToken(context.Background(), claims.ID, claims.ExpiresAt.Time)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", header)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(2), func(c *gin.Context) { c.Status(http.StatusOK) })

	// burst of 1 at 2 per minute
	statuses := []int{}
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, statuses)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(servicesUser("root")))
	assert.False(t, IsAdmin(servicesUser("alice")))
}

func servicesUser(name string) services.CurrentUser {
	return services.CurrentUser{Username: name}
}
