package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnutaifi/custody-sheets/internal/models"
)

func newTestRouter(tm *TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Middleware(tm), func(c *gin.Context) {
		id, _ := IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role})
	})
	r.GET("/admin", Middleware(tm), RequireLead(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	return doRequestPath(r, "/protected", token)
}

func doRequestPath(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareMissingToken(t *testing.T) {
	r := newTestRouter(NewTokenManager("s", time.Hour))

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareInvalidToken(t *testing.T) {
	r := newTestRouter(NewTokenManager("s", time.Hour))

	w := doRequest(r, "bogus")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMiddlewareExpiredToken(t *testing.T) {
	expired := NewTokenManager("s", -time.Minute)
	token, err := expired.Issue(&models.User{ID: "u-1", Role: models.RoleEmployee})
	require.NoError(t, err)

	r := newTestRouter(NewTokenManager("s", time.Hour))
	w := doRequest(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	tm := NewTokenManager("s", time.Hour)
	token, err := tm.Issue(&models.User{ID: "u-7", Role: models.RoleEmployee})
	require.NoError(t, err)

	w := doRequest(newTestRouter(tm), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-7")
}

func TestRequireLead(t *testing.T) {
	tm := NewTokenManager("s", time.Hour)
	r := newTestRouter(tm)

	tests := []struct {
		role string
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleTeamLead, http.StatusOK},
		{models.RoleEmployee, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, err := tm.Issue(&models.User{ID: "u-1", Role: tt.role})
			require.NoError(t, err)

			w := doRequestPath(r, "/admin", token)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
