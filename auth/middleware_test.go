package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func guardRouter(issuer *Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("/")
	protected.Use(RequireAuth(issuer))
	protected.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString(CtxUserID), "role": c.GetString(CtxRole)})
	})
	protected.GET("/teacher", RequireRole("teacher"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	return doRequestPath(r, token, "/open")
}

func doRequestPath(r *gin.Engine, token, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthNoToken(t *testing.T) {
	r := guardRouter(NewIssuer("secret", time.Minute))

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization token required")
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r := guardRouter(NewIssuer("secret", time.Minute))

	w := doRequest(r, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	expired := NewIssuer("secret", -time.Minute)
	token, err := expired.Issue("user-1", "teacher")
	assert.NoError(t, err)

	r := guardRouter(NewIssuer("secret", time.Minute))
	w := doRequest(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRequireAuthValidToken(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	token, err := issuer.Issue("user-1", "teacher")
	assert.NoError(t, err)

	w := doRequest(guardRouter(issuer), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
	assert.Contains(t, w.Body.String(), "teacher")
}

func TestRequireRoleMismatch(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	token, err := issuer.Issue("user-1", "student")
	assert.NoError(t, err)

	w := doRequestPath(guardRouter(issuer), token, "/teacher")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleMatch(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	token, err := issuer.Issue("user-1", "teacher")
	assert.NoError(t, err)

	w := doRequestPath(guardRouter(issuer), token, "/teacher")
	assert.Equal(t, http.StatusOK, w.Code)
}

// The token check always runs before the role check: a request with no
// token on a role-guarded route is 401, never 403.
func TestGuardOrdering(t *testing.T) {
	r := guardRouter(NewIssuer("secret", time.Minute))

	w := doRequestPath(r, "", "/teacher")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequestPath(r, "bad-token", "/teacher")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
