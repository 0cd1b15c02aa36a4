package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"callbot-management/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestRouter(t *testing.T, isBlacklisted BlacklistChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("/", RequireAuth(isBlacklisted))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString(ContextUserID),
			"isRoot": c.GetBool(ContextIsRoot),
		})
	})
	protected.GET("/admin", RequireRoot(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doAuthRequest(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingToken(t *testing.T) {
	r := authTestRouter(t, nil)

	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(r, "/me", "Basic abc").Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r := authTestRouter(t, nil)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(r, "/me", "Bearer not-a-token").Code)
}

func TestRequireAuthSetsContext(t *testing.T) {
	token, err := utils.GenerateAccessToken("admin01", true)
	require.NoError(t, err)

	r := authTestRouter(t, nil)
	w := doAuthRequest(r, "/me", "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"admin01"`)
	assert.Contains(t, w.Body.String(), `"isRoot":true`)
}

func TestRequireAuthRejectsBlacklisted(t *testing.T) {
	token, err := utils.GenerateAccessToken("admin01", false)
	require.NoError(t, err)

	r := authTestRouter(t, func(c *gin.Context, got string) bool { return got == token })
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(r, "/me", "Bearer "+token).Code)
}

func TestRequireRootForbidsRegularAccount(t *testing.T) {
	token, err := utils.GenerateAccessToken("staff01", false)
	require.NoError(t, err)

	r := authTestRouter(t, nil)
	assert.Equal(t, http.StatusForbidden, doAuthRequest(r, "/admin", "Bearer "+token).Code)
}

func TestRequireRootAllowsRoot(t *testing.T) {
	token, err := utils.GenerateAccessToken("admin01", true)
	require.NoError(t, err)

	r := authTestRouter(t, nil)
	assert.Equal(t, http.StatusOK, doAuthRequest(r, "/admin", "Bearer "+token).Code)
}
