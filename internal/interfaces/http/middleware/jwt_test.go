package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backend/internal/infrastructure/auth"
	"github.com/orderdesk/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthedEngine(t *testing.T, skipPaths ...string) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-0123456789abcdef",
		Expiration: time.Hour,
		Issuer:     "orderdesk-test",
	})

	engine := gin.New()
	engine.Use(JWTAuth(jwtService, skipPaths...))
	engine.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"admin":   IsAdmin(c),
		})
	})
	engine.GET("/public", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine, jwtService
}

func doRequest(engine *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	engine, jwtService := newAuthedEngine(t)
	token, _, err := jwtService.GenerateToken("u-1", "alice", true)
	require.NoError(t, err)

	w := doRequest(engine, "/protected", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
	assert.Contains(t, w.Body.String(), `"admin":true`)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	engine, _ := newAuthedEngine(t)

	w := doRequest(engine, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	engine, _ := newAuthedEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, "Basic abc123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	engine, _ := newAuthedEngine(t)

	w := doRequest(engine, "/protected", "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_SkipPath(t *testing.T) {
	engine, _ := newAuthedEngine(t, "/public")

	w := doRequest(engine, "/public", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIsAdmin_DefaultsFalse(t *testing.T) {
	engine, jwtService := newAuthedEngine(t)
	token, _, err := jwtService.GenerateToken("u-2", "bob", false)
	require.NoError(t, err)

	w := doRequest(engine, "/protected", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"admin":false`)
}
