package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtstd "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/eventhub/logging/logger"
	securityjwt "github.com/eventhub/eventhub/security/jwt"
)

const testKey = "test-signing-key"

func newProtectedRouter(tm *securityjwt.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(tm, logger.StdLogger()), func(c *gin.Context) {
		id, _ := GetCurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func doRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	tm := securityjwt.NewTokenManager(testKey, time.Hour)
	r := newProtectedRouter(tm)

	token, err := tm.Issue(securityjwt.Identity{UserID: "user-1", Username: "alice"})
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UserID string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body.UserID)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	tm := securityjwt.NewTokenManager(testKey, time.Hour)
	r := newProtectedRouter(tm)

	for name, header := range map[string]string{
		"no header":      "",
		"empty bearer":   "Bearer",
		"blank bearer":   "Bearer ",
		"other scheme":   "Basic dXNlcjpwYXNz",
		"token no space": "Bearertoken",
	} {
		w := doRequest(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.Equal(t, MsgNoToken, errorMessage(t, w), name)
	}
}

func TestAuthMiddlewareTokenOutsideHeader(t *testing.T) {
	tm := securityjwt.NewTokenManager(testKey, time.Hour)
	r := newProtectedRouter(tm)

	token, err := tm.Issue(securityjwt.Identity{UserID: "user-1"})
	require.NoError(t, err)

	// A valid token in the query string is not an accepted transport.
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, MsgNoToken, errorMessage(t, w))
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	tm := securityjwt.NewTokenManager(testKey, time.Hour)
	r := newProtectedRouter(tm)

	expired, err := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, jwtstd.MapClaims{
		"sub": "access",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
		"payload": map[string]any{
			"user_id":  "user-1",
			"username": "alice",
		},
	}).SignedString([]byte(testKey))
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, MsgTokenExpired, errorMessage(t, w))
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	tm := securityjwt.NewTokenManager(testKey, time.Hour)
	r := newProtectedRouter(tm)

	other := securityjwt.NewTokenManager("some-other-key", time.Hour)
	forged, err := other.Issue(securityjwt.Identity{UserID: "user-1"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":   "not-a-jwt",
		"wrong key": forged,
	} {
		w := doRequest(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.Equal(t, MsgTokenInvalid, errorMessage(t, w), name)
	}
}

func TestExtractBearer(t *testing.T) {
	token, ok := extractBearer("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "Bearer", "bearer abc", "Token abc"} {
		_, ok := extractBearer(header)
		assert.False(t, ok, header)
	}
}
