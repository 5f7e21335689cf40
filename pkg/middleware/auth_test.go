package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fastmoni/donation-api/internal/model"
	"fastmoni/donation-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	d, err := gorm.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	require.NoError(t, d.AutoMigrate(model.User{}, model.Session{}))

	return d
}

func newTokenService(t *testing.T, accessExpiry time.Duration) *security.TokenService {
	t.Helper()

	viper.Set("token.access_secret", "test-access-secret")
	viper.Set("token.refresh_secret", "test-refresh-secret")
	viper.Set("token.access_expiry", accessExpiry)
	viper.Set("token.refresh_expiry", time.Hour)
	viper.Set("token.issuer", "fastmoni.com")

	return security.NewTokenService()
}

func setupRouter(d *gorm.DB, tokens *security.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.GET("/protected", NewAuthMiddleware(d, tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserID))
	})

	return r
}

func seedUserWithSession(t *testing.T, d *gorm.DB, tokens *security.TokenService) (userID, accessToken string) {
	t.Helper()

	viper.Set("security.argon_memory", 8*1024)
	viper.Set("security.argon_iterations", 1)

	user := model.User{ID: "user-1", Email: "a@x.com", Password: "secret1", FullName: "Ada Lovelace"}
	require.NoError(t, d.Create(&user).Error)

	issued, err := tokens.IssueAccessToken(user.ID, user.Email)
	require.NoError(t, err)

	require.NoError(t, d.Create(&model.Session{UserID: user.ID, AccessToken: &issued}).Error)

	return user.ID, issued
}

func doProtected(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func messageOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Message
}

func TestAuth_NoHeader(t *testing.T) {
	d := newTestDB(t)
	tokens := newTokenService(t, time.Hour)
	r := setupRouter(d, tokens)

	rr := doProtected(r, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "No Token found", messageOf(t, rr))
}

func TestAuth_MalformedHeader(t *testing.T) {
	d := newTestDB(t)
	tokens := newTokenService(t, time.Hour)
	r := setupRouter(d, tokens)

	rr := doProtected(r, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "No Token found", messageOf(t, rr))
}

func TestAuth_InvalidToken(t *testing.T) {
	d := newTestDB(t)
	tokens := newTokenService(t, time.Hour)
	r := setupRouter(d, tokens)

	rr := doProtected(r, "Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid token", messageOf(t, rr))
}

func TestAuth_ExpiredToken(t *testing.T) {
	d := newTestDB(t)

	expiredSvc := newTokenService(t, -time.Minute)
	issued, err := expiredSvc.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)

	r := setupRouter(d, expiredSvc)

	rr := doProtected(r, issued)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Expired token", messageOf(t, rr))
}

func TestAuth_TokenWithoutSession(t *testing.T) {
	d := newTestDB(t)
	tokens := newTokenService(t, time.Hour)
	r := setupRouter(d, tokens)

	viper.Set("security.argon_memory", 8*1024)
	viper.Set("security.argon_iterations", 1)

	user := model.User{ID: "user-1", Email: "a@x.com", Password: "secret1", FullName: "Ada Lovelace"}
	require.NoError(t, d.Create(&user).Error)

	// Verifies fine but no session row holds it
	issued, err := tokens.IssueAccessToken(user.ID, user.Email)
	require.NoError(t, err)

	rr := doProtected(r, issued)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid token", messageOf(t, rr))
}

func TestAuth_ValidToken(t *testing.T) {
	d := newTestDB(t)
	tokens := newTokenService(t, time.Hour)
	r := setupRouter(d, tokens)

	userID, issued := seedUserWithSession(t, d, tokens)

	rr := doProtected(r, issued)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, userID, rr.Body.String())
}

func TestAuth_StaleTokenAfterRotation(t *testing.T) {
	d := newTestDB(t)
	tokens := newTokenService(t, time.Hour)
	r := setupRouter(d, tokens)

	userID, issued := seedUserWithSession(t, d, tokens)

	// Rotate: the session now stores a different token
	rotated, err := tokens.IssueAccessToken(userID, "a@x.com")
	require.NoError(t, err)
	require.NoError(t, d.Model(&model.Session{}).
		Where("user_id = ?", userID).
		Update("access_token", rotated).Error)

	// Tokens only differ when iat/exp differ, both are second-resolution
	if strings.Compare(issued, rotated) == 0 {
		t.Skip("tokens issued within the same second")
	}

	rr := doProtected(r, issued)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid token", messageOf(t, rr))
}
