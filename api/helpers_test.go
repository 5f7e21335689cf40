package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fastmoni/donation-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// testOtp matches otp.default_code, the code every signup gets
// outside production/staging.
const testOtp = 123456

type envelope struct {
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
	Status  int             `json:"status"`
}

type sessionTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IssuedAt     int64  `json:"issued_at"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    string `json:"expires_at"`
}

// newTestAPI spins up the full router against a fresh in-memory
// database.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("app.environment", "test")
	viper.Set("database.path", ":memory:")
	viper.Set("token.access_secret", "test-access-secret")
	viper.Set("token.refresh_secret", "test-refresh-secret")
	viper.Set("token.access_expiry", 720*time.Hour)
	viper.Set("token.refresh_expiry", 8760*time.Hour)
	viper.Set("token.issuer", "fastmoni.com")
	viper.Set("otp.min", 100000)
	viper.Set("otp.max", 900000)
	viper.Set("otp.default_code", testOtp)
	viper.Set("security.argon_memory", 8*1024)
	viper.Set("security.argon_iterations", 1)
	viper.Set("mail.workers", 1)
	viper.Set("mail.queue_size", 8)

	a, err := NewRouter()
	require.NoError(t, err)

	return a
}

func do(t *testing.T, a *API, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		_ = json.Unmarshal(rr.Body.Bytes(), &env)
	}

	return rr, env
}

// registerVerified walks a user through signup and OTP verification
// and returns the stored record.
func registerVerified(t *testing.T, a *API, email, password, name string) model.User {
	t.Helper()

	rr, _ := do(t, a, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":     email,
		"password":  password,
		"full_name": name,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, _ = do(t, a, http.MethodPost, "/api/v1/auth/verify", "", gin.H{
		"email": email,
		"otp":   testOtp,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var user model.User
	require.NoError(t, a.DB.Where("email = ?", email).First(&user).Error)

	return user
}

func signinUser(t *testing.T, a *API, email, password string) sessionTokens {
	t.Helper()

	rr, env := do(t, a, http.MethodPost, "/api/v1/auth/signin", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var tokens sessionTokens
	require.NoError(t, json.Unmarshal(env.Payload, &tokens))

	return tokens
}

func setPin(t *testing.T, a *API, userID, token string, pin int) {
	t.Helper()

	rr, _ := do(t, a, http.MethodPost, "/api/v1/user/"+userID+"/pin", token, gin.H{
		"account_pin": pin,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
}

func walletOf(t *testing.T, a *API, userID string) model.Wallet {
	t.Helper()

	var wallet model.Wallet
	require.NoError(t, a.DB.Where("owner_id = ?", userID).First(&wallet).Error)

	return wallet
}
