package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenClaims is the payload carried by both access and refresh
// tokens. The audience holds the user ID, email is a custom claim.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the audience entry the token was issued for.
func (c *TokenClaims) UserID() string {
	if len(c.Audience) == 0 {
		return ""
	}
	return c.Audience[0]
}

// TokenService signs and verifies the access/refresh token pair.
// The two token kinds use independent secrets and expiries.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
}

func NewTokenService() *TokenService {
	return &TokenService{
		accessSecret:  []byte(viper.GetString("token.access_secret")),
		refreshSecret: []byte(viper.GetString("token.refresh_secret")),
		accessExpiry:  viper.GetDuration("token.access_expiry"),
		refreshExpiry: viper.GetDuration("token.refresh_expiry"),
		issuer:        viper.GetString("token.issuer"),
	}
}

// AccessExpiry reports the configured access token lifetime. Used to
// derive the expiry metadata returned on signin.
func (s *TokenService) AccessExpiry() time.Duration {
	return s.accessExpiry
}

// IssueAccessToken signs a new access token for the given user. The
// returned string carries the "Bearer " scheme marker so it can be
// handed to clients as-is.
func (s *TokenService) IssueAccessToken(userID, email string) (string, error) {
	return s.issue(userID, email, s.accessSecret, s.accessExpiry)
}

// IssueRefreshToken is IssueAccessToken with the refresh secret and
// the long expiry.
func (s *TokenService) IssueRefreshToken(userID, email string) (string, error) {
	return s.issue(userID, email, s.refreshSecret, s.refreshExpiry)
}

func (s *TokenService) issue(userID, email string, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()

	claims := &TokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{userID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token, %w", err)
	}

	return "Bearer " + signed, nil
}

// VerifyAccessToken checks the signature and expiry of an access
// token and returns its claims. A leading "Bearer " marker is
// stripped. Expired tokens fail with ErrTokenExpired, everything
// else with ErrTokenInvalid.
func (s *TokenService) VerifyAccessToken(raw string) (*TokenClaims, error) {
	return s.verify(raw, s.accessSecret)
}

// VerifyRefreshToken is VerifyAccessToken against the refresh secret.
func (s *TokenService) VerifyRefreshToken(raw string) (*TokenClaims, error) {
	return s.verify(raw, s.refreshSecret)
}

func (s *TokenService) verify(raw string, secret []byte) (*TokenClaims, error) {
	raw = StripBearer(raw)

	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// StripBearer removes the "Bearer " scheme marker from a token
// issued by this service.
func StripBearer(raw string) string {
	return strings.TrimPrefix(raw, "Bearer ")
}
