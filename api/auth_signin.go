package api

import (
	"fmt"
	"net/http"
	"time"

	"fastmoni/donation-api/internal/model"
	"fastmoni/donation-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signinBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signin authenticates a verified user and hands out a fresh token
// pair. Unverified accounts fail the same way wrong credentials do.
func (a *API) Signin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signinBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respondErr(c, http.StatusBadRequest, validators.FormatBindingError(err))
		return
	}

	var user model.User

	if err := a.DB.Where("email = ? AND is_verified = ?", data.Email, true).First(&user).Error; err != nil {
		respondErr(c, http.StatusBadRequest, "Invalid email or password")
		return
	}

	ok, err := a.Argon.VerifyPasswd(data.Password, user.Password)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		respondErr(c, http.StatusBadRequest, "Invalid email or password")
		return
	}

	payload, err := a.issueSessionTokens(&user)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to issue session tokens", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusOK, "successful", payload)
}

// issueSessionTokens signs a new access/refresh pair, persists it on
// the user's session row (last-write-wins) and builds the response
// payload with the expiry metadata.
func (a *API) issueSessionTokens(user *model.User) (gin.H, error) {
	accessToken, err := a.Tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := a.Tokens.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(a.Tokens.AccessExpiry())

	res := a.DB.Model(&model.Session{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]any{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		err := a.DB.Create(&model.Session{
			UserID:       user.ID,
			AccessToken:  &accessToken,
			RefreshToken: &refreshToken,
		}).Error
		if err != nil {
			return nil, fmt.Errorf("failed to create session, %w", err)
		}
	}

	return gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"issued_at":     now.Unix(),
		"expires_in":    expiresAt.Unix(),
		"expires_at":    expiresAt.UTC().Format(time.RFC3339),
		"user":          user,
	}, nil
}
