package middleware

import (
	"errors"
	"net/http"
	"strings"

	"fastmoni/donation-api/internal/model"
	"fastmoni/donation-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context keys set for downstream handlers once a request passed
// authentication.
const (
	CtxUserID  = "authUserID"
	CtxUser    = "authUser"
	CtxSession = "authSession"
)

// NewAuthMiddleware authenticates requests carrying a bearer access
// token. The token must verify against the access secret AND match a
// live session row, so tokens from deleted sessions die immediately.
func NewAuthMiddleware(d *gorm.DB, tokens *security.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		header := c.GetHeader("Authorization")

		bearer, signature, found := strings.Cut(header, " ")
		if !found || bearer != "Bearer" || signature == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "No Token found",
				"payload": nil,
				"status":  http.StatusUnauthorized,
			})
			return
		}

		claims, err := tokens.VerifyAccessToken(signature)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, security.ErrTokenExpired) {
				msg = "Expired token"
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": msg,
				"payload": nil,
				"status":  http.StatusUnauthorized,
			})

			zap.L().Debug("Rejected access token",
				zap.Error(err),
				zap.String("requestID", requestID))
			return
		}

		var user model.User
		err = d.Where("id = ? AND email = ?", claims.UserID(), claims.Email).First(&user).Error
		if err != nil {
			abortInvalidToken(c, requestID, err)
			return
		}

		// The session must still hold the exact token that was issued,
		// signing in again invalidates older tokens
		var session model.Session
		err = d.Where("user_id = ? AND access_token = ?", user.ID, header).First(&session).Error
		if err != nil {
			abortInvalidToken(c, requestID, err)
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUser, &user)
		c.Set(CtxSession, &session)
		c.Next()
	}
}

func abortInvalidToken(c *gin.Context, requestID string, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Invalid token",
		"payload": nil,
		"status":  http.StatusUnauthorized,
	})

	if err != gorm.ErrRecordNotFound {
		zap.L().Error("Failed to resolve token owner",
			zap.Error(err),
			zap.String("requestID", requestID))
	}
}
