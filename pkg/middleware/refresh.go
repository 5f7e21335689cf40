package middleware

import (
	"errors"
	"net/http"

	"fastmoni/donation-api/internal/model"
	"fastmoni/donation-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type refreshBody struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// NewRefreshMiddleware authenticates requests by the refresh token
// carried in the JSON body. On top of signature verification the
// provided token must equal the one stored on the session record,
// which kills stale tokens after a rotation.
func NewRefreshMiddleware(d *gorm.DB, tokens *security.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		var body refreshBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "No Token found",
				"payload": nil,
				"status":  http.StatusUnauthorized,
			})
			return
		}

		claims, err := tokens.VerifyRefreshToken(body.RefreshToken)
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

			zap.L().Debug("Rejected refresh token",
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

		var session model.Session
		err = d.Where("user_id = ? AND refresh_token IS NOT NULL", user.ID).First(&session).Error
		if err != nil {
			abortInvalidToken(c, requestID, err)
			return
		}

		if session.RefreshToken == nil || *session.RefreshToken != body.RefreshToken {
			abortInvalidToken(c, requestID, gorm.ErrRecordNotFound)
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUser, &user)
		c.Set(CtxSession, &session)
		c.Next()
	}
}
