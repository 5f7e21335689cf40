package api

import (
	"net/http"

	"fastmoni/donation-api/internal/model"
	"fastmoni/donation-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Refresh rotates the token pair. The refresh middleware already
// verified the provided token against both the refresh secret and
// the stored session record.
func (a *API) Refresh(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	user := c.MustGet(middleware.CtxUser).(*model.User)

	payload, err := a.issueSessionTokens(user)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to rotate session tokens", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusOK, "successful", payload)
}
