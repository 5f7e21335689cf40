package api

import (
	"net/http"

	"fastmoni/donation-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DonationGet returns a single donation by ID, but only to the user
// who sent it.
func (a *API) DonationGet(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	senderID := c.MustGet(middleware.CtxUserID).(string)

	var row donationRow

	err := donationQuery(a.DB).
		Where("donations.id = ? AND donations.sender_id = ?", c.Param("id"), senderID).
		Scan(&row).Error
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to get donation", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if row.ID == "" {
		respondErr(c, http.StatusNotFound, "Donation not found")
		return
	}

	respond(c, http.StatusOK, "success", row)
}
