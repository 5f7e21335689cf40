package api

import (
	"net/http"
	"strconv"
	"time"

	"fastmoni/donation-api/internal/model"
	"fastmoni/donation-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// donationRow is a donation joined with the beneficiary's public
// fields, the only user data listings expose.
type donationRow struct {
	ID               string    `json:"id"`
	Date             time.Time `json:"date"`
	TxnID            string    `json:"txn_id"`
	SenderID         string    `json:"sender_id"`
	BeneficiaryID    string    `json:"beneficiary_id"`
	AmountDonated    int64     `json:"amount_donated"`
	BeneficiaryName  string    `json:"beneficiary_name"`
	BeneficiaryEmail string    `json:"beneficiary_email"`
}

const donationSelect = "donations.id, donations.date, donations.txn_id, donations.sender_id, " +
	"donations.beneficiary_id, donations.amount_donated, " +
	"users.full_name AS beneficiary_name, users.email AS beneficiary_email"

func donationQuery(d *gorm.DB) *gorm.DB {
	return d.Model(&model.Donation{}).
		Select(donationSelect).
		Joins("JOIN users ON users.id = donations.beneficiary_id")
}

// pageParams reads page/limit from the query string. Anything that
// doesn't parse to a usable number falls back to the defaults, the
// same way the old deployment coerced falsy values.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.Query("limit"))
	if limit < 1 {
		limit = 10
	}

	return page, limit
}

// DonationList returns the caller's donations, newest first,
// paginated.
func (a *API) DonationList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	senderID := c.MustGet(middleware.CtxUserID).(string)

	page, limit := pageParams(c)

	var rows []donationRow

	err := donationQuery(a.DB).
		Where("donations.sender_id = ?", senderID).
		Order("donations.date DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&rows).Error
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to list donations", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(rows) == 0 {
		respondErr(c, http.StatusNotFound, "Donations not found")
		return
	}

	respond(c, http.StatusOK, "success", rows)
}
