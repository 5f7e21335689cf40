package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// DonationsByDate lists donations whose date falls inside
// [startDate, endDate], both inclusive, paginated.
func (a *API) DonationsByDate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	start, err := time.Parse(dateLayout, c.Query("startDate"))
	if err != nil {
		respondErr(c, http.StatusBadRequest, "startDate must be a date of the form YYYY-MM-DD")
		return
	}

	end, err := time.Parse(dateLayout, c.Query("endDate"))
	if err != nil {
		respondErr(c, http.StatusBadRequest, "endDate must be a date of the form YYYY-MM-DD")
		return
	}

	page, limit := pageParams(c)

	var rows []donationRow

	// endDate is a day, inclusive, so match everything before the
	// following midnight
	err = donationQuery(a.DB).
		Where("donations.date >= ? AND donations.date < ?", start, end.AddDate(0, 0, 1)).
		Order("donations.date DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&rows).Error
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to list donations by date", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(rows) == 0 {
		respondErr(c, http.StatusNotFound, "Donation not found")
		return
	}

	respond(c, http.StatusOK, "success", rows)
}
