package api

import (
	"net/http"

	"fastmoni/donation-api/internal/model"
	"fastmoni/donation-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type createPinBody struct {
	AccountPin int `json:"account_pin" binding:"required"`
}

// CreatePin sets the 4-digit PIN donations are authorized with.
func (a *API) CreatePin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data createPinBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respondErr(c, http.StatusBadRequest, validators.FormatBindingError(err))
		return
	}

	if err := validators.PinValidator(data.AccountPin); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}

	var user model.User

	if err := a.DB.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondErr(c, http.StatusNotFound, "Account not found")
			return
		}

		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.DB.Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("account_pin", data.AccountPin).Error; err != nil {
		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to set account pin", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusCreated, "pin created successfully", nil)
}
