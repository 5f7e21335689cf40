package api

import (
	"errors"
	"net/http"

	"fastmoni/donation-api/internal/model"
	"fastmoni/donation-api/pkg/util"
	"fastmoni/donation-api/validators"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type verifyOtpBody struct {
	Email string `json:"email" binding:"required"`
	Otp   int    `json:"otp" binding:"required"`
}

// VerifyOtp checks the signup code and activates the account. The
// wallet creation, the verified flag and clearing the code are one
// transaction, a half-verified account must not exist.
func (a *API) VerifyOtp(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data verifyOtpBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respondErr(c, http.StatusBadRequest, validators.FormatBindingError(err))
		return
	}

	var user model.User

	if err := a.DB.Where("email = ?", data.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondErr(c, http.StatusBadRequest, "Invalid email or password")
			return
		}

		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var session model.Session

	if err := a.DB.Where("user_id = ? AND otp = ?", user.ID, data.Otp).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondErr(c, http.StatusBadRequest, "Invalid OTP")
			return
		}

		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to look up session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		number, err := drawWalletNumber(tx)
		if err != nil {
			return err
		}

		if err := tx.Create(&model.Wallet{
			OwnerID:      user.ID,
			WalletNumber: number,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Update("is_verified", true).Error; err != nil {
			return err
		}

		return tx.Model(&model.Session{}).
			Where("user_id = ?", user.ID).
			Update("otp", nil).Error
	})
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to verify user in transaction", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusOK, "Verified successfully", nil)
}

// drawWalletNumber picks a wallet number that is not taken yet.
// Draws are random with no uniqueness by construction, so redraw a
// few times before giving up.
func drawWalletNumber(tx *gorm.DB) (int64, error) {
	min := viper.GetInt("otp.min")
	max := viper.GetInt("otp.max")

	for attempt := 0; attempt < 5; attempt++ {
		number, err := util.GenerateWalletNumber(min, max)
		if err != nil {
			return 0, err
		}

		var taken int64
		if err := tx.Model(&model.Wallet{}).
			Where("wallet_number = ?", number).
			Count(&taken).Error; err != nil {
			return 0, err
		}

		if taken == 0 {
			return number, nil
		}
	}

	return 0, errors.New("failed to draw a free wallet number")
}
