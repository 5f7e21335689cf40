package api

import (
	"net/http"

	"fastmoni/donation-api/config"
	"fastmoni/donation-api/internal/model"
	"fastmoni/donation-api/pkg/util"
	"fastmoni/donation-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type signupBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// Signup registers a new account, or re-issues an OTP for an email
// that signed up earlier but never verified. Verified accounts are
// rejected. The OTP itself never leaves the server through this
// response.
func (a *API) Signup(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signupBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respondErr(c, http.StatusBadRequest, validators.FormatBindingError(err))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		zap.L().Debug("Invalid email", zap.Error(err), zap.String("requestID", requestID))

		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		zap.L().Debug("Invalid password", zap.Error(err), zap.String("requestID", requestID))

		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}

	var user model.User

	err := a.DB.Where("email = ?", data.Email).First(&user).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			respondErr(c, http.StatusInternalServerError, "Internal server error")

			zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		userID, err := gonanoid.Generate(charset, 16)
		if err != nil {
			respondErr(c, http.StatusInternalServerError, "Internal server error")

			zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		user = model.User{
			ID:       userID,
			Email:    data.Email,
			Password: data.Password,
			FullName: data.FullName,
		}

		if err := a.DB.Create(&user).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, "Internal server error")

			zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	if user.IsVerified {
		respondErr(c, http.StatusBadRequest, "Account already registered with us")
		return
	}

	code, err := a.signupOtp()
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to generate OTP", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// One session row per user, the code is last-write-wins
	var session model.Session

	err = a.DB.Where("user_id = ?", user.ID).First(&session).Error
	switch err {
	case nil:
		err = a.DB.Model(&session).Update("otp", code).Error
	case gorm.ErrRecordNotFound:
		err = a.DB.Create(&model.Session{UserID: user.ID, Otp: &code}).Error
	}

	if err != nil {
		respondErr(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to store OTP on session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusCreated, "success", nil)
}

// signupOtp draws a real code in production and staging. Everywhere
// else the configured default code is used so tests and local
// clients don't need a mailbox.
func (a *API) signupOtp() (int, error) {
	if config.IsProductionOrStaging() {
		return util.GenerateOTP(viper.GetInt("otp.min"), viper.GetInt("otp.max"))
	}

	return viper.GetInt("otp.default_code"), nil
}
