package api

import (
	"errors"
	"net/http"

	"fastmoni/donation-api/internal/model"
	"fastmoni/donation-api/internal/service"
	"fastmoni/donation-api/pkg/middleware"
	"fastmoni/donation-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// thankYouThreshold is how many earlier donations to the same
// beneficiary trigger the thank-you mail.
const thankYouThreshold = 2

type donateBody struct {
	WalletNumber  int64 `json:"wallet_number" binding:"required"`
	Pin           int   `json:"pin" binding:"required"`
	AmountDonated int64 `json:"amount_donated" binding:"required,min=10"`
}

var (
	errAccountNotFound = errors.New("Account not found")
	errWalletNotFound  = errors.New("Wallet not found")
	errInvalidAccount  = errors.New("Invalid account details")
)

// Donate transfers funds from the authenticated sender into the
// wallet identified by wallet_number. The donation row and the
// balance update commit together or not at all, and the balance is
// bumped with an atomic in-database increment so concurrent
// donations to one wallet cannot lose writes.
func (a *API) Donate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	senderID := c.MustGet(middleware.CtxUserID).(string)

	var data donateBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respondErr(c, http.StatusBadRequest, validators.FormatBindingError(err))
		return
	}

	if err := validators.PinValidator(data.Pin); err != nil {
		respondErr(c, http.StatusBadRequest, err.Error())
		return
	}

	var (
		sender      model.User
		beneficiary model.User
		wallet      model.Wallet
		donation    model.Donation
		priorCount  int64
	)

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		// A wrong PIN is indistinguishable from a missing account on purpose
		if err := tx.Where("id = ? AND account_pin = ?", senderID, data.Pin).
			First(&sender).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errAccountNotFound
			}
			return err
		}

		if err := tx.Where("wallet_number = ?", data.WalletNumber).
			First(&wallet).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errWalletNotFound
			}
			return err
		}

		if err := tx.Where("id = ?", wallet.OwnerID).
			First(&beneficiary).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errAccountNotFound
			}
			return err
		}

		if err := tx.Model(&model.Donation{}).
			Where("sender_id = ? AND beneficiary_id = ?", sender.ID, beneficiary.ID).
			Count(&priorCount).Error; err != nil {
			return err
		}

		donation = model.Donation{
			SenderID:      sender.ID,
			BeneficiaryID: beneficiary.ID,
			AmountDonated: data.AmountDonated,
		}

		if err := tx.Create(&donation).Error; err != nil {
			zap.L().Error("Failed to create donation row",
				zap.Error(err),
				zap.String("requestID", requestID))
			return errInvalidAccount
		}

		return tx.Model(&model.Wallet{}).
			Where("id = ?", wallet.ID).
			UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", data.AmountDonated)).
			Error
	})
	if err != nil {
		switch err {
		case errAccountNotFound, errWalletNotFound:
			respondErr(c, http.StatusNotFound, err.Error())
		case errInvalidAccount:
			respondErr(c, http.StatusBadRequest, err.Error())
		default:
			respondErr(c, http.StatusInternalServerError, "Internal server error")

			zap.L().Error("Donate transaction failed", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	// Repeat donors earn the beneficiary a thank-you note. Dispatch is
	// fire-and-forget, the response never waits on SMTP
	if priorCount > thankYouThreshold {
		a.Mail.Enqueue(&service.ThankYouMail{
			To:              sender.Email,
			BeneficiaryName: beneficiary.FullName,
		})
	}

	respond(c, http.StatusCreated, "Donated successfully", gin.H{
		"txn_id":                     donation.TxnID,
		"donated_amount":             donation.AmountDonated,
		"sender_name":                sender.FullName,
		"beneficiary_name":           beneficiary.FullName,
		"beneficiary_account_number": wallet.WalletNumber,
	})
}
