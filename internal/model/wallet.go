package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wallet is created only once a user passed OTP verification.
type Wallet struct {
	ID            string `gorm:"primaryKey" json:"id"`
	OwnerID       string `gorm:"uniqueIndex;not null" json:"owner_id"`
	WalletNumber  int64  `gorm:"uniqueIndex;not null" json:"wallet_number"`
	WalletBalance int64  `gorm:"default:0" json:"wallet_balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
