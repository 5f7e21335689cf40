package model

import (
	"time"

	"fastmoni/donation-api/pkg/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donation is an immutable ledger entry. Rows are only ever inserted.
type Donation struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Date          time.Time `gorm:"not null" json:"date"`
	TxnID         string    `gorm:"uniqueIndex;not null" json:"txn_id"`
	SenderID      string    `gorm:"index;not null" json:"sender_id"`
	BeneficiaryID string    `gorm:"index;not null" json:"beneficiary_id"`
	AmountDonated int64     `json:"amount_donated"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	if d.Date.IsZero() {
		d.Date = time.Now()
	}

	if d.TxnID == "" {
		txnID, err := util.GenerateTxnID()
		if err != nil {
			return err
		}
		d.TxnID = txnID
	}

	return nil
}
