package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session holds the pending OTP and the currently issued token pair
// for a user. There is at most one row per user, tokens and otp are
// last-write-wins.
type Session struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	UserID       string  `gorm:"uniqueIndex;not null" json:"user_id"`
	Otp          *int    `json:"-"`
	AccessToken  *string `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
