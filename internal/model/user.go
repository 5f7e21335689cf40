// Package model defines database models
package model

import (
	"strings"
	"time"

	"fastmoni/donation-api/pkg/security"

	"gorm.io/gorm"
)

type User struct {
	ID         string `gorm:"primaryKey" json:"id"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Password   string `gorm:"not null" json:"-"`
	FullName   string `gorm:"not null" json:"full_name"`
	IsVerified bool   `gorm:"default:false" json:"is_verified"`
	AccountPin *int   `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave hashes the password whenever it is set or changed so
// plaintext never reaches the database. Already-encoded hashes are
// recognized by their PHC prefix and left alone.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password == "" || strings.HasPrefix(u.Password, "$argon2id$") {
		return nil
	}

	hash, err := security.New().GenerateFromPassword(u.Password)
	if err != nil {
		return err
	}

	u.Password = hash
	return nil
}
