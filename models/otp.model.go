package models

import (
	"time"

	"gorm.io/gorm"
)

type EmailOTP struct {
	gorm.Model
	Email       string    `gorm:"size:100;index;not null" json:"email"`
	Mobile      string    `gorm:"size:15;index" json:"mobile,omitempty"`
	Code        string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	IsVerified  bool      `gorm:"default:false" json:"is_verified"`
	IsUsed      bool      `gorm:"default:false" json:"is_used"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	IsDeleted   bool      `gorm:"default:false" json:"-"`
}
