package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values for staff accounts. Students do not hold accounts; they submit
// applications through the OTP-verified public form.
const (
	RoleFPC   = "FPC"
	RoleHOD   = "HOD"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	Name                string `gorm:"default:''"`
	Email               string `gorm:"unique;not null"`
	Mobile              string `gorm:"default:''"`
	Role                string `gorm:"default:'FPC'"` // FPC, HOD, ADMIN
	Department          string `gorm:"default:''"`
	Password            string `gorm:"not null"`
	IsEmailVerified     bool   `gorm:"default:false"`
	LastLogin           time.Time
	FailedLoginAttempts int  `gorm:"default:0"`
	IsBlocked           bool `gorm:"default:false"`
	IsDeleted           bool `gorm:"default:false"`
}
