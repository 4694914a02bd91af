package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents a registered patient account
// @Description User account information
type User struct {
	gorm.Model
	UserID      string `json:"user_id" gorm:"column:user_id;type:varchar(36);uniqueIndex" example:"6f1c2a9e-8b4d-4c1f-9d2e-3a5b7c9d1e2f"`
	Email       string `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex" example:"patient@example.com"`
	Password    string `json:"-" gorm:"column:password"`
	FullName    string `json:"full_name" gorm:"column:full_name" example:"Jane Doe"`
	PhoneNumber string `json:"phone_number" gorm:"column:phone_number" example:"081234567890"`
	DateOfBirth string `json:"date_of_birth" gorm:"column:date_of_birth" example:"1998-04-12"`
	Gender      string `json:"gender" gorm:"column:gender" example:"female"`
	// SkinType is the self-reported default used when a diagnosis request
	// carries no clinical metadata.
	SkinType       string            `json:"skin_type" gorm:"column:skin_type" example:"oily"`
	Preferences    datatypes.JSONMap `json:"preferences" gorm:"column:preferences;type:json"`
	IsActive       bool              `json:"is_active" gorm:"column:is_active;default:true" example:"true"`
	FailedAttempts int               `json:"-" gorm:"column:failed_attempts;default:0"`
	LockedUntil    *time.Time        `json:"-" gorm:"column:locked_until"`
}

// IsLocked reports whether the account is currently locked out.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
