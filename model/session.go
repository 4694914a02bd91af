package model

import (
	"time"

	"gorm.io/gorm"
)

// Session represents an issued access token. The JWT itself is the session
// token; the row (and its Redis mirror) is what logout and expiry revoke.
type Session struct {
	gorm.Model
	UserID       string    `json:"user_id" gorm:"column:user_id;type:varchar(36);index"`
	SessionToken string    `json:"session_token" gorm:"column:session_token;type:varchar(512);index"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"column:expires_at"`
	ClientIP     string    `json:"client_ip" gorm:"column:client_ip;type:varchar(45)"`
	Browser      string    `json:"browser" gorm:"column:browser;type:varchar(512)"`
}
