package model

import "gorm.io/gorm"

// User struct
type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Password     string `gorm:"not null" json:"-"`
	Role         string `json:"role"`
	ProfileImage string `json:"profile_image"`

	// Active is cleared when an account is deactivated; messages from
	// inactive senders stay in the ledger but drop out of unread badges.
	Active bool `gorm:"not null;default:true" json:"active"`

	// Online mirrors the presence tracker's first-connect/last-disconnect
	// transitions so other processes can read it without Redis access.
	Online bool `gorm:"not null;default:false" json:"online"`

	Otp_enabled bool   `gorm:"default:false;" json:"-"`
	Otp_secret  string `json:"-"`
}
