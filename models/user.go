package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	FullName string `json:"full_name"`
	Timezone string `gorm:"size:64" json:"timezone"` // IANA name; empty falls back to the server default
}
