package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string
	Email        string `gorm:"unique;not null"`
	PhoneNumber  string `gorm:"unique"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:member"` // member, admin
	Status       string `gorm:"default:active"` // active, inactive, suspended

	// Progress ledger, stored as a single JSON column so every ledger
	// mutation is one row update.
	Ledger ProgressLedger `gorm:"serializer:json"`

	// Bumped on every ledger write; stale writers lose.
	LedgerVersion uint `gorm:"default:0"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
