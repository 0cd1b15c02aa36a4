package models

import (
	"time"
)

// Account is an admin dashboard user. New registrations start unapproved
// and stay locked out until a root admin approves them.
type Account struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"uniqueIndex;size:20;not null" json:"userId"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Email       string    `gorm:"size:100" json:"email"`
	PhoneNumber string    `gorm:"size:20" json:"phoneNumber"`
	IsRoot      bool      `gorm:"not null;default:false" json:"isRoot"`
	IsApproved  bool      `gorm:"not null;default:false" json:"isApproved"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PendingAccount is the approval-screen row for a not-yet-approved account.
type PendingAccount struct {
	ID           uint      `json:"id"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	RegisteredAt time.Time `json:"registeredAt"`
}
