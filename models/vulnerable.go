package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Address is embedded into the vulnerable record as flat columns.
type Address struct {
	State    string `gorm:"size:50" json:"state"`
	City     string `gorm:"size:50" json:"city"`
	Address1 string `gorm:"size:255" json:"address1"`
	Address2 string `gorm:"size:255" json:"address2"`
}

// Joined renders the address as a single display line.
func (a Address) Joined() string {
	parts := []string{a.State, a.City, a.Address1, a.Address2}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// VulnerabilityDetail is one tagged concern. Type holds integer codes from
// the risk or desire catalog depending on which list it sits in.
type VulnerabilityDetail struct {
	Type    []int  `json:"type"`
	Content string `json:"content"`
}

// Vulnerabilities is the consultation-derived profile of one individual.
type Vulnerabilities struct {
	Summary    string                `json:"summary"`
	RiskList   []VulnerabilityDetail `json:"riskList"`
	DesireList []VulnerabilityDetail `json:"desireList"`
}

// Vulnerable is a person tracked by the outreach program. The primary key
// is an app-assigned string id such as "U20250521".
type Vulnerable struct {
	UserID          string           `gorm:"primaryKey;size:30" json:"userId"`
	Name            string           `gorm:"size:100;not null" json:"name"`
	Gender          string           `gorm:"size:1" json:"gender"` // "M", "F", "O"
	BirthDate       datatypes.Date   `json:"birthDate"`
	PhoneNumber     string           `gorm:"size:20" json:"phoneNumber"`
	Address         Address          `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
	Vulnerabilities *Vulnerabilities `gorm:"serializer:json" json:"vulnerabilities,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// VulnerableSession tracks how many consultation rounds an individual has had.
type VulnerableSession struct {
	VulnerableID string `gorm:"primaryKey;size:30" json:"vulnerableId"`
	SessionIndex int    `gorm:"not null;default:0" json:"sessionIndex"`
}

// VulnerableSummary is the name-search result row used by the call screen.
type VulnerableSummary struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

// BatchDeleteResult reports the outcome for one id of a batch delete.
type BatchDeleteResult struct {
	UserID  string `json:"userId"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}
