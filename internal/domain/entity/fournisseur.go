package entity

import (
	"time"
)

// Fournisseur represents a supplier record
type Fournisseur struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Company   string    `gorm:"column:societe;size:100;not null;index" json:"societe"`
	Address   string    `gorm:"column:adresse;size:255;not null" json:"adresse"`
	Contact   string    `gorm:"size:100;not null" json:"contact"`
	Email     string    `gorm:"size:100;not null;uniqueIndex:uk_fournisseurs_email" json:"email"`
	Phone     string    `gorm:"column:telephone;size:20;not null" json:"telephone"`
	City      string    `gorm:"column:ville;size:100;not null;index" json:"ville"`
	TaxID     string    `gorm:"column:ice;size:15;not null;uniqueIndex:uk_fournisseurs_ice" json:"ice"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;<-:create" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// TableName returns the table name for the Fournisseur model
func (Fournisseur) TableName() string {
	return "fournisseurs"
}

// IsNew reports whether the record has not been persisted yet
func (f *Fournisseur) IsNew() bool {
	return f.ID == 0
}
