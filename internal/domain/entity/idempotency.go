package entity

import (
	"time"
)

// IdempotencyKey stores processed requests to prevent duplicates
type IdempotencyKey struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:uk_idempotency_client_key"` // The idempotency key from client
	ClientID     string    `gorm:"size:255;not null;uniqueIndex:uk_idempotency_client_key"` // JWT subject or client IP
	Endpoint     string    `gorm:"size:255;not null"`                                       // e.g. "POST /api/v1/fournisseurs"
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
