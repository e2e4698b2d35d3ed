package entity

import (
	"time"
)

// IdempotencyKey stores processed requests to prevent duplicates
type IdempotencyKey struct {
	ID           string    `gorm:"size:64;primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_client_key;size:255;not null"` // The idempotency key from client
	ClientID     string    `gorm:"uniqueIndex:idx_idempotency_client_key;size:255;not null"` // Terminal or client that made the request
	Endpoint     string    `gorm:"size:255;not null"`                                        // API endpoint (e.g., "POST /orders/consume")
	ResponseCode int       `gorm:"not null"`                                                 // HTTP status code of original response
	ResponseBody string    `gorm:"type:text"`                                                // JSON response body (cached)
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"` // Keys expire after 24 hours
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
