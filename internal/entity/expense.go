package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row for data transfer between layers.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expense is a persisted expense record, grouped by trip label.
type Expense struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Trip      string    `json:"trip,omitempty"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Cost      float64   `json:"cost"`
	Vendor    string    `json:"vendor,omitempty"`
	Location  string    `json:"location,omitempty"`
	Category  string    `json:"category"`
	Method    string    `json:"method"` // extraction provenance
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
