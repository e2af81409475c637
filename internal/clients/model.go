// Package clients manages the accountant's client registry. Every ledger and
// voucher in the books belongs to exactly one client.
package clients

import (
	"time"

	"github.com/google/uuid"
)

// Client is a business whose books the practice maintains.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	GSTIN     string    `json:"gstin,omitempty"`
	StateCode string    `json:"stateCode,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
