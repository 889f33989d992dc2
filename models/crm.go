// api/models/crm.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lead is a captured contact stored in Postgres. A lead carries no visitor
// id of its own; it is tied to a visitor through a shared session id.
type Lead struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	SessionID string    `json:"sessionId"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Payment is a recorded payment stored in Postgres, linked to a visitor
// directly. Amounts are NUMERIC in the table and decimals here.
type Payment struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"projectId"`
	VisitorID     string          `json:"visitorId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	CustomerEmail *string         `json:"customerEmail,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
