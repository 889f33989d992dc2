// api/journey/stores.go
package journey

import (
	"context"
	"time"

	"clickpath/api/models"
)

// EventSource is the slice of the event store the engine consumes.
type EventSource interface {
	VisitorEvents(ctx context.Context, projectID, visitorID string) ([]models.Event, error)
	RecentVisitorIDs(ctx context.Context, projectID string, since time.Time, limit uint64) ([]string, error)
	VisitorIDsForSessions(ctx context.Context, projectID string, sessionIDs []string) ([]string, error)
}

// LeadSource is the slice of the CRM store used for lead lookups.
type LeadSource interface {
	SearchLeadsByEmail(ctx context.Context, projectID, fragment string, limit int) ([]models.Lead, error)
	LeadForSessions(ctx context.Context, projectID string, sessionIDs []string) (*models.Lead, error)
}

// PaymentSource is the slice of the CRM store used for payment lookups.
type PaymentSource interface {
	VisitorPayments(ctx context.Context, projectID, visitorID string) ([]models.Payment, error)
}
