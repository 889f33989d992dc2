// api/models/event.go
package models

import "time"

// Event type constants for the touchpoint kinds the dashboard understands.
// Any other string is carried through as a free-form kind.
const (
	EventTypePageView     = "page_view"
	EventTypeSessionStart = "session_start"
	EventTypeSignup       = "signup"
	EventTypePurchase     = "purchase"
)

// Event is one raw tracking event as stored in ClickHouse. Optional columns
// are Nullable(String) in the table and pointers here.
type Event struct {
	EventID     string    `json:"eventId"`
	ProjectID   string    `json:"projectId"`
	VisitorID   *string   `json:"visitorId,omitempty"`
	SessionID   string    `json:"sessionId"`
	EventType   string    `json:"eventType"`
	PageURL     *string   `json:"pageUrl,omitempty"`
	Referrer    *string   `json:"referrer,omitempty"`
	UTMSource   *string   `json:"utmSource,omitempty"`
	UTMMedium   *string   `json:"utmMedium,omitempty"`
	UTMCampaign *string   `json:"utmCampaign,omitempty"`
	UTMTerm     *string   `json:"utmTerm,omitempty"`
	UTMContent  *string   `json:"utmContent,omitempty"`
	Device      *string   `json:"device,omitempty"`
	Browser     *string   `json:"browser,omitempty"`
	OS          *string   `json:"os,omitempty"`
	Country     *string   `json:"country,omitempty"`
	City        *string   `json:"city,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
