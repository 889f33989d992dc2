// api/models/journey.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusFilter narrows a journey list after reconstruction. Filtering never
// affects JourneyStats, which always describe the full reconstructed set.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterVisitors  StatusFilter = "visitors"  // no lead, no payments
	FilterLeads     StatusFilter = "leads"     // lead, no payments
	FilterCustomers StatusFilter = "customers" // at least one payment
)

// ValidStatusFilter reports whether s is one of the recognized filters.
func ValidStatusFilter(s StatusFilter) bool {
	switch s {
	case FilterAll, FilterVisitors, FilterLeads, FilterCustomers:
		return true
	default:
		return false
	}
}

// Touchpoint is one normalized interaction in a visitor's journey, copied
// field-for-field from the Event it was derived from.
type Touchpoint struct {
	VisitorID   string    `json:"visitorId"`
	SessionID   string    `json:"sessionId"`
	Kind        string    `json:"kind"`
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

// SourceInfo is the UTM triple copied from a journey's earliest touchpoint.
// All fields may be nil for a direct journey.
type SourceInfo struct {
	Source   *string `json:"source,omitempty"`
	Medium   *string `json:"medium,omitempty"`
	Campaign *string `json:"campaign,omitempty"`
}

// Journey is the reconstructed chronological record of one visitor within a
// query window. A journey always has at least one touchpoint; visitors with
// no events are dropped, never represented as empty journeys.
type Journey struct {
	VisitorID    string          `json:"visitorId"`
	FirstSeen    time.Time       `json:"firstSeen"`
	LastSeen     time.Time       `json:"lastSeen"`
	Touchpoints  []Touchpoint    `json:"touchpoints"`
	Lead         *Lead           `json:"lead,omitempty"`
	Payments     []Payment       `json:"payments"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	FirstSource  SourceInfo      `json:"firstSource"`
	Devices      []string        `json:"devices"`
	Countries    []string        `json:"countries"`
}

// JourneyStats summarizes the full reconstructed visitor population of one
// query, before any status filter is applied.
type JourneyStats struct {
	TotalVisitors  int             `json:"totalVisitors"`
	TotalLeads     int             `json:"totalLeads"`
	TotalCustomers int             `json:"totalCustomers"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	AvgTouchpoints float64         `json:"avgTouchpoints"`
	ConversionRate float64         `json:"conversionRate"`
}

// AttributionEntry credits one source with a share of a journey's revenue.
type AttributionEntry struct {
	Source   string          `json:"source"`
	Medium   string          `json:"medium,omitempty"`
	Campaign string          `json:"campaign,omitempty"`
	Percent  float64         `json:"percent"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// AttributionReport holds the four attribution views of one journey. They
// are independent readings of the same touchpoints, computed per request.
type AttributionReport struct {
	FirstTouch AttributionEntry   `json:"firstTouch"`
	LastTouch  AttributionEntry   `json:"lastTouch"`
	Linear     []AttributionEntry `json:"linear"`
	TimeDecay  []AttributionEntry `json:"timeDecay"`
}
