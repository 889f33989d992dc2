// api/journey/builder.go
package journey

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"clickpath/api/models"
)

// Builder reconstructs one visitor's journey from raw store records.
type Builder struct {
	Events   EventSource
	Leads    LeadSource
	Payments PaymentSource
}

func NewBuilder(events EventSource, leads LeadSource, payments PaymentSource) *Builder {
	return &Builder{Events: events, Leads: leads, Payments: payments}
}

// Build assembles the journey for one visitor. A visitor with no events has
// no journey: Build returns (nil, nil) and the caller drops the visitor.
// Any store failure fails the build.
func (b *Builder) Build(ctx context.Context, projectID, visitorID string) (*models.Journey, error) {
	events, err := b.Events.VisitorEvents(ctx, projectID, visitorID)
	if err != nil {
		return nil, fmt.Errorf("visitor %s: %w", visitorID, err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	sessionIDs := distinctSessionIDs(events)

	// Lead and payment lookups are independent of each other; both only
	// need the event load above.
	var (
		wg       sync.WaitGroup
		lead     *models.Lead
		leadErr  error
		payments []models.Payment
		payErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		lead, leadErr = b.Leads.LeadForSessions(ctx, projectID, sessionIDs)
	}()
	go func() {
		defer wg.Done()
		payments, payErr = b.Payments.VisitorPayments(ctx, projectID, visitorID)
	}()
	wg.Wait()

	if leadErr != nil {
		return nil, fmt.Errorf("visitor %s: lead lookup: %w", visitorID, leadErr)
	}
	if payErr != nil {
		return nil, fmt.Errorf("visitor %s: payment lookup: %w", visitorID, payErr)
	}

	totalRevenue := decimal.Zero
	for _, p := range payments {
		totalRevenue = totalRevenue.Add(p.Amount)
	}

	touchpoints := make([]models.Touchpoint, 0, len(events))
	for _, e := range events {
		touchpoints = append(touchpoints, touchpointFromEvent(e, visitorID))
	}

	first := events[0]
	journey := &models.Journey{
		VisitorID:    visitorID,
		FirstSeen:    events[0].CreatedAt,
		LastSeen:     events[len(events)-1].CreatedAt,
		Touchpoints:  touchpoints,
		Lead:         lead,
		Payments:     payments,
		TotalRevenue: totalRevenue,
		FirstSource: models.SourceInfo{
			Source:   first.UTMSource,
			Medium:   first.UTMMedium,
			Campaign: first.UTMCampaign,
		},
		Devices:   distinctValues(events, func(e models.Event) *string { return e.Device }),
		Countries: distinctValues(events, func(e models.Event) *string { return e.Country }),
	}

	return journey, nil
}

func touchpointFromEvent(e models.Event, visitorID string) models.Touchpoint {
	return models.Touchpoint{
		VisitorID:   visitorID,
		SessionID:   e.SessionID,
		Kind:        e.EventType,
		PageURL:     e.PageURL,
		Referrer:    e.Referrer,
		UTMSource:   e.UTMSource,
		UTMMedium:   e.UTMMedium,
		UTMCampaign: e.UTMCampaign,
		UTMTerm:     e.UTMTerm,
		UTMContent:  e.UTMContent,
		Device:      e.Device,
		Browser:     e.Browser,
		OS:          e.OS,
		Country:     e.Country,
		City:        e.City,
		CreatedAt:   e.CreatedAt,
	}
}

func distinctSessionIDs(events []models.Event) []string {
	seen := make(map[string]struct{}, len(events))
	var out []string
	for _, e := range events {
		if e.SessionID == "" {
			continue
		}
		if _, ok := seen[e.SessionID]; ok {
			continue
		}
		seen[e.SessionID] = struct{}{}
		out = append(out, e.SessionID)
	}
	return out
}

// distinctValues collects the distinct non-nil values of one optional event
// field, in discovery order.
func distinctValues(events []models.Event, field func(models.Event) *string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range events {
		v := field(e)
		if v == nil || *v == "" {
			continue
		}
		if _, ok := seen[*v]; ok {
			continue
		}
		seen[*v] = struct{}{}
		out = append(out, *v)
	}
	return out
}
