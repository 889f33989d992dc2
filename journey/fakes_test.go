package journey

import (
	"context"
	"time"

	"clickpath/api/models"
)

// fakeStore implements EventSource, LeadSource and PaymentSource in memory
// so the engine can be exercised without ClickHouse or Postgres.
type fakeStore struct {
	eventsByVisitor   map[string][]models.Event
	recentVisitorIDs  []string
	sessionVisitorIDs []string
	leads             []models.Lead
	paymentsByVisitor map[string][]models.Payment

	eventsErr   error
	recentErr   error
	sessionsErr error
	searchErr   error
	leadErr     error
	paymentsErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		eventsByVisitor:   make(map[string][]models.Event),
		paymentsByVisitor: make(map[string][]models.Payment),
	}
}

func (f *fakeStore) VisitorEvents(_ context.Context, _, visitorID string) ([]models.Event, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.eventsByVisitor[visitorID], nil
}

func (f *fakeStore) RecentVisitorIDs(_ context.Context, _ string, _ time.Time, _ uint64) ([]string, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recentVisitorIDs, nil
}

func (f *fakeStore) VisitorIDsForSessions(_ context.Context, _ string, _ []string) ([]string, error) {
	if f.sessionsErr != nil {
		return nil, f.sessionsErr
	}
	return f.sessionVisitorIDs, nil
}

func (f *fakeStore) SearchLeadsByEmail(_ context.Context, _, fragment string, _ int) ([]models.Lead, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.leads, nil
}

func (f *fakeStore) LeadForSessions(_ context.Context, _ string, sessionIDs []string) (*models.Lead, error) {
	if f.leadErr != nil {
		return nil, f.leadErr
	}
	for _, sid := range sessionIDs {
		for i := range f.leads {
			if f.leads[i].SessionID == sid {
				return &f.leads[i], nil
			}
		}
	}
	return nil, nil
}

func (f *fakeStore) VisitorPayments(_ context.Context, _, visitorID string) ([]models.Payment, error) {
	if f.paymentsErr != nil {
		return nil, f.paymentsErr
	}
	return f.paymentsByVisitor[visitorID], nil
}

func str(s string) *string { return &s }

var testBase = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

// event builds a minimal tracking event n minutes after the test base time.
func event(visitorID, sessionID, kind string, minutes int) models.Event {
	return models.Event{
		EventID:   "evt-" + visitorID + "-" + sessionID,
		ProjectID: "proj-1",
		VisitorID: str(visitorID),
		SessionID: sessionID,
		EventType: kind,
		CreatedAt: testBase.Add(time.Duration(minutes) * time.Minute),
	}
}
