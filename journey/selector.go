// api/journey/selector.go
package journey

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	// maxVisitors caps how many visitor journeys one query reconstructs.
	maxVisitors = 20
	// recentScanLimit is how many recent events the no-search path scans to
	// discover visitor ids.
	recentScanLimit = 100
)

// Selector resolves a search input into the bounded set of visitor ids to
// reconstruct. Three modes: an "@" in the search means an email lookup
// through leads, any other non-empty search is taken literally as a visitor
// id, and an empty search discovers visitors from recent events.
type Selector struct {
	Events EventSource
	Leads  LeadSource
}

func NewSelector(events EventSource, leads LeadSource) *Selector {
	return &Selector{Events: events, Leads: leads}
}

// Select returns an ordered, de-duplicated visitor id list, capped at
// maxVisitors. A store failure fails the whole selection; there are no
// partial results.
func (s *Selector) Select(ctx context.Context, projectID, search string, since time.Time) ([]string, error) {
	search = strings.TrimSpace(search)

	if strings.Contains(search, "@") {
		return s.selectByEmail(ctx, projectID, search)
	}

	if search != "" {
		// Taken literally as a visitor id; existence is checked downstream
		// when the builder finds no events for it.
		return []string{search}, nil
	}

	return s.selectRecent(ctx, projectID, since)
}

func (s *Selector) selectByEmail(ctx context.Context, projectID, fragment string) ([]string, error) {
	leads, err := s.Leads.SearchLeadsByEmail(ctx, projectID, fragment, maxVisitors)
	if err != nil {
		return nil, fmt.Errorf("email search: %w", err)
	}
	if len(leads) == 0 {
		return nil, nil
	}

	sessionIDs := make([]string, 0, len(leads))
	for _, lead := range leads {
		sessionIDs = append(sessionIDs, lead.SessionID)
	}

	visitorIDs, err := s.Events.VisitorIDsForSessions(ctx, projectID, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("email search: %w", err)
	}

	return dedupeCapped(visitorIDs, maxVisitors), nil
}

func (s *Selector) selectRecent(ctx context.Context, projectID string, since time.Time) ([]string, error) {
	visitorIDs, err := s.Events.RecentVisitorIDs(ctx, projectID, since, recentScanLimit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}

	return dedupeCapped(visitorIDs, maxVisitors), nil
}

// dedupeCapped keeps the first occurrence of each id, preserving discovery
// order, and stops once limit ids are collected.
func dedupeCapped(ids []string, limit int) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) >= limit {
			break
		}
	}
	return out
}
