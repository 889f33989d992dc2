// api/store/event_store.go
package store

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"clickpath/api/database"
	"clickpath/api/models"
)

// EventStore reads and writes tracking events in ClickHouse. All reads are
// scoped by project id; the engine never queries across projects.
type EventStore struct {
	DB *database.ClickHouseClient
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{
		DB: chClient,
	}
}

const eventColumns = `
	event_id, project_id, visitor_id, session_id, event_type, page_url, referrer,
	utm_source, utm_medium, utm_campaign, utm_term, utm_content,
	device, browser, os, country, city, created_at
`

// InsertEvents batch-writes raw tracking events. This is the ingest path the
// tracking snippet posts to; the journey engine itself only reads.
func (s *EventStore) InsertEvents(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, fmt.Sprintf(`
		INSERT INTO tracking_events (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, eventColumns))
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.ProjectID,
			event.VisitorID,
			event.SessionID,
			event.EventType,
			event.PageURL,
			event.Referrer,
			event.UTMSource,
			event.UTMMedium,
			event.UTMCampaign,
			event.UTMTerm,
			event.UTMContent,
			event.Device,
			event.Browser,
			event.OS,
			event.Country,
			event.City,
			event.CreatedAt,
		)
		if err != nil {
			log.Printf("Error appending event to batch (EventID: %s): %v", event.EventID, err)
		}
	}

	err = batch.Send()
	if err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Successfully inserted %d tracking events.", len(events))
	return nil
}

// VisitorEvents returns every event for one visitor in one project, oldest
// first. An empty result means the visitor has no journey in this project.
func (s *EventStore) VisitorEvents(ctx context.Context, projectID, visitorID string) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tracking_events
		WHERE project_id = ? AND visitor_id = ?
		ORDER BY created_at ASC
	`, eventColumns)

	rows, err := s.DB.Conn.Query(ctx, query, projectID, visitorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visitor events: %w", err)
	}
	defer rows.Close()

	var results []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(
			&e.EventID, &e.ProjectID, &e.VisitorID, &e.SessionID, &e.EventType,
			&e.PageURL, &e.Referrer,
			&e.UTMSource, &e.UTMMedium, &e.UTMCampaign, &e.UTMTerm, &e.UTMContent,
			&e.Device, &e.Browser, &e.OS, &e.Country, &e.City, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan visitor event row: %w", err)
		}
		results = append(results, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during visitor events query: %w", err)
	}

	return results, nil
}

// RecentVisitorIDs returns the visitor ids of the most recent events in the
// window, newest first. Duplicates are preserved; the caller deduplicates so
// "first discovered wins" stays an explicit, testable step.
func (s *EventStore) RecentVisitorIDs(ctx context.Context, projectID string, since time.Time, limit uint64) ([]string, error) {
	if limit == 0 {
		limit = 100
	}

	query := `
		SELECT visitor_id
		FROM tracking_events
		WHERE project_id = ? AND created_at >= ? AND visitor_id IS NOT NULL
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, projectID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent visitor ids: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var visitorID *string
		if err := rows.Scan(&visitorID); err != nil {
			return nil, fmt.Errorf("failed to scan recent visitor id row: %w", err)
		}
		if visitorID != nil {
			results = append(results, *visitorID)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during recent visitor ids query: %w", err)
	}

	return results, nil
}

// VisitorIDsForSessions returns the distinct visitor ids seen on any of the
// given session ids. Used by the email search path, where leads only carry a
// session id.
func (s *EventStore) VisitorIDsForSessions(ctx context.Context, projectID string, sessionIDs []string) ([]string, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT visitor_id
		FROM tracking_events
		WHERE project_id = ? AND session_id IN (?) AND visitor_id IS NOT NULL
	`
	rows, err := s.DB.Conn.Query(ctx, query, projectID, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query visitor ids for sessions: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var visitorID *string
		if err := rows.Scan(&visitorID); err != nil {
			return nil, fmt.Errorf("failed to scan session visitor id row: %w", err)
		}
		if visitorID != nil {
			results = append(results, *visitorID)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during session visitor ids query: %w", err)
	}

	return results, nil
}
