// api/store/crm_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"clickpath/api/models"
)

// CRMStore reads leads and payments from Postgres. Both tables are written
// by other parts of the product; the journey engine only reads them.
type CRMStore struct {
	db *sql.DB
}

func NewCRMStore(db *sql.DB) *CRMStore {
	return &CRMStore{db: db}
}

// SearchLeadsByEmail finds leads whose email contains the fragment,
// case-insensitively, newest first.
func (s *CRMStore) SearchLeadsByEmail(ctx context.Context, projectID, fragment string, limit int) ([]models.Lead, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, project_id, session_id, email, name, created_at
		FROM leads
		WHERE project_id = $1 AND email ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := s.db.QueryContext(ctx, query, projectID, fragment, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search leads by email: %w", err)
	}
	defer rows.Close()

	var results []models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		results = append(results, *lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during lead email search: %w", err)
	}

	return results, nil
}

// LeadForSessions returns at most one lead whose session id is in the given
// set, or nil when no lead matches. Ordered by creation time so the pick is
// stable for a given database state.
func (s *CRMStore) LeadForSessions(ctx context.Context, projectID string, sessionIDs []string) (*models.Lead, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, project_id, session_id, email, name, created_at
		FROM leads
		WHERE project_id = $1 AND session_id = ANY($2)
		ORDER BY created_at ASC
		LIMIT 1;
	`
	row := s.db.QueryRowContext(ctx, query, projectID, pq.Array(sessionIDs))

	lead, err := scanLead(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lead for sessions: %w", err)
	}

	return lead, nil
}

// VisitorPayments returns every payment recorded for one visitor in one
// project, oldest first. A NULL amount counts as zero.
func (s *CRMStore) VisitorPayments(ctx context.Context, projectID, visitorID string) ([]models.Payment, error) {
	query := `
		SELECT id, project_id, visitor_id, amount, currency, status, customer_email, created_at
		FROM payments
		WHERE project_id = $1 AND visitor_id = $2
		ORDER BY created_at ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, projectID, visitorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visitor payments: %w", err)
	}
	defer rows.Close()

	var results []models.Payment
	for rows.Next() {
		var (
			p             models.Payment
			amount        decimal.NullDecimal
			customerEmail sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.ProjectID, &p.VisitorID, &amount,
			&p.Currency, &p.Status, &customerEmail, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		if amount.Valid {
			p.Amount = amount.Decimal
		}
		if customerEmail.Valid {
			p.CustomerEmail = &customerEmail.String
		}
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during visitor payments query: %w", err)
	}

	return results, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*models.Lead, error) {
	var (
		lead models.Lead
		name sql.NullString
	)
	if err := row.Scan(&lead.ID, &lead.ProjectID, &lead.SessionID, &lead.Email, &name, &lead.CreatedAt); err != nil {
		return nil, err
	}
	if name.Valid {
		lead.Name = &name.String
	}
	return &lead, nil
}
