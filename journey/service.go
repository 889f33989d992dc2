// api/journey/service.go
package journey

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"clickpath/api/models"
)

// ErrNoJourney is returned when a journey is requested for a visitor with
// no recorded events.
var ErrNoJourney = errors.New("visitor has no journey")

// Service is the engine's entry point: it resolves a search into visitor
// ids, reconstructs their journeys concurrently, and serves the attribution
// view for a single visitor. Nothing it computes is persisted; every query
// rebuilds from the stores.
type Service struct {
	Selector   *Selector
	Aggregator *Aggregator
}

func NewService(events EventSource, leads LeadSource, payments PaymentSource) *Service {
	return &Service{
		Selector:   NewSelector(events, leads),
		Aggregator: NewAggregator(NewBuilder(events, leads, payments)),
	}
}

// QueryParams carries one journey query. All former dashboard-side implicit
// state (search text, window, filter) is explicit here.
type QueryParams struct {
	ProjectID string
	Search    string
	Since     time.Time
	Status    models.StatusFilter
}

// QueryResult pairs the filtered journey list with stats over the full
// reconstructed population.
type QueryResult struct {
	Journeys []models.Journey    `json:"journeys"`
	Stats    models.JourneyStats `json:"stats"`
}

// Query runs one full reconstruction cycle. An empty result is a normal
// response with an empty list and zero-valued stats, not an error.
func (s *Service) Query(ctx context.Context, p QueryParams) (*QueryResult, error) {
	started := time.Now()

	visitorIDs, err := s.Selector.Select(ctx, p.ProjectID, p.Search, p.Since)
	if err != nil {
		return nil, err
	}

	journeys, stats, err := s.Aggregator.Aggregate(ctx, p.ProjectID, visitorIDs, p.Status)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"project_id": p.ProjectID,
		"visitors":   stats.TotalVisitors,
		"returned":   len(journeys),
		"took":       time.Since(started).String(),
	}).Info("journey query completed")

	return &QueryResult{Journeys: journeys, Stats: stats}, nil
}

// Attribution rebuilds one visitor's journey and computes the four
// attribution views over it. Returns ErrNoJourney when the visitor has no
// events in the project.
func (s *Service) Attribution(ctx context.Context, projectID, visitorID string) (*models.AttributionReport, error) {
	j, err := s.Aggregator.Builder.Build(ctx, projectID, visitorID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrNoJourney
	}

	report := Attribute(j)
	return &report, nil
}
