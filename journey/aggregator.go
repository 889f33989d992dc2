// api/journey/aggregator.go
package journey

import (
	"context"
	"math"
	"sync"

	"github.com/shopspring/decimal"

	"clickpath/api/models"
)

// Aggregator fans the builder out over a batch of visitor ids and joins the
// results into a filtered journey list plus population stats.
type Aggregator struct {
	Builder *Builder
}

func NewAggregator(builder *Builder) *Aggregator {
	return &Aggregator{Builder: builder}
}

// Aggregate reconstructs every visitor concurrently and waits for all of
// them. The first builder error fails the whole batch; there is no
// partial-success path. (If per-visitor tolerance is ever wanted, this is
// the seam: collect tagged success/failure results instead of one error.)
//
// Stats are computed over the full reconstructed set, before the status
// filter, so they always describe the population that matched the search.
func (a *Aggregator) Aggregate(ctx context.Context, projectID string, visitorIDs []string, filter models.StatusFilter) ([]models.Journey, models.JourneyStats, error) {
	results := make([]*models.Journey, len(visitorIDs))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, visitorID := range visitorIDs {
		wg.Add(1)
		go func(i int, visitorID string) {
			defer wg.Done()
			j, err := a.Builder.Build(ctx, projectID, visitorID)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = j
		}(i, visitorID)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, models.JourneyStats{}, firstErr
	}

	// Visitors without events produced no journey; drop them.
	var journeys []models.Journey
	for _, j := range results {
		if j != nil {
			journeys = append(journeys, *j)
		}
	}

	stats := computeStats(journeys)

	return filterJourneys(journeys, filter), stats, nil
}

func filterJourneys(journeys []models.Journey, filter models.StatusFilter) []models.Journey {
	if filter == "" || filter == models.FilterAll {
		return journeys
	}

	var out []models.Journey
	for _, j := range journeys {
		switch filter {
		case models.FilterVisitors:
			if j.Lead == nil && len(j.Payments) == 0 {
				out = append(out, j)
			}
		case models.FilterLeads:
			if j.Lead != nil && len(j.Payments) == 0 {
				out = append(out, j)
			}
		case models.FilterCustomers:
			if len(j.Payments) > 0 {
				out = append(out, j)
			}
		}
	}
	return out
}

func computeStats(journeys []models.Journey) models.JourneyStats {
	stats := models.JourneyStats{
		TotalVisitors: len(journeys),
		TotalRevenue:  decimal.Zero,
	}
	if len(journeys) == 0 {
		return stats
	}

	totalTouchpoints := 0
	for _, j := range journeys {
		if j.Lead != nil {
			stats.TotalLeads++
		}
		if len(j.Payments) > 0 {
			stats.TotalCustomers++
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(j.TotalRevenue)
		totalTouchpoints += len(j.Touchpoints)
	}

	stats.AvgTouchpoints = round1(float64(totalTouchpoints) / float64(stats.TotalVisitors))
	stats.ConversionRate = float64(stats.TotalLeads) / float64(stats.TotalVisitors) * 100

	return stats
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
