package journey

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clickpath/api/models"
)

func TestServiceQueryEndToEnd(t *testing.T) {
	fs := populatedStore()
	fs.recentVisitorIDs = []string{"v3", "v2", "v1"}
	svc := NewService(fs, fs, fs)

	res, err := svc.Query(context.Background(), QueryParams{
		ProjectID: "proj-1",
		Since:     testBase.AddDate(0, 0, -30),
		Status:    models.FilterAll,
	})

	require.NoError(t, err)
	assert.Len(t, res.Journeys, 3)
	assert.Equal(t, 3, res.Stats.TotalVisitors)
	for _, j := range res.Journeys {
		assert.NotEmpty(t, j.Touchpoints)
		assert.False(t, j.FirstSeen.After(j.LastSeen))
	}
}

func TestServiceQueryEmptyResultIsNotAnError(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, fs, fs)

	res, err := svc.Query(context.Background(), QueryParams{
		ProjectID: "proj-1",
		Since:     testBase.AddDate(0, 0, -7),
		Status:    models.FilterAll,
	})

	require.NoError(t, err, "zero matching visitors is an informational state")
	assert.Empty(t, res.Journeys)
	assert.Equal(t, models.JourneyStats{TotalVisitors: 0, TotalLeads: 0, TotalCustomers: 0, TotalRevenue: res.Stats.TotalRevenue}, res.Stats)
	assert.True(t, res.Stats.TotalRevenue.IsZero())
}

func TestServiceQueryFailsWholeBatch(t *testing.T) {
	fs := populatedStore()
	fs.recentVisitorIDs = []string{"v1", "v2", "v3"}
	fs.leadErr = errors.New("pg down")
	svc := NewService(fs, fs, fs)

	_, err := svc.Query(context.Background(), QueryParams{
		ProjectID: "proj-1",
		Since:     testBase.AddDate(0, 0, -30),
		Status:    models.FilterAll,
	})

	require.Error(t, err, "no partial results on store failure")
}

func TestServiceAttribution(t *testing.T) {
	fs := populatedStore()
	svc := NewService(fs, fs, fs)

	report, err := svc.Attribution(context.Background(), "proj-1", "v3")
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.FirstTouch.Percent)
	assert.Equal(t, "200.00", report.FirstTouch.Revenue.StringFixed(2))

	_, err = svc.Attribution(context.Background(), "proj-1", "ghost")
	assert.ErrorIs(t, err, ErrNoJourney)
}
