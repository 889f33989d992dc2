package journey

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"clickpath/api/models"
)

func tp(minutes int, mutate func(*models.Touchpoint)) models.Touchpoint {
	t := models.Touchpoint{
		VisitorID: "v1",
		SessionID: "s1",
		Kind:      models.EventTypePageView,
		CreatedAt: testBase.Add(time.Duration(minutes) * time.Minute),
	}
	if mutate != nil {
		mutate(&t)
	}
	return t
}

func journeyWithRevenue(revenue string, touchpoints ...models.Touchpoint) *models.Journey {
	j := &models.Journey{
		VisitorID:    "v1",
		Touchpoints:  touchpoints,
		TotalRevenue: decimal.RequireFromString(revenue),
		FirstSeen:    touchpoints[0].CreatedAt,
		LastSeen:     touchpoints[len(touchpoints)-1].CreatedAt,
	}
	first := touchpoints[0]
	j.FirstSource = models.SourceInfo{Source: first.UTMSource, Medium: first.UTMMedium, Campaign: first.UTMCampaign}
	return j
}

func TestAttributionWorkedExample(t *testing.T) {
	// google → facebook → partner.com referrer, one 100.00 payment.
	j := journeyWithRevenue("100.00",
		tp(0, func(p *models.Touchpoint) { p.UTMSource = str("google"); p.UTMMedium = str("cpc") }),
		tp(10, func(p *models.Touchpoint) { p.UTMSource = str("facebook") }),
		tp(20, func(p *models.Touchpoint) { p.Referrer = str("https://partner.com/landing") }),
	)

	r := Attribute(j)

	if r.FirstTouch.Source != "google" || r.FirstTouch.Percent != 100 {
		t.Errorf("FirstTouch: got %q/%v, want google/100", r.FirstTouch.Source, r.FirstTouch.Percent)
	}
	if r.FirstTouch.Revenue.StringFixed(2) != "100.00" {
		t.Errorf("FirstTouch revenue: got %s, want 100.00", r.FirstTouch.Revenue.StringFixed(2))
	}
	if r.LastTouch.Source != "partner.com" || r.LastTouch.Percent != 100 {
		t.Errorf("LastTouch: got %q/%v, want partner.com/100", r.LastTouch.Source, r.LastTouch.Percent)
	}

	if len(r.Linear) != 3 {
		t.Fatalf("Linear entries: got %d, want 3", len(r.Linear))
	}
	for i, e := range r.Linear {
		if math.Abs(e.Percent-100.0/3) > 1e-9 {
			t.Errorf("Linear[%d].Percent: got %v, want 33.33...", i, e.Percent)
		}
		if e.Revenue.StringFixed(2) != "33.33" {
			t.Errorf("Linear[%d].Revenue: got %s, want 33.33", i, e.Revenue.StringFixed(2))
		}
	}

	if len(r.TimeDecay) != 3 {
		t.Fatalf("TimeDecay entries: got %d, want 3", len(r.TimeDecay))
	}
	wantSources := []string{"google", "facebook", "partner.com"}
	wantPercents := []float64{100.0 / 7, 200.0 / 7, 400.0 / 7}
	wantRevenue := []string{"14.29", "28.57", "57.14"}
	for i, e := range r.TimeDecay {
		if e.Source != wantSources[i] {
			t.Errorf("TimeDecay[%d].Source: got %q, want %q", i, e.Source, wantSources[i])
		}
		if math.Abs(e.Percent-wantPercents[i]) > 1e-9 {
			t.Errorf("TimeDecay[%d].Percent: got %v, want %v", i, e.Percent, wantPercents[i])
		}
		if e.Revenue.StringFixed(2) != wantRevenue[i] {
			t.Errorf("TimeDecay[%d].Revenue: got %s, want %s", i, e.Revenue.StringFixed(2), wantRevenue[i])
		}
	}
}

func TestAttributionDirectJourney(t *testing.T) {
	// One payment, no qualifying touchpoints: every model yields one direct
	// entry at 100% of the full revenue.
	j := journeyWithRevenue("49.99", tp(0, nil), tp(5, nil))

	r := Attribute(j)

	for name, e := range map[string]models.AttributionEntry{
		"FirstTouch": r.FirstTouch,
		"LastTouch":  r.LastTouch,
	} {
		if e.Source != DirectSource || e.Percent != 100 || e.Revenue.StringFixed(2) != "49.99" {
			t.Errorf("%s: got %q/%v/%s, want direct/100/49.99", name, e.Source, e.Percent, e.Revenue.StringFixed(2))
		}
	}
	if len(r.Linear) != 1 || r.Linear[0].Source != DirectSource || r.Linear[0].Percent != 100 {
		t.Errorf("Linear: got %+v, want single direct entry at 100%%", r.Linear)
	}
	if len(r.TimeDecay) != 1 || r.TimeDecay[0].Source != DirectSource || r.TimeDecay[0].Percent != 100 {
		t.Errorf("TimeDecay: got %+v, want single direct entry at 100%%", r.TimeDecay)
	}
	if r.TimeDecay[0].Revenue.StringFixed(2) != "49.99" {
		t.Errorf("TimeDecay revenue: got %s, want 49.99", r.TimeDecay[0].Revenue.StringFixed(2))
	}
}

func TestAttributionPercentagesSumTo100(t *testing.T) {
	sources := []string{"google", "facebook", "newsletter", "x", "bing"}
	var tps []models.Touchpoint
	for i, s := range sources {
		src := s
		tps = append(tps, tp(i*10, func(p *models.Touchpoint) { p.UTMSource = &src }))
	}
	j := journeyWithRevenue("500.00", tps...)

	r := Attribute(j)

	var linearSum, decaySum float64
	for _, e := range r.Linear {
		linearSum += e.Percent
	}
	for _, e := range r.TimeDecay {
		decaySum += e.Percent
	}
	if math.Abs(linearSum-100) > 1e-9 {
		t.Errorf("Linear percentages sum: got %v, want 100", linearSum)
	}
	if math.Abs(decaySum-100) > 1e-9 {
		t.Errorf("TimeDecay percentages sum: got %v, want 100", decaySum)
	}
}

func TestAttributionSingleSourceDegenerates(t *testing.T) {
	// With one unique source, time-decay and linear collapse to the
	// first-touch view.
	j := journeyWithRevenue("75.00",
		tp(0, func(p *models.Touchpoint) { p.UTMSource = str("google") }),
		tp(5, func(p *models.Touchpoint) { p.UTMSource = str("google") }),
	)

	r := Attribute(j)

	if len(r.Linear) != 1 || len(r.TimeDecay) != 1 {
		t.Fatalf("entries: got linear=%d decay=%d, want 1/1", len(r.Linear), len(r.TimeDecay))
	}
	for name, e := range map[string]models.AttributionEntry{
		"Linear":    r.Linear[0],
		"TimeDecay": r.TimeDecay[0],
	} {
		if e.Source != "google" || e.Percent != 100 || e.Revenue.StringFixed(2) != "75.00" {
			t.Errorf("%s: got %q/%v/%s, want google/100/75.00", name, e.Source, e.Percent, e.Revenue.StringFixed(2))
		}
	}
}

func TestLastTouchFallsBackToFirstSource(t *testing.T) {
	j := journeyWithRevenue("10.00",
		tp(0, func(p *models.Touchpoint) { p.UTMSource = str("google") }),
	)
	// Remove the qualifying marker from the touchpoint but keep the
	// precomputed first source, as happens when only the earliest event
	// carried UTM parameters and later ones were plain page views.
	j.Touchpoints[0].UTMSource = nil

	r := Attribute(j)

	if r.LastTouch.Source != "google" {
		t.Errorf("LastTouch fallback: got %q, want google (first source)", r.LastTouch.Source)
	}
}

func TestSourceKeyResolution(t *testing.T) {
	cases := []struct {
		name string
		tp   models.Touchpoint
		want string
	}{
		{"utm source wins over referrer", tp(0, func(p *models.Touchpoint) {
			p.UTMSource = str("newsletter")
			p.Referrer = str("https://google.com/search")
		}), "newsletter"},
		{"referrer hostname", tp(0, func(p *models.Touchpoint) {
			p.Referrer = str("https://blog.partner.com/post?x=1")
		}), "blog.partner.com"},
		{"raw referrer when not parseable as a host", tp(0, func(p *models.Touchpoint) {
			p.Referrer = str("android-app")
		}), "android-app"},
		{"direct when nothing present", tp(0, nil), DirectSource},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := sourceKey(&c.tp); got != c.want {
				t.Errorf("sourceKey: got %q, want %q", got, c.want)
			}
		})
	}
}
