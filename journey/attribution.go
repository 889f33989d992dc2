// api/journey/attribution.go
package journey

import (
	"net/url"

	"github.com/shopspring/decimal"

	"clickpath/api/models"
)

// DirectSource is the attribution label for traffic with no UTM source and
// no referrer.
const DirectSource = "direct"

// Attribute computes the four attribution views of one journey. Journeys
// always carry at least one touchpoint, so every model yields at least one
// entry; a journey with no qualifying touchpoints attributes everything to
// the direct source.
func Attribute(j *models.Journey) models.AttributionReport {
	sources := uniqueSources(j.Touchpoints)
	total := j.TotalRevenue

	return models.AttributionReport{
		FirstTouch: firstTouch(j),
		LastTouch:  lastTouch(j),
		Linear:     linear(sources, total),
		TimeDecay:  timeDecay(sources, total),
	}
}

// sourceRef is one entry of the unique-source list: a source key plus the
// first qualifying touchpoint that introduced it. A nil touchpoint marks
// the synthetic direct entry of a journey with no qualifying touchpoints.
type sourceRef struct {
	key string
	tp  *models.Touchpoint
}

// uniqueSources scans qualifying touchpoints in chronological order and
// keeps the first touchpoint per distinct source key, in order of first
// appearance. The list is never empty.
func uniqueSources(touchpoints []models.Touchpoint) []sourceRef {
	seen := make(map[string]struct{})
	var out []sourceRef
	for i := range touchpoints {
		tp := &touchpoints[i]
		if !qualifies(tp) {
			continue
		}
		key := sourceKey(tp)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sourceRef{key: key, tp: tp})
	}

	if len(out) == 0 {
		out = append(out, sourceRef{key: DirectSource})
	}
	return out
}

// qualifies reports whether a touchpoint can serve as an attribution
// source: it carries a UTM source or a referrer.
func qualifies(tp *models.Touchpoint) bool {
	return present(tp.UTMSource) || present(tp.Referrer)
}

// sourceKey resolves a touchpoint's attribution label: UTM source first,
// then the referrer hostname when the referrer parses as a URL, then the
// raw referrer, then direct.
func sourceKey(tp *models.Touchpoint) string {
	if present(tp.UTMSource) {
		return *tp.UTMSource
	}
	if present(tp.Referrer) {
		if u, err := url.Parse(*tp.Referrer); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
		return *tp.Referrer
	}
	return DirectSource
}

func firstTouch(j *models.Journey) models.AttributionEntry {
	return models.AttributionEntry{
		Source:   orDirect(j.FirstSource.Source),
		Medium:   deref(j.FirstSource.Medium),
		Campaign: deref(j.FirstSource.Campaign),
		Percent:  100,
		Revenue:  j.TotalRevenue,
	}
}

func lastTouch(j *models.Journey) models.AttributionEntry {
	for i := len(j.Touchpoints) - 1; i >= 0; i-- {
		tp := &j.Touchpoints[i]
		if !qualifies(tp) {
			continue
		}
		return models.AttributionEntry{
			Source:   sourceKey(tp),
			Medium:   deref(tp.UTMMedium),
			Campaign: deref(tp.UTMCampaign),
			Percent:  100,
			Revenue:  j.TotalRevenue,
		}
	}
	// No qualifying touchpoint: fall back to the first-source view.
	return firstTouch(j)
}

func linear(sources []sourceRef, total decimal.Decimal) []models.AttributionEntry {
	n := int64(len(sources))
	share := total.Div(decimal.NewFromInt(n)).Round(2)

	entries := make([]models.AttributionEntry, 0, n)
	for _, src := range sources {
		entries = append(entries, entryFor(src, 100/float64(n), share))
	}
	return entries
}

// timeDecay weights the i-th discovered source 2^i, so later sources earn
// exponentially more credit. With one source this degenerates to 100%.
func timeDecay(sources []sourceRef, total decimal.Decimal) []models.AttributionEntry {
	n := uint(len(sources))
	sum := int64(1<<n) - 1

	entries := make([]models.AttributionEntry, 0, n)
	for i, src := range sources {
		weight := int64(1) << uint(i)
		percent := float64(weight) / float64(sum) * 100
		revenue := total.Mul(decimal.NewFromInt(weight)).Div(decimal.NewFromInt(sum)).Round(2)
		entries = append(entries, entryFor(src, percent, revenue))
	}
	return entries
}

func entryFor(src sourceRef, percent float64, revenue decimal.Decimal) models.AttributionEntry {
	entry := models.AttributionEntry{
		Source:  src.key,
		Percent: percent,
		Revenue: revenue,
	}
	if src.tp != nil {
		entry.Medium = deref(src.tp.UTMMedium)
		entry.Campaign = deref(src.tp.UTMCampaign)
	}
	return entry
}

func present(s *string) bool {
	return s != nil && *s != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDirect(s *string) string {
	if present(s) {
		return *s
	}
	return DirectSource
}
