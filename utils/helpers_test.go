package utils

import (
	"testing"
	"time"
)

func TestRangeStart(t *testing.T) {
	now := time.Date(2025, 8, 31, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		preset string
		want   time.Time
		ok     bool
	}{
		{"7d", now.AddDate(0, 0, -7), true},
		{"30d", now.AddDate(0, 0, -30), true},
		{"90d", now.AddDate(0, 0, -90), true},
		{"", now.AddDate(0, 0, -30), true}, // default window
		{"365d", time.Time{}, false},
		{"7", time.Time{}, false},
	}

	for _, c := range cases {
		got, ok := RangeStart(c.preset, now)
		if ok != c.ok {
			t.Errorf("RangeStart(%q) ok: got %v, want %v", c.preset, ok, c.ok)
			continue
		}
		if ok && !got.Equal(c.want) {
			t.Errorf("RangeStart(%q): got %v, want %v", c.preset, got, c.want)
		}
	}
}
