// api/journey/export.go
package journey

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"clickpath/api/models"
)

// ErrNothingToExport is returned when an export is requested for an empty
// journey list. No bytes are produced, not even a header row.
var ErrNothingToExport = errors.New("no journeys to export")

var exportHeader = []string{"Visitor ID", "Email", "First Source", "Touchpoints", "Revenue", "First Seen", "Last Seen"}

// ExportCSV renders the journey list as a downloadable CSV blob and returns
// the bytes plus a date-stamped filename.
//
// Fields are comma-joined with no quoting or escaping, matching what the
// dashboard has always produced. An email or UTM source containing a comma
// will corrupt its row; callers relying on strict CSV should be aware.
func ExportCSV(journeys []models.Journey) ([]byte, string, error) {
	if len(journeys) == 0 {
		return nil, "", ErrNothingToExport
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	b.WriteByte('\n')

	for _, j := range journeys {
		email := ""
		if j.Lead != nil {
			email = j.Lead.Email
		}
		row := []string{
			j.VisitorID,
			email,
			orDirect(j.FirstSource.Source),
			strconv.Itoa(len(j.Touchpoints)),
			j.TotalRevenue.StringFixed(2),
			j.FirstSeen.Format(time.RFC3339),
			j.LastSeen.Format(time.RFC3339),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}

	return []byte(b.String()), exportFilename(time.Now()), nil
}

func exportFilename(t time.Time) string {
	return "customer-journeys-" + t.Format("2006-01-02") + ".csv"
}
