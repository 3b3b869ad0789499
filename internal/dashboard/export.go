package dashboard

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/isdelr/waitlist-be/internal/models"
)

// ExportFilename is the attachment name for an export taken at now.
func ExportFilename(now time.Time) string {
	return "subscribers-" + now.Format("2006-01-02") + ".csv"
}

// WriteCSV writes subs as CSV with an ID,Email,Date Subscribed header.
func WriteCSV(w io.Writer, subs []models.Subscriber) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Email", "Date Subscribed"}); err != nil {
		return err
	}
	for _, s := range subs {
		record := []string{
			strconv.FormatInt(s.ID, 10),
			s.Email,
			s.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
