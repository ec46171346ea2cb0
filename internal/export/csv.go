package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"ID", "Title", "Category", "Priority", "Due", "Completed",
	"Completed At", "Created At", "Timer Active", "Tracked (s)", "Tracked",
}

// ToCSV writes one row per record after a header row
func ToCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.Title,
			r.Category,
			r.Priority,
			r.Due,
			strconv.FormatBool(r.Completed),
			r.CompletedAt,
			r.CreatedAt,
			strconv.FormatBool(r.TimerActive),
			strconv.FormatInt(r.TrackedSeconds, 10),
			r.Tracked,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
