package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

// CSVExporter renders schedule rows as CSV with a header line.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the table. An empty table still yields the
// header line.
func (e *CSVExporter) Render(table Table) ([]byte, error) {
	rows := table.Rows
	if rows == nil {
		rows = []ScheduleRow{}
	}
	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("marshal csv: %w", err)
	}
	return out, nil
}

func (e *CSVExporter) ContentType() string { return "text/csv" }

func (e *CSVExporter) Extension() string { return "csv" }
