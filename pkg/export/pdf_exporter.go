package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	header string
	width  float64
	value  func(ScheduleRow) string
}{
	{"Course", 45, func(r ScheduleRow) string { return r.CourseName }},
	{"Section", 25, func(r ScheduleRow) string { return r.SectionID }},
	{"Type", 25, func(r ScheduleRow) string { return r.Type }},
	{"Instructor", 40, func(r ScheduleRow) string { return r.Instructor }},
	{"Day", 25, func(r ScheduleRow) string { return r.Day }},
	{"Time", 30, func(r ScheduleRow) string { return r.Start + "-" + r.End }},
}

// PDFExporter renders a table as a PDF with one block per option.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the document. Rows are expected grouped by option.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, table.Title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	if len(table.Rows) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 8, "No conflict-free schedule found.", "", 1, "L", false, 0, "")
	}

	current := 0
	for _, row := range table.Rows {
		if row.Option != current {
			current = row.Option
			pdf.Ln(3)
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 8, fmt.Sprintf("Option %d - score %d", row.Option, row.Score), "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "B", 9)
			for _, col := range pdfColumns {
				pdf.CellFormat(col.width, 7, col.header, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Arial", "", 9)
		}
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, col.value(row), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) ContentType() string { return "application/pdf" }

func (e *PDFExporter) Extension() string { return "pdf" }
