package export

import "fmt"

// ScheduleRow is one meeting of one section of one ranked option, flattened for
// tabular output.
type ScheduleRow struct {
	Option     int    `csv:"option"`
	Score      int    `csv:"score"`
	CourseID   string `csv:"course_id"`
	CourseName string `csv:"course_name"`
	SectionID  string `csv:"section_id"`
	Type       string `csv:"type"`
	Instructor string `csv:"instructor"`
	Day        string `csv:"day"`
	Start      string `csv:"start"`
	End        string `csv:"end"`
}

// Table is a titled set of rows for one export.
type Table struct {
	Title string
	Rows  []ScheduleRow
}

// Renderer turns a table into file bytes.
type Renderer interface {
	Render(Table) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the renderer for "csv" or "pdf".
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "csv":
		return NewCSVExporter(), nil
	case "pdf":
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
