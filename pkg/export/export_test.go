package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title: "Schedule options",
		Rows: []ScheduleRow{
			{Option: 1, Score: 90, CourseID: "CS101", CourseName: "Intro to CS", SectionID: "cs-l1", Type: "Lecture", Instructor: "Dr. Ada", Day: "Monday", Start: "09:00", End: "10:30"},
			{Option: 2, Score: 75, CourseID: "CS101", CourseName: "Intro to CS", SectionID: "cs-l2", Type: "Lecture", Instructor: "Dr. Lin", Day: "Tuesday", Start: "11:00", End: "12:30"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "option,score,course_id,course_name,section_id,type,instructor,day,start,end", lines[0])
	assert.Equal(t, "1,90,CS101,Intro to CS,cs-l1,Lecture,Dr. Ada,Monday,09:00,10:30", lines[1])
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	empty, err := NewPDFExporter().Render(Table{})
	require.NoError(t, err)
	assert.NotEmpty(t, empty)
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", r.ContentType())

	r, err = ForFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", r.Extension())

	_, err = ForFormat("xlsx")
	assert.Error(t, err)
}
