// Package csvio loads the course catalog from a flat CSV export, one row per
// section meeting.
package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/unismart/planner-api/internal/models"
)

const listSeparator = "|"

// CatalogRow is one line of a catalog CSV. Rows of a section with no meetings
// leave day, start and end blank.
type CatalogRow struct {
	CourseID         string `csv:"course_id"`
	CourseName       string `csv:"course_name"`
	Semester         string `csv:"semester"`
	RequiredTypes    string `csv:"required_types"`
	SectionID        string `csv:"section_id"`
	SectionType      string `csv:"section_type"`
	InstructorID     string `csv:"instructor_id"`
	InstructorName   string `csv:"instructor_name"`
	LinkedSectionIDs string `csv:"linked_section_ids"`
	Day              string `csv:"day"`
	Start            string `csv:"start"`
	End              string `csv:"end"`
}

// FileSource reads the catalog from a CSV file on every load.
type FileSource struct {
	Path      string
	Delimiter rune
}

// LoadCatalog implements the catalog source contract.
func (s FileSource) LoadCatalog(ctx context.Context) ([]models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close() //nolint:errcheck
	return LoadCatalog(f, s.Delimiter)
}

// LoadCatalog parses catalog rows from r. A zero delim means comma.
func LoadCatalog(r io.Reader, delim rune) ([]models.Course, error) {
	reader := csv.NewReader(r)
	if delim != 0 {
		reader.Comma = delim
	}
	reader.TrimLeadingSpace = true

	var rows []CatalogRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("parse catalog csv: %w", err)
	}
	return assemble(rows)
}

func assemble(rows []CatalogRow) ([]models.Course, error) {
	var (
		courses  []models.CourseRecord
		sections []models.SectionRecord
		meetings []models.MeetingRecord
	)
	courseNames := map[string]string{}
	sectionCourse := map[string]string{}

	for i, row := range rows {
		line := i + 2
		courseID := strings.TrimSpace(row.CourseID)
		sectionID := strings.TrimSpace(row.SectionID)
		if courseID == "" {
			return nil, fmt.Errorf("line %d: course_id is required", line)
		}

		if name, seen := courseNames[courseID]; !seen {
			courseNames[courseID] = row.CourseName
			courses = append(courses, models.CourseRecord{
				ID:            courseID,
				Name:          strings.TrimSpace(row.CourseName),
				Semester:      strings.TrimSpace(row.Semester),
				RequiredTypes: splitList(row.RequiredTypes),
			})
		} else if row.CourseName != "" && row.CourseName != name {
			return nil, fmt.Errorf("line %d: course %s has conflicting names %q and %q", line, courseID, name, row.CourseName)
		}

		if sectionID == "" {
			continue
		}
		if owner, seen := sectionCourse[sectionID]; !seen {
			sectionCourse[sectionID] = courseID
			sections = append(sections, models.SectionRecord{
				ID:               sectionID,
				CourseID:         courseID,
				Type:             strings.TrimSpace(row.SectionType),
				InstructorID:     strings.TrimSpace(row.InstructorID),
				InstructorName:   strings.TrimSpace(row.InstructorName),
				LinkedSectionIDs: splitList(row.LinkedSectionIDs),
			})
		} else if owner != courseID {
			return nil, fmt.Errorf("line %d: section %s listed under courses %s and %s", line, sectionID, owner, courseID)
		}

		if strings.TrimSpace(row.Day) == "" && row.Start == "" && row.End == "" {
			continue
		}
		day, err := strconv.Atoi(strings.TrimSpace(row.Day))
		if err != nil {
			return nil, fmt.Errorf("line %d: day %q is not a number", line, row.Day)
		}
		meetings = append(meetings, models.MeetingRecord{
			SectionID: sectionID,
			DayOfWeek: day,
			StartTime: row.Start,
			EndTime:   row.End,
		})
	}

	return models.AssembleCourses(courses, sections, meetings)
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
