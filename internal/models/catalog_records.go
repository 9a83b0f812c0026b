package models

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// CourseRecord mirrors a row of the courses table.
type CourseRecord struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Semester      string         `db:"semester"`
	RequiredTypes pq.StringArray `db:"required_types"`
}

// SectionRecord mirrors a row of the course_sections table.
type SectionRecord struct {
	ID               string         `db:"id"`
	CourseID         string         `db:"course_id"`
	Type             string         `db:"section_type"`
	InstructorID     string         `db:"instructor_id"`
	InstructorName   string         `db:"instructor_name"`
	LinkedSectionIDs pq.StringArray `db:"linked_section_ids"`
}

// MeetingRecord mirrors a row of the section_meetings table. Times are "HH:MM".
type MeetingRecord struct {
	SectionID string `db:"section_id"`
	DayOfWeek int    `db:"day_of_week"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
}

// AssembleCourses joins flat catalog rows into courses. Output keeps the order of
// courses, and within a course the order of sections and meetings, as given.
// Rows that reference an unknown parent are rejected.
func AssembleCourses(courses []CourseRecord, sections []SectionRecord, meetings []MeetingRecord) ([]Course, error) {
	out := make([]Course, len(courses))
	courseIdx := make(map[string]int, len(courses))
	for i, rec := range courses {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return nil, fmt.Errorf("course row %d has no id", i+1)
		}
		if _, dup := courseIdx[id]; dup {
			return nil, fmt.Errorf("duplicate course id %q", id)
		}
		courseIdx[id] = i
		out[i] = Course{ID: id, Name: rec.Name, Semester: rec.Semester, Sections: map[SectionType][]Section{}}
		for _, t := range rec.RequiredTypes {
			if t = strings.TrimSpace(t); t != "" {
				out[i].RequiredSectionTypes = append(out[i].RequiredSectionTypes, SectionType(t))
			}
		}
	}

	type sectionRef struct {
		course int
		typ    SectionType
		index  int
	}
	sectionIdx := make(map[string]sectionRef, len(sections))
	for _, rec := range sections {
		ci, ok := courseIdx[rec.CourseID]
		if !ok {
			return nil, fmt.Errorf("section %q references unknown course %q", rec.ID, rec.CourseID)
		}
		if _, dup := sectionIdx[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate section id %q", rec.ID)
		}
		typ := SectionType(rec.Type)
		if typ == "" {
			typ = SectionTypeLecture
		}
		section := Section{
			ID:           rec.ID,
			CourseID:     rec.CourseID,
			Type:         typ,
			InstructorID: rec.InstructorID,
			Instructor:   rec.InstructorName,
		}
		for _, linked := range rec.LinkedSectionIDs {
			if linked = strings.TrimSpace(linked); linked != "" {
				section.LinkedSectionIDs = append(section.LinkedSectionIDs, linked)
			}
		}
		course := &out[ci]
		sectionIdx[rec.ID] = sectionRef{course: ci, typ: typ, index: len(course.Sections[typ])}
		course.Sections[typ] = append(course.Sections[typ], section)
	}

	for _, rec := range meetings {
		ref, ok := sectionIdx[rec.SectionID]
		if !ok {
			return nil, fmt.Errorf("meeting references unknown section %q", rec.SectionID)
		}
		start, err := ParseTimeOfDay(rec.StartTime)
		if err != nil {
			return nil, fmt.Errorf("section %q start: %w", rec.SectionID, err)
		}
		end, err := ParseTimeOfDay(rec.EndTime)
		if err != nil {
			return nil, fmt.Errorf("section %q end: %w", rec.SectionID, err)
		}
		meeting := Meeting{Day: rec.DayOfWeek, Start: start, End: end}
		if err := meeting.Validate(); err != nil {
			return nil, fmt.Errorf("section %q: %w", rec.SectionID, err)
		}
		section := &out[ref.course].Sections[ref.typ][ref.index]
		section.Meetings = append(section.Meetings, meeting)
	}

	return out, nil
}
