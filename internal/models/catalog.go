package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Days of the week as used by meetings, 0 = Sunday.
const (
	Sunday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed in minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return 0, fmt.Errorf("time %q must use HH:MM format", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("time %q has invalid hour", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time %q has invalid minute", raw)
	}
	return TimeOfDay(hours*60 + minutes), nil
}

// MustParseTimeOfDay is ParseTimeOfDay for literals known to be valid.
func MustParseTimeOfDay(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Valid reports whether t lies within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// String renders t as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON encodes t as an HH:MM string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an HH:MM string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ValidDay reports whether day is within 0 (Sunday) to 6 (Saturday).
func ValidDay(day int) bool {
	return day >= Sunday && day <= Saturday
}

// Meeting is one recurring weekly time interval of a section.
type Meeting struct {
	Day   int       `json:"day"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Validate enforces day range and start < end.
func (m Meeting) Validate() error {
	if !ValidDay(m.Day) {
		return fmt.Errorf("meeting day %d out of range 0-6", m.Day)
	}
	if !m.Start.Valid() || !m.End.Valid() {
		return fmt.Errorf("meeting time out of range")
	}
	if m.Start >= m.End {
		return fmt.Errorf("meeting start %s must be before end %s", m.Start, m.End)
	}
	return nil
}

// SectionType classifies a course component.
type SectionType string

const (
	SectionTypeLecture    SectionType = "Lecture"
	SectionTypeRecitation SectionType = "Recitation"
	SectionTypeLab        SectionType = "Lab"
)

// Section is one offered instance of a course component.
type Section struct {
	ID               string      `json:"id"`
	CourseID         string      `json:"course_id"`
	Type             SectionType `json:"type"`
	InstructorID     string      `json:"instructor_id"`
	Instructor       string      `json:"instructor"`
	LinkedSectionIDs []string    `json:"linked_section_ids,omitempty"`
	Meetings         []Meeting   `json:"meetings"`
}

// Links reports whether s lists other as one of its linked sections.
func (s *Section) Links(otherID string) bool {
	for _, id := range s.LinkedSectionIDs {
		if id == otherID {
			return true
		}
	}
	return false
}

// Course is an immutable catalog entry.
type Course struct {
	ID                   string                    `json:"id"`
	Name                 string                    `json:"name"`
	Semester             string                    `json:"semester,omitempty"`
	RequiredSectionTypes []SectionType             `json:"required_section_types"`
	Sections             map[SectionType][]Section `json:"sections"`
}

// CourseSummary is the lightweight listing view of a course.
type CourseSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Semester string `json:"semester"`
}

// Preferences are the soft constraints used to rank schedules.
type Preferences struct {
	PreferredStart       TimeOfDay
	PreferredEnd         TimeOfDay
	DayOff               *int
	PreferredInstructors map[string]string
}
