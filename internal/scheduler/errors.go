package scheduler

import (
	"errors"
	"fmt"
)

// UnknownCourseError reports a requested course id missing from the catalog.
type UnknownCourseError struct {
	CourseID string
}

func (e *UnknownCourseError) Error() string {
	return fmt.Sprintf("unknown course id %q", e.CourseID)
}

// InvalidPreferenceError reports malformed preference values.
type InvalidPreferenceError struct {
	Field  string
	Reason string
}

func (e *InvalidPreferenceError) Error() string {
	return fmt.Sprintf("invalid preference %s: %s", e.Field, e.Reason)
}

// NoSectionsError reports a course whose required section type has no sections.
type NoSectionsError struct {
	CourseID string
	Type     string
}

func (e *NoSectionsError) Error() string {
	return fmt.Sprintf("course %q has no %s sections", e.CourseID, e.Type)
}

// TimeoutError reports that the search budget ran out before any schedule was found.
type TimeoutError struct {
	Explored int
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("schedule search stopped after %d nodes without a result: %v", e.Explored, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Retryable marks the timeout as transient for callers.
func (e *TimeoutError) Retryable() bool {
	return true
}

// ErrEmptySelection is returned when no course ids are requested.
var ErrEmptySelection = errors.New("at least one course must be selected")
