package scheduler

import (
	"fmt"
	"math"

	"github.com/unismart/planner-api/internal/models"
)

const (
	maxScore = 100
	minScore = 0
)

// Weights are the penalties applied by the Scorer.
type Weights struct {
	// MinuteOutsideWindow is deducted per minute a meeting runs outside the preferred window.
	MinuteOutsideWindow float64
	// CourseWindowCap bounds the window penalty accumulated by a single course.
	CourseWindowCap float64
	// DayOffMeeting is deducted per meeting on the requested day off.
	DayOffMeeting float64
	// InstructorMismatch is deducted per course not taught by the preferred instructor.
	InstructorMismatch float64
}

// DefaultWeights returns the stock penalty configuration.
func DefaultWeights() Weights {
	return Weights{
		MinuteOutsideWindow: 0.25,
		CourseWindowCap:     30,
		DayOffMeeting:       10,
		InstructorMismatch:  15,
	}
}

// Validate rejects negative weights and a per-course cap that could zero a score alone.
func (w Weights) Validate() error {
	if w.MinuteOutsideWindow < 0 || w.CourseWindowCap < 0 || w.DayOffMeeting < 0 || w.InstructorMismatch < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if w.CourseWindowCap >= maxScore {
		return fmt.Errorf("course window cap %.2f must be below %d", w.CourseWindowCap, maxScore)
	}
	return nil
}

// Scorer computes the 0-100 fit score of a candidate. It holds no mutable state.
type Scorer struct {
	weights Weights
}

// NewScorer builds a scorer using w.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score is a pure function of the candidate and preferences.
func (s *Scorer) Score(candidate Candidate, prefs models.Preferences) int {
	penalty := s.windowPenalty(candidate, prefs) +
		s.dayOffPenalty(candidate, prefs) +
		s.instructorPenalty(candidate, prefs)

	score := int(math.Round(float64(maxScore) - penalty))
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func (s *Scorer) windowPenalty(candidate Candidate, prefs models.Preferences) float64 {
	if s.weights.MinuteOutsideWindow == 0 {
		return 0
	}
	perCourse := make(map[string]float64)
	order := make([]string, 0, len(candidate))
	for _, section := range candidate {
		if _, ok := perCourse[section.CourseID]; !ok {
			order = append(order, section.CourseID)
			perCourse[section.CourseID] = 0
		}
		for _, meeting := range section.Meetings {
			perCourse[section.CourseID] += float64(minutesOutside(meeting, prefs)) * s.weights.MinuteOutsideWindow
		}
	}
	var total float64
	for _, courseID := range order {
		total += math.Min(perCourse[courseID], s.weights.CourseWindowCap)
	}
	return total
}

func minutesOutside(meeting models.Meeting, prefs models.Preferences) int {
	outside := 0
	if meeting.Start < prefs.PreferredStart {
		end := meeting.End
		if end > prefs.PreferredStart {
			end = prefs.PreferredStart
		}
		outside += int(end - meeting.Start)
	}
	if meeting.End > prefs.PreferredEnd {
		start := meeting.Start
		if start < prefs.PreferredEnd {
			start = prefs.PreferredEnd
		}
		outside += int(meeting.End - start)
	}
	return outside
}

func (s *Scorer) dayOffPenalty(candidate Candidate, prefs models.Preferences) float64 {
	if prefs.DayOff == nil {
		return 0
	}
	var count int
	for _, section := range candidate {
		for _, meeting := range section.Meetings {
			if meeting.Day == *prefs.DayOff {
				count++
			}
		}
	}
	return float64(count) * s.weights.DayOffMeeting
}

func (s *Scorer) instructorPenalty(candidate Candidate, prefs models.Preferences) float64 {
	if len(prefs.PreferredInstructors) == 0 {
		return 0
	}
	matched := make(map[string]bool)
	present := make(map[string]bool)
	for _, section := range candidate {
		preferred, ok := prefs.PreferredInstructors[section.CourseID]
		if !ok || preferred == "" {
			continue
		}
		present[section.CourseID] = true
		if section.InstructorID == preferred {
			matched[section.CourseID] = true
		}
	}
	return float64(len(present)-len(matched)) * s.weights.InstructorMismatch
}
