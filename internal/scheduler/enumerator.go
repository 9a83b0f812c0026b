package scheduler

import (
	"context"
	"errors"

	"github.com/unismart/planner-api/internal/models"
)

// ctxCheckInterval is how many search steps run between context polls.
const ctxCheckInterval = 128

var errEnumeratorSpent = errors.New("enumerator already consumed")

// Candidate is a complete, not yet scored selection holding one section per
// dimension, in dimension order.
type Candidate []*models.Section

// IDs returns the section ids of the candidate in order.
func (c Candidate) IDs() []string {
	ids := make([]string, len(c))
	for i, section := range c {
		ids[i] = section.ID
	}
	return ids
}

// EnumerationStats summarises a search pass.
type EnumerationStats struct {
	Explored int
	Pruned   int
	Yielded  int
}

// Enumerator produces every conflict-free combination of one section per dimension.
// It is single pass: a second call to Enumerate fails.
type Enumerator struct {
	dims  []Dimension
	rules linkRules
	spent bool
}

// NewEnumerator prepares a search over dims, traversed in the given order.
func NewEnumerator(dims []Dimension) *Enumerator {
	return &Enumerator{dims: dims, rules: buildLinkRules(dims)}
}

// Enumerate runs a depth-first backtracking search, placing one section at a time
// and pruning a branch as soon as the new section conflicts with one already placed.
// Each complete candidate is passed to yield; returning false stops the search.
// When ctx is done the search stops and ctx.Err() is returned; candidates yielded
// before that point remain valid.
func (e *Enumerator) Enumerate(ctx context.Context, yield func(Candidate) bool) (EnumerationStats, error) {
	var stats EnumerationStats
	if e.spent {
		return stats, errEnumeratorSpent
	}
	e.spent = true

	n := len(e.dims)
	if n == 0 {
		return stats, nil
	}
	for _, dim := range e.dims {
		if len(dim.Sections) == 0 {
			return stats, nil
		}
	}

	placed := make([]*models.Section, n)
	cursor := make([]int, n)
	depth := 0
	steps := 0
	for depth >= 0 {
		steps++
		if steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}

		options := e.dims[depth].Sections
		if cursor[depth] >= len(options) {
			cursor[depth] = 0
			depth--
			continue
		}
		section := options[cursor[depth]]
		cursor[depth]++
		stats.Explored++

		if !e.fits(section, placed[:depth]) {
			stats.Pruned++
			continue
		}
		placed[depth] = section

		if depth < n-1 {
			depth++
			continue
		}

		candidate := make(Candidate, n)
		copy(candidate, placed)
		stats.Yielded++
		if !yield(candidate) {
			return stats, nil
		}
	}
	return stats, nil
}

func (e *Enumerator) fits(section *models.Section, placed []*models.Section) bool {
	for _, other := range placed {
		if SectionsConflict(section, other) {
			return false
		}
		if !e.rules.compatible(section, other) {
			return false
		}
	}
	return true
}
