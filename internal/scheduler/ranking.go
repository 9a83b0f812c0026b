package scheduler

import (
	"sort"
	"strings"

	"github.com/unismart/planner-api/internal/models"
)

const (
	// DefaultMaxOptions applies when a request does not ask for a count.
	DefaultMaxOptions = 5
	// MaxOptionsLimit bounds the response size regardless of configuration.
	MaxOptionsLimit = 20
)

// ScheduleOption is a ranked, conflict-free schedule.
type ScheduleOption struct {
	Score    int
	Sections []*models.Section
}

// Key is the canonical identity of the option: its sorted section ids.
func (o ScheduleOption) Key() string {
	return canonicalKey(Candidate(o.Sections))
}

func canonicalKey(candidate Candidate) string {
	ids := candidate.IDs()
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// ClampMaxOptions resolves a requested option count against a default and an upper bound.
func ClampMaxOptions(requested, fallback, upper int) int {
	if upper <= 0 || upper > MaxOptionsLimit {
		upper = MaxOptionsLimit
	}
	if fallback <= 0 {
		fallback = DefaultMaxOptions
	}
	if requested <= 0 {
		requested = fallback
	}
	if requested > upper {
		requested = upper
	}
	return requested
}

type rankedOption struct {
	option ScheduleOption
	key    string
	seq    int
}

// ResultBuilder keeps the best options seen so far, ordered by score descending
// with ties broken by discovery order, deduplicated by canonical key and bounded
// by the limit. Keeping a bounded list while adding gives the same output as
// sorting everything and truncating afterwards.
type ResultBuilder struct {
	limit int
	kept  []rankedOption
	seen  map[string]struct{}
	seq   int
}

// NewResultBuilder builds a builder keeping at most limit options, clamped to [1, MaxOptionsLimit].
func NewResultBuilder(limit int) *ResultBuilder {
	limit = ClampMaxOptions(limit, DefaultMaxOptions, MaxOptionsLimit)
	return &ResultBuilder{
		limit: limit,
		kept:  make([]rankedOption, 0, limit),
		seen:  make(map[string]struct{}, limit),
	}
}

// Add offers a scored candidate. It reports whether the candidate is currently kept.
func (b *ResultBuilder) Add(candidate Candidate, score int) bool {
	key := canonicalKey(candidate)
	if _, dup := b.seen[key]; dup {
		return false
	}
	b.seq++

	pos := sort.Search(len(b.kept), func(i int) bool {
		return b.kept[i].option.Score < score
	})
	if pos >= b.limit {
		return false
	}

	entry := rankedOption{
		option: ScheduleOption{Score: score, Sections: append([]*models.Section(nil), candidate...)},
		key:    key,
		seq:    b.seq,
	}
	if len(b.kept) == b.limit {
		evicted := b.kept[len(b.kept)-1]
		delete(b.seen, evicted.key)
		b.kept = b.kept[:len(b.kept)-1]
	}
	b.kept = append(b.kept, rankedOption{})
	copy(b.kept[pos+1:], b.kept[pos:])
	b.kept[pos] = entry
	b.seen[key] = struct{}{}
	return true
}

// Len returns how many options are kept.
func (b *ResultBuilder) Len() int {
	return len(b.kept)
}

// Limit returns the effective option bound.
func (b *ResultBuilder) Limit() int {
	return b.limit
}

// Options returns the ranked options. The result is never nil.
func (b *ResultBuilder) Options() []ScheduleOption {
	out := make([]ScheduleOption, len(b.kept))
	for i, entry := range b.kept {
		out[i] = entry.option
	}
	return out
}
