package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/unismart/planner-api/internal/models"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
)

// Config governs engine behaviour.
type Config struct {
	Weights           Weights
	SearchTimeout     time.Duration
	DefaultMaxOptions int
	MaxOptions        int
}

// Request is one schedule generation call.
type Request struct {
	CourseIDs   []string
	Preferences models.Preferences
	MaxOptions  int
}

// Result carries ranked options and search statistics.
type Result struct {
	Status   string
	Options  []ScheduleOption
	TimedOut bool
	Stats    EnumerationStats
	Elapsed  time.Duration
}

// Engine generates ranked schedules. It keeps no per-request state, so one Engine
// may serve any number of concurrent requests.
type Engine struct {
	cfg    Config
	scorer *Scorer
	logger *zap.Logger
}

// NewEngine validates cfg and builds an engine.
func NewEngine(cfg Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if cfg.SearchTimeout < 0 {
		return nil, fmt.Errorf("search timeout must not be negative")
	}
	cfg.MaxOptions = ClampMaxOptions(cfg.MaxOptions, MaxOptionsLimit, MaxOptionsLimit)
	cfg.DefaultMaxOptions = ClampMaxOptions(cfg.DefaultMaxOptions, DefaultMaxOptions, cfg.MaxOptions)
	return &Engine{cfg: cfg, scorer: NewScorer(cfg.Weights), logger: logger}, nil
}

// Scorer exposes the engine's scorer.
func (e *Engine) Scorer() *Scorer {
	return e.scorer
}

// Generate resolves the request against catalog, enumerates conflict-free
// combinations, scores and ranks them. Validation failures return before any
// search starts. When the search budget runs out, options found so far are
// returned with StatusPartial; if none were found a *TimeoutError is returned.
// Cancellation by the caller is returned unchanged.
func (e *Engine) Generate(ctx context.Context, catalog *Catalog, req Request) (*Result, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if err := ValidatePreferences(req.Preferences); err != nil {
		return nil, err
	}
	resolved, err := catalog.Resolve(req.CourseIDs)
	if err != nil {
		return nil, err
	}

	if e.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.SearchTimeout)
		defer cancel()
	}

	started := time.Now()
	limit := ClampMaxOptions(req.MaxOptions, e.cfg.DefaultMaxOptions, e.cfg.MaxOptions)
	builder := NewResultBuilder(limit)
	enumerator := NewEnumerator(Dimensions(resolved))
	stats, searchErr := enumerator.Enumerate(ctx, func(candidate Candidate) bool {
		builder.Add(candidate, e.scorer.Score(candidate, req.Preferences))
		return true
	})

	result := &Result{
		Status:  StatusSuccess,
		Options: builder.Options(),
		Stats:   stats,
		Elapsed: time.Since(started),
	}
	if searchErr != nil {
		if !errors.Is(searchErr, context.DeadlineExceeded) {
			return nil, searchErr
		}
		if builder.Len() == 0 {
			return nil, &TimeoutError{Explored: stats.Explored, Err: searchErr}
		}
		result.Status = StatusPartial
		result.TimedOut = true
		e.logger.Warn("schedule search deadline reached, returning partial result",
			zap.Int("explored", stats.Explored),
			zap.Int("found", stats.Yielded),
			zap.Error(searchErr),
		)
	}

	e.logger.Debug("schedule search finished",
		zap.Strings("courses", req.CourseIDs),
		zap.Int("explored", stats.Explored),
		zap.Int("pruned", stats.Pruned),
		zap.Int("found", stats.Yielded),
		zap.Int("returned", len(result.Options)),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// ParsePreferences converts wire-format preference values, reporting malformed
// input as *InvalidPreferenceError.
func ParsePreferences(start, end string, dayOff *int, instructors map[string]string) (models.Preferences, error) {
	prefs := models.Preferences{PreferredInstructors: instructors}
	var err error
	if prefs.PreferredStart, err = models.ParseTimeOfDay(start); err != nil {
		return prefs, &InvalidPreferenceError{Field: "preferred_start_time", Reason: err.Error()}
	}
	if prefs.PreferredEnd, err = models.ParseTimeOfDay(end); err != nil {
		return prefs, &InvalidPreferenceError{Field: "preferred_end_time", Reason: err.Error()}
	}
	if dayOff != nil {
		day := *dayOff
		prefs.DayOff = &day
	}
	return prefs, ValidatePreferences(prefs)
}

// ValidatePreferences checks ranges and ordering of parsed preferences.
func ValidatePreferences(prefs models.Preferences) error {
	if !prefs.PreferredStart.Valid() {
		return &InvalidPreferenceError{Field: "preferred_start_time", Reason: "out of range"}
	}
	if !prefs.PreferredEnd.Valid() {
		return &InvalidPreferenceError{Field: "preferred_end_time", Reason: "out of range"}
	}
	if prefs.PreferredStart >= prefs.PreferredEnd {
		return &InvalidPreferenceError{Field: "preferred_end_time", Reason: "must be after preferred_start_time"}
	}
	if prefs.DayOff != nil && !models.ValidDay(*prefs.DayOff) {
		return &InvalidPreferenceError{Field: "day_off_requested", Reason: fmt.Sprintf("day %d out of range 0-6", *prefs.DayOff)}
	}
	return nil
}
