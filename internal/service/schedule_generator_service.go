package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unismart/planner-api/internal/dto"
	"github.com/unismart/planner-api/internal/models"
	"github.com/unismart/planner-api/internal/scheduler"
	"github.com/unismart/planner-api/pkg/config"
	appErrors "github.com/unismart/planner-api/pkg/errors"
)

// Search outcomes reported to metrics.
const (
	searchOutcomeSuccess  = "success"
	searchOutcomePartial  = "partial"
	searchOutcomeTimeout  = "timeout"
	searchOutcomeRejected = "rejected"
)

type catalogProvider interface {
	Current() (*scheduler.Catalog, error)
}

type scheduleEngine interface {
	Generate(ctx context.Context, catalog *scheduler.Catalog, req scheduler.Request) (*scheduler.Result, error)
}

// NewScheduleEngine builds the engine from scheduler settings, rejecting invalid weights.
func NewScheduleEngine(cfg config.SchedulerConfig, logger *zap.Logger) (*scheduler.Engine, error) {
	return scheduler.NewEngine(scheduler.Config{
		Weights: scheduler.Weights{
			MinuteOutsideWindow: cfg.WeightMinuteOutside,
			CourseWindowCap:     cfg.WeightCourseWindowCap,
			DayOffMeeting:       cfg.WeightDayOff,
			InstructorMismatch:  cfg.WeightInstructor,
		},
		SearchTimeout:     cfg.SearchTimeout,
		DefaultMaxOptions: cfg.DefaultMaxOptions,
		MaxOptions:        cfg.MaxOptions,
	}, logger)
}

// ScheduleGeneratorService validates generation requests, runs the engine against
// the current catalog snapshot and shapes the ranked options for transport.
type ScheduleGeneratorService struct {
	catalogs  catalogProvider
	engine    scheduleEngine
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewScheduleGeneratorService wires generator dependencies.
func NewScheduleGeneratorService(
	catalogs catalogProvider,
	engine scheduleEngine,
	validate *validator.Validate,
	metrics *MetricsService,
	logger *zap.Logger,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGeneratorService{
		catalogs:  catalogs,
		engine:    engine,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// Generate returns up to MaxOptions conflict-free schedules ranked by score.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateSchedulesRequest) (*dto.GenerateSchedulesResponse, error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	started := time.Now()

	if err := s.validator.Struct(req); err != nil {
		s.metrics.ObserveSearch(searchOutcomeRejected, 0, 0, time.Since(started))
		return nil, validationError(err)
	}
	prefs, err := scheduler.ParsePreferences(
		req.Preferences.PreferredStartTime,
		req.Preferences.PreferredEndTime,
		req.Preferences.DayOffRequested,
		instructorPreferences(req),
	)
	if err != nil {
		s.metrics.ObserveSearch(searchOutcomeRejected, 0, 0, time.Since(started))
		return nil, mapSchedulerError(err)
	}

	catalog, err := s.catalogs.Current()
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Generate(ctx, catalog, scheduler.Request{
		CourseIDs:   req.SelectedCourseIDs,
		Preferences: prefs,
		MaxOptions:  req.MaxOptions,
	})
	if err != nil {
		var timeout *scheduler.TimeoutError
		if errors.As(err, &timeout) {
			s.metrics.ObserveSearch(searchOutcomeTimeout, timeout.Explored, 0, time.Since(started))
			logger.Warn("schedule search timed out", zap.Strings("courses", req.SelectedCourseIDs), zap.Int("explored", timeout.Explored))
		} else {
			s.metrics.ObserveSearch(searchOutcomeRejected, 0, 0, time.Since(started))
		}
		return nil, mapSchedulerError(err)
	}

	outcome := searchOutcomeSuccess
	if result.TimedOut {
		outcome = searchOutcomePartial
	}
	s.metrics.ObserveSearch(outcome, result.Stats.Explored, len(result.Options), time.Since(started))
	logger.Info("schedules generated",
		zap.Strings("courses", req.SelectedCourseIDs),
		zap.String("status", result.Status),
		zap.Int("options", len(result.Options)),
		zap.Int("explored", result.Stats.Explored),
		zap.Duration("elapsed", result.Elapsed),
	)

	return &dto.GenerateSchedulesResponse{
		Status:  result.Status,
		Options: toOptionResponses(catalog, result.Options),
		RunID:   runID,
	}, nil
}

// instructorPreferences keeps the last preference given per course. Preferences for
// courses that were not selected are harmless: the scorer only consults chosen sections.
func instructorPreferences(req dto.GenerateSchedulesRequest) map[string]string {
	if len(req.Preferences.CoursePreferences) == 0 {
		return nil
	}
	prefs := make(map[string]string, len(req.Preferences.CoursePreferences))
	for _, p := range req.Preferences.CoursePreferences {
		prefs[p.CourseID] = p.PreferredInstructorID
	}
	return prefs
}

func toOptionResponses(catalog *scheduler.Catalog, options []scheduler.ScheduleOption) []dto.ScheduleOptionResponse {
	out := make([]dto.ScheduleOptionResponse, 0, len(options))
	for _, option := range options {
		items := make([]dto.ScheduleItemResponse, 0, len(option.Sections))
		for _, section := range option.Sections {
			items = append(items, toItemResponse(catalog, section))
		}
		out = append(out, dto.ScheduleOptionResponse{Score: option.Score, Schedule: items})
	}
	return out
}

func toItemResponse(catalog *scheduler.Catalog, section *models.Section) dto.ScheduleItemResponse {
	item := dto.ScheduleItemResponse{
		CourseID:   section.CourseID,
		SectionID:  section.ID,
		Type:       string(section.Type),
		Instructor: section.Instructor,
		Meetings:   make([]dto.MeetingResponse, 0, len(section.Meetings)),
	}
	if course, ok := catalog.Lookup(section.CourseID); ok {
		item.CourseName = course.Name
	}
	for _, m := range section.Meetings {
		item.Meetings = append(item.Meetings, dto.MeetingResponse{Day: m.Day, Start: m.Start.String(), End: m.End.String()})
	}
	return item
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, strings.Join(fields, "; "))
}

// mapSchedulerError converts engine errors to transport errors.
func mapSchedulerError(err error) error {
	var (
		appErr     *appErrors.Error
		unknown    *scheduler.UnknownCourseError
		invalid    *scheduler.InvalidPreferenceError
		noSections *scheduler.NoSectionsError
		timeout    *scheduler.TimeoutError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, scheduler.ErrEmptySelection):
		return withCause(appErrors.ErrValidation, err.Error(), err)
	case errors.As(err, &unknown):
		return withCause(appErrors.ErrUnknownCourse, fmt.Sprintf("course %s does not exist", unknown.CourseID), err)
	case errors.As(err, &invalid):
		return withCause(appErrors.ErrInvalidPreference, fmt.Sprintf("%s %s", invalid.Field, invalid.Reason), err)
	case errors.As(err, &noSections):
		return withCause(appErrors.ErrNoSections, noSections.Error(), err)
	case errors.As(err, &timeout):
		return withCause(appErrors.ErrSearchTimeout, "", err)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate schedules")
	}
}

func withCause(base *appErrors.Error, message string, cause error) *appErrors.Error {
	e := appErrors.Clone(base, message)
	e.Err = cause
	return e
}
