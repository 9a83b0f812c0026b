package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unismart/planner-api/internal/dto"
	"github.com/unismart/planner-api/internal/models"
	"github.com/unismart/planner-api/internal/scheduler"
	"github.com/unismart/planner-api/pkg/config"
	appErrors "github.com/unismart/planner-api/pkg/errors"
)

type generatorFixtureConfig struct {
	engine      scheduleEngine
	unloaded    bool
	searchLimit time.Duration
}

func newGeneratorServiceFixture(t *testing.T, cfg generatorFixtureConfig) (*ScheduleGeneratorService, *MetricsService) {
	t.Helper()
	catalogs := NewCatalogService(&catalogSourceStub{courses: testCourses()}, nil, nil, nil)
	if !cfg.unloaded {
		require.NoError(t, catalogs.Reload(context.Background()))
	}
	engine := cfg.engine
	if engine == nil {
		timeout := cfg.searchLimit
		if timeout == 0 {
			timeout = 5 * time.Second
		}
		eng, err := scheduler.NewEngine(scheduler.Config{Weights: scheduler.DefaultWeights(), SearchTimeout: timeout}, zap.NewNop())
		require.NoError(t, err)
		engine = eng
	}
	metrics := NewMetricsService()
	return NewScheduleGeneratorService(catalogs, engine, validator.New(), metrics, zap.NewNop()), metrics
}

func generateRequest(courseIDs ...string) dto.GenerateSchedulesRequest {
	return dto.GenerateSchedulesRequest{
		SelectedCourseIDs: courseIDs,
		Preferences: dto.PreferencesRequest{
			PreferredStartTime: "08:00",
			PreferredEndTime:   "18:00",
		},
	}
}

func sectionIDs(option dto.ScheduleOptionResponse) []string {
	ids := make([]string, 0, len(option.Schedule))
	for _, item := range option.Schedule {
		ids = append(ids, item.SectionID)
	}
	return ids
}

func requireAppError(t *testing.T, err error, code string, status int) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %T", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.Status)
	return appErr
}

type engineStub struct {
	result *scheduler.Result
	err    error
}

func (e engineStub) Generate(context.Context, *scheduler.Catalog, scheduler.Request) (*scheduler.Result, error) {
	return e.result, e.err
}

func TestScheduleGeneratorServiceGenerateSuccess(t *testing.T) {
	service, metrics := newGeneratorServiceFixture(t, generatorFixtureConfig{})

	resp, err := service.Generate(context.Background(), generateRequest("CS101", "PHYS101"))
	require.NoError(t, err)
	assert.Equal(t, scheduler.StatusSuccess, resp.Status)
	assert.NotEmpty(t, resp.RunID)
	require.Len(t, resp.Options, 2)
	assert.Equal(t, []string{"cs-l1", "cs-r1", "p-l2"}, sectionIDs(resp.Options[0]))
	assert.Equal(t, []string{"cs-l2", "cs-r1", "p-l2"}, sectionIDs(resp.Options[1]))
	assert.Equal(t, 100, resp.Options[0].Score)

	first := resp.Options[0].Schedule[0]
	assert.Equal(t, "CS101", first.CourseID)
	assert.Equal(t, "Intro to Programming", first.CourseName)
	assert.Equal(t, string(models.SectionTypeLecture), first.Type)
	assert.Equal(t, "Dr. Levi", first.Instructor)
	assert.Equal(t, []dto.MeetingResponse{{Day: 1, Start: "09:00", End: "11:00"}}, first.Meetings)

	assert.Equal(t, uint64(1), metrics.Snapshot().SchedulesGenerated)
}

func TestScheduleGeneratorServiceRanksByPreferences(t *testing.T) {
	service, _ := newGeneratorServiceFixture(t, generatorFixtureConfig{})

	req := generateRequest("CS101", "PHYS101")
	req.Preferences.CoursePreferences = []dto.CoursePreferenceRequest{
		{CourseID: "CS101", PreferredInstructorID: "inst-2"},
		{CourseID: "NOT-SELECTED", PreferredInstructorID: "inst-9"},
	}
	resp, err := service.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Options, 2)
	assert.Equal(t, "cs-l2", resp.Options[0].Schedule[0].SectionID)
	assert.Equal(t, 100, resp.Options[0].Score)
	assert.Equal(t, 85, resp.Options[1].Score)

	monday := 1
	req = generateRequest("CS101", "PHYS101")
	req.Preferences.DayOffRequested = &monday
	resp, err = service.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Options, 2)
	assert.Equal(t, 90, resp.Options[0].Score)
	assert.Equal(t, 80, resp.Options[1].Score)
}

func TestScheduleGeneratorServiceHonoursMaxOptions(t *testing.T) {
	service, _ := newGeneratorServiceFixture(t, generatorFixtureConfig{})

	req := generateRequest("CS101", "PHYS101")
	req.MaxOptions = 1
	resp, err := service.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, resp.Options, 1)
}

func TestScheduleGeneratorServiceNoCompatibleSchedule(t *testing.T) {
	stub, _ := newGeneratorServiceFixture(t, generatorFixtureConfig{engine: engineStub{result: &scheduler.Result{Status: scheduler.StatusSuccess}}})
	resp, err := stub.Generate(context.Background(), generateRequest("CS101"))
	require.NoError(t, err)
	assert.Equal(t, scheduler.StatusSuccess, resp.Status)
	assert.NotNil(t, resp.Options)
	assert.Empty(t, resp.Options)
}

func TestScheduleGeneratorServiceRejectsInvalidInput(t *testing.T) {
	service, metrics := newGeneratorServiceFixture(t, generatorFixtureConfig{})

	cases := []struct {
		name   string
		mutate func(*dto.GenerateSchedulesRequest)
		code   string
	}{
		{"no courses", func(r *dto.GenerateSchedulesRequest) { r.SelectedCourseIDs = nil }, appErrors.ErrValidation.Code},
		{"blank course id", func(r *dto.GenerateSchedulesRequest) { r.SelectedCourseIDs = []string{""} }, appErrors.ErrValidation.Code},
		{"too many options", func(r *dto.GenerateSchedulesRequest) { r.MaxOptions = 21 }, appErrors.ErrValidation.Code},
		{"day off out of range", func(r *dto.GenerateSchedulesRequest) { d := 7; r.Preferences.DayOffRequested = &d }, appErrors.ErrInvalidPreference.Code},
		{"negative day off", func(r *dto.GenerateSchedulesRequest) { d := -1; r.Preferences.DayOffRequested = &d }, appErrors.ErrInvalidPreference.Code},
		{"missing start", func(r *dto.GenerateSchedulesRequest) { r.Preferences.PreferredStartTime = "" }, appErrors.ErrInvalidPreference.Code},
		{"malformed start", func(r *dto.GenerateSchedulesRequest) { r.Preferences.PreferredStartTime = "25:00" }, appErrors.ErrInvalidPreference.Code},
		{"inverted window", func(r *dto.GenerateSchedulesRequest) { r.Preferences.PreferredEndTime = "07:00" }, appErrors.ErrInvalidPreference.Code},
		{"unknown course", func(r *dto.GenerateSchedulesRequest) { r.SelectedCourseIDs = []string{"CS101", "BIO999"} }, appErrors.ErrUnknownCourse.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := generateRequest("CS101")
			tc.mutate(&req)
			_, err := service.Generate(context.Background(), req)
			requireAppError(t, err, tc.code, http.StatusBadRequest)
		})
	}
	assert.Zero(t, metrics.Snapshot().SchedulesGenerated)
}

func TestScheduleGeneratorServiceDayOffOutOfRangeIsInvalidPreference(t *testing.T) {
	service, _ := newGeneratorServiceFixture(t, generatorFixtureConfig{})
	req := generateRequest("CS101")
	day := 7
	req.Preferences.DayOffRequested = &day

	_, err := service.Generate(context.Background(), req)
	appErr := requireAppError(t, err, appErrors.ErrInvalidPreference.Code, http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "day_off_requested")
	var invalid *scheduler.InvalidPreferenceError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "day_off_requested", invalid.Field)
}

func TestScheduleGeneratorServiceUnknownCourseNamesTheCourse(t *testing.T) {
	service, _ := newGeneratorServiceFixture(t, generatorFixtureConfig{})

	_, err := service.Generate(context.Background(), generateRequest("BIO999"))
	appErr := requireAppError(t, err, appErrors.ErrUnknownCourse.Code, http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "BIO999")
	var unknown *scheduler.UnknownCourseError
	assert.True(t, errors.As(err, &unknown))
}

func TestScheduleGeneratorServiceCatalogUnavailable(t *testing.T) {
	service, _ := newGeneratorServiceFixture(t, generatorFixtureConfig{unloaded: true})

	_, err := service.Generate(context.Background(), generateRequest("CS101"))
	appErr := requireAppError(t, err, appErrors.ErrCatalogUnavailable.Code, http.StatusServiceUnavailable)
	assert.True(t, appErr.Retryable)
}

func TestScheduleGeneratorServiceTimeout(t *testing.T) {
	service, metrics := newGeneratorServiceFixture(t, generatorFixtureConfig{
		engine: engineStub{err: &scheduler.TimeoutError{Explored: 4096, Err: context.DeadlineExceeded}},
	})

	_, err := service.Generate(context.Background(), generateRequest("CS101"))
	appErr := requireAppError(t, err, appErrors.ErrSearchTimeout.Code, http.StatusServiceUnavailable)
	assert.True(t, appErr.Retryable)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, uint64(1), metrics.Snapshot().SearchTimeouts)
}

func TestScheduleGeneratorServiceCancelledRequestIsNotATimeout(t *testing.T) {
	service, metrics := newGeneratorServiceFixture(t, generatorFixtureConfig{engine: engineStub{err: context.Canceled}})

	_, err := service.Generate(context.Background(), generateRequest("CS101"))
	requireAppError(t, err, appErrors.ErrInternal.Code, http.StatusInternalServerError)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, metrics.Snapshot().SearchTimeouts)
}

func TestScheduleGeneratorServicePartialResult(t *testing.T) {
	catalogs := NewCatalogService(&catalogSourceStub{courses: testCourses()}, nil, nil, nil)
	require.NoError(t, catalogs.Reload(context.Background()))
	catalog, err := catalogs.Current()
	require.NoError(t, err)
	course, ok := catalog.Lookup("PHYS101")
	require.True(t, ok)

	service, _ := newGeneratorServiceFixture(t, generatorFixtureConfig{engine: engineStub{result: &scheduler.Result{
		Status:   scheduler.StatusPartial,
		TimedOut: true,
		Options: []scheduler.ScheduleOption{
			{Score: 70, Sections: []*models.Section{&course.Sections[models.SectionTypeLecture][0]}},
		},
	}}})

	resp, err := service.Generate(context.Background(), generateRequest("PHYS101"))
	require.NoError(t, err)
	assert.Equal(t, scheduler.StatusPartial, resp.Status)
	require.Len(t, resp.Options, 1)
	assert.Equal(t, "Physics 1", resp.Options[0].Schedule[0].CourseName)
}

func TestScheduleGeneratorServiceUnexpectedEngineError(t *testing.T) {
	service, _ := newGeneratorServiceFixture(t, generatorFixtureConfig{engine: engineStub{err: errors.New("boom")}})

	_, err := service.Generate(context.Background(), generateRequest("CS101"))
	requireAppError(t, err, appErrors.ErrInternal.Code, http.StatusInternalServerError)
}

func TestNewScheduleEngine(t *testing.T) {
	engine, err := NewScheduleEngine(config.SchedulerConfig{
		SearchTimeout:         time.Second,
		DefaultMaxOptions:     5,
		MaxOptions:            20,
		WeightMinuteOutside:   0.25,
		WeightCourseWindowCap: 30,
		WeightDayOff:          10,
		WeightInstructor:      15,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, engine)

	_, err = NewScheduleEngine(config.SchedulerConfig{WeightDayOff: -1}, nil)
	require.Error(t, err)
}
