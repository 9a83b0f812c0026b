package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/unismart/planner-api/internal/dto"
	"github.com/unismart/planner-api/internal/models"
	"github.com/unismart/planner-api/internal/scheduler"
	appErrors "github.com/unismart/planner-api/pkg/errors"
	"github.com/unismart/planner-api/pkg/jobs"
)

// JobTypeCatalogRefresh identifies catalog reload jobs on the background queue.
const JobTypeCatalogRefresh = "catalog.refresh"

// CatalogSource loads the full course catalog from its system of record.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) ([]models.Course, error)
}

type catalogSnapshot struct {
	catalog  *scheduler.Catalog
	version  uint64
	loadedAt time.Time
}

// CatalogService owns the in-memory catalog snapshot handed to the engine. Reloads
// build a new snapshot and swap it atomically; requests keep whichever snapshot
// they started with.
type CatalogService struct {
	source  CatalogSource
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger

	current atomic.Pointer[catalogSnapshot]
	version atomic.Uint64
}

// NewCatalogService wires a catalog service. cache and metrics may be nil.
func NewCatalogService(source CatalogSource, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{source: source, cache: cache, metrics: metrics, logger: logger}
}

// Reload fetches the catalog from the source and swaps the snapshot. On failure the
// previous snapshot stays active.
func (s *CatalogService) Reload(ctx context.Context) error {
	start := time.Now()
	courses, err := s.source.LoadCatalog(ctx)
	s.metrics.ObserveDBQuery("catalog_load", time.Since(start))
	if err != nil {
		s.metrics.RecordCatalogReload(false, 0)
		return appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "failed to load course catalog")
	}
	catalog, err := scheduler.NewCatalog(courses)
	if err != nil {
		s.metrics.RecordCatalogReload(false, 0)
		return appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "course catalog is inconsistent")
	}

	version := s.version.Add(1)
	s.current.Store(&catalogSnapshot{catalog: catalog, version: version, loadedAt: time.Now().UTC()})
	s.metrics.RecordCatalogReload(true, catalog.Len())
	// Listings are keyed by version, so stale entries simply age out; this only
	// frees memory early.
	_ = s.cache.Invalidate(ctx, "courses:*")

	s.logger.Info("catalog snapshot loaded",
		zap.Uint64("version", version),
		zap.Int("courses", catalog.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Current returns the active catalog, or CATALOG_UNAVAILABLE before the first
// successful load.
func (s *CatalogService) Current() (*scheduler.Catalog, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, appErrors.Clone(appErrors.ErrCatalogUnavailable, "course catalog has not been loaded yet")
	}
	return snap.catalog, nil
}

// Ready reports whether a snapshot is loaded.
func (s *CatalogService) Ready() bool {
	return s.current.Load() != nil
}

// Version returns the active snapshot version, 0 when none is loaded.
func (s *CatalogService) Version() uint64 {
	if snap := s.current.Load(); snap != nil {
		return snap.version
	}
	return 0
}

// ListCourses returns course summaries, optionally filtered by semester, and
// reports whether the listing was served from cache.
func (s *CatalogService) ListCourses(ctx context.Context, query dto.CourseListQuery) (*dto.CourseListResponse, bool, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, false, appErrors.Clone(appErrors.ErrCatalogUnavailable, "course catalog has not been loaded yet")
	}

	resp := &dto.CourseListResponse{}
	hit, err := s.cache.Remember(ctx, CourseListKey(snap.version, query.Semester), resp, func() error {
		summaries := snap.catalog.Courses(query.Semester)
		resp.Courses = make([]dto.CourseSummaryResponse, 0, len(summaries))
		for _, c := range summaries {
			resp.Courses = append(resp.Courses, dto.CourseSummaryResponse{ID: c.ID, Name: c.Name, Semester: c.Semester})
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if resp.Courses == nil {
		resp.Courses = []dto.CourseSummaryResponse{}
	}
	return resp, hit, nil
}

// RefreshJobHandler adapts Reload to the background queue.
func (s *CatalogService) RefreshJobHandler() jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		if job.Type != JobTypeCatalogRefresh {
			return nil
		}
		return s.Reload(ctx)
	}
}
