package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unismart/planner-api/internal/dto"
	appErrors "github.com/unismart/planner-api/pkg/errors"
	"github.com/unismart/planner-api/pkg/export"
	"github.com/unismart/planner-api/pkg/jobs"
	"github.com/unismart/planner-api/pkg/storage"
)

// JobTypeExportsCleanup identifies the sweep of expired export files.
const JobTypeExportsCleanup = "exports.cleanup"

const defaultExportFormat = "csv"

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateSchedulesRequest) (*dto.GenerateSchedulesResponse, error)
}

type exportStorage interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders ranked schedules as CSV or PDF and publishes them behind
// signed, expiring download links.
type ExportService struct {
	generator scheduleGenerator
	storage   exportStorage
	signer    *storage.SignedURLSigner
	cfg       ExportConfig
	logger    *zap.Logger
}

// NewExportService constructs an ExportService. storage and signer are only needed
// for link delivery.
func NewExportService(generator scheduleGenerator, store exportStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &ExportService{generator: generator, storage: store, signer: signer, cfg: cfg, logger: logger}
}

// Render generates schedules for req and renders them in format.
func (s *ExportService) Render(ctx context.Context, req dto.GenerateSchedulesRequest, format string) (*ExportFile, error) {
	renderer, err := rendererFor(format)
	if err != nil {
		return nil, err
	}
	resp, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := renderer.Render(BuildScheduleTable(resp))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	name := "schedules"
	if resp.RunID != "" {
		name = "schedules-" + resp.RunID
	}
	return &ExportFile{
		Filename:    name + "." + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

// Publish renders the export, stores it and returns a signed download link.
func (s *ExportService) Publish(ctx context.Context, req dto.GenerateSchedulesRequest, format string) (*dto.ExportLinkResponse, error) {
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export storage is not configured")
	}
	file, err := s.Render(ctx, req, format)
	if err != nil {
		return nil, err
	}

	exportID := uuid.NewString()
	now := time.Now().UTC()
	name := fmt.Sprintf("%04d/%02d/%s%s", now.Year(), now.Month(), exportID, path.Ext(file.Filename))
	relPath, err := s.storage.Save(name, file.Data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}

	s.logger.Info("export published",
		zap.String("export_id", exportID),
		zap.String("path", relPath),
		zap.Int("bytes", len(file.Data)),
		zap.Time("expires_at", expiresAt),
	)
	return &dto.ExportLinkResponse{
		ExportID:    exportID,
		Format:      strings.TrimPrefix(path.Ext(relPath), "."),
		DownloadURL: fmt.Sprintf("%s/exports/download?token=%s", strings.TrimRight(s.cfg.APIPrefix, "/"), url.QueryEscape(token)),
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

// Download verifies token and returns the stored export it points to.
func (s *ExportService) Download(token string) (*ExportFile, error) {
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exports are not available")
	}
	exportID, relPath, _, err := s.signer.Parse(token)
	switch {
	case errors.Is(err, storage.ErrTokenExpired):
		return nil, appErrors.Wrap(err, appErrors.ErrLinkExpired.Code, appErrors.ErrLinkExpired.Status, appErrors.ErrLinkExpired.Message)
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrLinkInvalid.Code, appErrors.ErrLinkInvalid.Status, appErrors.ErrLinkInvalid.Message)
	}

	renderer, err := rendererFor(strings.TrimPrefix(path.Ext(relPath), "."))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrLinkInvalid, "")
	}
	data, err := s.storage.Read(relPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export")
	}
	return &ExportFile{
		Filename:    "schedules-" + exportID + "." + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

// Cleanup removes stored exports older than the link TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	if s.storage == nil || s.signer == nil {
		return nil, nil
	}
	removed, err := s.storage.CleanupOlderThan(s.signer.TTL())
	if err != nil {
		return removed, err
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
	return removed, nil
}

// CleanupJobHandler adapts Cleanup to the background queue.
func (s *ExportService) CleanupJobHandler() jobs.Handler {
	return func(_ context.Context, job jobs.Job) error {
		if job.Type != JobTypeExportsCleanup {
			return nil
		}
		_, err := s.Cleanup()
		return err
	}
}

// BuildScheduleTable flattens ranked options into one row per meeting. Sections
// without meetings still get a row.
func BuildScheduleTable(resp *dto.GenerateSchedulesResponse) export.Table {
	table := export.Table{Title: "Schedule options"}
	if resp == nil {
		return table
	}
	if resp.Status != "" && resp.Status != "success" {
		table.Title += " (" + resp.Status + ")"
	}
	for i, option := range resp.Options {
		for _, item := range option.Schedule {
			row := export.ScheduleRow{
				Option:     i + 1,
				Score:      option.Score,
				CourseID:   item.CourseID,
				CourseName: item.CourseName,
				SectionID:  item.SectionID,
				Type:       item.Type,
				Instructor: item.Instructor,
			}
			if len(item.Meetings) == 0 {
				table.Rows = append(table.Rows, row)
				continue
			}
			for _, m := range item.Meetings {
				row.Day = time.Weekday(m.Day).String()
				row.Start = m.Start
				row.End = m.End
				table.Rows = append(table.Rows, row)
			}
		}
	}
	return table
}

func rendererFor(format string) (export.Renderer, error) {
	if format == "" {
		format = defaultExportFormat
	}
	renderer, err := export.ForFormat(strings.ToLower(format))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, fmt.Sprintf("format %q is not supported, use csv or pdf", format))
	}
	return renderer, nil
}
