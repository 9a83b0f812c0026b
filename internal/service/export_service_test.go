package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unismart/planner-api/internal/dto"
	appErrors "github.com/unismart/planner-api/pkg/errors"
	"github.com/unismart/planner-api/pkg/jobs"
	"github.com/unismart/planner-api/pkg/storage"
)

type generatorStub struct {
	resp *dto.GenerateSchedulesResponse
	err  error
}

func (g generatorStub) Generate(context.Context, dto.GenerateSchedulesRequest) (*dto.GenerateSchedulesResponse, error) {
	return g.resp, g.err
}

func sampleGeneratedResponse() *dto.GenerateSchedulesResponse {
	return &dto.GenerateSchedulesResponse{
		Status: "success",
		RunID:  "run-1",
		Options: []dto.ScheduleOptionResponse{
			{
				Score: 95,
				Schedule: []dto.ScheduleItemResponse{
					{
						CourseID: "CS101", CourseName: "Intro to Programming", SectionID: "cs-l1", Type: "Lecture", Instructor: "Dr. Levi",
						Meetings: []dto.MeetingResponse{{Day: 1, Start: "09:00", End: "11:00"}, {Day: 3, Start: "09:00", End: "11:00"}},
					},
					{CourseID: "CS101", CourseName: "Intro to Programming", SectionID: "cs-online", Type: "Recitation", Instructor: "Noa"},
				},
			},
		},
	}
}

func newExportFixture(t *testing.T, gen scheduleGenerator) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(gen, store, signer, ExportConfig{APIPrefix: "/api/v1/"}, zap.NewNop()), dir
}

func TestBuildScheduleTable(t *testing.T) {
	table := BuildScheduleTable(sampleGeneratedResponse())

	assert.Equal(t, "Schedule options", table.Title)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, 1, table.Rows[0].Option)
	assert.Equal(t, "Monday", table.Rows[0].Day)
	assert.Equal(t, "Wednesday", table.Rows[1].Day)
	assert.Equal(t, "cs-online", table.Rows[2].SectionID)
	assert.Empty(t, table.Rows[2].Day)

	partial := sampleGeneratedResponse()
	partial.Status = "partial"
	assert.Equal(t, "Schedule options (partial)", BuildScheduleTable(partial).Title)
	assert.Empty(t, BuildScheduleTable(nil).Rows)
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc, _ := newExportFixture(t, generatorStub{resp: sampleGeneratedResponse()})

	file, err := svc.Render(context.Background(), generateRequest("CS101"), "")
	require.NoError(t, err)
	assert.Equal(t, "schedules-run-1.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "option,score,course_id,course_name,section_id,type,instructor,day,start,end", lines[0])
	assert.Equal(t, "1,95,CS101,Intro to Programming,cs-l1,Lecture,Dr. Levi,Monday,09:00,11:00", lines[1])
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc, _ := newExportFixture(t, generatorStub{resp: sampleGeneratedResponse()})

	file, err := svc.Render(context.Background(), generateRequest("CS101"), "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))
}

func TestExportServiceRejectsUnsupportedFormat(t *testing.T) {
	svc, _ := newExportFixture(t, generatorStub{resp: sampleGeneratedResponse()})

	_, err := svc.Render(context.Background(), generateRequest("CS101"), "xlsx")
	requireAppError(t, err, appErrors.ErrUnsupportedFormat.Code, http.StatusBadRequest)
}

func TestExportServicePropagatesGeneratorErrors(t *testing.T) {
	svc, _ := newExportFixture(t, generatorStub{err: appErrors.Clone(appErrors.ErrUnknownCourse, "course BIO999 does not exist")})

	_, err := svc.Render(context.Background(), generateRequest("BIO999"), "csv")
	requireAppError(t, err, appErrors.ErrUnknownCourse.Code, http.StatusBadRequest)
}

func TestExportServicePublishAndDownload(t *testing.T) {
	svc, dir := newExportFixture(t, generatorStub{resp: sampleGeneratedResponse()})

	link, err := svc.Publish(context.Background(), generateRequest("CS101"), "csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", link.Format)
	assert.NotEmpty(t, link.ExportID)
	require.True(t, strings.HasPrefix(link.DownloadURL, "/api/v1/exports/download?token="))

	parsed, err := url.Parse(link.DownloadURL)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	file, err := svc.Download(token)
	require.NoError(t, err)
	assert.Equal(t, "schedules-"+link.ExportID+".csv", file.Filename)
	assert.Contains(t, string(file.Data), "cs-l1")

	now := time.Now().UTC()
	stored := filepath.Join(dir, now.Format("2006"), now.Format("01"), link.ExportID+".csv")
	_, err = os.Stat(stored)
	require.NoError(t, err)
}

func TestExportServiceDownloadErrors(t *testing.T) {
	svc, dir := newExportFixture(t, generatorStub{resp: sampleGeneratedResponse()})

	_, err := svc.Download("garbage")
	requireAppError(t, err, appErrors.ErrLinkInvalid.Code, http.StatusForbidden)

	link, err := svc.Publish(context.Background(), generateRequest("CS101"), "pdf")
	require.NoError(t, err)
	parsed, err := url.Parse(link.DownloadURL)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	other := storage.NewSignedURLSigner("other-secret", time.Hour)
	forged := NewExportService(nil, nil, nil, ExportConfig{}, nil)
	forged.storage, forged.signer = svc.storage, other
	_, err = forged.Download(token)
	requireAppError(t, err, appErrors.ErrLinkInvalid.Code, http.StatusForbidden)

	require.NoError(t, os.RemoveAll(dir))
	_, err = svc.Download(token)
	requireAppError(t, err, appErrors.ErrNotFound.Code, http.StatusNotFound)
}

func TestExportServiceWithoutStorage(t *testing.T) {
	svc := NewExportService(generatorStub{resp: sampleGeneratedResponse()}, nil, nil, ExportConfig{}, nil)

	_, err := svc.Publish(context.Background(), generateRequest("CS101"), "csv")
	require.Error(t, err)
	_, err = svc.Download("token")
	requireAppError(t, err, appErrors.ErrNotFound.Code, http.StatusNotFound)

	removed, err := svc.Cleanup()
	require.NoError(t, err)
	assert.Empty(t, removed)
}

type failingCleanupStorage struct {
	exportStorage
}

func (failingCleanupStorage) CleanupOlderThan(time.Duration) ([]string, error) {
	return nil, errors.New("disk unavailable")
}

func TestExportServiceCleanupJobHandler(t *testing.T) {
	svc, _ := newExportFixture(t, generatorStub{resp: sampleGeneratedResponse()})
	handler := svc.CleanupJobHandler()

	require.NoError(t, handler(context.Background(), jobs.Job{Type: JobTypeExportsCleanup}))
	require.NoError(t, handler(context.Background(), jobs.Job{Type: JobTypeCatalogRefresh}))

	svc.storage = failingCleanupStorage{exportStorage: svc.storage}
	require.Error(t, handler(context.Background(), jobs.Job{Type: JobTypeExportsCleanup}))
}
