package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unismart/planner-api/internal/dto"
	"github.com/unismart/planner-api/internal/service"
	appErrors "github.com/unismart/planner-api/pkg/errors"
	"github.com/unismart/planner-api/pkg/response"
)

// RunIDHeader carries the generation run id back to the client.
const RunIDHeader = "X-Schedule-Run-ID"

const (
	deliveryInline = "inline"
	deliveryLink   = "link"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateSchedulesRequest) (*dto.GenerateSchedulesResponse, error)
}

type scheduleExporter interface {
	Render(ctx context.Context, req dto.GenerateSchedulesRequest, format string) (*service.ExportFile, error)
	Publish(ctx context.Context, req dto.GenerateSchedulesRequest, format string) (*dto.ExportLinkResponse, error)
	Download(token string) (*service.ExportFile, error)
}

// ScheduleGeneratorHandler exposes schedule generation and export endpoints.
type ScheduleGeneratorHandler struct {
	service  scheduleGenerator
	exporter scheduleExporter
}

// NewScheduleGeneratorHandler constructs the handler.
func NewScheduleGeneratorHandler(svc *service.ScheduleGeneratorService, exporter *service.ExportService) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{service: svc, exporter: exporter}
}

// Generate godoc
// @Summary Generate ranked conflict-free schedules
// @Description Returns up to max_options schedules for the selected courses, best score first. An empty options list means no conflict-free combination exists.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateSchedulesRequest true "Selected courses and preferences"
// @Success 200 {object} dto.GenerateSchedulesResponse
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /generate-schedules [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	req, ok := bindGenerateRequest(c)
	if !ok {
		return
	}
	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if resp.RunID != "" {
		c.Header(RunIDHeader, resp.RunID)
	}
	if resp.Options == nil {
		resp.Options = []dto.ScheduleOptionResponse{}
	}
	response.Raw(c, http.StatusOK, resp)
}

// Export godoc
// @Summary Export generated schedules as CSV or PDF
// @Description delivery=inline streams the file; delivery=link stores it and returns a signed download link.
// @Tags Scheduler
// @Accept json
// @Produce text/csv,application/pdf,json
// @Param format query string false "csv or pdf" default(csv)
// @Param delivery query string false "inline or link" default(inline)
// @Param payload body dto.GenerateSchedulesRequest true "Selected courses and preferences"
// @Success 200 {file} file
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /generate-schedules/export [post]
func (h *ScheduleGeneratorHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if query.Delivery != "" && query.Delivery != deliveryInline && query.Delivery != deliveryLink {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "delivery must be inline or link"))
		return
	}
	req, ok := bindGenerateRequest(c)
	if !ok {
		return
	}

	if query.Delivery == deliveryLink {
		link, err := h.exporter.Publish(c.Request.Context(), req, query.Format)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusCreated, link, nil)
		return
	}

	file, err := h.exporter.Render(c.Request.Context(), req, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Download godoc
// @Summary Download a stored export
// @Tags Scheduler
// @Produce text/csv,application/pdf,json
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /exports/download [get]
func (h *ScheduleGeneratorHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.exporter.Download(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func bindGenerateRequest(c *gin.Context) (dto.GenerateSchedulesRequest, bool) {
	var req dto.GenerateSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return req, false
	}
	return req, true
}
