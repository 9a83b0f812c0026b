package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unismart/planner-api/internal/dto"
	internalmiddleware "github.com/unismart/planner-api/internal/middleware"
	"github.com/unismart/planner-api/internal/service"
	appErrors "github.com/unismart/planner-api/pkg/errors"
	"github.com/unismart/planner-api/pkg/response"
)

const maxSemesterLength = 16

type courseLister interface {
	ListCourses(ctx context.Context, query dto.CourseListQuery) (*dto.CourseListResponse, bool, error)
}

// CourseHandler serves the course catalog listing.
type CourseHandler struct {
	catalog courseLister
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(catalog *service.CatalogService) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

// List godoc
// @Summary List catalog courses
// @Tags Catalog
// @Produce json
// @Param semester query string false "Semester filter"
// @Success 200 {object} dto.CourseListResponse
// @Failure 503 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var query dto.CourseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course query"))
		return
	}
	if len(query.Semester) > maxSemesterLength {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester is too long"))
		return
	}
	result, hit, err := h.catalog.ListCourses(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	internalmiddleware.SetCacheHit(c, hit)
	response.Raw(c, http.StatusOK, result)
}
