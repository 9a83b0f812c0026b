package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unismart/planner-api/internal/dto"
	internalmiddleware "github.com/unismart/planner-api/internal/middleware"
	appErrors "github.com/unismart/planner-api/pkg/errors"
)

type courseListerMock struct {
	query dto.CourseListQuery
	resp  *dto.CourseListResponse
	hit   bool
	err   error
}

func (m *courseListerMock) ListCourses(_ context.Context, query dto.CourseListQuery) (*dto.CourseListResponse, bool, error) {
	m.query = query
	return m.resp, m.hit, m.err
}

func newCourseRouter(lister courseLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/courses", (&CourseHandler{catalog: lister}).List)
	return router
}

func TestCourseHandlerList(t *testing.T) {
	mock := &courseListerMock{
		resp: &dto.CourseListResponse{Courses: []dto.CourseSummaryResponse{{ID: "CS101", Name: "Intro", Semester: "A"}}},
		hit:  true,
	}
	router := newCourseRouter(mock)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses?semester=A", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A", mock.query.Semester)
	assert.Equal(t, "HIT", w.Header().Get(internalmiddleware.CacheStatusHeader))
	assert.JSONEq(t, `{"courses":[{"id":"CS101","name":"Intro","semester":"A"}]}`, w.Body.String())
}

func TestCourseHandlerRejectsLongSemester(t *testing.T) {
	router := newCourseRouter(&courseListerMock{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses?semester="+strings.Repeat("x", 17), nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerCatalogUnavailable(t *testing.T) {
	router := newCourseRouter(&courseListerMock{err: appErrors.Clone(appErrors.ErrCatalogUnavailable, "")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}
