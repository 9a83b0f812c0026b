package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/unismart/planner-api/internal/models"
)

const (
	selectCourses  = `SELECT id, name, semester, required_types FROM courses WHERE active = TRUE ORDER BY id`
	selectSections = `SELECT s.id, s.course_id, s.section_type, s.instructor_id, COALESCE(i.name, '') AS instructor_name, s.linked_section_ids
		FROM course_sections s
		JOIN courses c ON c.id = s.course_id AND c.active = TRUE
		LEFT JOIN instructors i ON i.id = s.instructor_id
		ORDER BY s.course_id, s.id`
	selectMeetings = `SELECT m.section_id, m.day_of_week, to_char(m.start_time, 'HH24:MI') AS start_time, to_char(m.end_time, 'HH24:MI') AS end_time
		FROM section_meetings m
		JOIN course_sections s ON s.id = m.section_id
		JOIN courses c ON c.id = s.course_id AND c.active = TRUE
		ORDER BY m.section_id, m.day_of_week, m.start_time`
)

// CatalogRepository reads the course catalog owned by the registrar database.
// It never writes.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// LoadCatalog reads every active course with its sections and meetings inside one
// read-only transaction so the three reads observe the same snapshot.
func (r *CatalogRepository) LoadCatalog(ctx context.Context) ([]models.Course, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("begin catalog read: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var courses []models.CourseRecord
	if err := tx.SelectContext(ctx, &courses, selectCourses); err != nil {
		return nil, fmt.Errorf("select courses: %w", err)
	}
	var sections []models.SectionRecord
	if err := tx.SelectContext(ctx, &sections, selectSections); err != nil {
		return nil, fmt.Errorf("select sections: %w", err)
	}
	var meetings []models.MeetingRecord
	if err := tx.SelectContext(ctx, &meetings, selectMeetings); err != nil {
		return nil, fmt.Errorf("select meetings: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit catalog read: %w", err)
	}

	return models.AssembleCourses(courses, sections, meetings)
}

// Ping checks database reachability for readiness probes.
func (r *CatalogRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
