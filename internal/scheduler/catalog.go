package scheduler

import (
	"fmt"
	"sort"

	"github.com/unismart/planner-api/internal/models"
)

// Catalog is a read-only, in-memory course catalog. It is safe for concurrent use
// once built and is never mutated by the engine.
type Catalog struct {
	courses map[string]*models.Course
	order   []string
}

// NewCatalog validates courses and indexes them by id. Later duplicates of a course
// id are rejected, as are section ids used more than once anywhere in the catalog.
func NewCatalog(courses []models.Course) (*Catalog, error) {
	c := &Catalog{
		courses: make(map[string]*models.Course, len(courses)),
		order:   make([]string, 0, len(courses)),
	}
	sectionOwners := make(map[string]string)
	for i := range courses {
		course := courses[i]
		if course.ID == "" {
			return nil, fmt.Errorf("course at index %d has no id", i)
		}
		if _, exists := c.courses[course.ID]; exists {
			return nil, fmt.Errorf("duplicate course id %q", course.ID)
		}
		if err := validateCourse(&course, sectionOwners); err != nil {
			return nil, err
		}
		course.Sections = cloneSections(course.Sections)
		course.RequiredSectionTypes = append([]models.SectionType(nil), course.RequiredSectionTypes...)
		c.courses[course.ID] = &course
		c.order = append(c.order, course.ID)
	}
	return c, nil
}

// validateCourse checks one course; owners maps every section id seen so far to
// its course and is extended with this course's sections.
func validateCourse(course *models.Course, owners map[string]string) error {
	required := make(map[models.SectionType]bool, len(course.RequiredSectionTypes))
	for _, sectionType := range course.RequiredSectionTypes {
		if required[sectionType] {
			return fmt.Errorf("course %s lists required type %s more than once", course.ID, sectionType)
		}
		required[sectionType] = true
	}
	for sectionType, sections := range course.Sections {
		for _, section := range sections {
			if section.ID == "" {
				return fmt.Errorf("course %s has a %s section without id", course.ID, sectionType)
			}
			if section.CourseID != course.ID {
				return fmt.Errorf("section %s belongs to course %q, not %q", section.ID, section.CourseID, course.ID)
			}
			if section.Type != sectionType {
				return fmt.Errorf("section %s has type %s but is filed under %s", section.ID, section.Type, sectionType)
			}
			if owner, dup := owners[section.ID]; dup {
				return fmt.Errorf("section id %s of course %s is already used by course %s", section.ID, course.ID, owner)
			}
			owners[section.ID] = course.ID
			for _, meeting := range section.Meetings {
				if err := meeting.Validate(); err != nil {
					return fmt.Errorf("section %s: %w", section.ID, err)
				}
			}
		}
	}
	return nil
}

func cloneSections(src map[models.SectionType][]models.Section) map[models.SectionType][]models.Section {
	dst := make(map[models.SectionType][]models.Section, len(src))
	for sectionType, sections := range src {
		copied := make([]models.Section, len(sections))
		for i, section := range sections {
			section.Meetings = append([]models.Meeting(nil), section.Meetings...)
			section.LinkedSectionIDs = append([]string(nil), section.LinkedSectionIDs...)
			copied[i] = section
		}
		dst[sectionType] = copied
	}
	return dst
}

// Lookup returns the course with the given id.
func (c *Catalog) Lookup(id string) (*models.Course, bool) {
	if c == nil {
		return nil, false
	}
	course, ok := c.courses[id]
	return course, ok
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Courses lists summaries in catalog order, optionally filtered by semester.
func (c *Catalog) Courses(semester string) []models.CourseSummary {
	if c == nil {
		return nil
	}
	result := make([]models.CourseSummary, 0, len(c.order))
	for _, id := range c.order {
		course := c.courses[id]
		if semester != "" && course.Semester != semester {
			continue
		}
		result = append(result, models.CourseSummary{ID: course.ID, Name: course.Name, Semester: course.Semester})
	}
	return result
}

// Dimension is one (course, section type) choice slot of the search.
type Dimension struct {
	Course   *models.Course
	Type     models.SectionType
	Sections []*models.Section
}

// ResolvedCourse is a selected course with its candidate sections per required type.
type ResolvedCourse struct {
	Course *models.Course
	Types  []Dimension
}

// Resolve maps selected course ids to their required section types and candidate
// sections. Duplicate ids are collapsed, keeping the first occurrence.
func (c *Catalog) Resolve(ids []string) ([]ResolvedCourse, error) {
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	seen := make(map[string]bool, len(ids))
	resolved := make([]ResolvedCourse, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		course, ok := c.Lookup(id)
		if !ok {
			return nil, &UnknownCourseError{CourseID: id}
		}
		entry := ResolvedCourse{Course: course}
		types := requiredTypes(course)
		if len(types) == 0 {
			return nil, &NoSectionsError{CourseID: course.ID, Type: "any"}
		}
		for _, sectionType := range types {
			sections := course.Sections[sectionType]
			if len(sections) == 0 {
				return nil, &NoSectionsError{CourseID: course.ID, Type: string(sectionType)}
			}
			dim := Dimension{Course: course, Type: sectionType, Sections: make([]*models.Section, len(sections))}
			for i := range sections {
				dim.Sections[i] = &sections[i]
			}
			entry.Types = append(entry.Types, dim)
		}
		resolved = append(resolved, entry)
	}
	return resolved, nil
}

// requiredTypes falls back to every type present, lecture first, when the course
// does not declare its required types.
func requiredTypes(course *models.Course) []models.SectionType {
	if len(course.RequiredSectionTypes) > 0 {
		return course.RequiredSectionTypes
	}
	types := make([]models.SectionType, 0, len(course.Sections))
	for sectionType, sections := range course.Sections {
		if len(sections) > 0 {
			types = append(types, sectionType)
		}
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i] == models.SectionTypeLecture {
			return types[j] != models.SectionTypeLecture
		}
		if types[j] == models.SectionTypeLecture {
			return false
		}
		return types[i] < types[j]
	})
	return types
}

// Dimensions flattens resolved courses into search dimensions in traversal order.
func Dimensions(resolved []ResolvedCourse) []Dimension {
	var dims []Dimension
	for _, course := range resolved {
		dims = append(dims, course.Types...)
	}
	return dims
}
