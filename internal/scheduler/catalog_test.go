package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unismart/planner-api/internal/models"
)

func TestNewCatalogRejectsBadCourses(t *testing.T) {
	good := course("A", section("A", "a1", models.SectionTypeLecture, "i", meeting(1, "09:00", "10:00")))

	_, err := NewCatalog([]models.Course{good, good})
	assert.ErrorContains(t, err, "duplicate course id")

	stray := course("B", section("A", "b1", models.SectionTypeLecture, "i", meeting(1, "09:00", "10:00")))
	_, err = NewCatalog([]models.Course{stray})
	assert.ErrorContains(t, err, "belongs to course")

	inverted := course("C", section("C", "c1", models.SectionTypeLecture, "i", meeting(1, "11:00", "10:00")))
	_, err = NewCatalog([]models.Course{inverted})
	assert.ErrorContains(t, err, "must be before end")

	badDay := course("D", section("D", "d1", models.SectionTypeLecture, "i", models.Meeting{Day: 9, Start: 60, End: 120}))
	_, err = NewCatalog([]models.Course{badDay})
	assert.ErrorContains(t, err, "out of range")

	_, err = NewCatalog([]models.Course{{Name: "nameless"}})
	assert.Error(t, err)
}

func TestNewCatalogRejectsSectionIDsSharedAcrossCourses(t *testing.T) {
	a := course("A",
		section("A", "L1", models.SectionTypeLecture, "i", meeting(1, "09:00", "10:00")),
		section("A", "L2", models.SectionTypeLecture, "i", meeting(2, "09:00", "10:00")),
	)
	b := course("B",
		section("B", "L1", models.SectionTypeLecture, "j", meeting(3, "09:00", "10:00")),
		section("B", "L2", models.SectionTypeLecture, "j", meeting(4, "09:00", "10:00")),
	)

	_, err := NewCatalog([]models.Course{a, b})
	assert.ErrorContains(t, err, "already used by course A")

	twice := course("C",
		section("C", "c1", models.SectionTypeLecture, "i", meeting(1, "09:00", "10:00")),
		section("C", "c1", models.SectionTypeLecture, "i", meeting(2, "09:00", "10:00")),
	)
	_, err = NewCatalog([]models.Course{twice})
	assert.Error(t, err)
}

func TestNewCatalogRejectsRepeatedRequiredType(t *testing.T) {
	c := course("A",
		section("A", "a1", models.SectionTypeLecture, "i", meeting(1, "09:00", "10:00")),
		section("A", "a2", models.SectionTypeLecture, "i", meeting(2, "09:00", "10:00")),
	)
	c.RequiredSectionTypes = []models.SectionType{models.SectionTypeLecture, models.SectionTypeLecture}

	_, err := NewCatalog([]models.Course{c})
	assert.ErrorContains(t, err, "more than once")
}

func TestCatalogIsIsolatedFromCallerMutation(t *testing.T) {
	src := course("A", section("A", "a1", models.SectionTypeLecture, "i", meeting(1, "09:00", "10:00")))
	catalog := mustCatalog(t, src)

	src.Sections[models.SectionTypeLecture][0].Meetings[0].Day = 5
	got, ok := catalog.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, 1, got.Sections[models.SectionTypeLecture][0].Meetings[0].Day)
}

func TestCatalogResolve(t *testing.T) {
	catalog := sampleCatalog(t)

	resolved, err := catalog.Resolve([]string{"MATH101", "PHYS101", "MATH101"})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "MATH101", resolved[0].Course.ID)
	require.Len(t, resolved[0].Types, 2)
	assert.Equal(t, models.SectionTypeLecture, resolved[0].Types[0].Type)
	assert.Equal(t, models.SectionTypeRecitation, resolved[0].Types[1].Type)
	assert.Len(t, resolved[1].Types, 1)
	assert.Len(t, Dimensions(resolved), 3)

	_, err = catalog.Resolve(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestRequiredTypesFallbackPutsLectureFirst(t *testing.T) {
	c := models.Course{
		ID: "E",
		Sections: map[models.SectionType][]models.Section{
			models.SectionTypeRecitation: {section("E", "e-r", models.SectionTypeRecitation, "i")},
			models.SectionTypeLab:        {section("E", "e-x", models.SectionTypeLab, "i")},
			models.SectionTypeLecture:    {section("E", "e-l", models.SectionTypeLecture, "i")},
		},
	}
	assert.Equal(t, []models.SectionType{models.SectionTypeLecture, models.SectionTypeLab, models.SectionTypeRecitation}, requiredTypes(&c))

	empty := models.Course{ID: "F"}
	catalog := mustCatalog(t, empty)
	_, err := catalog.Resolve([]string{"F"})
	var noSections *NoSectionsError
	assert.ErrorAs(t, err, &noSections)
}

func TestCatalogCoursesFilterBySemester(t *testing.T) {
	a := course("A", section("A", "a1", models.SectionTypeLecture, "i"))
	a.Semester = "A"
	b := course("B", section("B", "b1", models.SectionTypeLecture, "i"))
	b.Semester = "B"
	catalog := mustCatalog(t, a, b)

	assert.Len(t, catalog.Courses(""), 2)
	only := catalog.Courses("B")
	require.Len(t, only, 1)
	assert.Equal(t, "B", only[0].ID)
	assert.Equal(t, 2, catalog.Len())
}
