package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unismart/planner-api/internal/models"
)

func meeting(day int, start, end string) models.Meeting {
	return models.Meeting{Day: day, Start: models.MustParseTimeOfDay(start), End: models.MustParseTimeOfDay(end)}
}

func section(courseID, id string, sectionType models.SectionType, instructorID string, meetings ...models.Meeting) models.Section {
	return models.Section{
		ID:           id,
		CourseID:     courseID,
		Type:         sectionType,
		InstructorID: instructorID,
		Instructor:   "Instructor " + instructorID,
		Meetings:     meetings,
	}
}

func course(id string, sections ...models.Section) models.Course {
	c := models.Course{ID: id, Name: "Course " + id, Sections: map[models.SectionType][]models.Section{}}
	for _, s := range sections {
		if _, ok := c.Sections[s.Type]; !ok {
			c.RequiredSectionTypes = append(c.RequiredSectionTypes, s.Type)
		}
		c.Sections[s.Type] = append(c.Sections[s.Type], s)
	}
	return c
}

func mustCatalog(t *testing.T, courses ...models.Course) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(courses)
	require.NoError(t, err)
	return catalog
}

// sampleCatalog mirrors a small first-semester timetable.
func sampleCatalog(t *testing.T) *Catalog {
	return mustCatalog(t,
		course("CS101",
			section("CS101", "cs-l1", models.SectionTypeLecture, "inst-1", meeting(1, "09:00", "11:00"), meeting(3, "09:00", "11:00")),
			section("CS101", "cs-l2", models.SectionTypeLecture, "inst-2", meeting(2, "14:00", "16:00")),
			section("CS101", "cs-r1", models.SectionTypeRecitation, "inst-3", meeting(1, "11:00", "12:00")),
			section("CS101", "cs-r2", models.SectionTypeRecitation, "inst-4", meeting(4, "08:00", "09:00")),
		),
		course("MATH101",
			section("MATH101", "m-l1", models.SectionTypeLecture, "inst-5", meeting(1, "10:00", "12:00")),
			section("MATH101", "m-l2", models.SectionTypeLecture, "inst-6", meeting(2, "09:00", "11:00")),
			section("MATH101", "m-r1", models.SectionTypeRecitation, "inst-7", meeting(5, "12:00", "13:00")),
			section("MATH101", "m-r2", models.SectionTypeRecitation, "inst-7", meeting(2, "15:00", "16:00")),
		),
		course("PHYS101",
			section("PHYS101", "p-l1", models.SectionTypeLecture, "inst-8", meeting(0, "10:00", "12:00")),
			section("PHYS101", "p-l2", models.SectionTypeLecture, "inst-9", meeting(3, "13:00", "15:00")),
		),
	)
}

func defaultPrefs() models.Preferences {
	return models.Preferences{
		PreferredStart: models.MustParseTimeOfDay("08:00"),
		PreferredEnd:   models.MustParseTimeOfDay("18:00"),
	}
}

func intPtr(v int) *int {
	return &v
}
