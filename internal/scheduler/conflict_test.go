package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unismart/planner-api/internal/models"
)

func TestMeetingsConflict(t *testing.T) {
	cases := []struct {
		name string
		a, b models.Meeting
		want bool
	}{
		{"back to back", meeting(1, "09:00", "10:00"), meeting(1, "10:00", "11:00"), false},
		{"partial overlap", meeting(1, "09:00", "10:30"), meeting(1, "10:00", "11:00"), true},
		{"contained", meeting(2, "09:00", "12:00"), meeting(2, "10:00", "11:00"), true},
		{"identical", meeting(4, "13:00", "14:00"), meeting(4, "13:00", "14:00"), true},
		{"different days", meeting(1, "09:00", "10:30"), meeting(2, "09:00", "10:30"), false},
		{"disjoint same day", meeting(3, "08:00", "09:00"), meeting(3, "15:00", "16:00"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MeetingsConflict(tc.a, tc.b))
			assert.Equal(t, tc.want, MeetingsConflict(tc.b, tc.a))
		})
	}
}

func TestSectionsConflictChecksEveryMeetingPair(t *testing.T) {
	a := section("C1", "a", models.SectionTypeLecture, "i1", meeting(1, "09:00", "10:00"), meeting(3, "09:00", "10:00"))
	b := section("C2", "b", models.SectionTypeLecture, "i2", meeting(2, "09:00", "10:00"), meeting(3, "09:30", "10:30"))
	c := section("C3", "c", models.SectionTypeLecture, "i3", meeting(3, "10:00", "11:00"))

	assert.True(t, SectionsConflict(&a, &b))
	assert.False(t, SectionsConflict(&a, &c))
	assert.True(t, SectionsConflict(&b, &c))
}

func TestSectionsConflictWithoutMeetings(t *testing.T) {
	a := section("C1", "a", models.SectionTypeLecture, "i1")
	b := section("C2", "b", models.SectionTypeLecture, "i2", meeting(1, "09:00", "10:00"))
	assert.False(t, SectionsConflict(&a, &b))
}
