package scheduler

import "github.com/unismart/planner-api/internal/models"

// MeetingsConflict reports whether two meetings overlap on the same day. Intervals
// are half-open, so a meeting ending exactly when another starts does not conflict.
func MeetingsConflict(a, b models.Meeting) bool {
	return a.Day == b.Day && a.Start < b.End && b.Start < a.End
}

// SectionsConflict reports whether any meeting of s1 overlaps any meeting of s2.
func SectionsConflict(s1, s2 *models.Section) bool {
	for _, a := range s1.Meetings {
		for _, b := range s2.Meetings {
			if MeetingsConflict(a, b) {
				return true
			}
		}
	}
	return false
}

// linkRules records, for each section that some other section lists as linked,
// which section types do the listing. A listed section may only be combined with a
// section of such a type when that section lists it too.
type linkRules map[*models.Section]map[models.SectionType]bool

func buildLinkRules(dims []Dimension) linkRules {
	byCourse := make(map[string]map[string]*models.Section)
	for _, dim := range dims {
		index := byCourse[dim.Course.ID]
		if index == nil {
			index = make(map[string]*models.Section)
			byCourse[dim.Course.ID] = index
		}
		for _, section := range dim.Sections {
			index[section.ID] = section
		}
	}
	rules := make(linkRules)
	for _, dim := range dims {
		for _, section := range dim.Sections {
			for _, linkedID := range section.LinkedSectionIDs {
				target, ok := byCourse[dim.Course.ID][linkedID]
				if !ok {
					continue
				}
				if rules[target] == nil {
					rules[target] = make(map[models.SectionType]bool)
				}
				rules[target][section.Type] = true
			}
		}
	}
	return rules
}

// compatible reports whether a and b may appear in the same schedule as far as
// section links are concerned.
func (r linkRules) compatible(a, b *models.Section) bool {
	if len(r) == 0 || a.CourseID != b.CourseID {
		return true
	}
	if r[b][a.Type] && !a.Links(b.ID) {
		return false
	}
	if r[a][b.Type] && !b.Links(a.ID) {
		return false
	}
	return true
}
