package dto

// CoursePreferenceRequest names the instructor a student would like for a course.
type CoursePreferenceRequest struct {
	CourseID              string `json:"course_id" validate:"required"`
	PreferredInstructorID string `json:"preferred_instructor_id" validate:"required"`
}

// PreferencesRequest carries the soft preferences used for ranking. Times and the
// day off are checked by the scheduler so that bad values report INVALID_PREFERENCE.
type PreferencesRequest struct {
	PreferredStartTime string                    `json:"preferred_start_time"`
	PreferredEndTime   string                    `json:"preferred_end_time"`
	DayOffRequested    *int                      `json:"day_off_requested,omitempty"`
	CoursePreferences  []CoursePreferenceRequest `json:"course_preferences" validate:"omitempty,dive"`
}

// GenerateSchedulesRequest asks for ranked conflict-free schedules over the selected courses.
type GenerateSchedulesRequest struct {
	SelectedCourseIDs []string           `json:"selected_course_ids" validate:"required,min=1,dive,required"`
	Preferences       PreferencesRequest `json:"preferences"`
	// MaxOptions defaults to 5 when omitted.
	MaxOptions int `json:"max_options,omitempty" validate:"omitempty,min=1,max=20"`
}

// MeetingResponse is one weekly meeting.
type MeetingResponse struct {
	Day   int    `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleItemResponse is one chosen section inside an option.
type ScheduleItemResponse struct {
	CourseID   string            `json:"course_id"`
	CourseName string            `json:"course_name"`
	SectionID  string            `json:"section_id"`
	Type       string            `json:"type"`
	Instructor string            `json:"instructor"`
	Meetings   []MeetingResponse `json:"meetings"`
}

// ScheduleOptionResponse is one ranked schedule.
type ScheduleOptionResponse struct {
	Score    int                    `json:"score"`
	Schedule []ScheduleItemResponse `json:"schedule"`
}

// GenerateSchedulesResponse is the body of POST /generate-schedules.
type GenerateSchedulesResponse struct {
	Status  string                   `json:"status"`
	Options []ScheduleOptionResponse `json:"options"`
	// RunID correlates the response with server logs. It travels in the
	// X-Schedule-Run-ID header, not the body.
	RunID string `json:"-"`
}

// ExportQuery selects the export format and delivery mode. Format defaults to csv.
type ExportQuery struct {
	Format   string `form:"format"`
	Delivery string `form:"delivery" validate:"omitempty,oneof=inline link"`
}

// ExportLinkResponse points to a stored export.
type ExportLinkResponse struct {
	ExportID    string `json:"export_id"`
	Format      string `json:"format"`
	DownloadURL string `json:"download_url"`
	ExpiresAt   string `json:"expires_at"`
}

// CourseListQuery filters the course listing.
type CourseListQuery struct {
	Semester string `form:"semester" validate:"omitempty,max=16"`
}

// CourseSummaryResponse is one entry of the course listing.
type CourseSummaryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Semester string `json:"semester"`
}

// CourseListResponse is the body of GET /courses.
type CourseListResponse struct {
	Courses []CourseSummaryResponse `json:"courses"`
}
