package dto

// ── check-in requests ──

// SubmitCheckInRequest daily wellness inputs.
// pain_location is required when pain_level > 0 (struct-level rule registered by the handler package).
type SubmitCheckInRequest struct {
	HoursSlept        *float64 `json:"hours_slept"        binding:"required,min=0,max=15"`
	SleepQuality      int      `json:"sleep_quality"      binding:"required,min=1,max=10"`
	StressLevel       int      `json:"stress_level"       binding:"required,min=1,max=10"`
	PhysicalCondition int      `json:"physical_condition" binding:"required,min=1,max=10"`
	PainLevel         *int     `json:"pain_level"         binding:"omitempty,min=0,max=10"`
	PainLocation      *string  `json:"pain_location"      binding:"omitempty,max=100"`
	Notes             *string  `json:"notes"              binding:"omitempty,max=500"`
}

// CheckInHistoryRequest GET /check-ins/history query
type CheckInHistoryRequest struct {
	PaginationRequest
}

// ── check-in responses ──

// ReadinessFactorsResponse per-factor sub-scores
type ReadinessFactorsResponse struct {
	Sleep    int  `json:"sleep"`
	Stress   int  `json:"stress"`
	Physical int  `json:"physical"`
	Pain     *int `json:"pain,omitempty"`
}

// ReadinessResponse overall readiness
type ReadinessResponse struct {
	Score   int                      `json:"score"`
	Level   string                   `json:"level"`
	Factors ReadinessFactorsResponse `json:"factors"`
}

// CheckInResponse a stored check-in
type CheckInResponse struct {
	ID                string            `json:"id"`
	WorkerID          string            `json:"worker_id"`
	EventID           string            `json:"event_id"`
	CheckInDate       string            `json:"check_in_date"`
	HoursSlept        float64           `json:"hours_slept"`
	SleepQuality      int               `json:"sleep_quality"`
	StressLevel       int               `json:"stress_level"`
	PhysicalCondition int               `json:"physical_condition"`
	PainLevel         *int              `json:"pain_level,omitempty"`
	PainLocation      *string           `json:"pain_location,omitempty"`
	Notes             *string           `json:"notes,omitempty"`
	Readiness         ReadinessResponse `json:"readiness"`
	IsLate            bool              `json:"is_late"`
	LateByMinutes     *int              `json:"late_by_minutes,omitempty"`
	MissedCheckInID   *string           `json:"resolved_missed_check_in_id,omitempty"`
	SubmittedAt       string            `json:"submitted_at,omitempty"`
}

// ScheduleBrief effective schedule of the worker
type ScheduleBrief struct {
	WorkDays     []int  `json:"work_days"`
	CheckInStart string `json:"check_in_start"`
	CheckInEnd   string `json:"check_in_end"`
}

// TeamBrief team summary
type TeamBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CheckInStatusResponse GET /check-ins/status
type CheckInStatusResponse struct {
	Date              string        `json:"date"`
	CurrentTime       string        `json:"current_time"`
	IsWorkDay         bool          `json:"is_work_day"`
	IsHoliday         bool          `json:"is_holiday"`
	HolidayName       *string       `json:"holiday_name,omitempty"`
	IsWithinWindow    bool          `json:"is_within_window"`
	CanCheckIn        bool          `json:"can_check_in"`
	HasCheckedInToday bool          `json:"has_checked_in_today"`
	Schedule          ScheduleBrief `json:"schedule"`
	Team              *TeamBrief    `json:"team,omitempty"`
	Message           string        `json:"message"`
}
