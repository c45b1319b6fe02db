package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
)

// Fallback schedule when neither worker nor team defines a field.
const (
	DefaultCheckInStart = "06:00"
	DefaultCheckInEnd   = "10:00"
)

// DefaultWorkDays Monday–Friday (time.Weekday numbering)
var DefaultWorkDays = []int{1, 2, 3, 4, 5}

// EffectiveSchedule a worker's schedule after merging overrides with team defaults
type EffectiveSchedule struct {
	WorkDays     []int  `json:"work_days"`
	CheckInStart string `json:"check_in_start"`
	CheckInEnd   string `json:"check_in_end"`
}

// ResolveSchedule merges the worker's personal overrides with the team defaults.
// Each field is resolved on its own: worker → team → hard default. Either argument may be nil.
func ResolveSchedule(worker *model.Worker, team *model.Team) EffectiveSchedule {
	s := EffectiveSchedule{
		WorkDays:     DefaultWorkDays,
		CheckInStart: DefaultCheckInStart,
		CheckInEnd:   DefaultCheckInEnd,
	}

	if team != nil {
		if len(team.WorkDays) > 0 {
			s.WorkDays = team.WorkDays
		}
		if team.CheckInStart != "" {
			s.CheckInStart = team.CheckInStart
		}
		if team.CheckInEnd != "" {
			s.CheckInEnd = team.CheckInEnd
		}
	}

	if worker != nil {
		if len(worker.WorkDays) > 0 {
			s.WorkDays = worker.WorkDays
		}
		if worker.CheckInStart != nil && *worker.CheckInStart != "" {
			s.CheckInStart = *worker.CheckInStart
		}
		if worker.CheckInEnd != nil && *worker.CheckInEnd != "" {
			s.CheckInEnd = *worker.CheckInEnd
		}
	}

	// copy so callers never alias model slices
	days := make([]int, len(s.WorkDays))
	copy(days, s.WorkDays)
	s.WorkDays = days

	return s
}

// IsWorkDay reports whether weekday is one of the schedule's work days.
func (s EffectiveSchedule) IsWorkDay(weekday time.Weekday) bool {
	for _, d := range s.WorkDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// Window returns the check-in window on the calendar day of localNow, in localNow's location.
func (s EffectiveSchedule) Window(localNow time.Time) (start, end time.Time, err error) {
	startMin, err := parseClock(s.CheckInStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := parseClock(s.CheckInEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	// wall-clock bounds, so DST transition days keep the configured hours
	y, m, d := localNow.Date()
	loc := localNow.Location()
	return time.Date(y, m, d, startMin/60, startMin%60, 0, 0, loc),
		time.Date(y, m, d, endMin/60, endMin%60, 0, 0, loc), nil
}

// String renders the window as "HH:MM-HH:MM".
func (s EffectiveSchedule) String() string {
	return s.CheckInStart + "-" + s.CheckInEnd
}

// parseClock converts "HH:MM" into minutes after midnight.
func parseClock(v string) (int, error) {
	parts := strings.Split(v, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", v)
	}
	return h*60 + m, nil
}
