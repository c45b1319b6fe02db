package service

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
)

// ── holiday calendar import ─────────────────────────────────
//
// Turns an iCalendar (RFC 5545) feed into company holidays:
//   - all-day DTSTART/DTEND spans expand to one holiday per day (DTEND exclusive)
//   - RRULE FREQ=YEARLY marks the holiday as recurring
//   - timed events are taken on the calendar day of DTSTART in the company timezone
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize   = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout  = 30 * time.Second
	icsMaxSpanDays   = 31
	icsMaxNameLength = 200 // holidays.name is varchar(200)
)

// FetchICSContent downloads an ICS feed; webcal:// is treated as https://.
func FetchICSContent(rawURL string) (io.ReadCloser, error) {
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("fetch ICS: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch ICS: HTTP %d", resp.StatusCode)
	}
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseHolidayICS parses the feed into holidays for companyID, deduplicated by date.
func ParseHolidayICS(reader io.Reader, companyID string, loc *time.Location) ([]model.Holiday, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("parse ICS: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}

	seen := make(map[string]bool)
	var result []model.Holiday
	for _, evt := range cal.Events() {
		for _, h := range parseHolidayEvent(evt, companyID, loc) {
			key := h.HolidayDate.Format(model.DateLayout)
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, h)
		}
	}
	return result, nil
}

func parseHolidayEvent(evt *ics.VEvent, companyID string, loc *time.Location) []model.Holiday {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return nil
	}
	name := strings.TrimSpace(summary.Value)
	if r := []rune(name); len(r) > icsMaxNameLength {
		name = string(r[:icsMaxNameLength])
	}

	start, allDay, err := parseICSDate(evt.GetProperty(ics.ComponentPropertyDtStart), loc)
	if err != nil {
		return nil
	}

	days := 1
	if allDay {
		if end, endAllDay, err := parseICSDate(evt.GetProperty(ics.ComponentPropertyDtEnd), loc); err == nil && endAllDay {
			days = calendarDaysBetween(start, end)
		}
	}

	recurring := false
	if rrule := evt.GetProperty(ics.ComponentPropertyRrule); rrule != nil {
		recurring = strings.Contains(strings.ToUpper(rrule.Value), "FREQ=YEARLY")
	}

	out := make([]model.Holiday, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		out = append(out, model.Holiday{
			CompanyID:   companyID,
			HolidayDate: time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
			Name:        name,
			IsRecurring: recurring,
		})
	}
	return out
}

// calendarDaysBetween counts the dates in [start, end), at least 1 and at most icsMaxSpanDays.
func calendarDaysBetween(start, end time.Time) int {
	n := 0
	for d := start; d.Before(end) && n < icsMaxSpanDays; d = d.AddDate(0, 0, 1) {
		n++
	}
	if n == 0 {
		return 1
	}
	return n
}

// parseICSDate reads a DTSTART/DTEND property; allDay is true for VALUE=DATE values.
func parseICSDate(prop *ics.IANAProperty, loc *time.Location) (t time.Time, allDay bool, err error) {
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing date property")
	}
	val := strings.TrimSpace(prop.Value)

	if len(val) == len("20060102") {
		d, err := time.ParseInLocation("20060102", val, loc)
		return d, true, err
	}

	eventLoc := loc
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			if tz, err := time.LoadLocation(v[0]); err == nil {
				eventLoc = tz
			}
		}
	}

	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t.In(loc), false, nil
	}
	if t, err := time.ParseInLocation("20060102T150405", val, eventLoc); err == nil {
		return t.In(loc), false, nil
	}
	return time.Time{}, false, fmt.Errorf("unsupported ICS date %q", val)
}
