package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/dto"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
)

// ── test helpers ──

const (
	testCompanyID = "company-1"
	testWorkerID  = "worker-1"
	testTeamID    = "team-1"
)

// 2027-03-03 is a Wednesday.
func at(hour, min, sec int) time.Time {
	return time.Date(2027, 3, 3, hour, min, sec, 0, time.UTC)
}

func floatPtr(v float64) *float64 { return &v }

func validSubmitRequest() *dto.SubmitCheckInRequest {
	return &dto.SubmitCheckInRequest{
		HoursSlept:        floatPtr(8),
		SleepQuality:      8,
		StressLevel:       3,
		PhysicalCondition: 8,
	}
}

func setupCheckInService(now time.Time) (*checkInService, *testEnv, *mockPublisher) {
	env := newTestEnv()
	env.companies.companies[testCompanyID] = &model.Company{
		CompanyID: testCompanyID, Name: "Acme Mining", Timezone: "UTC", IsActive: true,
	}
	teamID := testTeamID
	env.workers.workers[testWorkerID] = &model.Worker{
		WorkerID:  testWorkerID,
		CompanyID: testCompanyID,
		TeamID:    &teamID,
		FirstName: "Ana",
		LastName:  "Reyes",
		IsActive:  true,
		Team: &model.Team{
			TeamID:       testTeamID,
			CompanyID:    testCompanyID,
			Name:         "Night Shift",
			WorkDays:     model.IntArray{1, 2, 3, 4, 5},
			CheckInStart: "06:00",
			CheckInEnd:   "10:00",
			IsActive:     true,
		},
	}

	logger := zap.NewNop()
	pub := newMockPublisher()
	clock := &companyClock{repo: env.repo, now: fixedClock(now), fallback: "UTC"}
	holidays := newHolidayService(env.repo, nil, time.Hour, clock, logger)
	svc := newCheckInService(env.repo, holidays, NewAttendanceReconciler(logger), pub, clock, logger)
	return svc, env, pub
}

// ════════════════════════════════════════════════════════════
// Submit
// ════════════════════════════════════════════════════════════

func TestCheckInService_Submit_OnTime(t *testing.T) {
	svc, env, pub := setupCheckInService(at(8, 15, 0))

	resp, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("Submit should succeed: %v", err)
	}
	if resp.CheckInDate != "2027-03-03" {
		t.Errorf("expected date 2027-03-03, got %s", resp.CheckInDate)
	}
	if resp.Readiness.Score != 81 || resp.Readiness.Level != model.ReadinessGreen {
		t.Errorf("expected 81/GREEN, got %d/%s", resp.Readiness.Score, resp.Readiness.Level)
	}
	if resp.IsLate || resp.LateByMinutes != nil {
		t.Error("on-time submission must not be late")
	}
	if resp.EventID == "" {
		t.Error("check-in should reference its event")
	}
	if env.checkIns.count() != 1 || env.events.count() != 1 {
		t.Errorf("expected 1 check-in and 1 event, got %d/%d", env.checkIns.count(), env.events.count())
	}
	if _, err := env.missed.GetByWorkerAndDate(context.Background(), testWorkerID, "2027-03-03"); err == nil {
		t.Error("on-time submission must not touch missed check-ins")
	}

	evt, ok := pub.next()
	if !ok {
		t.Fatal("expected CHECK_IN_SUBMITTED to be published")
	}
	if evt.Type != model.EventCheckInSubmitted || evt.EntityID != resp.ID {
		t.Errorf("unexpected event %+v", evt)
	}
}

func TestCheckInService_Submit_WindowStartIsInclusive(t *testing.T) {
	svc, _, _ := setupCheckInService(at(6, 0, 0))

	if _, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID); err != nil {
		t.Fatalf("submission at window start should succeed: %v", err)
	}
}

func TestCheckInService_Submit_AtWindowEndIsNotLate(t *testing.T) {
	svc, _, _ := setupCheckInService(at(10, 0, 0))

	resp, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("Submit should succeed: %v", err)
	}
	if resp.IsLate {
		t.Error("submission exactly at window end must not be late")
	}
}

func TestCheckInService_Submit_LateCreatesResolvedMissedCheckIn(t *testing.T) {
	svc, env, pub := setupCheckInService(at(11, 30, 40))

	resp, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("late submission should succeed: %v", err)
	}
	if !resp.IsLate || resp.LateByMinutes == nil || *resp.LateByMinutes != 90 {
		t.Fatalf("expected late by 90 minutes, got late=%v by=%v", resp.IsLate, resp.LateByMinutes)
	}

	rec, err := env.missed.GetByWorkerAndDate(context.Background(), testWorkerID, "2027-03-03")
	if err != nil {
		t.Fatalf("expected a missed check-in record: %v", err)
	}
	if !rec.IsResolved() || *rec.ResolvedByCheckInID != resp.ID {
		t.Errorf("record should be born resolved by %s, got %+v", resp.ID, rec)
	}
	if rec.ScheduleWindow != "06:00-10:00" {
		t.Errorf("expected schedule snapshot 06:00-10:00, got %s", rec.ScheduleWindow)
	}
	if resp.MissedCheckInID == nil || *resp.MissedCheckInID != rec.MissedCheckInID {
		t.Error("response should carry the resolved missed check-in id")
	}

	first, ok1 := pub.next()
	second, ok2 := pub.next()
	if !ok1 || !ok2 {
		t.Fatal("expected two published events")
	}
	if first.Type != model.EventCheckInSubmitted || second.Type != model.EventMissedCheckInResolved {
		t.Errorf("unexpected event order: %s, %s", first.Type, second.Type)
	}
	if second.EntityID != rec.MissedCheckInID {
		t.Errorf("resolution event should reference %s, got %s", rec.MissedCheckInID, second.EntityID)
	}
}

func TestCheckInService_Submit_LateResolvesDetectorRecord(t *testing.T) {
	svc, env, _ := setupCheckInService(at(12, 0, 0))

	teamID := testTeamID
	detected := &model.MissedCheckIn{
		CompanyID:      testCompanyID,
		WorkerID:       testWorkerID,
		TeamID:         &teamID,
		MissedDate:     time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC),
		ScheduleWindow: "06:00-10:00",
	}
	if created, _ := env.missed.CreateUnresolved(context.Background(), detected); !created {
		t.Fatal("detector insert should succeed")
	}

	resp, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("Submit should succeed: %v", err)
	}

	if len(env.missed.records) != 1 {
		t.Fatalf("expected exactly one missed record, got %d", len(env.missed.records))
	}
	rec, _ := env.missed.GetByWorkerAndDate(context.Background(), testWorkerID, "2027-03-03")
	if rec.MissedCheckInID != detected.MissedCheckInID {
		t.Error("detector record should be resolved in place")
	}
	if !rec.IsResolved() || *rec.ResolvedByCheckInID != resp.ID {
		t.Errorf("detector record not resolved by the check-in: %+v", rec)
	}
}

func TestCheckInService_Submit_LateDetectorWinsRace(t *testing.T) {
	svc, env, _ := setupCheckInService(at(12, 0, 0))

	var detectorID string
	var once sync.Once
	env.missed.afterFind = func() {
		once.Do(func() {
			rec := &model.MissedCheckIn{
				CompanyID:      testCompanyID,
				WorkerID:       testWorkerID,
				MissedDate:     time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC),
				ScheduleWindow: "06:00-10:00",
			}
			_, _ = env.missed.CreateUnresolved(context.Background(), rec)
			detectorID = rec.MissedCheckInID
		})
	}

	resp, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("Submit should succeed: %v", err)
	}

	if len(env.missed.records) != 1 {
		t.Fatalf("expected exactly one missed record, got %d", len(env.missed.records))
	}
	rec, _ := env.missed.GetByWorkerAndDate(context.Background(), testWorkerID, "2027-03-03")
	if rec.MissedCheckInID != detectorID {
		t.Error("upsert should resolve the row the detector inserted")
	}
	if !rec.IsResolved() || *rec.ResolvedByCheckInID != resp.ID {
		t.Errorf("row inserted by detector should end up resolved: %+v", rec)
	}
}

func TestCheckInService_Submit_EligibilityGates(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		setup func(env *testEnv)
		want  error
	}{
		{
			name: "holiday wins over every other gate",
			now:  at(4, 0, 0),
			setup: func(env *testEnv) {
				env.holidays.holidays = append(env.holidays.holidays, &model.Holiday{
					HolidayID: "h-1", CompanyID: testCompanyID, Name: "Founders Day",
					HolidayDate: time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC),
				})
				env.workers.workers[testWorkerID].IsActive = false
			},
			want: ErrHoliday,
		},
		{
			name: "recurring holiday",
			now:  at(8, 0, 0),
			setup: func(env *testEnv) {
				env.holidays.holidays = append(env.holidays.holidays, &model.Holiday{
					HolidayID: "h-2", CompanyID: testCompanyID, Name: "Anniversary", IsRecurring: true,
					HolidayDate: time.Date(2020, 3, 3, 0, 0, 0, 0, time.UTC),
				})
			},
			want: ErrHoliday,
		},
		{
			name:  "inactive worker",
			now:   at(8, 0, 0),
			setup: func(env *testEnv) { env.workers.workers[testWorkerID].IsActive = false },
			want:  ErrAccountInactive,
		},
		{
			name:  "unknown worker",
			now:   at(8, 0, 0),
			setup: func(env *testEnv) { delete(env.workers.workers, testWorkerID) },
			want:  ErrAccountInactive,
		},
		{
			name: "no team",
			now:  at(8, 0, 0),
			setup: func(env *testEnv) {
				w := env.workers.workers[testWorkerID]
				w.TeamID = nil
				w.Team = nil
			},
			want: ErrNoTeamAssigned,
		},
		{
			name: "inactive team is checked before the work day",
			now:  time.Date(2027, 3, 6, 8, 0, 0, 0, time.UTC),
			setup: func(env *testEnv) {
				env.workers.workers[testWorkerID].Team.IsActive = false
			},
			want: ErrTeamInactive,
		},
		{
			name: "saturday",
			now:  time.Date(2027, 3, 6, 8, 0, 0, 0, time.UTC),
			want: ErrNotWorkDay,
		},
		{
			name: "worker works weekends only",
			now:  at(8, 0, 0),
			setup: func(env *testEnv) {
				env.workers.workers[testWorkerID].WorkDays = model.IntArray{0, 6}
			},
			want: ErrNotWorkDay,
		},
		{
			name: "before window",
			now:  at(5, 59, 59),
			want: ErrOutsideCheckInWindow,
		},
		{
			name: "before personal window start",
			now:  at(6, 30, 0),
			setup: func(env *testEnv) {
				env.workers.workers[testWorkerID].CheckInStart = strPtr("07:00")
			},
			want: ErrOutsideCheckInWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, env, _ := setupCheckInService(tt.now)
			if tt.setup != nil {
				tt.setup(env)
			}

			_, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if env.checkIns.count() != 0 || env.events.count() != 0 {
				t.Error("rejected submission must not write anything")
			}
		})
	}
}

func TestCheckInService_Submit_HolidayErrorNamesHoliday(t *testing.T) {
	svc, env, _ := setupCheckInService(at(8, 0, 0))
	env.holidays.holidays = append(env.holidays.holidays, &model.Holiday{
		HolidayID: "h-1", CompanyID: testCompanyID, Name: "Founders Day",
		HolidayDate: time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC),
	})

	_, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if !errors.Is(err, ErrHoliday) || !strings.Contains(err.Error(), "Founders Day") {
		t.Fatalf("expected holiday error naming the holiday, got %v", err)
	}
}

func TestCheckInService_Submit_PersonalWindowMakesLate(t *testing.T) {
	svc, env, _ := setupCheckInService(at(9, 5, 0))
	env.workers.workers[testWorkerID].CheckInEnd = strPtr("09:00")

	resp, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("Submit should succeed: %v", err)
	}
	if !resp.IsLate || *resp.LateByMinutes != 5 {
		t.Errorf("expected late by 5 against personal window end, got %v", resp.LateByMinutes)
	}
	rec, _ := env.missed.GetByWorkerAndDate(context.Background(), testWorkerID, "2027-03-03")
	if rec == nil || rec.ScheduleWindow != "06:00-09:00" {
		t.Errorf("expected schedule snapshot 06:00-09:00, got %+v", rec)
	}
}

func TestCheckInService_Submit_Duplicate(t *testing.T) {
	svc, env, _ := setupCheckInService(at(8, 0, 0))
	ctx := context.Background()

	if _, err := svc.Submit(ctx, validSubmitRequest(), testWorkerID, testCompanyID); err != nil {
		t.Fatalf("first submission should succeed: %v", err)
	}
	_, err := svc.Submit(ctx, validSubmitRequest(), testWorkerID, testCompanyID)
	if !errors.Is(err, ErrDuplicateCheckIn) {
		t.Fatalf("expected ErrDuplicateCheckIn, got %v", err)
	}
	if env.events.count() != 1 {
		t.Errorf("event of the rejected submission should be rolled back, got %d events", env.events.count())
	}
}

func TestCheckInService_Submit_ConcurrentDuplicate(t *testing.T) {
	svc, env, _ := setupCheckInService(at(12, 0, 0))

	const attempts = 2
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicateCheckIn):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != 1 {
		t.Fatalf("expected 1 success and 1 duplicate, got %d/%d", ok, dup)
	}
	if env.checkIns.count() != 1 || env.events.count() != 1 {
		t.Errorf("expected exactly one check-in and one event, got %d/%d", env.checkIns.count(), env.events.count())
	}
	if len(env.missed.records) != 1 {
		t.Errorf("expected one missed record, got %d", len(env.missed.records))
	}
}

func TestCheckInService_Submit_PersistenceErrorPropagates(t *testing.T) {
	svc, env, _ := setupCheckInService(at(8, 0, 0))
	env.checkIns.createErr = errDBDown

	_, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if !errors.Is(err, errDBDown) {
		t.Fatalf("expected the storage error unchanged, got %v", err)
	}
	if errors.Is(err, ErrDuplicateCheckIn) {
		t.Error("storage failure must not be reported as duplicate")
	}
	if env.events.count() != 0 {
		t.Error("event should be rolled back with the failed check-in")
	}
}

func TestCheckInService_Submit_OtherUniqueViolationIsNotDuplicate(t *testing.T) {
	svc, env, _ := setupCheckInService(at(8, 0, 0))
	env.checkIns.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "check_ins_event_id_key"}

	_, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if err == nil || errors.Is(err, ErrDuplicateCheckIn) {
		t.Fatalf("only the per-day constraint means duplicate, got %v", err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Errorf("expected the driver error unchanged, got %v", err)
	}
	if env.events.count() != 0 {
		t.Error("event should be rolled back with the failed check-in")
	}
}

func TestCheckInService_Submit_ReadErrorPropagates(t *testing.T) {
	svc, env, _ := setupCheckInService(at(8, 0, 0))
	env.workers.err = errDBDown

	_, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if !errors.Is(err, errDBDown) {
		t.Fatalf("expected %v, got %v", errDBDown, err)
	}
}

func TestCheckInService_Submit_PublishFailureNotSurfaced(t *testing.T) {
	svc, env, pub := setupCheckInService(at(11, 0, 0))
	pub.err = errors.New("redis unavailable")

	if _, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID); err != nil {
		t.Fatalf("publish failure must not fail the submission: %v", err)
	}
	if _, ok := pub.next(); !ok {
		t.Error("publish should still have been attempted")
	}
	if env.checkIns.count() != 1 {
		t.Error("check-in should be stored")
	}
}

func TestCheckInService_Submit_UsesCompanyTimezone(t *testing.T) {
	if _, err := time.LoadLocation("Asia/Manila"); err != nil {
		t.Skip("tzdata not available")
	}
	// 23:30 UTC on Tuesday is 07:30 Wednesday in Manila
	svc, env, _ := setupCheckInService(time.Date(2027, 3, 2, 23, 30, 0, 0, time.UTC))
	env.companies.companies[testCompanyID].Timezone = "Asia/Manila"

	resp, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("Submit should succeed: %v", err)
	}
	if resp.CheckInDate != "2027-03-03" || resp.IsLate {
		t.Errorf("expected on-time check-in on 2027-03-03, got %s late=%v", resp.CheckInDate, resp.IsLate)
	}
	stored, err := env.checkIns.GetByWorkerAndDate(context.Background(), testWorkerID, "2027-03-03")
	if err != nil {
		t.Fatalf("check-in should be stored under the Manila date: %v", err)
	}
	if !stored.CheckInDate.Equal(time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected check_in_date 2027-03-03, got %v", stored.CheckInDate)
	}
}

func TestCheckInService_Submit_DSTSpringForward(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 2026-03-08 is a Sunday; clocks jump from 02:00 to 03:00
	tests := []struct {
		name       string
		local      time.Time
		wantLate   bool
		wantLateBy int
	}{
		{"06:30 is on time", time.Date(2026, 3, 8, 6, 30, 0, 0, ny), false, 0},
		{"10:30 is late by 30", time.Date(2026, 3, 8, 10, 30, 0, 0, ny), true, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, env, _ := setupCheckInService(tt.local.UTC())
			env.companies.companies[testCompanyID].Timezone = "America/New_York"
			env.workers.workers[testWorkerID].WorkDays = model.IntArray{0}

			resp, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, testCompanyID)
			if err != nil {
				t.Fatalf("Submit should succeed: %v", err)
			}
			if resp.CheckInDate != "2026-03-08" || resp.IsLate != tt.wantLate {
				t.Fatalf("got date %s late=%v, want 2026-03-08 late=%v", resp.CheckInDate, resp.IsLate, tt.wantLate)
			}
			if tt.wantLate && (resp.LateByMinutes == nil || *resp.LateByMinutes != tt.wantLateBy) {
				t.Errorf("expected late by %d minutes, got %v", tt.wantLateBy, resp.LateByMinutes)
			}
		})
	}
}

func TestCheckInService_Submit_UnknownCompany(t *testing.T) {
	svc, _, _ := setupCheckInService(at(8, 0, 0))

	_, err := svc.Submit(context.Background(), validSubmitRequest(), testWorkerID, "company-x")
	if !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestCheckInService_Submit_StoresPain(t *testing.T) {
	svc, env, _ := setupCheckInService(at(8, 0, 0))
	req := validSubmitRequest()
	req.PainLevel = intPtr(4)
	req.PainLocation = strPtr("lower back")

	resp, err := svc.Submit(context.Background(), req, testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("Submit should succeed: %v", err)
	}
	if resp.Readiness.Score != 77 || resp.Readiness.Factors.Pain == nil || *resp.Readiness.Factors.Pain != 60 {
		t.Errorf("unexpected readiness %+v", resp.Readiness)
	}
	stored, _ := env.checkIns.GetByWorkerAndDate(context.Background(), testWorkerID, "2027-03-03")
	if stored.PainLocation == nil || *stored.PainLocation != "lower back" {
		t.Error("pain location should be stored")
	}
}

// ════════════════════════════════════════════════════════════
// GetStatus
// ════════════════════════════════════════════════════════════

func TestCheckInService_GetStatus_DistinctMessages(t *testing.T) {
	ctx := context.Background()
	messages := make(map[string]string)

	cases := []struct {
		name       string
		now        time.Time
		checkedIn  bool
		canCheckIn bool
		inWindow   bool
	}{
		{name: "before window", now: at(5, 0, 0), canCheckIn: false},
		{name: "inside window", now: at(7, 0, 0), canCheckIn: true, inWindow: true},
		{name: "after window", now: at(11, 0, 0), canCheckIn: true},
		{name: "already checked in", now: at(11, 0, 0), checkedIn: true, canCheckIn: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := setupCheckInService(tc.now)
			if tc.checkedIn {
				if _, err := svc.Submit(ctx, validSubmitRequest(), testWorkerID, testCompanyID); err != nil {
					t.Fatalf("setup submit failed: %v", err)
				}
			}

			status, err := svc.GetStatus(ctx, testWorkerID, testCompanyID)
			if err != nil {
				t.Fatalf("GetStatus should succeed: %v", err)
			}
			if status.CanCheckIn != tc.canCheckIn {
				t.Errorf("expected canCheckIn=%v, got %v", tc.canCheckIn, status.CanCheckIn)
			}
			if status.IsWithinWindow != tc.inWindow {
				t.Errorf("expected isWithinWindow=%v, got %v", tc.inWindow, status.IsWithinWindow)
			}
			if status.HasCheckedInToday != tc.checkedIn {
				t.Errorf("expected hasCheckedInToday=%v", tc.checkedIn)
			}
			if !status.IsWorkDay || status.IsHoliday {
				t.Error("Wednesday without holiday should be a plain work day")
			}
			if status.Team == nil || status.Team.Name != "Night Shift" {
				t.Errorf("expected team in status, got %+v", status.Team)
			}
			messages[tc.name] = status.Message
		})
	}

	seen := make(map[string]bool)
	for name, msg := range messages {
		if msg == "" {
			t.Errorf("%s: empty message", name)
		}
		if seen[msg] {
			t.Errorf("message %q is not distinct", msg)
		}
		seen[msg] = true
	}
	if !strings.Contains(messages["after window"], "late") {
		t.Errorf("after-window message should mention late check-in: %q", messages["after window"])
	}
}

func TestCheckInService_GetStatus_Holiday(t *testing.T) {
	svc, env, _ := setupCheckInService(at(8, 0, 0))
	env.holidays.holidays = append(env.holidays.holidays, &model.Holiday{
		HolidayID: "h-1", CompanyID: testCompanyID, Name: "Founders Day",
		HolidayDate: time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC),
	})

	status, err := svc.GetStatus(context.Background(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("GetStatus should succeed: %v", err)
	}
	if !status.IsHoliday || status.HolidayName == nil || *status.HolidayName != "Founders Day" {
		t.Errorf("expected holiday Founders Day, got %+v", status)
	}
	if status.CanCheckIn {
		t.Error("cannot check in on a holiday")
	}
	if !strings.Contains(status.Message, "Founders Day") {
		t.Errorf("holiday message should name the holiday: %q", status.Message)
	}
}

func TestCheckInService_GetStatus_NotWorkDay(t *testing.T) {
	svc, _, _ := setupCheckInService(time.Date(2027, 3, 6, 8, 0, 0, 0, time.UTC))

	status, err := svc.GetStatus(context.Background(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("GetStatus should succeed: %v", err)
	}
	if status.IsWorkDay || status.CanCheckIn {
		t.Error("Saturday is not a work day")
	}
	if !strings.Contains(status.Message, "not one of your scheduled work days") {
		t.Errorf("unexpected message %q", status.Message)
	}
}

func TestCheckInService_GetStatus_CheckedInBeatsHoliday(t *testing.T) {
	svc, env, _ := setupCheckInService(at(8, 0, 0))
	ctx := context.Background()
	if _, err := svc.Submit(ctx, validSubmitRequest(), testWorkerID, testCompanyID); err != nil {
		t.Fatalf("setup submit failed: %v", err)
	}
	env.holidays.holidays = append(env.holidays.holidays, &model.Holiday{
		HolidayID: "h-1", CompanyID: testCompanyID, Name: "Snap Holiday",
		HolidayDate: time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC),
	})

	status, err := svc.GetStatus(ctx, testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("GetStatus should succeed: %v", err)
	}
	if status.Message != "You have already checked in today." {
		t.Errorf("already-checked-in should win, got %q", status.Message)
	}
}

func TestCheckInService_GetStatus_PersonalSchedule(t *testing.T) {
	svc, env, _ := setupCheckInService(at(8, 0, 0))
	w := env.workers.workers[testWorkerID]
	w.CheckInStart = strPtr("09:00")

	status, err := svc.GetStatus(context.Background(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("GetStatus should succeed: %v", err)
	}
	if status.Schedule.CheckInStart != "09:00" || status.Schedule.CheckInEnd != "10:00" {
		t.Errorf("expected 09:00-10:00, got %+v", status.Schedule)
	}
	if status.CanCheckIn || !strings.Contains(status.Message, "09:00") {
		t.Errorf("expected before-window state, got %+v", status)
	}
}

func TestCheckInService_GetStatus_NoWrites(t *testing.T) {
	svc, env, _ := setupCheckInService(at(11, 0, 0))

	if _, err := svc.GetStatus(context.Background(), testWorkerID, testCompanyID); err != nil {
		t.Fatalf("GetStatus should succeed: %v", err)
	}
	if env.checkIns.count() != 0 || env.events.count() != 0 || len(env.missed.records) != 0 {
		t.Error("status query must not write")
	}
}

// ════════════════════════════════════════════════════════════
// GetToday / ListHistory
// ════════════════════════════════════════════════════════════

func TestCheckInService_GetToday(t *testing.T) {
	svc, _, _ := setupCheckInService(at(8, 0, 0))
	ctx := context.Background()

	if _, err := svc.GetToday(ctx, testWorkerID, testCompanyID); !errors.Is(err, ErrCheckInNotFound) {
		t.Fatalf("expected ErrCheckInNotFound, got %v", err)
	}
	created, err := svc.Submit(ctx, validSubmitRequest(), testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("Submit should succeed: %v", err)
	}
	got, err := svc.GetToday(ctx, testWorkerID, testCompanyID)
	if err != nil {
		t.Fatalf("GetToday should succeed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected %s, got %s", created.ID, got.ID)
	}
}

func TestCheckInService_ListHistory(t *testing.T) {
	svc, env, _ := setupCheckInService(at(8, 0, 0))
	ctx := context.Background()
	for day := 1; day <= 3; day++ {
		_ = env.checkIns.Create(ctx, &model.CheckIn{
			WorkerID:    testWorkerID,
			CompanyID:   testCompanyID,
			CheckInDate: time.Date(2027, 3, day, 0, 0, 0, 0, time.UTC),
		})
	}

	req := &dto.CheckInHistoryRequest{PaginationRequest: dto.PaginationRequest{Page: 1, PageSize: 2}}
	list, total, err := svc.ListHistory(ctx, testWorkerID, req)
	if err != nil {
		t.Fatalf("ListHistory should succeed: %v", err)
	}
	if total != 3 || len(list) != 2 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(list), total)
	}
	if list[0].CheckInDate != "2027-03-03" {
		t.Errorf("expected newest first, got %s", list[0].CheckInDate)
	}
}
