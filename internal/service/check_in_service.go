package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/dto"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/repository"
	pkgerrors "github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/errors"
)

// ── check-in errors ──
// Eligibility errors are checked in this order.

var (
	ErrHoliday              = pkgerrors.New("HOLIDAY", "today is a company holiday")
	ErrAccountInactive      = pkgerrors.New("ACCOUNT_INACTIVE", "your account is inactive")
	ErrNoTeamAssigned       = pkgerrors.New("NO_TEAM_ASSIGNED", "you are not assigned to a team")
	ErrTeamInactive         = pkgerrors.New("TEAM_INACTIVE", "your team is inactive")
	ErrNotWorkDay           = pkgerrors.New("NOT_WORK_DAY", "today is not a scheduled work day")
	ErrOutsideCheckInWindow = pkgerrors.New("OUTSIDE_CHECK_IN_WINDOW", "the check-in window has not opened yet")
	ErrDuplicateCheckIn     = pkgerrors.New("DUPLICATE_CHECK_IN", "you have already checked in today")

	ErrCompanyNotFound = pkgerrors.New("COMPANY_NOT_FOUND", "company not found")
	ErrCheckInNotFound = pkgerrors.New("CHECK_IN_NOT_FOUND", "no check-in for today")
)

const (
	entityTypeCheckIn       = "check_in"
	entityTypeMissedCheckIn = "missed_check_in"
	timeOfDayLayout         = "15:04"
)

// CheckInService check-in submission and queries.
type CheckInService interface {
	Submit(ctx context.Context, req *dto.SubmitCheckInRequest, workerID, companyID string) (*dto.CheckInResponse, error)
	GetStatus(ctx context.Context, workerID, companyID string) (*dto.CheckInStatusResponse, error)
	GetToday(ctx context.Context, workerID, companyID string) (*dto.CheckInResponse, error)
	ListHistory(ctx context.Context, workerID string, req *dto.CheckInHistoryRequest) ([]dto.CheckInResponse, int64, error)
}

type checkInService struct {
	repo       *repository.Repository
	holidays   HolidayGate
	reconciler AttendanceReconciler
	publisher  EventPublisher
	clock      *companyClock
	logger     *zap.Logger
}

func newCheckInService(
	repo *repository.Repository,
	holidays HolidayGate,
	reconciler AttendanceReconciler,
	publisher EventPublisher,
	clock *companyClock,
	logger *zap.Logger,
) *checkInService {
	return &checkInService{
		repo:       repo,
		holidays:   holidays,
		reconciler: reconciler,
		publisher:  publisher,
		clock:      clock,
		logger:     logger,
	}
}

// ────────────────────── Submit ──────────────────────

func (s *checkInService) Submit(ctx context.Context, req *dto.SubmitCheckInRequest, workerID, companyID string) (*dto.CheckInResponse, error) {
	now, err := s.clock.Now(ctx, companyID)
	if err != nil {
		return nil, err
	}
	today := now.Format(model.DateLayout)

	var (
		holiday *HolidayCheck
		worker  *model.Worker
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.holidays.IsHoliday(gctx, companyID, today)
		holiday = h
		return err
	})
	g.Go(func() error {
		w, err := s.repo.Worker.GetWithTeam(gctx, companyID, workerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		worker = w
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load check-in context failed",
			zap.String("worker_id", workerID), zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	// ── eligibility gates ──
	if holiday.IsHoliday {
		return nil, fmt.Errorf("%w: %s", ErrHoliday, holiday.HolidayName)
	}
	if worker == nil || !worker.IsActive {
		return nil, ErrAccountInactive
	}
	if worker.TeamID == nil || worker.Team == nil {
		return nil, ErrNoTeamAssigned
	}
	if !worker.Team.IsActive {
		return nil, ErrTeamInactive
	}

	schedule := ResolveSchedule(worker, worker.Team)
	if !schedule.IsWorkDay(now.Weekday()) {
		return nil, ErrNotWorkDay
	}
	windowStart, windowEnd, err := schedule.Window(now)
	if err != nil {
		s.logger.Error("invalid check-in window",
			zap.String("worker_id", workerID), zap.String("window", schedule.String()), zap.Error(err))
		return nil, err
	}
	if now.Before(windowStart) {
		return nil, ErrOutsideCheckInWindow
	}

	readiness := CalculateReadiness(ReadinessInput{
		HoursSlept:        *req.HoursSlept,
		SleepQuality:      req.SleepQuality,
		StressLevel:       req.StressLevel,
		PhysicalCondition: req.PhysicalCondition,
		PainLevel:         req.PainLevel,
	})

	isLate := now.After(windowEnd)
	var lateBy *int
	if isLate {
		minutes := int(now.Sub(windowEnd) / time.Minute)
		lateBy = &minutes
	}

	payload, err := json.Marshal(map[string]any{
		"check_in_date":   today,
		"readiness_score": readiness.Overall,
		"readiness_level": readiness.Level,
		"schedule_window": schedule.String(),
	})
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		CompanyID:     companyID,
		WorkerID:      &workerID,
		EventType:     model.EventCheckInSubmitted,
		EntityType:    entityTypeCheckIn,
		Payload:       datatypes.JSON(payload),
		EventTime:     now,
		IsLate:        isLate,
		LateByMinutes: lateBy,
	}
	checkIn := &model.CheckIn{
		CompanyID:         companyID,
		WorkerID:          workerID,
		CheckInDate:       calendarDate(now),
		HoursSlept:        *req.HoursSlept,
		SleepQuality:      req.SleepQuality,
		StressLevel:       req.StressLevel,
		PhysicalCondition: req.PhysicalCondition,
		PainLevel:         req.PainLevel,
		PainLocation:      req.PainLocation,
		Notes:             req.Notes,
		ReadinessScore:    readiness.Overall,
		ReadinessLevel:    readiness.Level,
		SleepScore:        readiness.Factors.Sleep,
		StressScore:       readiness.Factors.Stress,
		PhysicalScore:     readiness.Factors.Physical,
		PainScore:         readiness.Factors.Pain,
	}

	var reconciled *ReconcileResult
	err = s.repo.Tx.RunInTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Event.Create(ctx, event); err != nil {
			return err
		}
		checkIn.EventID = event.EventID
		if err := tx.CheckIn.Create(ctx, checkIn); err != nil {
			if pkgerrors.IsUniqueViolationOn(err, model.CheckInPerDayConstraint) {
				return ErrDuplicateCheckIn
			}
			return err
		}
		if !isLate {
			return nil
		}

		r, err := s.reconciler.Reconcile(ctx, tx, ReconcileInput{
			CompanyID:     companyID,
			WorkerID:      workerID,
			TeamID:        worker.TeamID,
			Date:          today,
			CheckInID:     checkIn.CheckInID,
			Schedule:      schedule,
			LateByMinutes: *lateBy,
			ResolvedAt:    now,
		})
		reconciled = r
		return err
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateCheckIn) {
			return nil, ErrDuplicateCheckIn
		}
		s.logger.Error("submit check-in failed",
			zap.String("worker_id", workerID), zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	checkIn.Event = event
	s.emitSubmitted(ctx, checkIn, event, reconciled)

	resp := toCheckInResponse(checkIn)
	if reconciled != nil {
		resp.MissedCheckInID = &reconciled.MissedCheckInID
	}
	return resp, nil
}

// emitSubmitted runs only after commit.
func (s *checkInService) emitSubmitted(ctx context.Context, checkIn *model.CheckIn, event *model.Event, reconciled *ReconcileResult) {
	events := []DomainEvent{{
		Type:       model.EventCheckInSubmitted,
		CompanyID:  checkIn.CompanyID,
		WorkerID:   checkIn.WorkerID,
		EntityID:   checkIn.CheckInID,
		OccurredAt: event.EventTime,
		Data: map[string]any{
			"event_id":        event.EventID,
			"check_in_date":   checkIn.CheckInDate.Format(model.DateLayout),
			"readiness_score": checkIn.ReadinessScore,
			"readiness_level": checkIn.ReadinessLevel,
			"is_late":         event.IsLate,
		},
	}}
	if reconciled != nil {
		events = append(events, DomainEvent{
			Type:       model.EventMissedCheckInResolved,
			CompanyID:  checkIn.CompanyID,
			WorkerID:   checkIn.WorkerID,
			EntityID:   reconciled.MissedCheckInID,
			OccurredAt: event.EventTime,
			Data: map[string]any{
				"entity_type":     entityTypeMissedCheckIn,
				"check_in_id":     checkIn.CheckInID,
				"late_by_minutes": reconciled.LateByMinutes,
			},
		})
	}
	dispatchEvents(ctx, s.publisher, s.logger, events...)
}

// ────────────────────── GetStatus ──────────────────────

func (s *checkInService) GetStatus(ctx context.Context, workerID, companyID string) (*dto.CheckInStatusResponse, error) {
	now, err := s.clock.Now(ctx, companyID)
	if err != nil {
		return nil, err
	}
	today := now.Format(model.DateLayout)

	var (
		checkedIn bool
		worker    *model.Worker
		holiday   *HolidayCheck
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		exists, err := s.repo.CheckIn.ExistsForDate(gctx, workerID, today)
		checkedIn = exists
		return err
	})
	g.Go(func() error {
		w, err := s.repo.Worker.GetWithTeam(gctx, companyID, workerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		worker = w
		return err
	})
	g.Go(func() error {
		h, err := s.holidays.IsHoliday(gctx, companyID, today)
		holiday = h
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load check-in status failed",
			zap.String("worker_id", workerID), zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	if worker == nil || !worker.IsActive {
		return nil, ErrAccountInactive
	}

	hasTeam := worker.Team != nil && worker.Team.IsActive
	schedule := ResolveSchedule(worker, worker.Team)
	isWorkDay := schedule.IsWorkDay(now.Weekday())
	windowStart, windowEnd, err := schedule.Window(now)
	if err != nil {
		s.logger.Error("invalid check-in window",
			zap.String("worker_id", workerID), zap.String("window", schedule.String()), zap.Error(err))
		return nil, err
	}
	beforeWindow := now.Before(windowStart)
	afterWindow := now.After(windowEnd)

	resp := &dto.CheckInStatusResponse{
		Date:              today,
		CurrentTime:       now.Format(timeOfDayLayout),
		IsWorkDay:         isWorkDay,
		IsHoliday:         holiday.IsHoliday,
		IsWithinWindow:    !beforeWindow && !afterWindow,
		HasCheckedInToday: checkedIn,
		Schedule: dto.ScheduleBrief{
			WorkDays:     schedule.WorkDays,
			CheckInStart: schedule.CheckInStart,
			CheckInEnd:   schedule.CheckInEnd,
		},
	}
	if holiday.IsHoliday {
		name := holiday.HolidayName
		resp.HolidayName = &name
	}
	if worker.Team != nil {
		resp.Team = &dto.TeamBrief{ID: worker.Team.TeamID, Name: worker.Team.Name}
	}

	resp.CanCheckIn = hasTeam && isWorkDay && !holiday.IsHoliday && !beforeWindow && !checkedIn

	switch {
	case checkedIn:
		resp.Message = "You have already checked in today."
	case holiday.IsHoliday:
		resp.Message = fmt.Sprintf("Today is a company holiday (%s). No check-in required.", holiday.HolidayName)
	case !hasTeam:
		resp.Message = "You are not assigned to an active team."
	case !isWorkDay:
		resp.Message = "Today is not one of your scheduled work days."
	case beforeWindow:
		resp.Message = fmt.Sprintf("Check-in opens at %s.", schedule.CheckInStart)
	case afterWindow:
		resp.Message = fmt.Sprintf("The check-in window closed at %s. You can still submit a late check-in.", schedule.CheckInEnd)
	default:
		resp.Message = fmt.Sprintf("You can check in now. The window closes at %s.", schedule.CheckInEnd)
	}

	return resp, nil
}

// ────────────────────── GetToday ──────────────────────

func (s *checkInService) GetToday(ctx context.Context, workerID, companyID string) (*dto.CheckInResponse, error) {
	now, err := s.clock.Now(ctx, companyID)
	if err != nil {
		return nil, err
	}

	checkIn, err := s.repo.CheckIn.GetByWorkerAndDate(ctx, workerID, now.Format(model.DateLayout))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckInNotFound
		}
		s.logger.Error("load today's check-in failed", zap.String("worker_id", workerID), zap.Error(err))
		return nil, err
	}
	return toCheckInResponse(checkIn), nil
}

// ────────────────────── ListHistory ──────────────────────

func (s *checkInService) ListHistory(ctx context.Context, workerID string, req *dto.CheckInHistoryRequest) ([]dto.CheckInResponse, int64, error) {
	checkIns, total, err := s.repo.CheckIn.ListByWorker(ctx, workerID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list check-in history failed", zap.String("worker_id", workerID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CheckInResponse, 0, len(checkIns))
	for i := range checkIns {
		result = append(result, *toCheckInResponse(&checkIns[i]))
	}
	return result, total, nil
}

// ── helpers ──

func toCheckInResponse(c *model.CheckIn) *dto.CheckInResponse {
	resp := &dto.CheckInResponse{
		ID:                c.CheckInID,
		WorkerID:          c.WorkerID,
		EventID:           c.EventID,
		CheckInDate:       c.CheckInDate.Format(model.DateLayout),
		HoursSlept:        c.HoursSlept,
		SleepQuality:      c.SleepQuality,
		StressLevel:       c.StressLevel,
		PhysicalCondition: c.PhysicalCondition,
		PainLevel:         c.PainLevel,
		PainLocation:      c.PainLocation,
		Notes:             c.Notes,
		Readiness: dto.ReadinessResponse{
			Score: c.ReadinessScore,
			Level: c.ReadinessLevel,
			Factors: dto.ReadinessFactorsResponse{
				Sleep:    c.SleepScore,
				Stress:   c.StressScore,
				Physical: c.PhysicalScore,
				Pain:     c.PainScore,
			},
		},
	}
	if c.Event != nil {
		resp.IsLate = c.Event.IsLate
		resp.LateByMinutes = c.Event.LateByMinutes
		resp.SubmittedAt = c.Event.EventTime.Format(time.RFC3339)
	}
	return resp
}
