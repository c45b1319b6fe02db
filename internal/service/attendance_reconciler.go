package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/repository"
)

// ReconcileInput a late check-in to link against the missed check-in record.
type ReconcileInput struct {
	CompanyID     string
	WorkerID      string
	TeamID        *string
	Date          string // company-local YYYY-MM-DD
	CheckInID     string
	Schedule      EffectiveSchedule
	LateByMinutes int
	ResolvedAt    time.Time
}

// ReconcileResult the missed check-in resolved by the late submission.
type ReconcileResult struct {
	MissedCheckInID string
	LateByMinutes   int
}

// AttendanceReconciler links a late check-in to the day's missed check-in record,
// whether or not the detector has written it yet.
type AttendanceReconciler interface {
	// Reconcile runs inside the caller's transaction. Returns nil, nil when the
	// record was already resolved by someone else.
	Reconcile(ctx context.Context, txRepo *repository.Repository, in ReconcileInput) (*ReconcileResult, error)
}

type attendanceReconciler struct {
	logger *zap.Logger
}

// NewAttendanceReconciler creates an AttendanceReconciler
func NewAttendanceReconciler(logger *zap.Logger) AttendanceReconciler {
	return &attendanceReconciler{logger: logger}
}

func (r *attendanceReconciler) Reconcile(ctx context.Context, txRepo *repository.Repository, in ReconcileInput) (*ReconcileResult, error) {
	existing, err := txRepo.MissedCheckIn.FindUnresolved(ctx, in.WorkerID, in.Date)
	switch {
	case err == nil:
		ok, err := txRepo.MissedCheckIn.Resolve(ctx, existing.MissedCheckInID, in.CheckInID, in.ResolvedAt)
		if err != nil {
			return nil, err
		}
		if ok {
			return &ReconcileResult{MissedCheckInID: existing.MissedCheckInID, LateByMinutes: in.LateByMinutes}, nil
		}
		// resolved concurrently; the upsert below settles it
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	day, err := time.Parse(model.DateLayout, in.Date)
	if err != nil {
		return nil, err
	}
	checkInID := in.CheckInID
	resolvedAt := in.ResolvedAt
	record := &model.MissedCheckIn{
		CompanyID:           in.CompanyID,
		WorkerID:            in.WorkerID,
		TeamID:              in.TeamID,
		MissedDate:          day,
		ScheduleWindow:      in.Schedule.String(),
		ResolvedByCheckInID: &checkInID,
		ResolvedAt:          &resolvedAt,
	}

	id, err := txRepo.MissedCheckIn.UpsertResolved(ctx, record)
	if err != nil {
		return nil, err
	}
	if id == "" {
		r.logger.Warn("missed check-in already resolved",
			zap.String("worker_id", in.WorkerID), zap.String("date", in.Date))
		return nil, nil
	}
	return &ReconcileResult{MissedCheckInID: id, LateByMinutes: in.LateByMinutes}, nil
}
