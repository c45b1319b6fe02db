package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
)

// MissedCheckInRepository missed check-in data access.
// Two independent writers share this table: the external detector job and the
// late-submission reconciler. Every write is conditional so the row converges.
type MissedCheckInRepository interface {
	// FindUnresolved returns the unresolved record for (worker, date) or gorm.ErrRecordNotFound.
	FindUnresolved(ctx context.Context, workerID, date string) (*model.MissedCheckIn, error)
	// Resolve links an unresolved record to a check-in; false when it was already resolved.
	Resolve(ctx context.Context, id, checkInID string, at time.Time) (bool, error)
	// UpsertResolved inserts m already resolved, or resolves the existing unresolved
	// row for (worker, date). Returns the affected row id, "" when the existing row
	// was already resolved.
	UpsertResolved(ctx context.Context, m *model.MissedCheckIn) (string, error)
	// CreateUnresolved is the detector's write: insert unless a row for (worker, date) exists.
	CreateUnresolved(ctx context.Context, m *model.MissedCheckIn) (bool, error)
	GetByWorkerAndDate(ctx context.Context, workerID, date string) (*model.MissedCheckIn, error)
}

type missedCheckInRepo struct {
	db *gorm.DB
}

// NewMissedCheckInRepo creates a MissedCheckInRepository
func NewMissedCheckInRepo(db *gorm.DB) MissedCheckInRepository {
	return &missedCheckInRepo{db: db}
}

func (r *missedCheckInRepo) FindUnresolved(ctx context.Context, workerID, date string) (*model.MissedCheckIn, error) {
	var m model.MissedCheckIn
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND missed_date = ? AND resolved_at IS NULL", workerID, date).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *missedCheckInRepo) Resolve(ctx context.Context, id, checkInID string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.MissedCheckIn{}).
		Where("missed_check_in_id = ? AND resolved_at IS NULL", id).
		Updates(map[string]interface{}{
			"resolved_by_check_in_id": checkInID,
			"resolved_at":             at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *missedCheckInRepo) UpsertResolved(ctx context.Context, m *model.MissedCheckIn) (string, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "worker_id"}, {Name: "missed_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"resolved_by_check_in_id": gorm.Expr("EXCLUDED.resolved_by_check_in_id"),
				"resolved_at":             gorm.Expr("EXCLUDED.resolved_at"),
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "missed_check_ins.resolved_at IS NULL"},
			}},
		}).
		Create(m)
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", nil
	}
	return m.MissedCheckInID, nil
}

func (r *missedCheckInRepo) CreateUnresolved(ctx context.Context, m *model.MissedCheckIn) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "worker_id"}, {Name: "missed_date"}},
			DoNothing: true,
		}).
		Create(m)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *missedCheckInRepo) GetByWorkerAndDate(ctx context.Context, workerID, date string) (*model.MissedCheckIn, error) {
	var m model.MissedCheckIn
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND missed_date = ?", workerID, date).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
