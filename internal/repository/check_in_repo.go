package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
)

// CheckInRepository check-in data access.
// Create relies on uk_check_ins_worker_date; a second insert for the same
// (worker, date) fails with a unique violation.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *model.CheckIn) error
	ExistsForDate(ctx context.Context, workerID, date string) (bool, error)
	GetByWorkerAndDate(ctx context.Context, workerID, date string) (*model.CheckIn, error)
	ListByWorker(ctx context.Context, workerID string, offset, limit int) ([]model.CheckIn, int64, error)
}

type checkInRepo struct {
	db *gorm.DB
}

// NewCheckInRepo creates a CheckInRepository
func NewCheckInRepo(db *gorm.DB) CheckInRepository {
	return &checkInRepo{db: db}
}

func (r *checkInRepo) Create(ctx context.Context, checkIn *model.CheckIn) error {
	return r.db.WithContext(ctx).Create(checkIn).Error
}

func (r *checkInRepo) ExistsForDate(ctx context.Context, workerID, date string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CheckIn{}).
		Where("worker_id = ? AND check_in_date = ?", workerID, date).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *checkInRepo) GetByWorkerAndDate(ctx context.Context, workerID, date string) (*model.CheckIn, error) {
	var checkIn model.CheckIn
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("worker_id = ? AND check_in_date = ?", workerID, date).
		First(&checkIn).Error
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}

func (r *checkInRepo) ListByWorker(ctx context.Context, workerID string, offset, limit int) ([]model.CheckIn, int64, error) {
	var checkIns []model.CheckIn
	var total int64

	db := r.db.WithContext(ctx).Model(&model.CheckIn{}).
		Where("worker_id = ?", workerID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Event").
		Offset(offset).Limit(limit).
		Order("check_in_date DESC").
		Find(&checkIns).Error
	return checkIns, total, err
}
