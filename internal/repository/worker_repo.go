package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
)

// WorkerRepository worker data access
type WorkerRepository interface {
	// GetWithTeam loads a worker of the company together with its team (nil when unassigned).
	GetWithTeam(ctx context.Context, companyID, workerID string) (*model.Worker, error)
}

type workerRepo struct {
	db *gorm.DB
}

// NewWorkerRepo creates a WorkerRepository
func NewWorkerRepo(db *gorm.DB) WorkerRepository {
	return &workerRepo{db: db}
}

func (r *workerRepo) GetWithTeam(ctx context.Context, companyID, workerID string) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("worker_id = ? AND company_id = ?", workerID, companyID).
		First(&worker).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}
