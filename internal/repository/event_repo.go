package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
)

// EventRepository append-only event store. There is no update or delete.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates an EventRepository
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}
