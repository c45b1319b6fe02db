package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner runs fn inside one database transaction.
// fn receives a Repository whose every member is bound to that transaction;
// returning an error rolls everything back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(txRepo *Repository) error) error
}

// Repository aggregates every repository.
type Repository struct {
	Company       CompanyRepository
	Worker        WorkerRepository
	CheckIn       CheckInRepository
	Event         EventRepository
	MissedCheckIn MissedCheckInRepository
	Holiday       HolidayRepository
	Tx            TxRunner
}

// NewRepository creates the aggregate bound to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Company:       NewCompanyRepo(db),
		Worker:        NewWorkerRepo(db),
		CheckIn:       NewCheckInRepo(db),
		Event:         NewEventRepo(db),
		MissedCheckIn: NewMissedCheckInRepo(db),
		Holiday:       NewHolidayRepo(db),
		Tx:            &gormTxRunner{db: db},
	}
}

type gormTxRunner struct {
	db *gorm.DB
}

func (t *gormTxRunner) RunInTx(ctx context.Context, fn func(txRepo *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
