package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
)

// HolidayRepository company holiday data access
type HolidayRepository interface {
	// FindForDate returns the holiday falling on date (exact or recurring), or gorm.ErrRecordNotFound.
	FindForDate(ctx context.Context, companyID string, date time.Time) (*model.Holiday, error)
	Create(ctx context.Context, holiday *model.Holiday) error
	// UpsertBatch inserts holidays, renaming existing ones on (company, date) conflict.
	UpsertBatch(ctx context.Context, holidays []model.Holiday) (int64, error)
	List(ctx context.Context, companyID string, year int) ([]model.Holiday, error)
	Delete(ctx context.Context, companyID, id string) (bool, error)
}

type holidayRepo struct {
	db *gorm.DB
}

// NewHolidayRepo creates a HolidayRepository
func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

func (r *holidayRepo) FindForDate(ctx context.Context, companyID string, date time.Time) (*model.Holiday, error) {
	var holiday model.Holiday
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where(
			r.db.Where("holiday_date = ?", date.Format(model.DateLayout)).
				Or("is_recurring AND EXTRACT(MONTH FROM holiday_date) = ? AND EXTRACT(DAY FROM holiday_date) = ?",
					int(date.Month()), date.Day()),
		).
		Order("is_recurring ASC").
		First(&holiday).Error
	if err != nil {
		return nil, err
	}
	return &holiday, nil
}

func (r *holidayRepo) Create(ctx context.Context, holiday *model.Holiday) error {
	return r.db.WithContext(ctx).Create(holiday).Error
}

func (r *holidayRepo) UpsertBatch(ctx context.Context, holidays []model.Holiday) (int64, error) {
	if len(holidays) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}, {Name: "holiday_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"name":       gorm.Expr("EXCLUDED.name"),
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(&holidays)
	return result.RowsAffected, result.Error
}

func (r *holidayRepo) List(ctx context.Context, companyID string, year int) ([]model.Holiday, error) {
	var holidays []model.Holiday
	db := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if year > 0 {
		db = db.Where("is_recurring OR EXTRACT(YEAR FROM holiday_date) = ?", year)
	}
	err := db.Order("holiday_date ASC").Find(&holidays).Error
	return holidays, err
}

func (r *holidayRepo) Delete(ctx context.Context, companyID, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("holiday_id = ? AND company_id = ?", id, companyID).
		Delete(&model.Holiday{})
	return result.RowsAffected > 0, result.Error
}
