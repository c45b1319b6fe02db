package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
)

// CompanyRepository company data access
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*model.Company, error)
}

type companyRepo struct {
	db *gorm.DB
}

// NewCompanyRepo creates a CompanyRepository
func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Where("company_id = ?", id).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}
