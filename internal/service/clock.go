package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/repository"
)

// Clock returns the current instant.
type Clock func() time.Time

var locationCache sync.Map // tz name -> *time.Location

func loadLocation(name string) (*time.Location, error) {
	if v, ok := locationCache.Load(name); ok {
		return v.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	locationCache.Store(name, loc)
	return loc, nil
}

// calendarDate returns the local calendar day of t as a UTC midnight, the form date columns are stored in.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// companyClock yields "now" in a company's own timezone.
// Companies without a valid timezone fall back to the configured default.
type companyClock struct {
	repo     *repository.Repository
	now      Clock
	fallback string
}

func (c *companyClock) location(ctx context.Context, companyID string) (*time.Location, error) {
	company, err := c.repo.Company.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	if company.Timezone != "" {
		if loc, err := loadLocation(company.Timezone); err == nil {
			return loc, nil
		}
	}
	if c.fallback == "" {
		return time.UTC, nil
	}
	loc, err := loadLocation(c.fallback)
	if err != nil {
		return nil, fmt.Errorf("load default timezone %q: %w", c.fallback, err)
	}
	return loc, nil
}

// Now returns the current instant in the company's timezone.
func (c *companyClock) Now(ctx context.Context, companyID string) (time.Time, error) {
	loc, err := c.location(ctx, companyID)
	if err != nil {
		return time.Time{}, err
	}
	return c.now().In(loc), nil
}
