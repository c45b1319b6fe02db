package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/dto"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/repository"
	pkgerrors "github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/errors"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/redis"
)

// ── holiday errors ──

var (
	ErrHolidayNotFound    = pkgerrors.New("HOLIDAY_NOT_FOUND", "holiday not found")
	ErrHolidayExists      = pkgerrors.New("HOLIDAY_EXISTS", "a holiday already exists on this date")
	ErrInvalidHolidayDate = pkgerrors.New("INVALID_HOLIDAY_DATE", "holiday date must be YYYY-MM-DD")
	ErrInvalidCalendar    = pkgerrors.New("INVALID_CALENDAR", "calendar file could not be parsed")
)

const holidayCacheKeyPrefix = "holiday:"

// HolidayCheck answer of the holiday gate.
type HolidayCheck struct {
	IsHoliday   bool   `json:"is_holiday"`
	HolidayName string `json:"holiday_name,omitempty"`
}

// HolidayGate answers whether a company-local date is a company holiday.
// Safe for concurrent use.
type HolidayGate interface {
	IsHoliday(ctx context.Context, companyID, date string) (*HolidayCheck, error)
}

// HolidayService holiday gate plus holiday management.
type HolidayService interface {
	HolidayGate
	Create(ctx context.Context, companyID string, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error)
	List(ctx context.Context, companyID string, year int) ([]dto.HolidayResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	ImportICS(ctx context.Context, companyID string, r io.Reader) (*dto.ImportHolidaysResponse, error)
}

// holidayCache is the subset of the Redis client the gate needs.
type holidayCache interface {
	GetCached(ctx context.Context, key string) (string, error)
	SetCached(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

type holidayService struct {
	repo   *repository.Repository
	cache  holidayCache // nil = no cache
	ttl    time.Duration
	clock  *companyClock
	logger *zap.Logger
}

func newHolidayService(repo *repository.Repository, cache holidayCache, ttl time.Duration, clock *companyClock, logger *zap.Logger) *holidayService {
	return &holidayService{repo: repo, cache: cache, ttl: ttl, clock: clock, logger: logger}
}

func holidayCacheKey(companyID, date string) string {
	return holidayCacheKeyPrefix + companyID + ":" + date
}

// ────────────────────── IsHoliday ──────────────────────

func (s *holidayService) IsHoliday(ctx context.Context, companyID, date string) (*HolidayCheck, error) {
	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return nil, ErrInvalidHolidayDate
	}

	key := holidayCacheKey(companyID, date)
	if s.cache != nil {
		raw, err := s.cache.GetCached(ctx, key)
		switch {
		case err == nil:
			var check HolidayCheck
			if json.Unmarshal([]byte(raw), &check) == nil {
				return &check, nil
			}
		case !errors.Is(err, redis.ErrCacheMiss):
			s.logger.Warn("holiday cache read failed, falling back to database",
				zap.String("key", key), zap.Error(err))
		}
	}

	check := &HolidayCheck{}
	holiday, err := s.repo.Holiday.FindForDate(ctx, companyID, day)
	switch {
	case err == nil:
		check.IsHoliday = true
		check.HolidayName = holiday.Name
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("holiday lookup failed",
			zap.String("company_id", companyID), zap.String("date", date), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(check); err == nil {
			if err := s.cache.SetCached(ctx, key, string(raw), s.ttl); err != nil {
				s.logger.Warn("holiday cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}

	return check, nil
}

// ────────────────────── Create ──────────────────────

func (s *holidayService) Create(ctx context.Context, companyID string, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error) {
	day, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidHolidayDate
	}

	holiday := &model.Holiday{
		CompanyID:   companyID,
		HolidayDate: day,
		Name:        req.Name,
		IsRecurring: req.IsRecurring,
	}
	if err := s.repo.Holiday.Create(ctx, holiday); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrHolidayExists
		}
		s.logger.Error("create holiday failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, companyID)
	return toHolidayResponse(holiday), nil
}

// ────────────────────── List ──────────────────────

func (s *holidayService) List(ctx context.Context, companyID string, year int) ([]dto.HolidayResponse, error) {
	holidays, err := s.repo.Holiday.List(ctx, companyID, year)
	if err != nil {
		s.logger.Error("list holidays failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.HolidayResponse, 0, len(holidays))
	for i := range holidays {
		result = append(result, *toHolidayResponse(&holidays[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *holidayService) Delete(ctx context.Context, companyID, id string) error {
	deleted, err := s.repo.Holiday.Delete(ctx, companyID, id)
	if err != nil {
		s.logger.Error("delete holiday failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return ErrHolidayNotFound
	}

	s.invalidate(ctx, companyID)
	return nil
}

// ────────────────────── ImportICS ──────────────────────

func (s *holidayService) ImportICS(ctx context.Context, companyID string, r io.Reader) (*dto.ImportHolidaysResponse, error) {
	loc, err := s.clock.location(ctx, companyID)
	if err != nil {
		return nil, err
	}

	holidays, err := ParseHolidayICS(r, companyID, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCalendar, err)
	}

	upserted, err := s.repo.Holiday.UpsertBatch(ctx, holidays)
	if err != nil {
		s.logger.Error("import holidays failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, companyID)
	s.logger.Info("holidays imported",
		zap.String("company_id", companyID),
		zap.Int("parsed", len(holidays)),
		zap.Int64("upserted", upserted))

	return &dto.ImportHolidaysResponse{Parsed: len(holidays), Upserted: upserted}, nil
}

// invalidate drops every cached answer for the company.
func (s *holidayService) invalidate(ctx context.Context, companyID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, holidayCacheKeyPrefix+companyID+":"); err != nil {
		s.logger.Warn("holiday cache invalidation failed", zap.String("company_id", companyID), zap.Error(err))
	}
}

func toHolidayResponse(h *model.Holiday) *dto.HolidayResponse {
	return &dto.HolidayResponse{
		ID:          h.HolidayID,
		Date:        h.HolidayDate.Format(model.DateLayout),
		Name:        h.Name,
		IsRecurring: h.IsRecurring,
	}
}
