package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/config"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/repository"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/redis"
)

// Service aggregates every service.
type Service struct {
	CheckIn CheckInService
	Holiday HolidayService
}

// Option customizes NewService.
type Option func(*options)

type options struct {
	clock     Clock
	publisher EventPublisher
}

// WithClock overrides time.Now.
func WithClock(clock Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithEventPublisher overrides the Redis-backed publisher.
func WithEventPublisher(p EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

// NewService wires the services. rdb may be nil, in which case the holiday
// cache is disabled and domain events are only logged.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	o := &options{clock: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	// keep the interfaces nil when rdb is nil; a typed nil would pass the nil checks
	var cache holidayCache
	if rdb != nil {
		cache = rdb
	}
	if o.publisher == nil {
		if rdb != nil {
			o.publisher = NewRedisEventPublisher(rdb, cfg.CheckIn.EventChannel)
		} else {
			o.publisher = &logEventPublisher{logger: logger}
		}
	}

	clock := &companyClock{repo: repo, now: o.clock, fallback: cfg.CheckIn.DefaultTimezone}
	holidays := newHolidayService(repo, cache, cfg.CheckIn.HolidayCacheTTL, clock, logger)

	return &Service{
		CheckIn: newCheckInService(repo, holidays, NewAttendanceReconciler(logger), o.publisher, clock, logger),
		Holiday: holidays,
	}
}
