package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/model"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/repository"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/redis"
)

// ── Mock CompanyRepository ──

type mockCompanyRepo struct {
	companies map[string]*model.Company
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{companies: make(map[string]*model.Company)}
}

func (m *mockCompanyRepo) GetByID(_ context.Context, id string) (*model.Company, error) {
	if c, ok := m.companies[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock WorkerRepository ──

type mockWorkerRepo struct {
	workers map[string]*model.Worker
	err     error
}

func newMockWorkerRepo() *mockWorkerRepo {
	return &mockWorkerRepo{workers: make(map[string]*model.Worker)}
}

func (m *mockWorkerRepo) GetWithTeam(_ context.Context, companyID, workerID string) (*model.Worker, error) {
	if m.err != nil {
		return nil, m.err
	}
	if w, ok := m.workers[workerID]; ok && w.CompanyID == companyID {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CheckInRepository ──
// Enforces UNIQUE (worker_id, check_in_date) like the real table.

type mockCheckInRepo struct {
	mu        sync.Mutex
	checkIns  map[string]*model.CheckIn // worker|date -> row
	createErr error
}

func newMockCheckInRepo() *mockCheckInRepo {
	return &mockCheckInRepo{checkIns: make(map[string]*model.CheckIn)}
}

func dayKey(workerID, date string) string { return workerID + "|" + date }

func (m *mockCheckInRepo) Create(_ context.Context, c *model.CheckIn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	key := dayKey(c.WorkerID, c.CheckInDate.Format(model.DateLayout))
	if _, ok := m.checkIns[key]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: model.CheckInPerDayConstraint}
	}
	if c.CheckInID == "" {
		c.CheckInID = uuid.New().String()
	}
	row := *c
	m.checkIns[key] = &row
	return nil
}

func (m *mockCheckInRepo) ExistsForDate(_ context.Context, workerID, date string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.checkIns[dayKey(workerID, date)]
	return ok, nil
}

func (m *mockCheckInRepo) GetByWorkerAndDate(_ context.Context, workerID, date string) (*model.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.checkIns[dayKey(workerID, date)]; ok {
		row := *c
		return &row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCheckInRepo) ListByWorker(_ context.Context, workerID string, offset, limit int) ([]model.CheckIn, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.CheckIn
	for _, c := range m.checkIns {
		if c.WorkerID == workerID {
			all = append(all, *c)
		}
	}
	// newest first
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].CheckInDate.After(all[j-1].CheckInDate); j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []model.CheckIn{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockCheckInRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.checkIns)
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	mu     sync.Mutex
	events []*model.Event
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{}
}

func (m *mockEventRepo) Create(_ context.Context, e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.EventID == "" {
		e.EventID = uuid.New().String()
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockEventRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// ── Mock MissedCheckInRepository ──
// Mirrors the conditional writes of the real repository.

type mockMissedCheckInRepo struct {
	mu      sync.Mutex
	records map[string]*model.MissedCheckIn // worker|date -> row

	// afterFind runs once FindUnresolved has returned its answer; lets tests
	// slip a concurrent write into the check-then-write gap.
	afterFind func()
}

func newMockMissedCheckInRepo() *mockMissedCheckInRepo {
	return &mockMissedCheckInRepo{records: make(map[string]*model.MissedCheckIn)}
}

func (m *mockMissedCheckInRepo) FindUnresolved(_ context.Context, workerID, date string) (*model.MissedCheckIn, error) {
	m.mu.Lock()
	r, ok := m.records[dayKey(workerID, date)]
	var row *model.MissedCheckIn
	if ok && r.ResolvedAt == nil {
		cp := *r
		row = &cp
	}
	m.mu.Unlock()

	if m.afterFind != nil {
		m.afterFind()
	}
	if row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (m *mockMissedCheckInRepo) Resolve(_ context.Context, id, checkInID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.MissedCheckInID == id && r.ResolvedAt == nil {
			r.ResolvedByCheckInID = &checkInID
			r.ResolvedAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMissedCheckInRepo) UpsertResolved(_ context.Context, rec *model.MissedCheckIn) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(rec.WorkerID, rec.MissedDate.Format(model.DateLayout))
	if existing, ok := m.records[key]; ok {
		if existing.ResolvedAt != nil {
			return "", nil
		}
		existing.ResolvedByCheckInID = rec.ResolvedByCheckInID
		existing.ResolvedAt = rec.ResolvedAt
		return existing.MissedCheckInID, nil
	}
	if rec.MissedCheckInID == "" {
		rec.MissedCheckInID = uuid.New().String()
	}
	row := *rec
	m.records[key] = &row
	return rec.MissedCheckInID, nil
}

func (m *mockMissedCheckInRepo) CreateUnresolved(_ context.Context, rec *model.MissedCheckIn) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(rec.WorkerID, rec.MissedDate.Format(model.DateLayout))
	if _, ok := m.records[key]; ok {
		return false, nil
	}
	if rec.MissedCheckInID == "" {
		rec.MissedCheckInID = uuid.New().String()
	}
	row := *rec
	m.records[key] = &row
	return true, nil
}

func (m *mockMissedCheckInRepo) GetByWorkerAndDate(_ context.Context, workerID, date string) (*model.MissedCheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[dayKey(workerID, date)]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock HolidayRepository ──

type mockHolidayRepo struct {
	mu       sync.Mutex
	holidays []*model.Holiday
	lookups  int
	err      error
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{}
}

func (m *mockHolidayRepo) FindForDate(_ context.Context, companyID string, date time.Time) (*model.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	var recurring *model.Holiday
	for _, h := range m.holidays {
		if h.CompanyID != companyID {
			continue
		}
		if h.HolidayDate.Format(model.DateLayout) == date.Format(model.DateLayout) {
			return h, nil
		}
		if h.IsRecurring && h.HolidayDate.Month() == date.Month() && h.HolidayDate.Day() == date.Day() {
			recurring = h
		}
	}
	if recurring != nil {
		return recurring, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHolidayRepo) Create(_ context.Context, h *model.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.holidays {
		if existing.CompanyID == h.CompanyID && existing.HolidayDate.Equal(h.HolidayDate) {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uk_holidays_company_date"}
		}
	}
	if h.HolidayID == "" {
		h.HolidayID = uuid.New().String()
	}
	m.holidays = append(m.holidays, h)
	return nil
}

func (m *mockHolidayRepo) UpsertBatch(_ context.Context, holidays []model.Holiday) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var affected int64
	for i := range holidays {
		h := holidays[i]
		found := false
		for _, existing := range m.holidays {
			if existing.CompanyID == h.CompanyID && existing.HolidayDate.Equal(h.HolidayDate) {
				existing.Name = h.Name
				found = true
				break
			}
		}
		if !found {
			h.HolidayID = uuid.New().String()
			m.holidays = append(m.holidays, &h)
		}
		affected++
	}
	return affected, nil
}

func (m *mockHolidayRepo) List(_ context.Context, companyID string, year int) ([]model.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Holiday
	for _, h := range m.holidays {
		if h.CompanyID != companyID {
			continue
		}
		if year > 0 && !h.IsRecurring && h.HolidayDate.Year() != year {
			continue
		}
		result = append(result, *h)
	}
	return result, nil
}

func (m *mockHolidayRepo) Delete(_ context.Context, companyID, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, h := range m.holidays {
		if h.HolidayID == id && h.CompanyID == companyID {
			m.holidays = append(m.holidays[:i], m.holidays[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ── Mock TxRunner ──
// Serializes transactions and restores the written tables when fn fails.

type mockTxRunner struct {
	mu      sync.Mutex
	repo    *repository.Repository
	checkIn *mockCheckInRepo
	event   *mockEventRepo
	missed  *mockMissedCheckInRepo
}

func (t *mockTxRunner) RunInTx(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.checkIn.mu.Lock()
	checkIns := make(map[string]*model.CheckIn, len(t.checkIn.checkIns))
	for k, v := range t.checkIn.checkIns {
		checkIns[k] = v
	}
	t.checkIn.mu.Unlock()

	t.event.mu.Lock()
	events := append([]*model.Event(nil), t.event.events...)
	t.event.mu.Unlock()

	t.missed.mu.Lock()
	missed := make(map[string]model.MissedCheckIn, len(t.missed.records))
	for k, v := range t.missed.records {
		missed[k] = *v
	}
	t.missed.mu.Unlock()

	err := fn(t.repo)
	if err == nil {
		return nil
	}

	t.checkIn.mu.Lock()
	t.checkIn.checkIns = checkIns
	t.checkIn.mu.Unlock()

	t.event.mu.Lock()
	t.event.events = events
	t.event.mu.Unlock()

	t.missed.mu.Lock()
	t.missed.records = make(map[string]*model.MissedCheckIn, len(missed))
	for k, v := range missed {
		row := v
		t.missed.records[k] = &row
	}
	t.missed.mu.Unlock()

	return err
}

// ── Mock holiday cache ──

type mockHolidayCache struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	deletes int
}

func newMockHolidayCache() *mockHolidayCache {
	return &mockHolidayCache{data: make(map[string]string)}
}

func (m *mockHolidayCache) GetCached(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", redis.ErrCacheMiss
	}
	return v, nil
}

func (m *mockHolidayCache) SetCached(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockHolidayCache) DeleteByPrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	for k := range m.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(m.data, k)
		}
	}
	return nil
}

// ── Mock EventPublisher ──

type mockPublisher struct {
	published chan DomainEvent
	err       error
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{published: make(chan DomainEvent, 16)}
}

func (m *mockPublisher) Publish(_ context.Context, evt DomainEvent) error {
	m.published <- evt
	return m.err
}

// next waits for the next published event.
func (m *mockPublisher) next() (DomainEvent, bool) {
	select {
	case evt := <-m.published:
		return evt, true
	case <-time.After(2 * time.Second):
		return DomainEvent{}, false
	}
}

var errDBDown = errors.New("connection refused")

// ── test fixture ──

type testEnv struct {
	repo      *repository.Repository
	companies *mockCompanyRepo
	workers   *mockWorkerRepo
	checkIns  *mockCheckInRepo
	events    *mockEventRepo
	missed    *mockMissedCheckInRepo
	holidays  *mockHolidayRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		companies: newMockCompanyRepo(),
		workers:   newMockWorkerRepo(),
		checkIns:  newMockCheckInRepo(),
		events:    newMockEventRepo(),
		missed:    newMockMissedCheckInRepo(),
		holidays:  newMockHolidayRepo(),
	}
	env.repo = &repository.Repository{
		Company:       env.companies,
		Worker:        env.workers,
		CheckIn:       env.checkIns,
		Event:         env.events,
		MissedCheckIn: env.missed,
		Holiday:       env.holidays,
	}
	env.repo.Tx = &mockTxRunner{
		repo:    env.repo,
		checkIn: env.checkIns,
		event:   env.events,
		missed:  env.missed,
	}
	return env
}

// fixedClock always returns t.
func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
