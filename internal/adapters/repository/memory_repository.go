package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

// MemoryStore keeps profiles, debts and logs behind a single lock, so every
// repository view it hands out shares the same atomicity guarantees.
// Values are copied in and out; callers never alias stored state.
type MemoryStore struct {
	profiles map[string]*domain.UserProfile
	debts    map[string]*domain.PrayerDebt
	logs     map[string]map[string]*domain.DailyLog

	mu sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*domain.UserProfile),
		debts:    make(map[string]*domain.PrayerDebt),
		logs:     make(map[string]map[string]*domain.DailyLog),
	}
}

func (s *MemoryStore) Profiles() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{store: s}
}

func (s *MemoryStore) Ledger() *InMemoryLedgerRepository {
	return &InMemoryLedgerRepository{store: s}
}

func (s *MemoryStore) DailyLogs() *InMemoryDailyLogRepository {
	return &InMemoryDailyLogRepository{store: s}
}

func copyProfile(p *domain.UserProfile) *domain.UserProfile {
	c := *p
	return &c
}

func copyDebt(d *domain.PrayerDebt) *domain.PrayerDebt {
	c := *d
	return &c
}

func copyLog(l *domain.DailyLog) *domain.DailyLog {
	c := *l
	return &c
}

// getOrCreateLocked must be called with mu held for writing.
func (s *MemoryStore) getOrCreateLocked(userID string, day time.Time) (*domain.DailyLog, bool, error) {
	if _, ok := s.profiles[userID]; !ok {
		return nil, false, domain.ErrProfileNotFound
	}

	day = domain.CalendarDay(day, day.Location())
	byDay, ok := s.logs[userID]
	if !ok {
		byDay = make(map[string]*domain.DailyLog)
		s.logs[userID] = byDay
	}

	if l, ok := byDay[domain.DayKey(day)]; ok {
		return l, false, nil
	}

	l := domain.NewDailyLog(userID, day)
	l.ID = uuid.NewString()
	byDay[domain.DayKey(day)] = l
	return l, true, nil
}

type InMemoryProfileRepository struct {
	store *MemoryStore
}

var _ domain.ProfileRepository = (*InMemoryProfileRepository)(nil)

func (r *InMemoryProfileRepository) Create(ctx context.Context, profile *domain.UserProfile, debt *domain.PrayerDebt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.debts[profile.ID]; ok {
		return domain.ErrDebtAlreadyInitialized
	}

	r.store.profiles[profile.ID] = copyProfile(profile)
	r.store.debts[profile.ID] = copyDebt(debt)
	return nil
}

func (r *InMemoryProfileRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return copyProfile(p), nil
}

func (r *InMemoryProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.profiles[profile.ID]
	if !ok {
		return domain.ErrProfileNotFound
	}

	updated := copyProfile(current)
	updated.DailyGoal = profile.DailyGoal
	updated.Timezone = profile.Timezone
	updated.UpdatedAt = profile.UpdatedAt
	r.store.profiles[profile.ID] = updated
	return nil
}

func (r *InMemoryProfileRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.profiles[id]
	if !ok {
		return domain.ErrProfileNotFound
	}

	updated := copyProfile(p)
	updated.UpdateStreak(current, longest)
	r.store.profiles[id] = updated
	return nil
}

func (r *InMemoryProfileRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.profiles[id]; !ok {
		return domain.ErrProfileNotFound
	}

	delete(r.store.profiles, id)
	delete(r.store.debts, id)
	delete(r.store.logs, id)
	return nil
}

type InMemoryLedgerRepository struct {
	store *MemoryStore
}

var _ domain.LedgerRepository = (*InMemoryLedgerRepository)(nil)

func (r *InMemoryLedgerRepository) GetByUserID(ctx context.Context, userID string) (*domain.PrayerDebt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	d, ok := r.store.debts[userID]
	if !ok {
		return nil, domain.ErrDebtNotFound
	}
	return copyDebt(d), nil
}

func (r *InMemoryLedgerRepository) Update(ctx context.Context, debt *domain.PrayerDebt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.debts[debt.UserID]
	if !ok {
		return domain.ErrDebtNotFound
	}
	if current.Version != debt.Version-1 {
		return domain.ErrDebtConflict
	}

	r.store.debts[debt.UserID] = copyDebt(debt)
	return nil
}

func (r *InMemoryLedgerRepository) ApplyCompletion(ctx context.Context, userID string, day time.Time, fn domain.CompletionFunc) (*domain.PrayerDebt, *domain.DailyLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.debts[userID]
	if !ok {
		return nil, nil, domain.ErrDebtNotFound
	}

	existing, created, err := r.store.getOrCreateLocked(userID, day)
	if err != nil {
		return nil, nil, err
	}

	debt := copyDebt(stored)
	log := copyLog(existing)
	if err := fn(debt, log); err != nil {
		if created {
			delete(r.store.logs[userID], domain.DayKey(existing.Date))
		}
		return nil, nil, err
	}

	r.store.debts[userID] = copyDebt(debt)
	r.store.logs[userID][domain.DayKey(log.Date)] = copyLog(log)
	return debt, log, nil
}

func (r *InMemoryLedgerRepository) Snapshot(ctx context.Context, userID string) (*domain.LedgerSnapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	d, ok := r.store.debts[userID]
	if !ok {
		return nil, domain.ErrDebtNotFound
	}

	logs := make([]*domain.DailyLog, 0, len(r.store.logs[userID]))
	for _, l := range r.store.logs[userID] {
		logs = append(logs, copyLog(l))
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Date.Before(logs[j].Date)
	})

	return &domain.LedgerSnapshot{
		Profile: copyProfile(p),
		Debt:    copyDebt(d),
		Logs:    logs,
	}, nil
}

type InMemoryDailyLogRepository struct {
	store *MemoryStore
}

var _ domain.DailyLogRepository = (*InMemoryDailyLogRepository)(nil)

func (r *InMemoryDailyLogRepository) GetOrCreate(ctx context.Context, userID string, day time.Time) (*domain.DailyLog, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l, created, err := r.store.getOrCreateLocked(userID, day)
	if err != nil {
		return nil, false, err
	}
	return copyLog(l), created, nil
}

func (r *InMemoryDailyLogRepository) GetByDate(ctx context.Context, userID string, day time.Time) (*domain.DailyLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l, ok := r.store.logs[userID][domain.DayKey(domain.CalendarDay(day, day.Location()))]
	if !ok {
		return nil, domain.ErrDayNotFound
	}
	return copyLog(l), nil
}

func (r *InMemoryDailyLogRepository) Increment(ctx context.Context, userID string, day time.Time, p domain.PrayerType) (*domain.DailyLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l, _, err := r.store.getOrCreateLocked(userID, day)
	if err != nil {
		return nil, err
	}
	if err := l.Increment(p); err != nil {
		return nil, err
	}
	return copyLog(l), nil
}

func (r *InMemoryDailyLogRepository) Set(ctx context.Context, log *domain.DailyLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.logs[log.UserID][domain.DayKey(log.Date)]
	if !ok {
		return domain.ErrDayNotFound
	}

	updated := copyLog(log)
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	r.store.logs[log.UserID][domain.DayKey(log.Date)] = updated
	return nil
}

func (r *InMemoryDailyLogRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	logs := []*domain.DailyLog{}
	for _, l := range r.store.logs[userID] {
		if l.Date.Before(from) || l.Date.After(to) {
			continue
		}
		logs = append(logs, copyLog(l))
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Date.Before(logs[j].Date)
	})
	return logs, nil
}
