package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.UserProfile, debt *domain.PrayerDebt) error {
	return m.Called(ctx, profile, debt).Error(0)
}
func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, profile *domain.UserProfile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockProfileRepo) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	return m.Called(ctx, id, current, longest).Error(0)
}
func (m *MockProfileRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) GetByUserID(ctx context.Context, userID string) (*domain.PrayerDebt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrayerDebt), args.Error(1)
}
func (m *MockLedgerRepo) Update(ctx context.Context, debt *domain.PrayerDebt) error {
	return m.Called(ctx, debt).Error(0)
}
func (m *MockLedgerRepo) ApplyCompletion(ctx context.Context, userID string, day time.Time, fn domain.CompletionFunc) (*domain.PrayerDebt, *domain.DailyLog, error) {
	args := m.Called(ctx, userID, day, fn)
	return nil, nil, args.Error(2)
}
func (m *MockLedgerRepo) Snapshot(ctx context.Context, userID string) (*domain.LedgerSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSnapshot), args.Error(1)
}

type publishedEvent struct {
	RoutingKey string
	Payload    any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{RoutingKey: routingKey, Payload: payload})
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.events))
	for _, e := range p.events {
		keys = append(keys, e.RoutingKey)
	}
	return keys
}
