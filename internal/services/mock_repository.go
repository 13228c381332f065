package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"launchpad/internal/infrastructure/errors"
	"launchpad/internal/repository"
	"launchpad/internal/types"
)

// MockRepository implements repository.LaunchRepository in memory for testing
type MockRepository struct {
	mu              sync.RWMutex
	records         []types.LaunchRecord
	nextID          int64
	recordCalls     int
	deleteCalls     int
	shouldFailSave  bool
	shouldFailLoad  bool
	shouldFailTx    bool
	transactionCall int
}

var _ repository.LaunchRepository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{nextID: 1}
}

// SetFailureModes configures the mock to simulate failures
func (m *MockRepository) SetFailureModes(save, load, tx bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailSave = save
	m.shouldFailLoad = load
	m.shouldFailTx = tx
}

// GetCallCounts returns how often RecordLaunch, DeleteOlderThan and WithTransaction ran
func (m *MockRepository) GetCallCounts() (record, delete, tx int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.recordCalls, m.deleteCalls, m.transactionCall
}

// Records returns a copy of everything recorded so far, oldest first
func (m *MockRepository) Records() []types.LaunchRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.LaunchRecord, len(m.records))
	copy(out, m.records)
	return out
}

// RecordLaunch implements LaunchRepository
func (m *MockRepository) RecordLaunch(ctx context.Context, record *types.LaunchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCalls++

	if m.shouldFailSave {
		return errors.NewRepositoryError("RecordLaunch", fmt.Errorf("mock save failure"), errors.ErrCodeBusy)
	}
	if record == nil || record.ShortcutID == "" {
		return errors.NewRepositoryError("RecordLaunch", fmt.Errorf("invalid record"), errors.ErrCodeValidation)
	}
	if record.LaunchedAt.IsZero() {
		record.LaunchedAt = time.Now()
	}

	record.ID = m.nextID
	m.nextID++
	m.records = append(m.records, *record)
	return nil
}

// RecentLaunches implements LaunchRepository
func (m *MockRepository) RecentLaunches(ctx context.Context, limit int) ([]types.LaunchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.shouldFailLoad {
		return nil, errors.NewRepositoryError("RecentLaunches", fmt.Errorf("mock load failure"), errors.ErrCodeConnection)
	}

	out := make([]types.LaunchRecord, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LaunchedAt.After(out[j].LaunchedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LaunchCounts implements LaunchRepository
func (m *MockRepository) LaunchCounts(ctx context.Context, limit int) ([]types.LaunchCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.shouldFailLoad {
		return nil, errors.NewRepositoryError("LaunchCounts", fmt.Errorf("mock load failure"), errors.ErrCodeConnection)
	}

	byID := make(map[string]*types.LaunchCount)
	for _, r := range m.records {
		if !r.OK {
			continue
		}
		c, ok := byID[r.ShortcutID]
		if !ok {
			c = &types.LaunchCount{ShortcutID: r.ShortcutID}
			byID[r.ShortcutID] = c
		}
		c.Count++
		if r.LaunchedAt.After(c.LastLaunched) {
			c.LastLaunched = r.LaunchedAt
		}
	}

	out := make([]types.LaunchCount, 0, len(byID))
	for _, c := range byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ShortcutID < out[j].ShortcutID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteOlderThan implements LaunchRepository
func (m *MockRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++

	kept := m.records[:0]
	var deleted int64
	for _, r := range m.records {
		if r.LaunchedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// WithTransaction implements LaunchRepository
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repo repository.LaunchRepository) error) error {
	m.mu.Lock()
	m.transactionCall++
	fail := m.shouldFailTx
	m.mu.Unlock()

	if fail {
		return errors.NewRepositoryError("WithTransaction", fmt.Errorf("mock transaction failure"), errors.ErrCodeInternal)
	}
	return fn(m)
}
