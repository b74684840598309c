package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"preschool/internal/apperr"
)

// MemoryRepository keeps entries in process memory for dev/testing.
type MemoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]Entry
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[int64]Entry)}
}

func (m *MemoryRepository) Insert(_ context.Context, e Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	if e.ClockIn.IsZero() {
		e.ClockIn = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	if e.SubjectType == "" {
		e.SubjectType = SubjectStaff
	}
	e.CreatedAt = time.Now().UTC()
	m.entries[e.ID] = e
	return e, nil
}

func (m *MemoryRepository) Get(_ context.Context, id int64) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("attendance %d: %w", id, apperr.ErrNotFound)
	}
	return e, nil
}

func (m *MemoryRepository) SetClockOut(_ context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return fmt.Errorf("attendance %d: %w", id, apperr.ErrNotFound)
	}
	e.ClockOut = &at
	m.entries[id] = e
	return nil
}

func (m *MemoryRepository) SetStatus(_ context.Context, id int64, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return fmt.Errorf("attendance %d: %w", id, apperr.ErrNotFound)
	}
	e.Status = status
	m.entries[id] = e
	return nil
}

func (m *MemoryRepository) List(_ context.Context, f Filter) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []Entry{}
	for _, e := range m.entries {
		if f.SubjectID != 0 && e.SubjectID != f.SubjectID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].ClockIn.Equal(res[j].ClockIn) {
			return res[i].ClockIn.After(res[j].ClockIn)
		}
		return res[i].ID > res[j].ID
	})
	limit, offset := bounds(f)
	if offset >= len(res) {
		return []Entry{}, nil
	}
	res = res[offset:]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("attendance %d: %w", id, apperr.ErrNotFound)
	}
	delete(m.entries, id)
	return nil
}
