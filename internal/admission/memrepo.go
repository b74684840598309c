package admission

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"preschool/internal/apperr"
)

// MemoryRepository keeps applications in process memory for dev/testing.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	apps   map[int64]Application
	now    func() time.Time
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{apps: make(map[int64]Application), now: func() time.Time { return time.Now().UTC() }}
}

func (m *MemoryRepository) Insert(_ context.Context, app Application) (Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	app.ID = m.nextID
	app.CreatedAt = m.now()
	m.apps[app.ID] = app
	return app, nil
}

func (m *MemoryRepository) Get(_ context.Context, id int64) (Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return Application{}, fmt.Errorf("application %d: %w", id, apperr.ErrNotFound)
	}
	return app, nil
}

func (m *MemoryRepository) List(_ context.Context) ([]Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]Application, 0, len(m.apps))
	for _, app := range m.apps {
		res = append(res, app)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (m *MemoryRepository) UpdateWorkflow(_ context.Context, app Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.apps[app.ID]
	if !ok {
		return fmt.Errorf("application %d: %w", app.ID, apperr.ErrNotFound)
	}
	cur.Status = app.Status
	cur.PrincipalRecommendation = app.PrincipalRecommendation
	cur.AdminConfirmation = app.AdminConfirmation
	m.apps[app.ID] = cur
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[id]; !ok {
		return fmt.Errorf("application %d: %w", id, apperr.ErrNotFound)
	}
	delete(m.apps, id)
	return nil
}

// Len returns the number of stored applications.
func (m *MemoryRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.apps)
}
