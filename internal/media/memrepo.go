package media

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"preschool/internal/apperr"
)

// MemoryRepository keeps media in process memory for dev/testing.
type MemoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	banners map[int64]Banner
	gallery map[int64]GalleryItem
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		banners: make(map[int64]Banner),
		gallery: make(map[int64]GalleryItem),
	}
}

func (m *MemoryRepository) ListBanners(_ context.Context, activeOnly bool) ([]Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []Banner{}
	for _, b := range m.banners {
		if activeOnly && !b.IsActive {
			continue
		}
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].DisplayOrder != res[j].DisplayOrder {
			return res[i].DisplayOrder < res[j].DisplayOrder
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (m *MemoryRepository) InsertBanner(_ context.Context, b Banner) (Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now().UTC()
	m.banners[b.ID] = b
	return b, nil
}

func (m *MemoryRepository) UpdateBanner(_ context.Context, b Banner) (Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.banners[b.ID]
	if !ok {
		return Banner{}, fmt.Errorf("banner %d: %w", b.ID, apperr.ErrNotFound)
	}
	b.CreatedAt = prev.CreatedAt
	m.banners[b.ID] = b
	return b, nil
}

func (m *MemoryRepository) DeleteBanner(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.banners[id]; !ok {
		return fmt.Errorf("banner %d: %w", id, apperr.ErrNotFound)
	}
	delete(m.banners, id)
	return nil
}

func (m *MemoryRepository) ListGallery(_ context.Context, kind Kind) ([]GalleryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []GalleryItem{}
	for _, it := range m.gallery {
		if kind != "" && it.Type != kind {
			continue
		}
		res = append(res, it)
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		switch {
		case a.EventDate == nil && b.EventDate != nil:
			return false
		case a.EventDate != nil && b.EventDate == nil:
			return true
		case a.EventDate != nil && !a.EventDate.Equal(*b.EventDate):
			return a.EventDate.After(*b.EventDate)
		case !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return res, nil
}

func (m *MemoryRepository) InsertGalleryItem(_ context.Context, it GalleryItem) (GalleryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	it.ID = m.nextID
	it.CreatedAt = time.Now().UTC()
	m.gallery[it.ID] = it
	return it, nil
}

func (m *MemoryRepository) UpdateGalleryItem(_ context.Context, it GalleryItem) (GalleryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.gallery[it.ID]
	if !ok {
		return GalleryItem{}, fmt.Errorf("gallery item %d: %w", it.ID, apperr.ErrNotFound)
	}
	it.CreatedAt = prev.CreatedAt
	m.gallery[it.ID] = it
	return it, nil
}

func (m *MemoryRepository) DeleteGalleryItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gallery[id]; !ok {
		return fmt.Errorf("gallery item %d: %w", id, apperr.ErrNotFound)
	}
	delete(m.gallery, id)
	return nil
}
