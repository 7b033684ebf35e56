package talent

import (
	"context"
	"sync"

	"stagehand/internal/models"
	"stagehand/internal/store"
)

// MemoryStore keeps the talent directory in process, for running without a
// database.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles []models.TalentProfile
}

// NewMemoryStore copies profiles into a MemoryStore.
func NewMemoryStore(profiles []models.TalentProfile) *MemoryStore {
	return &MemoryStore{profiles: append([]models.TalentProfile(nil), profiles...)}
}

func (m *MemoryStore) ListTalent(ctx context.Context) ([]models.TalentProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.TalentProfile(nil), m.profiles...), nil
}

func (m *MemoryStore) GetTalent(ctx context.Context, id string) (models.TalentProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return models.TalentProfile{}, store.ErrTalentNotFound
}

func (m *MemoryStore) CreateTalent(ctx context.Context, p models.TalentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if existing.ID == p.ID {
			return store.ErrConflict
		}
	}
	m.profiles = append(m.profiles, p)
	return nil
}
