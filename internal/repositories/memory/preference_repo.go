package memory

import (
	"context"
	"sync"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/utils"
)

type preferenceRepo struct {
	mu       sync.RWMutex
	profiles map[string]models.UserPreference // keyed by user id
}

func NewPreferenceRepo() repositories.PreferenceRepository {
	return &preferenceRepo{profiles: make(map[string]models.UserPreference)}
}

func (r *preferenceRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &p, nil
}

func (r *preferenceRepo) Upsert(ctx context.Context, p *models.UserPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = *p
	return nil
}
