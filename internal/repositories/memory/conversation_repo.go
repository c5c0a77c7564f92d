package memory

import (
	"context"
	"sync"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/utils"
)

type conversationRepo struct {
	mu       sync.RWMutex
	sessions map[string]models.Conversation
}

func NewConversationRepo() repositories.ConversationRepository {
	return &conversationRepo{sessions: make(map[string]models.Conversation)}
}

func (r *conversationRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.sessions[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &c, nil
}

func (r *conversationRepo) Create(ctx context.Context, c *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[c.SessionID] = *c
	return nil
}

func (r *conversationRepo) Save(ctx context.Context, c *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[c.SessionID] = *c
	return nil
}

func (r *conversationRepo) DeleteBySessionID(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return utils.ErrNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}
