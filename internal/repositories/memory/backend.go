// Package memory is the degraded-mode storage backend: a process-wide,
// read-mostly catalog plus map-backed conversation and preference stores.
// It is constructed once at startup when Postgres is unreachable and
// implements the same repository contract as the persistent backend.
package memory

import (
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
)

// NewBackend assembles the in-memory backend, seeded with the given events
// (normally DemoCatalog()).
func NewBackend(seed []models.Event) *repositories.Backend {
	return &repositories.Backend{
		Mode:          repositories.ModeMemory,
		Events:        NewEventRepo(seed),
		Preferences:   NewPreferenceRepo(),
		Conversations: NewConversationRepo(),
	}
}
