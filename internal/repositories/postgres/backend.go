package postgres

import (
	"gorm.io/gorm"

	"github.com/gatherly/backend/internal/repositories"
)

// NewBackend assembles the persistent storage backend.
func NewBackend(db *gorm.DB) *repositories.Backend {
	return &repositories.Backend{
		Mode:          repositories.ModePersistent,
		Events:        NewEventRepo(db),
		Preferences:   NewPreferenceRepo(db),
		Conversations: NewConversationRepo(db),
	}
}
