// Package repositories defines the storage contract shared by the
// persistent (Postgres) and in-memory (degraded mode) backends.
package repositories

import (
	"context"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/search"
)

// EventQuery describes one search call. A nil Embedding selects the keyword
// strategy; a non-nil Embedding selects semantic ranking. Text is always
// carried so the degraded backend can substitute substring matching for
// semantic ranking.
type EventQuery struct {
	Text      string
	Embedding []float32
	Filters   search.Filters
	Limit     int
}

type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)

	// Search returns discoverable events matching q, most relevant first.
	// Keyword strategy: case-insensitive substring over title, description,
	// location name, and city. Semantic strategy: descending cosine
	// similarity of the stored description embedding, ties by id; events
	// without an embedding are excluded.
	Search(ctx context.Context, q EventQuery) ([]models.Event, error)

	// RankByPreference orders discoverable events by cosine similarity of
	// their description embedding against a preference embedding.
	RankByPreference(ctx context.Context, embedding []float32, limit int) ([]models.Event, error)

	// ListUpcoming returns discoverable events, most recently created
	// first. This is the popularity fallback ordering.
	ListUpcoming(ctx context.Context, limit int) ([]models.Event, error)
}

type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error)
	Upsert(ctx context.Context, p *models.UserPreference) error
}

type ConversationRepository interface {
	GetBySessionID(ctx context.Context, sessionID string) (*models.Conversation, error)
	Create(ctx context.Context, c *models.Conversation) error
	// Save persists the full conversation row (read-merge-write; the store
	// is the session-level consistency boundary, last write wins).
	Save(ctx context.Context, c *models.Conversation) error
	DeleteBySessionID(ctx context.Context, sessionID string) error
}

type Mode string

const (
	ModePersistent Mode = "persistent"
	ModeMemory     Mode = "memory"
)

// Backend bundles the repositories of one storage variant. It is
// constructed once at startup and injected into the services; no per-call
// demo/offline branching happens above this seam.
type Backend struct {
	Mode          Mode
	Events        EventRepository
	Preferences   PreferenceRepository
	Conversations ConversationRepository
}
