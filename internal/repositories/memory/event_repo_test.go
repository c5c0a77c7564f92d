package memory

import (
	"context"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/search"
	"github.com/gatherly/backend/internal/utils"
)

func seedEvent(id, title, category, city string, createdAgo time.Duration) models.Event {
	start := time.Now().Add(72 * time.Hour)
	now := time.Now().UTC()
	return models.Event{
		ID:         id,
		Title:      title,
		Category:   category,
		City:       city,
		IsPublic:   true,
		IsApproved: true,
		Status:     models.EventStatusActive,
		StartTime:  &start,
		CreatedAt:  now.Add(-createdAgo),
	}
}

func TestSearchKeywordSubstring(t *testing.T) {
	repo := NewEventRepo([]models.Event{
		seedEvent("jazz", "Live Jazz Night", "music", "New York", time.Hour),
		seedEvent("yoga", "Sunrise Yoga", "sports", "New York", 2*time.Hour),
	})

	events, err := repo.Search(context.Background(), repositories.EventQuery{Text: "jazz", Limit: 20})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "jazz", events[0].ID)
}

func TestSearchAppliesFilters(t *testing.T) {
	repo := NewEventRepo([]models.Event{
		seedEvent("ny-music", "City Music Fest", "music", "New York", time.Hour),
		seedEvent("sf-music", "City Music Fest", "music", "San Francisco", 2*time.Hour),
	})

	events, err := repo.Search(context.Background(), repositories.EventQuery{
		Text:    "music",
		Filters: search.Filters{City: "San Francisco"},
		Limit:   20,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "sf-music", events[0].ID)
}

func TestSearchExcludesIneligibleEvents(t *testing.T) {
	past := seedEvent("past", "Old Jazz Night", "music", "New York", time.Hour)
	gone := time.Now().Add(-time.Hour)
	past.StartTime = &gone

	hidden := seedEvent("hidden", "Secret Jazz Night", "music", "New York", time.Hour)
	hidden.IsPublic = false

	live := seedEvent("live", "Live Jazz Night", "music", "New York", time.Hour)

	repo := NewEventRepo([]models.Event{past, hidden, live})

	events, err := repo.Search(context.Background(), repositories.EventQuery{Text: "jazz", Limit: 20})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "live", events[0].ID)
}

func TestSearchNeverEmptyFallback(t *testing.T) {
	repo := NewEventRepo(DemoCatalog())

	events, err := repo.Search(context.Background(), repositories.EventQuery{Text: "underwater basket weaving", Limit: 20})
	require.NoError(t, err)

	require.NotEmpty(t, events)
	assert.LessOrEqual(t, len(events), fallbackSubsetSize)
	// Most recently created catalog event leads the fallback subset.
	assert.Equal(t, "demo-jazz-night", events[0].ID)
}

func TestSearchSemanticFallsBackToSubstring(t *testing.T) {
	// No stored embeddings: a semantic query still matches by substring.
	repo := NewEventRepo(DemoCatalog())

	events, err := repo.Search(context.Background(), repositories.EventQuery{
		Text:      "jazz",
		Embedding: []float32{0.1, 0.2, 0.3},
		Limit:     20,
	})
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "demo-jazz-night", events[0].ID)
}

func TestSearchSemanticRanksStoredEmbeddings(t *testing.T) {
	near := seedEvent("near", "Event A", "music", "New York", time.Hour)
	v1 := pgvector.NewVector([]float32{1, 0})
	near.DescriptionEmbedding = &v1

	far := seedEvent("far", "Event B", "music", "New York", 2*time.Hour)
	v2 := pgvector.NewVector([]float32{0, 1})
	far.DescriptionEmbedding = &v2

	repo := NewEventRepo([]models.Event{far, near})

	events, err := repo.Search(context.Background(), repositories.EventQuery{
		Text:      "event",
		Embedding: []float32{1, 0},
		Limit:     20,
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "near", events[0].ID)
	assert.Equal(t, "far", events[1].ID)
}

func TestListUpcomingOrdersByCreatedAtDesc(t *testing.T) {
	repo := NewEventRepo([]models.Event{
		seedEvent("old", "Old", "music", "New York", 3*time.Hour),
		seedEvent("new", "New", "music", "New York", time.Hour),
		seedEvent("mid", "Mid", "music", "New York", 2*time.Hour),
	})

	events, err := repo.ListUpcoming(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "new", events[0].ID)
	assert.Equal(t, "mid", events[1].ID)
	assert.Equal(t, "old", events[2].ID)
}

func TestRankByPreferenceIsHonest(t *testing.T) {
	// Unlike Search, preference ranking returns empty when nothing has an
	// embedding; the caller falls back to popularity itself.
	repo := NewEventRepo(DemoCatalog())

	events, err := repo.RankByPreference(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGetByID(t *testing.T) {
	repo := NewEventRepo(DemoCatalog())

	e, err := repo.GetByID(context.Background(), "demo-jazz-night")
	require.NoError(t, err)
	assert.Equal(t, "Live Jazz Night", e.Title)

	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateThenSearchable(t *testing.T) {
	repo := NewEventRepo(nil)
	e := seedEvent("new", "Pop-up Ramen Tasting", "food", "Oakland", 0)

	require.NoError(t, repo.Create(context.Background(), &e))

	events, err := repo.Search(context.Background(), repositories.EventQuery{Text: "ramen", Limit: 20})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].ID)
}
