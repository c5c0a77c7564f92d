package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories/memory"
	"github.com/gatherly/backend/internal/search"
	"github.com/gatherly/backend/internal/utils"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, SearchLimitDefault, ClampLimit(0))
	assert.Equal(t, SearchLimitDefault, ClampLimit(-5))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, SearchLimitMax, ClampLimit(SearchLimitMax))
	assert.Equal(t, SearchLimitMax, ClampLimit(SearchLimitMax+1))
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := NewSearchService(memory.NewBackend(nil), &stubAssistant{}, testLogger())

	_, err := svc.Search(context.Background(), "", search.Filters{}, 20, false)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestSearchKeywordStrategy(t *testing.T) {
	backend := memory.NewBackend([]models.Event{
		futureEvent("jazz", "Live Jazz Night", "music", "New York", time.Hour),
		futureEvent("yoga", "Sunrise Yoga", "sports", "New York", 2*time.Hour),
	})
	svc := NewSearchService(backend, &stubAssistant{}, testLogger())

	events, err := svc.Search(context.Background(), "jazz", search.Filters{}, 20, false)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "jazz", events[0].ID)
}

func TestSearchSemanticUsesEmbedding(t *testing.T) {
	near := futureEvent("near", "Event A", "music", "New York", time.Hour)
	v1 := pgvector.NewVector([]float32{1, 0})
	near.DescriptionEmbedding = &v1

	far := futureEvent("far", "Event B", "music", "New York", 2*time.Hour)
	v2 := pgvector.NewVector([]float32{0, 1})
	far.DescriptionEmbedding = &v2

	backend := memory.NewBackend([]models.Event{far, near})
	assistant := &stubAssistant{canEmbed: true, embedVec: []float32{1, 0}}
	svc := NewSearchService(backend, assistant, testLogger())

	events, err := svc.Search(context.Background(), "something musical", search.Filters{}, 20, true)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "near", events[0].ID)
	assert.Equal(t, 1, assistant.embedCalls)
}

func TestSearchSemanticFallsBackWhenEmbedderMissing(t *testing.T) {
	backend := memory.NewBackend([]models.Event{
		futureEvent("jazz", "Live Jazz Night", "music", "New York", time.Hour),
	})
	assistant := &stubAssistant{canEmbed: false}
	svc := NewSearchService(backend, assistant, testLogger())

	// use_semantic with no embedder degrades silently to keyword matching.
	events, err := svc.Search(context.Background(), "jazz", search.Filters{}, 20, true)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "jazz", events[0].ID)
	assert.Zero(t, assistant.embedCalls)
}

func TestSearchSemanticFallsBackWhenEmbeddingFails(t *testing.T) {
	backend := memory.NewBackend([]models.Event{
		futureEvent("jazz", "Live Jazz Night", "music", "New York", time.Hour),
	})
	assistant := &stubAssistant{canEmbed: true, embedErr: errors.New("provider down")}
	svc := NewSearchService(backend, assistant, testLogger())

	events, err := svc.Search(context.Background(), "jazz", search.Filters{}, 20, true)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "jazz", events[0].ID)
}

func TestSearchAppliesFilters(t *testing.T) {
	backend := memory.NewBackend([]models.Event{
		futureEvent("ny", "City Music Fest", "music", "New York", time.Hour),
		futureEvent("sf", "City Music Fest", "music", "San Francisco", 2*time.Hour),
	})
	svc := NewSearchService(backend, &stubAssistant{}, testLogger())

	events, err := svc.Search(context.Background(), "music", search.Filters{City: "San Francisco"}, 20, false)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "sf", events[0].ID)
}
