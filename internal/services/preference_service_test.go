package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories/memory"
	"github.com/gatherly/backend/internal/utils"
)

func TestUpdatePreferencesValidatesUserID(t *testing.T) {
	svc := NewPreferenceService(memory.NewBackend(nil), &stubAssistant{}, testLogger())

	_, err := svc.UpdatePreferences(context.Background(), "", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.UpdatePreferences(context.Background(), "not-a-uuid", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestUpdatePreferencesCreatesProfileLazily(t *testing.T) {
	backend := memory.NewBackend(nil)
	svc := NewPreferenceService(backend, &stubAssistant{}, testLogger())
	userID := uuid.NewString()

	price := "low"
	profile, err := svc.UpdatePreferences(context.Background(), userID, &models.PreferenceUpdate{
		PreferredPriceRange: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, "low", profile.PreferredPriceRange)
	assert.Equal(t, 50.0, profile.PreferredDistanceKm)
	assert.ElementsMatch(t, []string{"small", "medium", "large"}, []string(profile.PreferredEventSizes))

	stored, err := backend.Preferences.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "low", stored.PreferredPriceRange)
}

func TestUpdatePreferencesPartialMerge(t *testing.T) {
	backend := memory.NewBackend(nil)
	svc := NewPreferenceService(backend, &stubAssistant{}, testLogger())
	userID := uuid.NewString()

	cats := []string{"music", "food"}
	liked := []string{"jazz"}
	_, err := svc.UpdatePreferences(context.Background(), userID, &models.PreferenceUpdate{
		PreferredCategories: &cats,
		LikedEventTypes:     &liked,
	})
	require.NoError(t, err)

	// Second update touches only the price range; everything else stays.
	price := "free"
	profile, err := svc.UpdatePreferences(context.Background(), userID, &models.PreferenceUpdate{
		PreferredPriceRange: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, "free", profile.PreferredPriceRange)
	assert.Equal(t, []string{"music", "food"}, []string(profile.PreferredCategories))
	assert.Equal(t, []string{"jazz"}, []string(profile.LikedEventTypes))
}

func TestUpdatePreferencesEmptyListOverwrites(t *testing.T) {
	backend := memory.NewBackend(nil)
	svc := NewPreferenceService(backend, &stubAssistant{}, testLogger())
	userID := uuid.NewString()

	liked := []string{"jazz", "indie"}
	_, err := svc.UpdatePreferences(context.Background(), userID, &models.PreferenceUpdate{
		LikedEventTypes: &liked,
	})
	require.NoError(t, err)

	// An explicit empty list is a value, not an omission.
	empty := []string{}
	profile, err := svc.UpdatePreferences(context.Background(), userID, &models.PreferenceUpdate{
		LikedEventTypes: &empty,
	})
	require.NoError(t, err)
	assert.Empty(t, profile.LikedEventTypes)
}

func TestUpdatePreferencesRegeneratesEmbedding(t *testing.T) {
	backend := memory.NewBackend(nil)
	assistant := &stubAssistant{canEmbed: true, embedVec: []float32{0.5, 0.5}}
	svc := NewPreferenceService(backend, assistant, testLogger())
	userID := uuid.NewString()

	cats := []string{"music"}
	profile, err := svc.UpdatePreferences(context.Background(), userID, &models.PreferenceUpdate{
		PreferredCategories: &cats,
	})
	require.NoError(t, err)

	require.NotNil(t, profile.PreferenceEmbedding)
	assert.Equal(t, []float32{0.5, 0.5}, profile.PreferenceEmbedding.Slice())
	assert.Equal(t, 1, assistant.embedCalls)
}

func TestUpdatePreferencesEmbeddingFailureKeepsOldEmbedding(t *testing.T) {
	backend := memory.NewBackend(nil)
	userID := uuid.NewString()

	old := pgvector.NewVector([]float32{1, 0})
	require.NoError(t, backend.Preferences.Upsert(context.Background(), &models.UserPreference{
		ID:                  uuid.NewString(),
		UserID:              userID,
		PreferredCategories: []string{"music"},
		PreferenceEmbedding: &old,
	}))

	assistant := &stubAssistant{canEmbed: true, embedErr: errors.New("provider down")}
	svc := NewPreferenceService(backend, assistant, testLogger())

	cats := []string{"music", "arts"}
	profile, err := svc.UpdatePreferences(context.Background(), userID, &models.PreferenceUpdate{
		PreferredCategories: &cats,
	})
	require.NoError(t, err)

	require.NotNil(t, profile.PreferenceEmbedding)
	assert.Equal(t, []float32{1, 0}, profile.PreferenceEmbedding.Slice())
}

func TestGetByUserIDNotFound(t *testing.T) {
	svc := NewPreferenceService(memory.NewBackend(nil), &stubAssistant{}, testLogger())

	_, err := svc.GetByUserID(context.Background(), uuid.NewString())
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
