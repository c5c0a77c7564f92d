package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/utils"
)

type PreferenceService interface {
	// UpdatePreferences applies a partial-merge update to the user's
	// profile, creating it on first use. Only fields present in the
	// update are overwritten; an explicit empty list is a value. A
	// non-empty preferred-categories set regenerates the preference
	// embedding; embedding failure keeps the previous embedding and does
	// not fail the update.
	UpdatePreferences(ctx context.Context, userID string, update *models.PreferenceUpdate) (*models.UserPreference, error)
	GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error)
}

type preferenceService struct {
	backend *repositories.Backend
	ai      Assistant
	log     *logrus.Logger
}

func NewPreferenceService(backend *repositories.Backend, ai Assistant, log *logrus.Logger) PreferenceService {
	return &preferenceService{backend: backend, ai: ai, log: log}
}

func (s *preferenceService) UpdatePreferences(ctx context.Context, userID string, update *models.PreferenceUpdate) (*models.UserPreference, error) {
	const op = "PreferenceService.UpdatePreferences"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid user_id", err)
	}

	profile, err := s.backend.Preferences.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInternal, op, "failed to load preferences", err)
		}
		// Lazily created on first update.
		profile = &models.UserPreference{
			ID:                  uuid.NewString(),
			UserID:              userID,
			PreferredDistanceKm: 50,
			PreferredEventSizes: pq.StringArray{models.EventSizeSmall, models.EventSizeMedium, models.EventSizeLarge},
		}
	}

	if update != nil {
		if update.PreferredCategories != nil {
			profile.PreferredCategories = pq.StringArray(*update.PreferredCategories)
		}
		if update.PreferredPriceRange != nil {
			profile.PreferredPriceRange = *update.PreferredPriceRange
		}
		if update.PreferredDistanceKm != nil {
			profile.PreferredDistanceKm = *update.PreferredDistanceKm
		}
		if update.PreferredEventSizes != nil {
			profile.PreferredEventSizes = pq.StringArray(*update.PreferredEventSizes)
		}
		if update.LikedEventTypes != nil {
			profile.LikedEventTypes = pq.StringArray(*update.LikedEventTypes)
		}
		if update.DislikedEventTypes != nil {
			profile.DislikedEventTypes = pq.StringArray(*update.DislikedEventTypes)
		}
	}
	profile.UpdatedAt = time.Now().UTC()

	if len(profile.PreferredCategories) > 0 && s.ai.CanEmbed() {
		if vec, err := s.ai.GenerateEmbedding(ctx, strings.Join(profile.PreferredCategories, ", ")); err != nil {
			// Keep whatever embedding the profile already had.
			s.log.WithError(err).Warn("preference embedding regeneration failed")
		} else {
			v := pgvector.NewVector(vec)
			profile.PreferenceEmbedding = &v
		}
	}

	if err := s.backend.Preferences.Upsert(ctx, profile); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save preferences", err)
	}
	return profile, nil
}

func (s *preferenceService) GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error) {
	const op = "PreferenceService.GetByUserID"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	p, err := s.backend.Preferences.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "preferences not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load preferences", err)
	}
	return p, nil
}
