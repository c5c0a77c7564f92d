package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/backend/internal/cache"
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/utils"
)

const (
	popularCacheTTL = 60 * time.Second

	// popularCacheKey holds the full popularity fallback list (up to
	// SearchLimitMax); reads slice it down. Invalidated on event creation.
	popularCacheKey = "events:popular"
)

type RecommendationService interface {
	// Recommend ranks discoverable events against the user's preference
	// embedding. A missing, invalid, or profile-less user is not an
	// error; the call degrades to the popularity fallback
	// (most recently created first).
	Recommend(ctx context.Context, userID string, limit int) ([]models.Event, error)
}

type recommendationService struct {
	backend *repositories.Backend
	cache   cache.Cache
	log     *logrus.Logger
}

func NewRecommendationService(backend *repositories.Backend, c cache.Cache, log *logrus.Logger) RecommendationService {
	return &recommendationService{backend: backend, cache: c, log: log}
}

func (s *recommendationService) Recommend(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	limit = ClampLimit(limit)

	if userID == "" {
		return s.popular(ctx, limit)
	}
	if _, err := uuid.Parse(userID); err != nil {
		return s.popular(ctx, limit)
	}

	pref, err := s.backend.Preferences.GetByUserID(ctx, userID)
	if err != nil || pref.PreferenceEmbedding == nil {
		return s.popular(ctx, limit)
	}

	events, err := s.backend.Events.RankByPreference(ctx, pref.PreferenceEmbedding.Slice(), limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, "RecommendationService.Recommend", "preference ranking failed", err)
	}
	return events, nil
}

func (s *recommendationService) popular(ctx context.Context, limit int) ([]models.Event, error) {
	var events []models.Event
	if hit, err := s.cache.GetJSON(ctx, popularCacheKey, &events); err != nil || !hit {
		var listErr error
		events, listErr = s.backend.Events.ListUpcoming(ctx, SearchLimitMax)
		if listErr != nil {
			return nil, utils.E(utils.CodeInternal, "RecommendationService.popular", "listing upcoming events failed", listErr)
		}
		if err := s.cache.SetJSON(ctx, popularCacheKey, events, popularCacheTTL); err != nil {
			s.log.WithError(err).Debug("caching popular events failed")
		}
	}

	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
