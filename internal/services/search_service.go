package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/search"
	"github.com/gatherly/backend/internal/utils"
)

const (
	SearchLimitDefault = 20
	SearchLimitMax     = 100
)

type SearchService interface {
	// Search returns discoverable events matching query, most relevant
	// first. Semantic ranking is used when requested and an embedding
	// provider is configured; otherwise the call silently degrades to
	// keyword matching. Provider availability is a mode, not an error.
	Search(ctx context.Context, query string, f search.Filters, limit int, semantic bool) ([]models.Event, error)
}

type searchService struct {
	backend *repositories.Backend
	ai      Assistant
	log     *logrus.Logger
}

func NewSearchService(backend *repositories.Backend, ai Assistant, log *logrus.Logger) SearchService {
	return &searchService{backend: backend, ai: ai, log: log}
}

// ClampLimit normalizes a caller-supplied result limit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return SearchLimitDefault
	}
	if limit > SearchLimitMax {
		return SearchLimitMax
	}
	return limit
}

func (s *searchService) Search(ctx context.Context, query string, f search.Filters, limit int, semantic bool) ([]models.Event, error) {
	const op = "SearchService.Search"

	if query == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "query is required", nil)
	}
	limit = ClampLimit(limit)

	var embedding []float32
	if semantic && s.ai.CanEmbed() {
		vec, err := s.ai.GenerateEmbedding(ctx, query)
		if err != nil {
			// Degrade to keyword matching rather than failing the search.
			s.log.WithError(err).Warn("query embedding failed, falling back to keyword search")
		} else {
			embedding = vec
		}
	}

	events, err := s.backend.Events.Search(ctx, repositories.EventQuery{
		Text:      query,
		Embedding: embedding,
		Filters:   f,
		Limit:     limit,
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "search failed", err)
	}
	return events, nil
}
