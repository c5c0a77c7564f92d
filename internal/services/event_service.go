package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/backend/internal/cache"
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/utils"
)

const summaryFallbackLen = 200

// CreateEventInput carries one event creation request. When
// ConversationText is set, event fields are extracted from it and the
// explicit fields below act as overrides.
type CreateEventInput struct {
	ConversationText string

	Title        *string
	Description  *string
	Category     *string
	EventSize    *string
	LocationName *string
	Address      *string
	City         *string
	Latitude     *float64
	Longitude    *float64
	StartTime    *string // ISO 8601
	EndTime      *string // ISO 8601
	Price        *float64
	Currency     *string
	IsFree       *bool
	AITags       *[]string
	HostID       *string
}

type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
}

type eventService struct {
	backend *repositories.Backend
	ai      Assistant
	cache   cache.Cache
	log     *logrus.Logger
}

func NewEventService(backend *repositories.Backend, ai Assistant, c cache.Cache, log *logrus.Logger) EventService {
	return &eventService{backend: backend, ai: ai, cache: c, log: log}
}

func (s *eventService) Create(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	const op = "EventService.Create"

	if in.ConversationText != "" {
		in = s.applyExtraction(ctx, in)
	}

	now := time.Now().UTC()
	e := &models.Event{
		ID:         uuid.NewString(),
		HostID:     in.HostID,
		Title:      stringOr(in.Title, "Untitled Event"),
		Category:   stringOr(in.Category, "other"),
		EventSize:  stringOr(in.EventSize, models.EventSizeMedium),
		Currency:   stringOr(in.Currency, "USD"),
		IsPublic:   true,
		IsApproved: true,
		Status:     models.EventStatusActive,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.LocationName != nil {
		e.LocationName = *in.LocationName
	}
	if in.Address != nil {
		e.Address = *in.Address
	}
	if in.City != nil {
		e.City = *in.City
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, utils.E(utils.CodeInvalidArgument, op, "price must be non-negative", nil)
		}
		e.Price = *in.Price
	}
	// is_free tracks price unless the caller says otherwise.
	if in.IsFree != nil {
		e.IsFree = *in.IsFree
	} else {
		e.IsFree = e.Price == 0
	}
	if in.AITags != nil {
		e.AITags = pq.StringArray(*in.AITags)
	}
	e.StartTime = parseEventTime(in.StartTime)
	e.EndTime = parseEventTime(in.EndTime)

	if e.Description != "" && s.ai.CanEmbed() {
		if vec, err := s.ai.GenerateEmbedding(ctx, e.Description); err != nil {
			s.log.WithError(err).Warn("event embedding generation failed, storing without embedding")
		} else {
			v := pgvector.NewVector(vec)
			e.DescriptionEmbedding = &v
		}
	}

	e.AISummary = s.summarize(ctx, e)

	if err := s.backend.Events.Create(ctx, e); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create event", err)
	}

	// New events change the popularity fallback ordering.
	if err := s.cache.Del(ctx, popularCacheKey); err != nil {
		s.log.WithError(err).Debug("popular cache invalidation failed")
	}
	return e, nil
}

// applyExtraction fills unset input fields from the conversation text.
// Extraction failure is absorbed: the text itself becomes the description.
func (s *eventService) applyExtraction(ctx context.Context, in CreateEventInput) CreateEventInput {
	var draft *EventDraft
	if s.ai.CanChat() {
		d, err := s.ai.ExtractEventDetails(ctx, in.ConversationText)
		if err != nil {
			s.log.WithError(err).Warn("event extraction failed, using conversation text as description")
		} else {
			draft = d
		}
	}

	if draft == nil {
		if in.Title == nil {
			in.Title = ptr("New Event")
		}
		if in.Description == nil {
			in.Description = &in.ConversationText
		}
		return in
	}

	// Explicit overrides win over extracted values.
	if in.Title == nil {
		in.Title = draft.Title
	}
	if in.Description == nil {
		in.Description = draft.Description
	}
	if in.Category == nil {
		in.Category = draft.Category
	}
	if in.EventSize == nil {
		in.EventSize = draft.EventSize
	}
	if in.LocationName == nil {
		in.LocationName = draft.LocationName
	}
	if in.Address == nil {
		in.Address = draft.Address
	}
	if in.City == nil {
		in.City = draft.City
	}
	if in.StartTime == nil {
		in.StartTime = draft.StartTime
	}
	if in.EndTime == nil {
		in.EndTime = draft.EndTime
	}
	if in.Price == nil {
		in.Price = draft.Price
	}
	if in.IsFree == nil {
		in.IsFree = draft.IsFree
	}
	if in.AITags == nil {
		in.AITags = draft.AITags
	}
	if in.Description == nil {
		in.Description = &in.ConversationText
	}
	return in
}

func (s *eventService) summarize(ctx context.Context, e *models.Event) string {
	if e.Title != "" && e.Description != "" && s.ai.CanChat() {
		summary, err := s.ai.GenerateEventSummary(ctx, e.Title, e.Description, e.Category)
		if err == nil {
			return summary
		}
		s.log.WithError(err).Warn("summary generation failed, truncating description")
	}
	if len(e.Description) > summaryFallbackLen {
		return e.Description[:summaryFallbackLen]
	}
	return e.Description
}

func (s *eventService) GetByID(ctx context.Context, id string) (*models.Event, error) {
	const op = "EventService.GetByID"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "event id is required", nil)
	}
	if _, err := uuid.Parse(id); err != nil {
		// Catalog ids in degraded mode are plain strings; look them up
		// before rejecting the id shape.
		if s.backend.Mode == repositories.ModeMemory {
			if e, lookupErr := s.backend.Events.GetByID(ctx, id); lookupErr == nil {
				return e, nil
			}
		}
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid event id", err)
	}

	e, err := s.backend.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "event not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get event", err)
	}
	return e, nil
}

func parseEventTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

func stringOr(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}

func ptr[T any](v T) *T { return &v }
