package services

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/providers/ai"
)

// stubAssistant is a scriptable Assistant for service tests.
type stubAssistant struct {
	canChat  bool
	canEmbed bool

	chatReply string
	chatErr   error

	embedVec   []float32
	embedErr   error
	embedCalls int

	eventDraft *EventDraft
	eventErr   error

	prefDraft *PreferenceDraft
	prefErr   error

	summary    string
	summaryErr error
}

func (s *stubAssistant) CanChat() bool  { return s.canChat }
func (s *stubAssistant) CanEmbed() bool { return s.canEmbed }

func (s *stubAssistant) Chat(ctx context.Context, messages []ai.ChatMessage, convContext map[string]any) (string, error) {
	return s.chatReply, s.chatErr
}

func (s *stubAssistant) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	s.embedCalls++
	return s.embedVec, s.embedErr
}

func (s *stubAssistant) ExtractEventDetails(ctx context.Context, conversationText string) (*EventDraft, error) {
	return s.eventDraft, s.eventErr
}

func (s *stubAssistant) ExtractPreferences(ctx context.Context, conversationText string) (*PreferenceDraft, error) {
	return s.prefDraft, s.prefErr
}

func (s *stubAssistant) GenerateEventSummary(ctx context.Context, title, description, category string) (string, error) {
	return s.summary, s.summaryErr
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func futureEvent(id, title, category, city string, createdAgo time.Duration) models.Event {
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
