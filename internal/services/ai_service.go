package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/providers/ai"
	"github.com/gatherly/backend/internal/utils"
)

const chatSystemPrompt = `You are an AI assistant for an event discovery platform. Help users find events they'll love through natural conversation.

Your capabilities:
- Ask clarifying questions about what kind of events they're looking for
- Learn their preferences (music taste, budget, location, group size, etc.)
- Recommend events based on their interests
- Help hosts create events through conversation (no forms!)
- Be friendly, helpful, and conversational

When users want to find events, ask about:
- What type of experience they want (music, food, arts, sports, networking, etc.)
- When they're looking to go out
- Their location or how far they're willing to travel
- Budget preferences
- Group size (solo, date, friends, family)

When hosts want to create events, naturally extract:
- Event name and description
- Date and time
- Location
- Price (if any)
- What makes it special

Be concise but warm. Use emojis sparingly. Focus on helping them discover or create amazing experiences!`

const (
	chatTimeout  = 30 * time.Second
	embedTimeout = 15 * time.Second
)

// EventDraft is what the model extracts from a conversation. Nil fields
// were not mentioned.
type EventDraft struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	EventSize    *string   `json:"event_size"`
	LocationName *string   `json:"location_name"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	StartTime    *string   `json:"start_time"`
	EndTime      *string   `json:"end_time"`
	Price        *float64  `json:"price"`
	IsFree       *bool     `json:"is_free"`
	AITags       *[]string `json:"ai_tags"`
}

// PreferenceDraft mirrors models.PreferenceUpdate but is parsed straight
// from model output; empty arrays from the model mean "unknown" and are
// dropped before the partial update is applied.
type PreferenceDraft struct {
	PreferredCategories *[]string `json:"preferred_categories"`
	PreferredPriceRange *string   `json:"preferred_price_range"`
	PreferredDistanceKm *float64  `json:"preferred_distance_km"`
	PreferredEventSizes *[]string `json:"preferred_event_sizes"`
	LikedEventTypes     *[]string `json:"liked_event_types"`
	DislikedEventTypes  *[]string `json:"disliked_event_types"`
}

// Assistant is the AI surface the other services consume. Capability
// methods report whether the underlying providers are configured; the
// remaining methods error when they are not, and every call site owns an
// explicit fallback.
type Assistant interface {
	CanChat() bool
	CanEmbed() bool
	Chat(ctx context.Context, messages []ai.ChatMessage, convContext map[string]any) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	ExtractEventDetails(ctx context.Context, conversationText string) (*EventDraft, error)
	ExtractPreferences(ctx context.Context, conversationText string) (*PreferenceDraft, error)
	GenerateEventSummary(ctx context.Context, title, description, category string) (string, error)
}

// AIService wraps the chat and embedding providers with the prompts of the
// platform. Either provider may be nil; callers check the capability
// methods and apply their documented fallback when a call errors.
type AIService struct {
	chat     ai.ChatProvider
	embedder ai.Embedder
}

func NewAIService(chat ai.ChatProvider, embedder ai.Embedder) *AIService {
	return &AIService{chat: chat, embedder: embedder}
}

func (s *AIService) CanChat() bool  { return s.chat != nil }
func (s *AIService) CanEmbed() bool { return s.embedder != nil }

// Chat produces the assistant reply for a conversation turn.
func (s *AIService) Chat(ctx context.Context, messages []ai.ChatMessage, convContext map[string]any) (string, error) {
	const op = "AIService.Chat"

	if s.chat == nil {
		return "", utils.E(utils.CodeUnavailable, op, "no chat provider configured", nil)
	}

	system := chatSystemPrompt
	if len(convContext) > 0 {
		if b, err := json.MarshalIndent(convContext, "", "  "); err == nil {
			system += "\n\nCurrent context: " + string(b)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	reply, err := s.chat.Chat(ctx, ai.ChatRequest{
		System:      system,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "chat completion failed", err)
	}
	return reply, nil
}

// GenerateEmbedding embeds text. Callers must check CanEmbed first.
func (s *AIService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	const op = "AIService.GenerateEmbedding"

	if s.embedder == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "no embedding provider configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "embedding generation failed", err)
	}
	return vec, nil
}

// ExtractEventDetails pulls structured event fields out of free text.
func (s *AIService) ExtractEventDetails(ctx context.Context, conversationText string) (*EventDraft, error) {
	const op = "AIService.ExtractEventDetails"

	if s.chat == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "no chat provider configured", nil)
	}

	prompt := fmt.Sprintf(`Extract event details from this conversation and return as JSON:

%s

Return ONLY valid JSON with this structure (all fields optional except title):
{
    "title": "Event name",
    "description": "Full description",
    "category": "music|food|sports|arts|networking|education|family|other",
    "event_size": "small|medium|large",
    "location_name": "Venue name",
    "address": "Full address",
    "city": "City name",
    "start_time": "ISO 8601 datetime or null",
    "end_time": "ISO 8601 datetime or null",
    "price": 0.0,
    "is_free": true,
    "ai_tags": ["tag1", "tag2"]
}

If information is not mentioned, use null.`, conversationText)

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	raw, err := s.chat.Chat(ctx, ai.ChatRequest{
		System:      "You are an event extraction assistant. Extract structured data from natural language.",
		Messages:    []ai.ChatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   800,
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "event extraction failed", err)
	}

	var draft EventDraft
	if err := json.Unmarshal(stripCodeFence(raw), &draft); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "malformed extraction output", err)
	}
	return &draft, nil
}

// ExtractPreferences pulls preference signals out of a transcript. Fields
// the model could not infer come back nil and are treated as "no change".
func (s *AIService) ExtractPreferences(ctx context.Context, conversationText string) (*PreferenceDraft, error) {
	const op = "AIService.ExtractPreferences"

	if s.chat == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "no chat provider configured", nil)
	}

	prompt := fmt.Sprintf(`Extract user preferences from this conversation:

%s

Return ONLY valid JSON:
{
    "preferred_categories": ["music", "food"],
    "preferred_price_range": "free|low|medium|high|any",
    "preferred_distance_km": 50,
    "preferred_event_sizes": ["small", "medium"],
    "liked_event_types": ["jazz", "indie"],
    "disliked_event_types": ["edm"]
}

Use empty arrays for unknown preferences.`, conversationText)

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	raw, err := s.chat.Chat(ctx, ai.ChatRequest{
		System:      "Extract user preferences as JSON.",
		Messages:    []ai.ChatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "preference extraction failed", err)
	}

	var draft PreferenceDraft
	if err := json.Unmarshal(stripCodeFence(raw), &draft); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "malformed extraction output", err)
	}
	return &draft, nil
}

// GenerateEventSummary writes the short blurb shown in listings.
func (s *AIService) GenerateEventSummary(ctx context.Context, title, description, category string) (string, error) {
	const op = "AIService.GenerateEventSummary"

	if s.chat == nil {
		return "", utils.E(utils.CodeUnavailable, op, "no chat provider configured", nil)
	}

	prompt := fmt.Sprintf(`Write a compelling 2-3 sentence summary for this event:

Title: %s
Category: %s
Description: %s

Make it exciting and highlight what makes this event special.`, title, category, description)

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	summary, err := s.chat.Chat(ctx, ai.ChatRequest{
		System:      "Write engaging event summaries.",
		Messages:    []ai.ChatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "summary generation failed", err)
	}
	return strings.TrimSpace(summary), nil
}

// stripCodeFence unwraps ```json ... ``` blocks that chat models like to
// emit around JSON-only answers.
func stripCodeFence(raw string) []byte {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return []byte(strings.TrimSpace(s))
}

// ToUpdate converts the draft into a partial profile update. The prompt
// tells the model to answer with empty arrays for unknown preferences, so
// empty values here mean "could not infer" and are dropped rather than
// allowed to clobber stored fields. Returns nil when nothing was inferred.
func (d *PreferenceDraft) ToUpdate() *models.PreferenceUpdate {
	if d == nil {
		return nil
	}
	u := &models.PreferenceUpdate{}
	if d.PreferredCategories != nil && len(*d.PreferredCategories) > 0 {
		u.PreferredCategories = d.PreferredCategories
	}
	if d.PreferredPriceRange != nil && *d.PreferredPriceRange != "" {
		u.PreferredPriceRange = d.PreferredPriceRange
	}
	if d.PreferredDistanceKm != nil && *d.PreferredDistanceKm > 0 {
		u.PreferredDistanceKm = d.PreferredDistanceKm
	}
	if d.PreferredEventSizes != nil && len(*d.PreferredEventSizes) > 0 {
		u.PreferredEventSizes = d.PreferredEventSizes
	}
	if d.LikedEventTypes != nil && len(*d.LikedEventTypes) > 0 {
		u.LikedEventTypes = d.LikedEventTypes
	}
	if d.DislikedEventTypes != nil && len(*d.DislikedEventTypes) > 0 {
		u.DislikedEventTypes = d.DislikedEventTypes
	}
	if u.Empty() {
		return nil
	}
	return u
}
