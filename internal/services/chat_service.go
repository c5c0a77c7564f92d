package services

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/providers/ai"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/search"
	"github.com/gatherly/backend/internal/utils"
)

const (
	// How much history goes to the model vs. to preference extraction.
	chatContextTurns    = 10
	extractContextTurns = 20

	// In-chat search fans out wider than it shows.
	chatSearchLimit   = 5
	chatSearchResults = 3
)

// searchTriggers are the phrases that make a chat turn also run an event
// search over the user's message.
var searchTriggers = []string{"find", "search", "looking for", "recommend", "suggest", "events", "show me"}

// fallbackReplies keep the conversation going when no chat provider is
// configured or the provider call fails.
var fallbackReplies = []string{
	"That's interesting! Tell me more about what kind of events you're looking for. Are you into music, food, sports, or something else?",
	"I'd love to help you find something fun! What type of experience are you looking for?",
	"Great! I can help you discover amazing events. What kind of activities do you enjoy?",
	"Sounds good! Are you looking to attend an event, or do you want to host one?",
}

// ChatResult is the outcome of one conversation turn.
type ChatResult struct {
	SessionID   string
	UserMessage string
	AIResponse  string
	Events      []models.Event
	Preferences json.RawMessage
}

type ChatService interface {
	// ProcessMessage runs one conversation turn: reply, history append,
	// preference extraction, and (when the message asks for it) an event
	// search. AI faults never fail the turn.
	ProcessMessage(ctx context.Context, message, sessionID, userID string) (*ChatResult, error)
	GetSession(ctx context.Context, sessionID string) (*models.Conversation, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type chatService struct {
	backend     *repositories.Backend
	ai          Assistant
	searches    SearchService
	preferences PreferenceService
	log         *logrus.Logger
}

func NewChatService(backend *repositories.Backend, aisvc Assistant, searches SearchService, preferences PreferenceService, log *logrus.Logger) ChatService {
	return &chatService{backend: backend, ai: aisvc, searches: searches, preferences: preferences, log: log}
}

func (s *chatService) ProcessMessage(ctx context.Context, message, sessionID, userID string) (*ChatResult, error) {
	const op = "ChatService.ProcessMessage"

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Message is required", nil)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conv, isNew, err := s.loadOrStart(ctx, sessionID, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load conversation", err)
	}

	reply := s.reply(ctx, conv, message)

	now := time.Now().UTC()
	conv.MessageHistory = append(conv.MessageHistory,
		models.Message{Role: models.RoleUser, Content: message, Timestamp: now},
		models.Message{Role: models.RoleAssistant, Content: reply, Timestamp: now},
	)
	conv.LastUserMessage = message
	conv.LastAIResponse = reply
	conv.UpdatedAt = now

	s.extractPreferences(ctx, conv)

	if err := s.persist(ctx, conv, isNew); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save conversation", err)
	}

	var events []models.Event
	if wantsSearch(message) {
		events = s.searchEvents(ctx, message)
	}

	prefs := json.RawMessage(conv.ExtractedPreferences)
	if len(prefs) == 0 {
		prefs = json.RawMessage(`{}`)
	}

	return &ChatResult{
		SessionID:   sessionID,
		UserMessage: message,
		AIResponse:  reply,
		Events:      events,
		Preferences: prefs,
	}, nil
}

func (s *chatService) loadOrStart(ctx context.Context, sessionID, userID string) (*models.Conversation, bool, error) {
	conv, err := s.backend.Conversations.GetBySessionID(ctx, sessionID)
	if err == nil {
		return conv, false, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()
	conv = &models.Conversation{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		MessageHistory: models.MessageHistory{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// Sessions stay anonymous unless a well-formed user id arrives.
	if userID != "" {
		if _, err := uuid.Parse(userID); err == nil {
			conv.UserID = &userID
		} else {
			s.log.WithField("user_id", userID).Debug("ignoring malformed user_id on chat session")
		}
	}
	return conv, true, nil
}

// reply asks the model for the assistant turn; on any fault the turn
// degrades to a canned conversational reply instead of failing.
func (s *chatService) reply(ctx context.Context, conv *models.Conversation, message string) string {
	recent := conv.MessageHistory.Last(chatContextTurns)
	messages := make([]ai.ChatMessage, 0, len(recent)+1)
	for _, m := range recent {
		messages = append(messages, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, ai.ChatMessage{Role: models.RoleUser, Content: message})

	convContext := map[string]any{}
	if len(conv.ExtractedPreferences) > 0 {
		convContext["extracted_preferences"] = json.RawMessage(conv.ExtractedPreferences)
	}
	if len(conv.SearchContext) > 0 {
		convContext["search_context"] = json.RawMessage(conv.SearchContext)
	}

	reply, err := s.ai.Chat(ctx, messages, convContext)
	if err != nil {
		if !utils.IsCode(err, utils.CodeUnavailable) {
			s.log.WithError(err).Warn("chat completion failed, using fallback reply")
		}
		return fallbackReplies[rand.Intn(len(fallbackReplies))]
	}
	return reply
}

// extractPreferences updates the conversation's preference snapshot and,
// for known users, the stored profile. Failures are logged and swallowed;
// the turn proceeds without a preference update.
func (s *chatService) extractPreferences(ctx context.Context, conv *models.Conversation) {
	if !s.ai.CanChat() {
		return
	}

	recent := conv.MessageHistory.Last(extractContextTurns)
	parts := make([]string, 0, len(recent))
	for _, m := range recent {
		parts = append(parts, m.Content)
	}

	draft, err := s.ai.ExtractPreferences(ctx, strings.Join(parts, "\n"))
	if err != nil {
		s.log.WithError(err).Warn("preference extraction failed")
		return
	}

	update := draft.ToUpdate()
	if update == nil {
		return
	}

	if b, err := json.Marshal(update); err == nil {
		conv.ExtractedPreferences = datatypes.JSON(b)
	}

	if conv.UserID != nil {
		if _, err := s.preferences.UpdatePreferences(ctx, *conv.UserID, update); err != nil {
			s.log.WithError(err).Warn("applying extracted preferences failed")
		}
	}
}

func (s *chatService) persist(ctx context.Context, conv *models.Conversation, isNew bool) error {
	if isNew {
		return s.backend.Conversations.Create(ctx, conv)
	}
	return s.backend.Conversations.Save(ctx, conv)
}

func (s *chatService) searchEvents(ctx context.Context, message string) []models.Event {
	events, err := s.searches.Search(ctx, message, search.Filters{}, chatSearchLimit, true)
	if err != nil {
		s.log.WithError(err).Warn("in-chat event search failed")
		return nil
	}
	if len(events) > chatSearchResults {
		events = events[:chatSearchResults]
	}
	return events
}

func wantsSearch(message string) bool {
	m := strings.ToLower(message)
	for _, kw := range searchTriggers {
		if strings.Contains(m, kw) {
			return true
		}
	}
	return false
}

func (s *chatService) GetSession(ctx context.Context, sessionID string) (*models.Conversation, error) {
	const op = "ChatService.GetSession"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	conv, err := s.backend.Conversations.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Conversation not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load conversation", err)
	}
	return conv, nil
}

func (s *chatService) DeleteSession(ctx context.Context, sessionID string) error {
	const op = "ChatService.DeleteSession"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if err := s.backend.Conversations.DeleteBySessionID(ctx, sessionID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "Conversation not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete conversation", err)
	}
	return nil
}
