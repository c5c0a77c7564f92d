package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/services"
	"github.com/gatherly/backend/internal/utils"
)

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type SendMessageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// ChatEventView is the compact event projection embedded in chat replies.
type ChatEventView struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	AISummary string  `json:"ai_summary"`
	Category  string  `json:"category"`
	City      string  `json:"city"`
	StartTime string  `json:"start_time"`
	Price     float64 `json:"price"`
	IsFree    bool    `json:"is_free"`
}

type SendMessageResponse struct {
	SessionID   string          `json:"session_id"`
	UserMessage string          `json:"user_message"`
	AIResponse  string          `json:"ai_response"`
	Events      []ChatEventView `json:"events"`
	Preferences json.RawMessage `json:"preferences"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ChatHandler.SendMessage", "invalid request body", err))
		return
	}

	res, err := h.svc.ProcessMessage(c.Request.Context(), req.Message, req.SessionID, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	events := make([]ChatEventView, 0, len(res.Events))
	for i := range res.Events {
		events = append(events, chatEventView(&res.Events[i]))
	}

	c.JSON(http.StatusOK, SendMessageResponse{
		SessionID:   res.SessionID,
		UserMessage: res.UserMessage,
		AIResponse:  res.AIResponse,
		Events:      events,
		Preferences: res.Preferences,
	})
}

type SessionResponse struct {
	SessionID            string                `json:"session_id"`
	MessageHistory       models.MessageHistory `json:"message_history"`
	ExtractedPreferences json.RawMessage       `json:"extracted_preferences"`
	CreatedAt            string                `json:"created_at"`
	UpdatedAt            string                `json:"updated_at"`
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	conv, err := h.svc.GetSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	prefs := json.RawMessage(conv.ExtractedPreferences)
	if len(prefs) == 0 {
		prefs = json.RawMessage(`{}`)
	}

	c.JSON(http.StatusOK, SessionResponse{
		SessionID:            conv.SessionID,
		MessageHistory:       conv.MessageHistory,
		ExtractedPreferences: prefs,
		CreatedAt:            conv.CreatedAt.Format(timeLayout),
		UpdatedAt:            conv.UpdatedAt.Format(timeLayout),
	})
}

type DeleteSessionResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := h.svc.DeleteSession(c.Request.Context(), sessionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteSessionResponse{Status: "deleted", SessionID: sessionID})
}

func chatEventView(e *models.Event) ChatEventView {
	return ChatEventView{
		ID:        e.ID,
		Title:     e.Title,
		AISummary: e.AISummary,
		Category:  e.Category,
		City:      e.City,
		StartTime: formatTime(e.StartTime),
		Price:     e.Price,
		IsFree:    e.IsFree,
	}
}
