package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/backend/internal/search"
	"github.com/gatherly/backend/internal/services"
	"github.com/gatherly/backend/internal/utils"
)

type EventHandler struct {
	events          services.EventService
	searches        services.SearchService
	recommendations services.RecommendationService
}

func NewEventHandler(events services.EventService, searches services.SearchService, recommendations services.RecommendationService) *EventHandler {
	return &EventHandler{events: events, searches: searches, recommendations: recommendations}
}

// CreateEventRequest accepts either structured fields or conversation_text
// plus overrides; explicit fields always win over extracted ones.
type CreateEventRequest struct {
	ConversationText string `json:"conversation_text"`

	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	EventSize    *string   `json:"event_size"`
	LocationName *string   `json:"location_name"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	StartTime    *string   `json:"start_time"`
	EndTime      *string   `json:"end_time"`
	Price        *float64  `json:"price"`
	Currency     *string   `json:"currency"`
	IsFree       *bool     `json:"is_free"`
	AITags       *[]string `json:"ai_tags"`
	HostID       *string   `json:"host_id"`
}

type EventCreatedResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AISummary   string  `json:"ai_summary"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	City        string  `json:"city"`
	StartTime   string  `json:"start_time"`
	Price       float64 `json:"price"`
	IsFree      bool    `json:"is_free"`
	CreatedAt   string  `json:"created_at"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EventHandler.Create", "invalid request body", err))
		return
	}

	e, err := h.events.Create(c.Request.Context(), services.CreateEventInput{
		ConversationText: req.ConversationText,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		EventSize:        req.EventSize,
		LocationName:     req.LocationName,
		Address:          req.Address,
		City:             req.City,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Price:            req.Price,
		Currency:         req.Currency,
		IsFree:           req.IsFree,
		AITags:           req.AITags,
		HostID:           req.HostID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, EventCreatedResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		AISummary:   e.AISummary,
		Category:    e.Category,
		Location:    e.LocationName,
		City:        e.City,
		StartTime:   formatTime(e.StartTime),
		Price:       e.Price,
		IsFree:      e.IsFree,
		CreatedAt:   e.CreatedAt.Format(timeLayout),
	})
}

// EventView is the search result projection.
type EventView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AISummary   string   `json:"ai_summary"`
	Category    string   `json:"category"`
	EventSize   string   `json:"event_size"`
	Location    string   `json:"location"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Price       float64  `json:"price"`
	IsFree      bool     `json:"is_free"`
	AITags      []string `json:"ai_tags"`
}

func (h *EventHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EventHandler.Search", "Search query is required", nil))
		return
	}

	useSemantic := true
	if v := c.Query("use_semantic"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			useSemantic = parsed
		}
	}

	filters := search.Filters{
		Category:  c.Query("category"),
		City:      c.Query("city"),
		EventSize: c.Query("event_size"),
	}
	if v := c.Query("max_price"); v != "" {
		maxPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "EventHandler.Search", "invalid max_price", err))
			return
		}
		filters.MaxPrice = &maxPrice
	}

	events, err := h.searches.Search(c.Request.Context(), query, filters, parseLimit(c), useSemantic)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]EventView, 0, len(events))
	for i := range events {
		e := &events[i]
		out = append(out, EventView{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			AISummary:   e.AISummary,
			Category:    e.Category,
			EventSize:   e.EventSize,
			Location:    e.LocationName,
			Address:     e.Address,
			City:        e.City,
			StartTime:   formatTime(e.StartTime),
			EndTime:     formatTime(e.EndTime),
			Price:       e.Price,
			IsFree:      e.IsFree,
			AITags:      e.AITags,
		})
	}
	c.JSON(http.StatusOK, out)
}

// RecommendationView is the recommendation projection.
type RecommendationView struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	AISummary string  `json:"ai_summary"`
	Category  string  `json:"category"`
	Location  string  `json:"location"`
	City      string  `json:"city"`
	StartTime string  `json:"start_time"`
	Price     float64 `json:"price"`
	IsFree    bool    `json:"is_free"`
}

func (h *EventHandler) Recommendations(c *gin.Context) {
	events, err := h.recommendations.Recommend(c.Request.Context(), c.Query("user_id"), parseLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]RecommendationView, 0, len(events))
	for i := range events {
		e := &events[i]
		out = append(out, RecommendationView{
			ID:        e.ID,
			Title:     e.Title,
			AISummary: e.AISummary,
			Category:  e.Category,
			Location:  e.LocationName,
			City:      e.City,
			StartTime: formatTime(e.StartTime),
			Price:     e.Price,
			IsFree:    e.IsFree,
		})
	}
	c.JSON(http.StatusOK, out)
}

// EventDetailResponse is the full single-event projection.
type EventDetailResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AISummary   string   `json:"ai_summary"`
	Category    string   `json:"category"`
	EventSize   string   `json:"event_size"`
	Location    string   `json:"location"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	IsFree      bool     `json:"is_free"`
	AITags      []string `json:"ai_tags"`
	HostID      *string  `json:"host_id"`
	CreatedAt   string   `json:"created_at"`
}

func (h *EventHandler) Get(c *gin.Context) {
	e, err := h.events.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, EventDetailResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		AISummary:   e.AISummary,
		Category:    e.Category,
		EventSize:   e.EventSize,
		Location:    e.LocationName,
		Address:     e.Address,
		City:        e.City,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		StartTime:   formatTime(e.StartTime),
		EndTime:     formatTime(e.EndTime),
		Price:       e.Price,
		Currency:    e.Currency,
		IsFree:      e.IsFree,
		AITags:      e.AITags,
		HostID:      e.HostID,
		CreatedAt:   e.CreatedAt.Format(timeLayout),
	})
}

func parseLimit(c *gin.Context) int {
	limit := services.SearchLimitDefault
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	return services.ClampLimit(limit)
}
