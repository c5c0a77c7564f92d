package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gatherly/backend/internal/api/handlers"
	"github.com/gatherly/backend/internal/repositories"
)

const (
	appName    = "gatherly-backend"
	appVersion = "1.0.0"
)

type Deps struct {
	Chat  *handlers.ChatHandler
	Event *handlers.EventHandler
	Mode  repositories.Mode
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"app":     appName,
			"version": appVersion,
			"backend": string(d.Mode),
		})
	})

	r.POST("/chat/message", d.Chat.SendMessage)
	r.GET("/chat/session/:session_id", d.Chat.GetSession)
	r.DELETE("/chat/session/:session_id", d.Chat.DeleteSession)

	r.POST("/events", d.Event.Create)
	r.GET("/events/search", d.Event.Search)
	r.GET("/events/recommendations", d.Event.Recommendations)
	r.GET("/events/:id", d.Event.Get)
}
