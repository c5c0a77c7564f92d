package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/backend/config"
	"github.com/gatherly/backend/internal/api/handlers"
	"github.com/gatherly/backend/internal/api/middleware"
	"github.com/gatherly/backend/internal/api/routes"
	"github.com/gatherly/backend/internal/cache"
	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/providers/ai"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/repositories/memory"
	"github.com/gatherly/backend/internal/repositories/postgres"
	"github.com/gatherly/backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	// Postgres, or in-memory demo catalog when it is unreachable. The
	// backend mode is fixed for the lifetime of the process.
	backend := initBackend(log)

	// Redis is optional; without it the popularity fallback is simply
	// recomputed per request.
	var store cache.Cache = cache.Noop{}
	if rdb, err := config.InitRedis(); err != nil {
		log.WithError(err).Warn("Redis unavailable, caching disabled")
	} else {
		store = cache.NewRedisCache(rdb)
		log.Info("Redis connected")
	}

	chatProvider, embedder := initProviders(log)

	aisvc := services.NewAIService(chatProvider, embedder)
	searchSvc := services.NewSearchService(backend, aisvc, log)
	recoSvc := services.NewRecommendationService(backend, store, log)
	eventSvc := services.NewEventService(backend, aisvc, store, log)
	prefSvc := services.NewPreferenceService(backend, aisvc, log)
	chatSvc := services.NewChatService(backend, aisvc, searchSvc, prefSvc, log)

	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Chat:  handlers.NewChatHandler(chatSvc),
		Event: handlers.NewEventHandler(eventSvc, searchSvc, recoSvc),
		Mode:  backend.Mode,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("server starting")
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func initBackend(log *logrus.Logger) *repositories.Backend {
	db, err := config.InitPostgres()
	if err != nil {
		log.WithError(err).Warn("PostgreSQL unavailable, running in demo mode with in-memory catalog")
		return memory.NewBackend(memory.DemoCatalog())
	}
	log.Info("PostgreSQL connected")
	return postgres.NewBackend(db)
}

func initProviders(log *logrus.Logger) (ai.ChatProvider, ai.Embedder) {
	openai, err := ai.NewOpenAI(log)
	if err != nil {
		log.WithError(err).Warn("OpenAI init failed, AI features disabled")
	}

	var chat ai.ChatProvider
	var embedder ai.Embedder
	if openai != nil {
		chat = openai
		embedder = openai
	}

	if os.Getenv("CHAT_PROVIDER") == "vertex" {
		gemini, err := ai.NewVertexGemini(
			context.Background(),
			os.Getenv("GCP_PROJECT_ID"),
			os.Getenv("GCP_LOCATION"),
			os.Getenv("GEMINI_MODEL"),
		)
		if err != nil {
			log.WithError(err).Warn("Vertex Gemini init failed, falling back to OpenAI chat")
		} else {
			chat = gemini
		}
	}

	if chat == nil {
		log.Warn("no chat provider configured, conversational replies degraded")
	}
	if embedder == nil {
		log.Warn("no embedder configured, semantic search degraded to keyword matching")
	}
	return chat, embedder
}
