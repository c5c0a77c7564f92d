package config

import (
	"errors"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gatherly/backend/internal/models"
)

func InitPostgres() (*gorm.DB, error) {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return nil, errors.New("POSTGRES_URI environment variable is not set")
	}
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection Pooling settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// migrate creates the schema: pgvector extension first, since the event
// and preference tables carry vector(1536) columns.
func migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.UserPreference{},
		&models.Conversation{},
	); err != nil {
		return err
	}

	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_events_category ON events(category)",
		"CREATE INDEX IF NOT EXISTS idx_events_city ON events(city)",
		"CREATE INDEX IF NOT EXISTS idx_events_start_time ON events(start_time)",
		"CREATE INDEX IF NOT EXISTS idx_events_embedding ON events USING ivfflat (description_embedding vector_cosine_ops) WITH (lists = 100)",
		"CREATE INDEX IF NOT EXISTS idx_conversations_session ON conversations(session_id)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
