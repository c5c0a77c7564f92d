package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDim is the dimension of all stored embeddings
// (OpenAI text-embedding-3-small).
const EmbeddingDim = 1536

const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
)

const (
	EventSizeSmall  = "small"
	EventSizeMedium = "medium"
	EventSizeLarge  = "large"
)

type Event struct {
	ID     string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	HostID *string `gorm:"column:host_id;type:uuid" json:"host_id,omitempty"`

	Title       string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`

	// Nullable: embedding generation may fail or be skipped entirely.
	DescriptionEmbedding *pgvector.Vector `gorm:"column:description_embedding;type:vector(1536)" json:"-"`

	Category  string `gorm:"column:category;type:varchar(100);index:idx_events_category" json:"category"`
	EventSize string `gorm:"column:event_size;type:varchar(20)" json:"event_size"` // small (<50), medium (50-200), large (200+)

	LocationName string   `gorm:"column:location_name;type:varchar(255)" json:"location_name"`
	Address      string   `gorm:"column:address;type:varchar(500)" json:"address"`
	City         string   `gorm:"column:city;type:varchar(100);index:idx_events_city" json:"city"`
	Latitude     *float64 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude    *float64 `gorm:"column:longitude" json:"longitude,omitempty"`

	StartTime *time.Time `gorm:"column:start_time;type:timestamptz;index:idx_events_start_time" json:"start_time"`
	EndTime   *time.Time `gorm:"column:end_time;type:timestamptz" json:"end_time,omitempty"`

	Price    float64 `gorm:"column:price;default:0" json:"price"`
	Currency string  `gorm:"column:currency;type:varchar(3);default:USD" json:"currency"`
	IsFree   bool    `gorm:"column:is_free;default:false" json:"is_free"`

	IsPublic   bool   `gorm:"column:is_public;default:true" json:"is_public"`
	IsApproved bool   `gorm:"column:is_approved;default:true" json:"is_approved"`
	Status     string `gorm:"column:status;type:varchar(20);default:active" json:"status"`

	AITags    pq.StringArray `gorm:"column:ai_tags;type:text[]" json:"ai_tags"`
	AISummary string         `gorm:"column:ai_summary;type:text" json:"ai_summary"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Event) TableName() string { return "events" }

// Discoverable reports whether the event may appear in search or
// recommendation results at the given instant: public, approved, active,
// and strictly future-dated.
func (e *Event) Discoverable(now time.Time) bool {
	return e.IsPublic &&
		e.IsApproved &&
		e.Status == EventStatusActive &&
		e.StartTime != nil &&
		e.StartTime.After(now)
}
