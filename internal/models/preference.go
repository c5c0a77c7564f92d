package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

const (
	PriceRangeFree   = "free"
	PriceRangeLow    = "low"
	PriceRangeMedium = "medium"
	PriceRangeHigh   = "high"
	PriceRangeAny    = "any"
)

// UserPreference is the one-to-one preference profile for a user. Created
// lazily on the first preference update.
type UserPreference struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;uniqueIndex" json:"user_id"`

	// Derived from the preferred categories; used for recommendation ranking.
	PreferenceEmbedding *pgvector.Vector `gorm:"column:preference_embedding;type:vector(1536)" json:"-"`

	PreferredCategories pq.StringArray `gorm:"column:preferred_categories;type:text[]" json:"preferred_categories"`
	PreferredPriceRange string         `gorm:"column:preferred_price_range;type:varchar(20)" json:"preferred_price_range"` // free|low|medium|high|any
	PreferredDistanceKm float64        `gorm:"column:preferred_distance_km;default:50" json:"preferred_distance_km"`
	PreferredEventSizes pq.StringArray `gorm:"column:preferred_event_sizes;type:text[]" json:"preferred_event_sizes"`

	LikedEventTypes    pq.StringArray `gorm:"column:liked_event_types;type:text[]" json:"liked_event_types"`
	DislikedEventTypes pq.StringArray `gorm:"column:disliked_event_types;type:text[]" json:"disliked_event_types"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (UserPreference) TableName() string { return "user_preferences" }

// PreferenceUpdate carries a partial profile update. Presence (non-nil), not
// truthiness, decides whether a field is overwritten; an explicit empty
// slice is a value and overwrites.
type PreferenceUpdate struct {
	PreferredCategories *[]string `json:"preferred_categories,omitempty"`
	PreferredPriceRange *string   `json:"preferred_price_range,omitempty"`
	PreferredDistanceKm *float64  `json:"preferred_distance_km,omitempty"`
	PreferredEventSizes *[]string `json:"preferred_event_sizes,omitempty"`
	LikedEventTypes     *[]string `json:"liked_event_types,omitempty"`
	DislikedEventTypes  *[]string `json:"disliked_event_types,omitempty"`
}

// Empty reports whether the update carries no fields at all.
func (u *PreferenceUpdate) Empty() bool {
	return u == nil ||
		(u.PreferredCategories == nil &&
			u.PreferredPriceRange == nil &&
			u.PreferredDistanceKm == nil &&
			u.PreferredEventSizes == nil &&
			u.LikedEventTypes == nil &&
			u.DislikedEventTypes == nil)
}
