package memory

import (
	"time"

	"github.com/lib/pq"

	"github.com/gatherly/backend/internal/models"
)

// DemoCatalog seeds the degraded-mode backend with a handful of
// future-dated events so the API stays useful without a database.
func DemoCatalog() []models.Event {
	now := time.Now().UTC()
	at := func(days int, hour int) *time.Time {
		t := now.AddDate(0, 0, days).Truncate(time.Hour).Add(time.Duration(hour) * time.Hour)
		return &t
	}

	return []models.Event{
		{
			ID:           "demo-jazz-night",
			Title:        "Live Jazz Night",
			Description:  "An intimate evening of live jazz with a rotating quartet and late-night jam session.",
			Category:     "music",
			EventSize:    models.EventSizeSmall,
			LocationName: "Blue Note Basement",
			Address:      "114 W 3rd St",
			City:         "New York",
			StartTime:    at(2, 20),
			Price:        25,
			Currency:     "USD",
			IsPublic:     true,
			IsApproved:   true,
			Status:       models.EventStatusActive,
			AITags:       pq.StringArray{"jazz", "live music", "nightlife"},
			AISummary:    "A cozy basement club session where a jazz quartet plays two sets before an open jam.",
			CreatedAt:    now.Add(-1 * time.Hour),
			UpdatedAt:    now.Add(-1 * time.Hour),
		},
		{
			ID:           "demo-sunrise-yoga",
			Title:        "Sunrise Yoga in the Park",
			Description:  "Outdoor vinyasa flow for all levels. Bring a mat and water; coffee afterwards.",
			Category:     "sports",
			EventSize:    models.EventSizeMedium,
			LocationName: "Riverside Park Lawn",
			City:         "New York",
			StartTime:    at(1, 6),
			Price:        0,
			Currency:     "USD",
			IsFree:       true,
			IsPublic:     true,
			IsApproved:   true,
			Status:       models.EventStatusActive,
			AITags:       pq.StringArray{"yoga", "wellness", "outdoors"},
			AISummary:    "A free all-levels vinyasa class on the river lawn as the sun comes up.",
			CreatedAt:    now.Add(-2 * time.Hour),
			UpdatedAt:    now.Add(-2 * time.Hour),
		},
		{
			ID:           "demo-founders-meetup",
			Title:        "Tech Founders Meetup",
			Description:  "Monthly networking night for startup founders and engineers. Lightning talks then drinks.",
			Category:     "networking",
			EventSize:    models.EventSizeMedium,
			LocationName: "The Garage Cowork",
			City:         "San Francisco",
			StartTime:    at(4, 18),
			Price:        0,
			Currency:     "USD",
			IsFree:       true,
			IsPublic:     true,
			IsApproved:   true,
			Status:       models.EventStatusActive,
			AITags:       pq.StringArray{"startup", "tech", "networking"},
			AISummary:    "Lightning talks from three founders followed by open networking over drinks.",
			CreatedAt:    now.Add(-3 * time.Hour),
			UpdatedAt:    now.Add(-3 * time.Hour),
		},
		{
			ID:           "demo-street-food",
			Title:        "Street Food Festival",
			Description:  "Forty food trucks, live DJs, and a craft beer garden along the waterfront.",
			Category:     "food",
			EventSize:    models.EventSizeLarge,
			LocationName: "Pier 48",
			City:         "San Francisco",
			StartTime:    at(6, 12),
			Price:        10,
			Currency:     "USD",
			IsPublic:     true,
			IsApproved:   true,
			Status:       models.EventStatusActive,
			AITags:       pq.StringArray{"food", "festival", "outdoors"},
			AISummary:    "A waterfront festival packing forty food trucks, DJs, and a beer garden into one pier.",
			CreatedAt:    now.Add(-4 * time.Hour),
			UpdatedAt:    now.Add(-4 * time.Hour),
		},
		{
			ID:           "demo-open-gallery",
			Title:        "Modern Art Open Gallery",
			Description:  "Open gallery walk featuring local painters and sculptors, with artists on hand to chat.",
			Category:     "arts",
			EventSize:    models.EventSizeSmall,
			LocationName: "Fourth Wall Gallery",
			City:         "Oakland",
			StartTime:    at(3, 17),
			Price:        0,
			Currency:     "USD",
			IsFree:       true,
			IsPublic:     true,
			IsApproved:   true,
			Status:       models.EventStatusActive,
			AITags:       pq.StringArray{"art", "gallery", "local"},
			AISummary:    "A free evening walk through new work from local painters and sculptors.",
			CreatedAt:    now.Add(-5 * time.Hour),
			UpdatedAt:    now.Add(-5 * time.Hour),
		},
	}
}
