// Package search holds the matching and ranking primitives shared by the
// search and recommendation engines and by the in-memory backend.
package search

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gatherly/backend/internal/models"
)

// Filters are conjunctive predicates applied on top of the standing
// eligibility predicate. Zero values impose no constraint.
type Filters struct {
	Category  string
	City      string
	MaxPrice  *float64
	EventSize string
}

func (f Filters) Match(e *models.Event) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.City != "" && e.City != f.City {
		return false
	}
	if f.MaxPrice != nil && e.Price > *f.MaxPrice {
		return false
	}
	if f.EventSize != "" && e.EventSize != f.EventSize {
		return false
	}
	return true
}

// MatchesQuery reports whether query is a case-insensitive substring of the
// event's title, description, location name, or city.
func MatchesQuery(e *models.Event, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q) ||
		strings.Contains(strings.ToLower(e.LocationName), q) ||
		strings.Contains(strings.ToLower(e.City), q)
}

// Eligible is the standing discoverability predicate.
func Eligible(e *models.Event, now time.Time) bool {
	return e.Discoverable(now)
}

// CosineSimilarity is in [-1, 1]; zero-length or mismatched vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// RankBySimilarity orders events by descending cosine similarity of their
// description embedding against the query embedding, ties broken by id so
// repeated identical queries stay stable. Events without an embedding are
// excluded.
func RankBySimilarity(events []models.Event, query []float32, limit int) []models.Event {
	type scored struct {
		event models.Event
		score float64
	}
	ranked := make([]scored, 0, len(events))
	for _, e := range events {
		if e.DescriptionEmbedding == nil {
			continue
		}
		ranked = append(ranked, scored{event: e, score: CosineSimilarity(e.DescriptionEmbedding.Slice(), query)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].event.ID < ranked[j].event.ID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]models.Event, len(ranked))
	for i, s := range ranked {
		out[i] = s.event
	}
	return out
}
