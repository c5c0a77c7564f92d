package postgres

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/search"
	"github.com/gatherly/backend/internal/utils"
)

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo returns the pgvector-backed event repository.
func NewEventRepo(db *gorm.DB) repositories.EventRepository {
	return &eventRepo{db: db}
}

// discoverable applies the standing eligibility predicate: public,
// approved, active, future-dated.
func discoverable(tx *gorm.DB) *gorm.DB {
	return tx.
		Where("is_public = ?", true).
		Where("is_approved = ?", true).
		Where("status = ?", models.EventStatusActive).
		Where("start_time > NOW()")
}

func applyFilters(tx *gorm.DB, f search.Filters) *gorm.DB {
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.City != "" {
		tx = tx.Where("city = ?", f.City)
	}
	if f.MaxPrice != nil {
		tx = tx.Where("price <= ?", *f.MaxPrice)
	}
	if f.EventSize != "" {
		tx = tx.Where("event_size = ?", f.EventSize)
	}
	return tx
}

func (r *eventRepo) Create(ctx context.Context, e *models.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) Search(ctx context.Context, q repositories.EventQuery) ([]models.Event, error) {
	tx := discoverable(r.db.WithContext(ctx).Model(&models.Event{}))
	tx = applyFilters(tx, q.Filters)

	if q.Embedding != nil {
		tx = tx.
			Where("description_embedding IS NOT NULL").
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  "description_embedding <=> ?, id",
				Vars: []any{pgvector.NewVector(q.Embedding)},
			}})
	} else {
		pattern := "%" + q.Text + "%"
		tx = tx.Where(
			"title ILIKE @q OR description ILIKE @q OR location_name ILIKE @q OR city ILIKE @q",
			map[string]any{"q": pattern},
		)
	}

	var rows []models.Event
	err := tx.Limit(q.Limit).Find(&rows).Error
	return rows, err
}

func (r *eventRepo) RankByPreference(ctx context.Context, embedding []float32, limit int) ([]models.Event, error) {
	var rows []models.Event
	err := discoverable(r.db.WithContext(ctx).Model(&models.Event{})).
		Where("description_embedding IS NOT NULL").
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "description_embedding <=> ?, id",
			Vars: []any{pgvector.NewVector(embedding)},
		}}).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *eventRepo) ListUpcoming(ctx context.Context, limit int) ([]models.Event, error) {
	var rows []models.Event
	err := discoverable(r.db.WithContext(ctx).Model(&models.Event{})).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
