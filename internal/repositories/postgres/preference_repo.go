package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/utils"
)

type preferenceRepo struct {
	db *gorm.DB
}

func NewPreferenceRepo(db *gorm.DB) repositories.PreferenceRepository {
	return &preferenceRepo{db: db}
}

func (r *preferenceRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error) {
	var p models.UserPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *preferenceRepo) Upsert(ctx context.Context, p *models.UserPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"preference_embedding",
				"preferred_categories",
				"preferred_price_range",
				"preferred_distance_km",
				"preferred_event_sizes",
				"liked_event_types",
				"disliked_event_types",
				"updated_at",
			}),
		}).
		Create(p).Error
}
