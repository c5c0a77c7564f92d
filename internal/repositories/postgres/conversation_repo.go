package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repositories"
	"github.com/gatherly/backend/internal/utils"
)

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) repositories.ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Conversation, error) {
	var c models.Conversation
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepo) Create(ctx context.Context, c *models.Conversation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *conversationRepo) Save(ctx context.Context, c *models.Conversation) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *conversationRepo) DeleteBySessionID(ctx context.Context, sessionID string) error {
	res := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.Conversation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
