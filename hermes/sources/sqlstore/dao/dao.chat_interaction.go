package dao

import (
	"context"
	"fmt"

	"hermes/hermes/sources/sqlstore/models"

	"gorm.io/gorm"
)

type ChatInteractionDAO struct {
	DB *gorm.DB
}

func NewChatInteractionDAO(db *gorm.DB) *ChatInteractionDAO {
	return &ChatInteractionDAO{DB: db}
}

// EnsureSchema creates chat_interactions if it is absent. Safe to call on every startup.
func (dao *ChatInteractionDAO) EnsureSchema(ctx context.Context) error {
	if err := dao.DB.WithContext(ctx).AutoMigrate(&models.ChatInteraction{}); err != nil {
		return fmt.Errorf("failed to auto-migrate chat_interactions: %w", err)
	}
	return nil
}

// Append inserts one interaction. The generated id is written back to rec.
func (dao *ChatInteractionDAO) Append(ctx context.Context, rec *models.ChatInteraction) error {
	if rec.ID != 0 {
		return fmt.Errorf("append interaction: id must be zero, got %d", rec.ID)
	}
	if err := dao.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

// ListByUser returns up to limit interactions of one session, oldest first.
// limit <= 0 means no limit.
func (dao *ChatInteractionDAO) ListByUser(ctx context.Context, userID string, limit int) ([]models.ChatInteraction, error) {
	var out []models.ChatInteraction
	q := dao.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecent returns the newest interactions across sessions, newest first.
// limit <= 0 means no limit.
func (dao *ChatInteractionDAO) ListRecent(ctx context.Context, limit int) ([]models.ChatInteraction, error) {
	var out []models.ChatInteraction
	q := dao.DB.WithContext(ctx).Model(&models.ChatInteraction{}).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
