package gorm

import (
	"context"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatHistoryRepository implements the chat history repository using GORM
type ChatHistoryRepository struct {
	db *gorm.DB
}

// NewChatHistoryRepository creates a new chat history repository
func NewChatHistoryRepository(db *gorm.DB) outbound.ChatHistoryRepository {
	return &ChatHistoryRepository{db: db}
}

// Append stores a revision turn and returns its assigned id
func (r *ChatHistoryRepository) Append(ctx context.Context, entry *nutrition.ChatEntry) (int64, error) {
	model := &ChatHistoryModel{
		UserID:  entry.UserID,
		Day:     entry.Day,
		Request: entry.Request,
		Notes:   entry.Notes,
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return 0, apperrors.NewPersistenceError("append chat entry", result.Error)
	}

	entry.ID = model.ID
	entry.CreatedAt = model.CreatedAt
	return model.ID, nil
}

// RecentForDay returns the newest turns about one day, newest first
func (r *ChatHistoryRepository) RecentForDay(ctx context.Context, userID uuid.UUID, day, limit int) ([]nutrition.ChatEntry, error) {
	var models []ChatHistoryModel

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, day).
		Order("id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewPersistenceError("load chat history", result.Error)
	}

	entries := make([]nutrition.ChatEntry, len(models))
	for i, m := range models {
		entries[i] = nutrition.ChatEntry{
			ID:        m.ID,
			UserID:    m.UserID,
			Day:       m.Day,
			Request:   m.Request,
			Notes:     m.Notes,
			CreatedAt: m.CreatedAt,
		}
	}
	return entries, nil
}
