package gorm

import (
	"context"
	"errors"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuRepository implements the menu repository interface using GORM
type MenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) outbound.MenuRepository {
	return &MenuRepository{db: db}
}

// SaveWeek writes or replaces the user's whole weekly menu
func (r *MenuRepository) SaveWeek(ctx context.Context, menu *nutrition.WeeklyMenu) error {
	model, err := MenuToModel(menu)
	if err != nil {
		return apperrors.NewPersistenceError("serialize menu", err)
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewPersistenceError("save menu", result.Error)
	}
	return nil
}

// FindByUserID returns the stored weekly menu
func (r *MenuRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*nutrition.WeeklyMenu, error) {
	var model WeeklyMenuModel

	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewMenuNotFoundError(userID.String())
		}
		return nil, apperrors.NewPersistenceError("find menu", result.Error)
	}

	menu, err := ModelToMenu(&model)
	if err != nil {
		return nil, apperrors.NewPersistenceError("deserialize menu", err)
	}
	return menu, nil
}

// FindDay returns one day's meal list
func (r *MenuRepository) FindDay(ctx context.Context, userID uuid.UUID, day int) (nutrition.DayMenu, error) {
	if !nutrition.ValidDay(day) {
		return nil, apperrors.NewValidationError("day must be between 1 and 7")
	}

	menu, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return menu.Days[day-1], nil
}

// SaveDay overwrites one day column, leaving the other six untouched
func (r *MenuRepository) SaveDay(ctx context.Context, userID uuid.UUID, day int, menu nutrition.DayMenu) error {
	if !nutrition.ValidDay(day) {
		return apperrors.NewValidationError("day must be between 1 and 7")
	}

	serialized, err := MarshalDay(menu)
	if err != nil {
		return apperrors.NewPersistenceError("serialize day", err)
	}

	// Day is validated above, so the column name is one of day1..day7
	result := r.db.WithContext(ctx).Model(&WeeklyMenuModel{}).
		Where("user_id = ?", userID).
		Update(nutrition.DayKey(day), serialized)
	if result.Error != nil {
		return apperrors.NewPersistenceError("save day", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewMenuNotFoundError(userID.String())
	}
	return nil
}

// DeleteByUserID removes the user's weekly menu
func (r *MenuRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&WeeklyMenuModel{}, "user_id = ?", userID)
	if result.Error != nil {
		return apperrors.NewPersistenceError("delete menu", result.Error)
	}
	return nil
}
