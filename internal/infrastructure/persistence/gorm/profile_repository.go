// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"strings"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository implements the profile repository interface using GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) outbound.ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new user profile
func (r *ProfileRepository) Create(ctx context.Context, profile *nutrition.Profile, passwordHash string) error {
	model := ProfileToModel(profile, passwordHash)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE constraint failed") ||
			strings.Contains(result.Error.Error(), "duplicate key") {
			return apperrors.NewEmailAlreadyExistsError(model.Email)
		}
		return apperrors.NewPersistenceError("create profile", result.Error)
	}

	profile.ID = model.ID
	return nil
}

// FindByID finds a profile by ID
func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*nutrition.Profile, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewUserNotFoundError(id.String())
		}
		return nil, apperrors.NewPersistenceError("find profile", result.Error)
	}

	return ModelToProfile(&model), nil
}

// FindByEmail finds a profile by email
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*nutrition.Profile, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, "email = ?", strings.ToLower(email))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewUserNotFoundError(email)
		}
		return nil, apperrors.NewPersistenceError("find profile", result.Error)
	}

	return ModelToProfile(&model), nil
}

// CredentialsByEmail returns the id and password hash for sign-in without
// materializing the whole profile
func (r *ProfileRepository) CredentialsByEmail(ctx context.Context, email string) (uuid.UUID, string, error) {
	var model UserModel

	result := r.db.WithContext(ctx).
		Select("id", "password_hash").
		First(&model, "email = ?", strings.ToLower(email))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return uuid.Nil, "", apperrors.NewUserNotFoundError(email)
		}
		return uuid.Nil, "", apperrors.NewPersistenceError("find credentials", result.Error)
	}

	return model.ID, model.PasswordHash, nil
}

// UpdateBasicInfo updates the anthropometric and objective fields
func (r *ProfileRepository) UpdateBasicInfo(ctx context.Context, profile *nutrition.Profile) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"name":      profile.Name,
			"sex":       string(profile.Sex),
			"age":       profile.Age,
			"weight":    profile.Weight,
			"height":    profile.Height,
			"country":   profile.Country,
			"objective": string(profile.Objective),
		})
	if result.Error != nil {
		return apperrors.NewPersistenceError("update profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewUserNotFoundError(profile.ID.String())
	}
	return nil
}

// UpdateLifestyle replaces the free-text lifestyle arrays
func (r *ProfileRepository) UpdateLifestyle(ctx context.Context, id uuid.UUID, allergies, sportive, medical, preferences []string) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"allergies":            StringSlice(allergies),
			"sportive_description": StringSlice(sportive),
			"medical_conditions":   StringSlice(medical),
			"food_preferences":     StringSlice(preferences),
		})
	if result.Error != nil {
		return apperrors.NewPersistenceError("update lifestyle", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewUserNotFoundError(id.String())
	}
	return nil
}

// SaveTargets writes the whole target set in one statement, so readers
// never observe a partially assessed profile
func (r *ProfileRepository) SaveTargets(ctx context.Context, id uuid.UUID, targets *nutrition.Targets) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"recommended_daily_calories":       targets.DailyCalories,
			"recommended_water_intake":         targets.WaterIntake,
			"recommended_protein_intake":       targets.ProteinIntake,
			"recommended_fats_intake":          targets.FatsIntake,
			"recommended_carbohydrates_intake": targets.CarbohydrateIntake,
			"nutritional_deficiency_risks":     StringSlice(targets.DeficiencyRisks),
			"general_recommendations":          StringSlice(targets.Recommendations),
		})
	if result.Error != nil {
		return apperrors.NewPersistenceError("save targets", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewUserNotFoundError(id.String())
	}
	return nil
}

// Delete deletes a profile by ID
func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&UserModel{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewPersistenceError("delete profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewUserNotFoundError(id.String())
	}
	return nil
}
