// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/google/uuid"
)

// PlannerService defines the nutrition-planning use cases. This is the
// primary port that HTTP handlers and other driving adapters will use.
type PlannerService interface {
	// GenerateTargets computes and persists the daily nutrition targets for
	// a user from their profile
	GenerateTargets(ctx context.Context, userID uuid.UUID) (*TargetsReport, error)

	// GenerateWeeklyMenu builds and persists a full 7-day plan. Requires a
	// completed nutritional assessment.
	GenerateWeeklyMenu(ctx context.Context, userID uuid.UUID) (*nutrition.WeeklyMenu, error)

	// GetWeeklyMenu returns the stored plan
	GetWeeklyMenu(ctx context.Context, userID uuid.UUID) (*nutrition.WeeklyMenu, error)

	// ReviseDay applies a free-text revision request against one stored day
	ReviseDay(ctx context.Context, cmd ReviseDayCommand) (*RevisionResult, error)

	// ReviewLifestyle scores free-text lifestyle entries for medical
	// coherence before they are accepted onto the profile
	ReviewLifestyle(ctx context.Context, cmd ReviewLifestyleCommand) (*LifestyleReview, error)
}

// TargetsReport is the structured outcome of target generation
type TargetsReport struct {
	Targets nutrition.Targets `json:"targets"`
}

// ReviseDayCommand identifies the day to revise and the user's request
type ReviseDayCommand struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Day         int       `json:"day" validate:"required,min=1,max=7"`
	UserRequest string    `json:"user_request" validate:"required"`
}

// RevisionResult is the terminal outcome of one revision call. Persisted is
// false for a no-op conversational turn; Notes is always present.
type RevisionResult struct {
	Day       int               `json:"day"`
	Menu      nutrition.DayMenu `json:"menu,omitempty"`
	Notes     string            `json:"notes"`
	Persisted bool              `json:"persisted"`
}

// ReviewLifestyleCommand carries the raw lifestyle arrays to validate
type ReviewLifestyleCommand struct {
	UserID              uuid.UUID `json:"user_id" validate:"required"`
	Allergies           []string  `json:"allergies"`
	SportiveDescription []string  `json:"sportive_description"`
	MedicalConditions   []string  `json:"medical_conditions"`
}

// LifestyleEntryReview scores one free-text entry
type LifestyleEntryReview struct {
	CoherenceScore   int    `json:"coherence_score"`
	SuggestedVersion string `json:"suggested_version"`
	OriginalVersion  string `json:"original_version"`
}

// LifestyleReview is the full coherence report. ReadyToGo is false while any
// entry scored a critical error.
type LifestyleReview struct {
	Allergies           []LifestyleEntryReview `json:"allergies"`
	SportiveDescription []LifestyleEntryReview `json:"sportive_description"`
	MedicalConditions   []LifestyleEntryReview `json:"medical_conditions"`
	ReadyToGo           bool                   `json:"ready_to_go"`
}
