// Package nutrition contains the core domain model for profiles, targets
// and menus
package nutrition

import (
	"strings"

	"github.com/google/uuid"
)

// Sex is the biological sex recorded on a profile
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// Objective is the dietary objective of a user
type Objective string

const (
	ObjectiveWeightLoss Objective = "Weight Loss"
	ObjectiveMuscleGain Objective = "Muscle Gain"
	ObjectiveMaintain   Objective = "Maintenance"
)

// Profile holds the demographic and health attributes of a user together
// with the computed nutrition targets. The core reads it immutably per
// request; persistence owns the record.
type Profile struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Sex     Sex
	Age     int
	Weight  float64 // kg
	Height  float64 // cm
	Country string

	Objective           Objective
	Allergies           []string
	SportiveDescription []string
	MedicalConditions   []string
	FoodPreferences     []string

	Targets *Targets
}

// Targets are the AI-computed daily nutrition targets. They are written in a
// single operation, so either the whole set is present or none of it is.
type Targets struct {
	DailyCalories      float64  `json:"recommended_daily_calories"`
	WaterIntake        float64  `json:"recommended_water_intake"` // liters
	ProteinIntake      float64  `json:"recommended_protein_intake"` // grams
	FatsIntake         float64  `json:"recommended_fats_intake"` // grams
	CarbohydrateIntake float64  `json:"recommended_carbohydrates_intake"` // grams
	DeficiencyRisks    []string `json:"nutritional_deficiency_risks"`
	Recommendations    []string `json:"general_recommendation"`
}

// Field names reported by MissingTargetFields, matching the stored columns
const (
	FieldDailyCalories      = "recommended_daily_calories"
	FieldProteinIntake      = "recommended_protein_intake"
	FieldFatsIntake         = "recommended_fats_intake"
	FieldCarbohydrateIntake = "recommended_carbohydrates_intake"
)

// MissingTargetFields returns the names of the macro target fields that are
// not yet set. Menu generation refuses to proceed while any are missing.
func (p *Profile) MissingTargetFields() []string {
	if p.Targets == nil {
		return []string{
			FieldDailyCalories,
			FieldProteinIntake,
			FieldFatsIntake,
			FieldCarbohydrateIntake,
		}
	}

	var missing []string
	if p.Targets.DailyCalories <= 0 {
		missing = append(missing, FieldDailyCalories)
	}
	if p.Targets.ProteinIntake <= 0 {
		missing = append(missing, FieldProteinIntake)
	}
	if p.Targets.FatsIntake <= 0 {
		missing = append(missing, FieldFatsIntake)
	}
	if p.Targets.CarbohydrateIntake <= 0 {
		missing = append(missing, FieldCarbohydrateIntake)
	}
	return missing
}

// AssessmentComplete reports whether all four macro targets are present
func (p *Profile) AssessmentComplete() bool {
	return len(p.MissingTargetFields()) == 0
}

// FirstName returns the leading word of the display name, used to address
// the user in revision notes
func (p *Profile) FirstName() string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return "there"
	}
	if idx := strings.IndexByte(name, ' '); idx > 0 {
		return name[:idx]
	}
	return name
}
