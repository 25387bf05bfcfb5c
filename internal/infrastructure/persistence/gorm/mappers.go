package gorm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
)

// ProfileToModel converts a domain profile to the GORM model. The password
// hash travels separately; the domain type never carries credentials.
func ProfileToModel(p *nutrition.Profile, passwordHash string) *UserModel {
	model := &UserModel{
		ID:                  p.ID,
		Email:               strings.ToLower(p.Email),
		Name:                p.Name,
		PasswordHash:        passwordHash,
		Sex:                 string(p.Sex),
		Age:                 p.Age,
		Weight:              p.Weight,
		Height:              p.Height,
		Country:             p.Country,
		Objective:           string(p.Objective),
		Allergies:           StringSlice(p.Allergies),
		SportiveDescription: StringSlice(p.SportiveDescription),
		MedicalConditions:   StringSlice(p.MedicalConditions),
		FoodPreferences:     StringSlice(p.FoodPreferences),
	}

	if p.Targets != nil {
		model.RecommendedDailyCalories = &p.Targets.DailyCalories
		model.RecommendedWaterIntake = &p.Targets.WaterIntake
		model.RecommendedProteinIntake = &p.Targets.ProteinIntake
		model.RecommendedFatsIntake = &p.Targets.FatsIntake
		model.RecommendedCarbohydratesIntake = &p.Targets.CarbohydrateIntake
		model.NutritionalDeficiencyRisks = StringSlice(p.Targets.DeficiencyRisks)
		model.GeneralRecommendations = StringSlice(p.Targets.Recommendations)
	}

	return model
}

// ModelToProfile converts a GORM model to the domain profile. Targets stay
// nil until at least one recommendation column is populated.
func ModelToProfile(m *UserModel) *nutrition.Profile {
	p := &nutrition.Profile{
		ID:                  m.ID,
		Name:                m.Name,
		Email:               m.Email,
		Sex:                 nutrition.Sex(m.Sex),
		Age:                 m.Age,
		Weight:              m.Weight,
		Height:              m.Height,
		Country:             m.Country,
		Objective:           nutrition.Objective(m.Objective),
		Allergies:           m.Allergies,
		SportiveDescription: m.SportiveDescription,
		MedicalConditions:   m.MedicalConditions,
		FoodPreferences:     m.FoodPreferences,
	}

	if m.RecommendedDailyCalories != nil || m.RecommendedProteinIntake != nil ||
		m.RecommendedFatsIntake != nil || m.RecommendedCarbohydratesIntake != nil {
		targets := &nutrition.Targets{
			DeficiencyRisks: m.NutritionalDeficiencyRisks,
			Recommendations: m.GeneralRecommendations,
		}
		if m.RecommendedDailyCalories != nil {
			targets.DailyCalories = *m.RecommendedDailyCalories
		}
		if m.RecommendedWaterIntake != nil {
			targets.WaterIntake = *m.RecommendedWaterIntake
		}
		if m.RecommendedProteinIntake != nil {
			targets.ProteinIntake = *m.RecommendedProteinIntake
		}
		if m.RecommendedFatsIntake != nil {
			targets.FatsIntake = *m.RecommendedFatsIntake
		}
		if m.RecommendedCarbohydratesIntake != nil {
			targets.CarbohydrateIntake = *m.RecommendedCarbohydratesIntake
		}
		p.Targets = targets
	}

	return p
}

// MenuToModel converts a domain weekly menu to the GORM model, serializing
// each day column independently
func MenuToModel(menu *nutrition.WeeklyMenu) (*WeeklyMenuModel, error) {
	model := &WeeklyMenuModel{
		UserID:    menu.UserID,
		CreatedAt: menu.CreatedAt,
	}

	columns := []*string{&model.Day1, &model.Day2, &model.Day3, &model.Day4, &model.Day5, &model.Day6, &model.Day7}
	for i, col := range columns {
		serialized, err := MarshalDay(menu.Days[i])
		if err != nil {
			return nil, fmt.Errorf("failed to serialize day %d: %w", i+1, err)
		}
		*col = serialized
	}

	return model, nil
}

// ModelToMenu converts a GORM model to the domain weekly menu
func ModelToMenu(m *WeeklyMenuModel) (*nutrition.WeeklyMenu, error) {
	menu := &nutrition.WeeklyMenu{
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}

	columns := []string{m.Day1, m.Day2, m.Day3, m.Day4, m.Day5, m.Day6, m.Day7}
	for i, col := range columns {
		day, err := UnmarshalDay(col)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize day %d: %w", i+1, err)
		}
		menu.Days[i] = day
	}

	return menu, nil
}

// MarshalDay serializes one day's meal list
func MarshalDay(day nutrition.DayMenu) (string, error) {
	if len(day) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(day)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnmarshalDay deserializes one day's meal list. An empty column is an
// empty day, not an error.
func UnmarshalDay(raw string) (nutrition.DayMenu, error) {
	if raw == "" {
		return nutrition.DayMenu{}, nil
	}
	var day nutrition.DayMenu
	if err := json.Unmarshal([]byte(raw), &day); err != nil {
		return nil, err
	}
	return day, nil
}
