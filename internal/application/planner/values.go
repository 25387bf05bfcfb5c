package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
)

// noDetails is substituted for empty lifestyle arrays so templates never
// render a blank constraint line
const noDetails = "no details found"

func joinOrDefault(items []string, fallback string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return fallback
	}
	return strings.Join(cleaned, ", ")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// targetValues fills the assessment template from the profile
func targetValues(p *nutrition.Profile) map[string]string {
	return map[string]string{
		"sex":                  string(p.Sex),
		"age":                  strconv.Itoa(p.Age),
		"objective":            string(p.Objective),
		"weight":               formatAmount(p.Weight),
		"height":               formatAmount(p.Height),
		"country":              p.Country,
		"allergies":            joinOrDefault(p.Allergies, "no allergies reported"),
		"sportive_description": joinOrDefault(p.SportiveDescription, noDetails),
		"medical_conditions":   joinOrDefault(p.MedicalConditions, noDetails),
		"food_preferences":     joinOrDefault(p.FoodPreferences, "no specific preferences"),
	}
}

// macroBandValues renders one macro target and its acceptance band. Bounds
// are truncated to whole units the way they are presented to the user.
func macroBandValues(values map[string]string, name string, target, eps float64) {
	lo, hi := nutrition.Bounds(target, eps)
	values[name+"_target"] = formatAmount(target)
	values[name+"_min"] = strconv.Itoa(int(lo))
	values[name+"_max"] = strconv.Itoa(int(hi))
}

// menuValues fills the weekly menu template from the profile and targets
func menuValues(p *nutrition.Profile, tol nutrition.Tolerance) map[string]string {
	values := map[string]string{
		"medical_conditions":   joinOrDefault(p.MedicalConditions, noDetails),
		"sportive_description": joinOrDefault(p.SportiveDescription, noDetails),
		"allergies":            joinOrDefault(p.Allergies, noDetails),
		"food_preferences":     joinOrDefault(p.FoodPreferences, "no specific preferences"),
		"country":              p.Country,
	}
	macroBandValues(values, "calories", p.Targets.DailyCalories, tol.Calories)
	macroBandValues(values, "protein", p.Targets.ProteinIntake, tol.Protein)
	macroBandValues(values, "fats", p.Targets.FatsIntake, tol.Fats)
	macroBandValues(values, "carbohydrates", p.Targets.CarbohydrateIntake, tol.Carbohydrates)
	return values
}

// revisionValues fills the daily revision template
func revisionValues(p *nutrition.Profile, tol nutrition.Tolerance, day int, currentMenu, userRequest, chatHistory string) map[string]string {
	values := map[string]string{
		"day_key":              nutrition.DayKey(day),
		"medical_conditions":   joinOrDefault(p.MedicalConditions, noDetails),
		"sportive_description": joinOrDefault(p.SportiveDescription, noDetails),
		"allergies":            joinOrDefault(p.Allergies, noDetails),
		"current_menu":         currentMenu,
		"user_request":         userRequest,
		"chat_history":         chatHistory,
		"first_name":           p.FirstName(),
	}
	macroBandValues(values, "calories", p.Targets.DailyCalories, tol.Calories)
	macroBandValues(values, "protein", p.Targets.ProteinIntake, tol.Protein)
	macroBandValues(values, "fats", p.Targets.FatsIntake, tol.Fats)
	macroBandValues(values, "carbohydrates", p.Targets.CarbohydrateIntake, tol.Carbohydrates)
	return values
}

// historyLine renders the prior-context line of the revision prompt
func historyLine(turns []string) string {
	if len(turns) == 0 {
		return "No previous chat history found, hence, no additional context to consider"
	}
	return fmt.Sprintf("In previous chats, the user asked to: %s", strings.Join(turns, "; "))
}
