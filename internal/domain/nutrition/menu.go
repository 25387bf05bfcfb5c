package nutrition

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MealType classifies a meal entry. Values are always lowercase on the wire.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// DaysPerWeek is the fixed length of a weekly menu
const DaysPerWeek = 7

// Meal is a single entry of a day's menu. Ingredient quantities are embedded
// in the ingredient text ("200g chicken breast").
type Meal struct {
	Type          MealType `json:"type"`
	Hour          string   `json:"hour"`
	Ingredients   []string `json:"ingredients"`
	Instructions  []string `json:"instructions"`
	Calories      int      `json:"calories"`
	Protein       int      `json:"protein"`
	Fats          int      `json:"fats"`
	Carbohydrates int      `json:"carbohydrates"`
}

// DayMenu is the ordered sequence of meals for one day
type DayMenu []Meal

// WeeklyMenu is the seven day-slots of a user's plan. Days are mutated
// individually by revisions; the whole entity is deleted with its user.
type WeeklyMenu struct {
	UserID    uuid.UUID
	Days      [DaysPerWeek]DayMenu
	CreatedAt time.Time
}

// DayKey renders the storage/wire key for a 1-based day index ("day1".."day7")
func DayKey(day int) string {
	return fmt.Sprintf("day%d", day)
}

// ValidDay reports whether day is a valid 1-based day index
func ValidDay(day int) bool {
	return day >= 1 && day <= DaysPerWeek
}

// Tolerance holds the per-macro fraction (epsilon) a day's totals may deviate
// from the daily targets. Calories and protein are typically tighter than
// fats and carbohydrates.
type Tolerance struct {
	Calories      float64
	Protein       float64
	Fats          float64
	Carbohydrates float64
}

// Bounds computes the inclusive acceptance band target*(1-eps)..target*(1+eps)
func Bounds(target, eps float64) (lo, hi float64) {
	return target * (1 - eps), target * (1 + eps)
}

// Totals sums the four macro fields over a day
func (d DayMenu) Totals() (calories, protein, fats, carbs int) {
	for _, m := range d {
		calories += m.Calories
		protein += m.Protein
		fats += m.Fats
		carbs += m.Carbohydrates
	}
	return
}

// countTypes counts the meals of each type in a day
func (d DayMenu) countTypes() map[MealType]int {
	counts := make(map[MealType]int, 4)
	for _, m := range d {
		counts[m.Type]++
	}
	return counts
}

// ValidateDay checks the structural rules for a single day: at least one
// breakfast, lunch and dinner, and macro totals within the tolerance band of
// the targets. Snacks are optional.
func ValidateDay(d DayMenu, t *Targets, tol Tolerance) error {
	counts := d.countTypes()
	for _, required := range []MealType{MealBreakfast, MealLunch, MealDinner} {
		if counts[required] == 0 {
			return fmt.Errorf("day is missing a %s", required)
		}
	}

	calories, protein, fats, carbs := d.Totals()
	checks := []struct {
		name   string
		total  float64
		target float64
		eps    float64
	}{
		{"calories", float64(calories), t.DailyCalories, tol.Calories},
		{"protein", float64(protein), t.ProteinIntake, tol.Protein},
		{"fats", float64(fats), t.FatsIntake, tol.Fats},
		{"carbohydrates", float64(carbs), t.CarbohydrateIntake, tol.Carbohydrates},
	}
	for _, c := range checks {
		lo, hi := Bounds(c.target, c.eps)
		if c.total < lo || c.total > hi {
			return fmt.Errorf("%s total %.0f outside band %.0f-%.0f", c.name, c.total, lo, hi)
		}
	}
	return nil
}

// ValidateWeek checks every day of a weekly menu plus the cross-week variety
// rule: an identical meal may appear at most twice over the seven days.
func ValidateWeek(w *WeeklyMenu, t *Targets, tol Tolerance) error {
	repetitions := make(map[string]int)
	for i, day := range w.Days {
		if err := ValidateDay(day, t, tol); err != nil {
			return fmt.Errorf("%s: %w", DayKey(i+1), err)
		}
		for _, m := range day {
			repetitions[mealFingerprint(m)]++
		}
	}
	for key, n := range repetitions {
		if n > 2 {
			return fmt.Errorf("meal %q repeated %d times across the week", key, n)
		}
	}
	return nil
}

// mealFingerprint identifies a meal for the repetition rule. Two meals of the
// same type with identical macros count as the same dish.
func mealFingerprint(m Meal) string {
	return fmt.Sprintf("%s/%d/%d/%d/%d", m.Type, m.Calories, m.Protein, m.Fats, m.Carbohydrates)
}
