package domain

import "time"

// MealType names one of the four daily diary slots.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnacks    MealType = "snacks"
)

// MealTypes lists every valid meal slot.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnacks}

// ParseMealType validates a meal slot name.
func ParseMealType(s string) (MealType, bool) {
	for _, m := range MealTypes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// FoodItem is one eaten food in the diary. Macros are nil for recipe entries,
// which only carry a name and calories.
type FoodItem struct {
	Name     string   `json:"name" bson:"name"`
	Calories float64  `json:"calories" bson:"calories"`
	Protein  *float64 `json:"protein,omitempty" bson:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty" bson:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty" bson:"fat,omitempty"`
}

// DayOf truncates t to local midnight, the key of a diary record.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Food is one normalized food search result. Nutrients are nil when the
// provider's description did not mention them.
type Food struct {
	ID      string   `json:"food_id"`
	Name    string   `json:"food_name"`
	Brand   string   `json:"brand_name,omitempty"`
	Kcal    *int     `json:"food_kcal"`
	Fat     *float64 `json:"food_fat"`
	Carbs   *float64 `json:"food_carbs"`
	Protein *float64 `json:"food_protein"`
}
