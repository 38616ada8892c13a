// Package calorie turns a biometric profile and a goal into a daily calorie
// target using the Mifflin-St Jeor equation.
package calorie

import (
	"errors"
	"math"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

// ErrNonNumeric is returned when age, height or weight did not parse.
var ErrNonNumeric = errors.New("calorie: non-numeric age, height, or weight")

// Quiz phrases recognized as goals. Matching is exact and case-sensitive.
const (
	PhraseLose     = "Lose weight"
	PhraseGain     = "Gain muscle"
	PhraseMaintain = "Maintain current weight"
)

// Goal multipliers applied to BMR.
const (
	loseFactor = 0.8
	gainFactor = 1.2
)

// ConvertGoal normalizes a quiz answer to a Goal. Unknown phrases and
// non-string values fall back to GoalKeep.
func ConvertGoal(raw any) domain.Goal {
	s, ok := raw.(string)
	if !ok {
		return domain.GoalKeep
	}
	switch s {
	case PhraseLose:
		return domain.GoalLose
	case PhraseGain:
		return domain.GoalGain
	default:
		return domain.GoalKeep
	}
}

// BMR returns the basal metabolic rate in kcal/day.
func BMR(p domain.Profile) float64 {
	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*p.Age
	if p.Sex == domain.SexMale {
		return base + 5
	}
	return base - 161
}

// Calories returns the daily target for the profile and goal. It is a pure
// function of its inputs.
func Calories(p domain.Profile, g domain.Goal) (int, error) {
	if !p.Numeric() {
		return 0, ErrNonNumeric
	}

	bmr := BMR(p)
	switch g {
	case domain.GoalLose:
		return roundHalfUp(bmr * loseFactor), nil
	case domain.GoalGain:
		return roundHalfUp(bmr * gainFactor), nil
	default:
		return roundHalfUp(bmr), nil
	}
}

// roundHalfUp rounds .5 towards +Inf, unlike math.Round.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Calculator wraps the pure functions with logging of the fallback paths.
type Calculator struct {
	log *logger.Logger
}

// NewCalculator creates a Calculator.
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{log: log}
}

// Goal converts a raw quiz answer, warning when it is not a string.
func (c *Calculator) Goal(raw any) domain.Goal {
	if _, ok := raw.(string); !ok {
		c.log.Warn("calorie: goal answer is not a string (%T), defaulting to keep", raw)
	}
	return ConvertGoal(raw)
}

// Calories returns the daily target, or 0 with a warning when the profile
// is not numeric.
func (c *Calculator) Calories(p domain.Profile, g domain.Goal) int {
	kcal, err := Calories(p, g)
	if err != nil {
		c.log.Warn("calorie: %v (age=%v height=%v weight=%v)", err, p.Age, p.HeightCm, p.WeightKg)
		return 0
	}
	return kcal
}
