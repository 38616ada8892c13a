// Package quiz serves the onboarding questionnaire and extracts profile data
// from stored answers.
package quiz

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/hammamikhairi/fatfit/internal/calorie"
	"github.com/hammamikhairi/fatfit/internal/domain"
)

// Answer keys as submitted by the web client.
const (
	KeyAge             = "1.What is your age?"
	KeyGender          = "2.What is your gender?"
	KeyWeight          = "3.What is your current weight?"
	KeyHeight          = "4.What is your height?"
	KeyGoal            = "5.What is your primary goal?"
	KeyDiet            = "6.What are your dietary preferences?"
	KeyIntolerances    = "7.Do you have any food intolerances or allergies?"
	KeyWorkoutsPerWeek = "8.How many days per week do you plan to work out?"
)

const (
	noneOption             = "None"
	defaultWorkoutsPerWeek = 3
	minWorkoutsPerWeek     = 2
	maxWorkoutsPerWeek     = 7
)

//go:embed quiz.json
var defaultQuiz []byte

// Load returns the quiz definition from path, or the embedded default when
// path is empty. The content must be valid JSON.
func Load(path string) (json.RawMessage, error) {
	data := defaultQuiz
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading quiz %s: %w", path, err)
		}
		data = b
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("quiz %q is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

// Extracted is the profile view of a quiz submission.
type Extracted struct {
	Profile domain.Profile
	// RawGoal is the untouched goal answer, for calorie.ConvertGoal.
	RawGoal any
}

// Extract reads the biometric answers. Unparseable numbers become NaN.
func Extract(a domain.Answers) Extracted {
	return Extracted{
		Profile: domain.Profile{
			Age:      calorie.ParseInt(a[KeyAge]),
			HeightCm: calorie.ParseFloat(a[KeyHeight]),
			WeightKg: calorie.ParseFloat(a[KeyWeight]),
			Sex:      domain.ParseSex(a[KeyGender]),
		},
		RawGoal: a[KeyGoal],
	}
}

// Gender returns the lowercased gender answer, or "" if absent.
func Gender(a domain.Answers) string {
	s, _ := a[KeyGender].(string)
	return strings.ToLower(strings.TrimSpace(s))
}

// DietaryPreferences returns the chosen diets without the "None" option.
func DietaryPreferences(a domain.Answers) []string {
	return options(a[KeyDiet])
}

// FoodIntolerances returns the declared intolerances without "None".
func FoodIntolerances(a domain.Answers) []string {
	return options(a[KeyIntolerances])
}

func options(v any) []string {
	out := []string{}
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			if s, ok := item.(string); ok && s != noneOption {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range x {
			if s != noneOption {
				out = append(out, s)
			}
		}
	case string:
		if x != "" && x != noneOption {
			out = append(out, x)
		}
	}
	return out
}

// WorkoutsPerWeek reads the planned training days. Numbers must fall in
// 2..7; text answers like "4 days" are mapped; everything else yields 3.
func WorkoutsPerWeek(a domain.Answers) int {
	v, ok := a[KeyWorkoutsPerWeek]
	if !ok || v == nil {
		return defaultWorkoutsPerWeek
	}

	n := calorie.ParseInt(v)
	if !math.IsNaN(n) && n >= minWorkoutsPerWeek && n <= maxWorkoutsPerWeek {
		return int(n)
	}

	if s, ok := v.(string); ok {
		if days, found := strings.CutSuffix(strings.TrimSpace(s), " days"); found {
			if d, err := strconv.Atoi(days); err == nil && d >= minWorkoutsPerWeek && d <= maxWorkoutsPerWeek {
				return d
			}
		}
	}
	return defaultWorkoutsPerWeek
}
