package fatsecret

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

// Nutrient patterns for descriptions like
// "Per 100g - Calories: 120kcal | Fat: 3.00g | Carbs: 20.00g | Protein: 5.00g".
var (
	caloriesPattern = regexp.MustCompile(`(?i)Calories:\s*(\d+)\s*kcal`)
	fatPattern      = regexp.MustCompile(`(?i)Fat:\s*([\d.]+)g`)
	carbsPattern    = regexp.MustCompile(`(?i)Carbs:\s*([\d.]+)g`)
	proteinPattern  = regexp.MustCompile(`(?i)Protein:\s*([\d.]+)g`)
)

// FilterFoods flattens a foods.search payload into normalized records.
// A missing or non-list foods.food yields an empty slice, never an error.
// Nutrients absent from a description are nil.
func FilterFoods(raw []byte, log *logger.Logger) []domain.Food {
	var env struct {
		Foods struct {
			Food json.RawMessage `json:"food"`
		} `json:"foods"`
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		log.Warn("fatsecret: food payload is not an object: %v", err)
		return []domain.Food{}
	}

	var items []map[string]any
	dec = json.NewDecoder(bytes.NewReader(env.Foods.Food))
	dec.UseNumber()
	if len(env.Foods.Food) == 0 || dec.Decode(&items) != nil {
		log.Warn("fatsecret: no foods found or invalid structure")
		return []domain.Food{}
	}

	out := make([]domain.Food, 0, len(items))
	for _, item := range items {
		desc, _ := item["food_description"].(string)
		out = append(out, domain.Food{
			ID:      text(item["food_id"]),
			Name:    text(item["food_name"]),
			Brand:   text(item["brand_name"]),
			Kcal:    matchInt(caloriesPattern, desc),
			Fat:     matchFloat(fatPattern, desc),
			Carbs:   matchFloat(carbsPattern, desc),
			Protein: matchFloat(proteinPattern, desc),
		})
	}
	return out
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func matchInt(re *regexp.Regexp, s string) *int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func matchFloat(re *regexp.Regexp, s string) *float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &f
}
