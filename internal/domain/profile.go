// Package domain defines the core types and interfaces for the FatFit backend.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"math"
	"strings"
)

// Sex selects the BMR constant. Anything that is not "male" counts as Other.
type Sex int

const (
	SexOther Sex = iota
	SexMale
)

// ParseSex maps a quiz answer to a Sex, case-insensitively.
func ParseSex(v any) Sex {
	s, ok := v.(string)
	if ok && strings.EqualFold(strings.TrimSpace(s), "male") {
		return SexMale
	}
	return SexOther
}

// String returns the lowercase wire form.
func (s Sex) String() string {
	if s == SexMale {
		return "male"
	}
	return "other"
}

// Profile is the biometric input of a calorie calculation. It is derived
// fresh from stored quiz answers on every request and never persisted.
// A NaN field means the stored answer was not numeric.
type Profile struct {
	Age      float64
	HeightCm float64
	WeightKg float64
	Sex      Sex
}

// Numeric reports whether age, height and weight all parsed as numbers.
func (p Profile) Numeric() bool {
	return !math.IsNaN(p.Age) && !math.IsNaN(p.HeightCm) && !math.IsNaN(p.WeightKg)
}
