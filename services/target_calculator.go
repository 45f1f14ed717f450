package services

import (
	"fmt"
	"strings"

	"backend/models"
)

// DefaultDamageControlFloor is the calorie buffer assigned to calculated
// targets unless the caller overrides it.
const DefaultDamageControlFloor = 300

var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
}

// BiometricInput is the form a client submits to derive daily targets.
type BiometricInput struct {
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	AgeYears      int     `json:"age_years"`
	Sex           string  `json:"sex"`            // "male" | "female"
	ActivityLevel string  `json:"activity_level"` // sedentary|light|moderate|active
	GoalType      string  `json:"goal_type"`      // lose|maintain|gain
}

// CalculateTargets derives daily macro targets from biometrics using the
// Mifflin-St Jeor equation. The result is advisory: callers may override any
// field before persisting.
func CalculateTargets(in BiometricInput) (*models.MacroTargets, error) {
	if in.WeightKg <= 0 || in.HeightCm <= 0 || in.AgeYears <= 0 {
		return nil, fmt.Errorf("%w: weight, height and age must be positive", ErrInvalidInput)
	}

	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.AgeYears)
	if strings.EqualFold(strings.TrimSpace(in.Sex), "male") {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(in.ActivityLevel))]
	if !ok {
		mult = activityMultipliers["sedentary"]
	}
	tdee := bmr * mult

	calories := tdee
	switch strings.ToLower(strings.TrimSpace(in.GoalType)) {
	case "lose":
		calories = tdee - 500
	case "gain":
		calories = tdee + 300
	}

	// Protein capped so it never exceeds 30% of calories.
	protein := in.WeightKg * 2.2
	if maxProtein := calories * 0.30 / 4; protein > maxProtein {
		protein = maxProtein
	}
	fat := calories * 0.30 / 9
	carbs := (calories - protein*4 - fat*9) / 4
	if carbs < 0 {
		carbs = 0
	}

	t := &models.MacroTargets{
		DailyCalorieTarget:         calories,
		DailyProteinTargetG:        protein,
		DailyFatTargetG:            fat,
		DailyCarbsTargetG:          carbs,
		DamageControlFloorCalories: DefaultDamageControlFloor,
	}
	if err := t.SetPriorityOrder(nil); err != nil {
		return nil, err
	}
	return t, nil
}
