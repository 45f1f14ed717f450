package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Macro names used throughout budgeting and priority ordering.
const (
	MacroCalories = "calories"
	MacroProtein  = "protein"
	MacroFat      = "fat"
	MacroCarbs    = "carbs"
)

// DefaultMacroPriority is used when a caller sets targets without one.
var DefaultMacroPriority = []string{MacroCalories, MacroProtein, MacroFat, MacroCarbs}

// Goal represents a health/fitness goal set by a user. At most one active
// goal's macro targets are in effect for budgeting at a time.
type Goal struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// MacroTargets holds a goal's daily macro budget. One row per goal,
// replaced wholesale on re-save, never partially updated.
type MacroTargets struct {
	gorm.Model
	GoalID uint `gorm:"uniqueIndex;not null" json:"goal_id"`

	DailyCalorieTarget  float64 `json:"daily_calorie_target"`
	DailyProteinTargetG float64 `json:"daily_protein_target_g"`
	DailyFatTargetG     float64 `json:"daily_fat_target_g"`
	DailyCarbsTargetG   float64 `json:"daily_carbs_target_g"`

	// Calorie buffer below which the day is treated as critical.
	DamageControlFloorCalories float64 `json:"damage_control_floor_calories"`

	// JSON array of the four macro names, highest priority first.
	MacroPriority string `gorm:"type:text" json:"macro_priority"`
}

// PriorityOrder parses the stored macro priority. Malformed or missing
// values fall back to DefaultMacroPriority.
func (t *MacroTargets) PriorityOrder() []string {
	var order []string
	if err := json.Unmarshal([]byte(t.MacroPriority), &order); err != nil {
		return DefaultMacroPriority
	}
	if err := validatePriority(order); err != nil {
		return DefaultMacroPriority
	}
	return order
}

// SetPriorityOrder stores the given order as JSON after validating it.
func (t *MacroTargets) SetPriorityOrder(order []string) error {
	if len(order) == 0 {
		order = DefaultMacroPriority
	}
	if err := validatePriority(order); err != nil {
		return err
	}
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	t.MacroPriority = string(raw)
	return nil
}

// Validate enforces the target invariants: all four targets positive and the
// damage control floor non-negative and below the calorie target.
func (t *MacroTargets) Validate() error {
	if t.DailyCalorieTarget <= 0 || t.DailyProteinTargetG <= 0 ||
		t.DailyFatTargetG <= 0 || t.DailyCarbsTargetG <= 0 {
		return errors.New("all daily targets must be positive")
	}
	if t.DamageControlFloorCalories < 0 {
		return errors.New("damage control floor must be non-negative")
	}
	if t.DamageControlFloorCalories >= t.DailyCalorieTarget {
		return errors.New("damage control floor must be below the daily calorie target")
	}
	if t.MacroPriority != "" {
		var order []string
		if err := json.Unmarshal([]byte(t.MacroPriority), &order); err != nil {
			return fmt.Errorf("malformed macro priority: %w", err)
		}
		if err := validatePriority(order); err != nil {
			return err
		}
	}
	return nil
}

// TargetFor returns the daily target for the named macro.
func (t *MacroTargets) TargetFor(macro string) float64 {
	switch macro {
	case MacroCalories:
		return t.DailyCalorieTarget
	case MacroProtein:
		return t.DailyProteinTargetG
	case MacroFat:
		return t.DailyFatTargetG
	case MacroCarbs:
		return t.DailyCarbsTargetG
	}
	return 0
}

func validatePriority(order []string) error {
	if len(order) != 4 {
		return errors.New("macro priority must list exactly the four macros")
	}
	seen := map[string]bool{}
	for _, m := range order {
		switch m {
		case MacroCalories, MacroProtein, MacroFat, MacroCarbs:
		default:
			return fmt.Errorf("unknown macro %q in priority", m)
		}
		if seen[m] {
			return fmt.Errorf("duplicate macro %q in priority", m)
		}
		seen[m] = true
	}
	return nil
}
