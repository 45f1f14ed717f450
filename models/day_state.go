package models

import "time"

// ControlMode classifies how constrained the remaining daily budget is.
type ControlMode string

const (
	ModeNormal        ControlMode = "NORMAL"
	ModeTight         ControlMode = "TIGHT"
	ModeDamageControl ControlMode = "DAMAGE_CONTROL"
)

// Severity orders modes for comparisons (NORMAL < TIGHT < DAMAGE_CONTROL).
func (m ControlMode) Severity() int {
	switch m {
	case ModeTight:
		return 1
	case ModeDamageControl:
		return 2
	}
	return 0
}

// RemainingDayState is the derived per-request budget snapshot returned to
// clients. Remaining values are unclamped and may be negative.
type RemainingDayState struct {
	RemainingCalories float64 `json:"remaining_calories"`
	RemainingProtein  float64 `json:"remaining_protein"`
	RemainingFat      float64 `json:"remaining_fat"`
	RemainingCarbs    float64 `json:"remaining_carbs"`

	TargetCalories float64 `json:"target_calories"`
	TargetProtein  float64 `json:"target_protein"`
	TargetFat      float64 `json:"target_fat"`
	TargetCarbs    float64 `json:"target_carbs"`

	DamageControlFloor float64 `json:"damage_control_floor"`

	ControlMode    ControlMode `json:"control_mode"`
	MealsRemaining int         `json:"meals_remaining"`

	// Tie-break order for the permission engine, highest priority first.
	MacroPriority []string `json:"macro_priority,omitempty"`

	ComputedAt time.Time `json:"computed_at"`
}

// RemainingFor returns the remaining budget for the named macro.
func (s *RemainingDayState) RemainingFor(macro string) float64 {
	switch macro {
	case MacroCalories:
		return s.RemainingCalories
	case MacroProtein:
		return s.RemainingProtein
	case MacroFat:
		return s.RemainingFat
	case MacroCarbs:
		return s.RemainingCarbs
	}
	return 0
}

// TargetFor returns the echoed daily target for the named macro.
func (s *RemainingDayState) TargetFor(macro string) float64 {
	switch macro {
	case MacroCalories:
		return s.TargetCalories
	case MacroProtein:
		return s.TargetProtein
	case MacroFat:
		return s.TargetFat
	case MacroCarbs:
		return s.TargetCarbs
	}
	return 0
}

// DayStateSnapshot records the last control mode computed on the write path
// for one user+day. Used to detect mode transitions; reads never touch it.
type DayStateSnapshot struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	Date              time.Time `gorm:"index;not null" json:"date"`
	ControlMode       string    `gorm:"size:20" json:"control_mode"`
	RemainingCalories float64   `json:"remaining_calories"`
	UpdatedAt         time.Time `json:"updated_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// ControlModeTransition is an audit row written when a logged or deleted
// meal moves the user's day between control modes.
type ControlModeTransition struct {
	ID                            uint      `gorm:"primaryKey" json:"id"`
	UserID                        uint      `gorm:"index;not null" json:"user_id"`
	Date                          time.Time `gorm:"index;not null" json:"date"`
	FromMode                      string    `gorm:"size:20" json:"from_mode"`
	ToMode                        string    `gorm:"size:20" json:"to_mode"`
	RemainingCaloriesAtTransition float64   `json:"remaining_calories_at_transition"`
	CreatedAt                     time.Time `json:"created_at"`
}
