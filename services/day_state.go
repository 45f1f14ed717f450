package services

import (
	"time"

	"backend/models"
)

// Thresholds are the tunable control-mode policy constants. Deployments
// integrating against different coaching policies can inject their own.
type Thresholds struct {
	// TIGHT when remaining calories fall at or below this many
	// average-meal-sized budgets for the rest of the day.
	TightMealFactor float64

	// Fraction of a macro's daily target that a simulated overshoot may
	// reach before the permission engine blocks outright.
	MacroBreachTolerance float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TightMealFactor:      1.5,
		MacroBreachTolerance: 0.20,
	}
}

// Meal slot windows, local hours. Snack is unrestricted.
const (
	breakfastStartHour = 5
	breakfastEndHour   = 12
	lunchEndHour       = 17
	dinnerEndHour      = 21
)

// Classifier derives a RemainingDayState from targets, consumption and the
// time of day. Pure: identical inputs always produce identical output.
type Classifier struct {
	thresholds Thresholds
}

func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify computes remaining budgets (unclamped), meal slots left and the
// control mode as of asOf.
func (c *Classifier) Classify(targets *models.MacroTargets, totals ConsumptionTotals, asOf time.Time) models.RemainingDayState {
	state := models.RemainingDayState{
		RemainingCalories:  targets.DailyCalorieTarget - totals.Calories,
		RemainingProtein:   targets.DailyProteinTargetG - totals.Protein,
		RemainingFat:       targets.DailyFatTargetG - totals.Fat,
		RemainingCarbs:     targets.DailyCarbsTargetG - totals.Carbs,
		TargetCalories:     targets.DailyCalorieTarget,
		TargetProtein:      targets.DailyProteinTargetG,
		TargetFat:          targets.DailyFatTargetG,
		TargetCarbs:        targets.DailyCarbsTargetG,
		DamageControlFloor: targets.DamageControlFloorCalories,
		MealsRemaining:     mealsRemaining(totals.MealTimes, asOf),
		MacroPriority:      targets.PriorityOrder(),
		ComputedAt:         asOf,
	}
	state.ControlMode = c.modeFor(state.RemainingCalories, state.TargetCalories,
		state.DamageControlFloor, state.MealsRemaining)
	return state
}

// modeFor classifies remaining calories into a control mode. Only calories
// gate the mode; the other macros gate verdicts in the permission engine.
func (c *Classifier) modeFor(remaining, target, floor float64, mealsRemaining int) models.ControlMode {
	if remaining <= floor {
		return models.ModeDamageControl
	}
	if mealsRemaining == 0 {
		// Budget technically intact but no planned slots left: caution
		// on snacking.
		return models.ModeTight
	}
	if remaining <= c.thresholds.TightMealFactor*(target/float64(mealsRemaining)) {
		return models.ModeTight
	}
	return models.ModeNormal
}

type mealSlot int

const (
	slotBreakfast mealSlot = iota
	slotLunch
	slotDinner
	slotSnack
)

// timedSlotFor maps a meal time to its timed slot, or slotSnack when no
// timed window fits.
func timedSlotFor(t time.Time) mealSlot {
	switch h := t.Hour(); {
	case h >= breakfastStartHour && h < breakfastEndHour:
		return slotBreakfast
	case h >= breakfastEndHour && h < lunchEndHour:
		return slotLunch
	case h >= lunchEndHour && h < dinnerEndHour:
		return slotDinner
	}
	return slotSnack
}

// mealsRemaining counts the unused meal slots whose window has not yet
// fully elapsed as of asOf. A timed slot is used once any same-day log falls
// in its window; the snack slot is used once a log has no better-fitting
// window, or once a fourth meal of the day is logged.
func mealsRemaining(mealTimes []time.Time, asOf time.Time) int {
	used := map[mealSlot]bool{}
	for _, t := range mealTimes {
		used[timedSlotFor(t)] = true
	}
	if len(mealTimes) >= 4 {
		used[slotSnack] = true
	}

	hour := asOf.Hour()
	remaining := 0
	if hour < breakfastEndHour && !used[slotBreakfast] {
		remaining++
	}
	if hour < lunchEndHour && !used[slotLunch] {
		remaining++
	}
	if hour < dinnerEndHour && !used[slotDinner] {
		remaining++
	}
	if !used[slotSnack] {
		remaining++
	}
	return remaining
}
