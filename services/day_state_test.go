package services

import (
	"reflect"
	"testing"
	"time"

	"backend/models"
)

func testTargets() *models.MacroTargets {
	t := &models.MacroTargets{
		DailyCalorieTarget:         2000,
		DailyProteinTargetG:        150,
		DailyFatTargetG:            60,
		DailyCarbsTargetG:          200,
		DamageControlFloorCalories: 300,
	}
	_ = t.SetPriorityOrder([]string{
		models.MacroProtein, models.MacroCalories, models.MacroFat, models.MacroCarbs,
	})
	return t
}

func dayAt(hour, min int) time.Time {
	return time.Date(2025, 6, 12, hour, min, 0, 0, time.UTC)
}

func TestClassifyDamageControlNearFloor(t *testing.T) {
	// One meal slot left, 100 kcal remaining against a 300 kcal floor.
	totals := ConsumptionTotals{
		Calories: 1900, Protein: 140, Fat: 55, Carbs: 190,
		MealTimes: []time.Time{dayAt(8, 0), dayAt(12, 30), dayAt(3, 0)},
	}
	c := NewClassifier(DefaultThresholds())
	state := c.Classify(testTargets(), totals, dayAt(18, 0))

	if state.MealsRemaining != 1 {
		t.Fatalf("meals remaining = %d, want 1", state.MealsRemaining)
	}
	if state.RemainingCalories != 100 {
		t.Fatalf("remaining calories = %v, want 100", state.RemainingCalories)
	}
	if state.ControlMode != models.ModeDamageControl {
		t.Errorf("mode = %s, want DAMAGE_CONTROL", state.ControlMode)
	}
}

func TestClassifyNormalWithBudgetIntact(t *testing.T) {
	// 1200 kcal remaining, three slots left: above the 1.5 average-meal
	// threshold (1000), so NORMAL.
	totals := ConsumptionTotals{
		Calories: 800, Protein: 60, Fat: 20, Carbs: 80,
		MealTimes: []time.Time{dayAt(8, 0)},
	}
	c := NewClassifier(DefaultThresholds())
	state := c.Classify(testTargets(), totals, dayAt(10, 0))

	if state.MealsRemaining != 3 {
		t.Fatalf("meals remaining = %d, want 3", state.MealsRemaining)
	}
	if state.RemainingCalories != 1200 {
		t.Fatalf("remaining calories = %v, want 1200", state.RemainingCalories)
	}
	if state.ControlMode != models.ModeNormal {
		t.Errorf("mode = %s, want NORMAL", state.ControlMode)
	}
}

func TestClassifyTightWhenNoSlotsLeft(t *testing.T) {
	// Budget intact but every slot used or elapsed: caution on snacking.
	totals := ConsumptionTotals{
		Calories:  500,
		MealTimes: []time.Time{dayAt(3, 0)}, // snack slot used
	}
	c := NewClassifier(DefaultThresholds())
	state := c.Classify(testTargets(), totals, dayAt(22, 0))

	if state.MealsRemaining != 0 {
		t.Fatalf("meals remaining = %d, want 0", state.MealsRemaining)
	}
	if state.ControlMode != models.ModeTight {
		t.Errorf("mode = %s, want TIGHT", state.ControlMode)
	}
}

func TestClassifyIsPure(t *testing.T) {
	totals := ConsumptionTotals{
		Calories: 900, Protein: 70, Fat: 30, Carbs: 100,
		MealTimes: []time.Time{dayAt(8, 0), dayAt(13, 0)},
	}
	c := NewClassifier(DefaultThresholds())
	asOf := dayAt(14, 0)

	a := c.Classify(testTargets(), totals, asOf)
	b := c.Classify(testTargets(), totals, asOf)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different states:\n%+v\n%+v", a, b)
	}
}

func TestClassifyRemainingIsExact(t *testing.T) {
	targets := testTargets()
	totals := ConsumptionTotals{Calories: 123.45, Protein: 10.1, Fat: 2.2, Carbs: 33.3}
	c := NewClassifier(DefaultThresholds())
	state := c.Classify(targets, totals, dayAt(9, 0))

	if state.RemainingCalories != targets.DailyCalorieTarget-totals.Calories {
		t.Errorf("remaining calories = %v, want exact %v", state.RemainingCalories, targets.DailyCalorieTarget-totals.Calories)
	}
	if state.RemainingProtein != targets.DailyProteinTargetG-totals.Protein {
		t.Errorf("remaining protein = %v, want exact difference", state.RemainingProtein)
	}
}

func TestControlModeMonotonicInRemainingCalories(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	targets := testTargets()
	asOf := dayAt(10, 0) // fixed: no meals, four slots

	prev := -1
	for consumed := 0.0; consumed <= 2500; consumed += 50 {
		state := c.Classify(targets, ConsumptionTotals{Calories: consumed}, asOf)
		sev := state.ControlMode.Severity()
		if sev < prev {
			t.Fatalf("mode severity dropped from %d to %d at consumed=%v", prev, sev, consumed)
		}
		prev = sev
	}
}

func TestMealsRemainingSlots(t *testing.T) {
	cases := []struct {
		name  string
		times []time.Time
		asOf  time.Time
		want  int
	}{
		{"fresh morning", nil, dayAt(7, 0), 4},
		{"breakfast logged", []time.Time{dayAt(8, 0)}, dayAt(10, 0), 3},
		{"afternoon, nothing logged", nil, dayAt(15, 0), 3}, // breakfast window elapsed
		{"late evening, nothing logged", nil, dayAt(22, 0), 1},
		{"four meals logged", []time.Time{dayAt(8, 0), dayAt(9, 0), dayAt(13, 0), dayAt(18, 0)}, dayAt(19, 0), 0},
		{"early snack only", []time.Time{dayAt(3, 0)}, dayAt(22, 0), 0},
		{"dinner window open", []time.Time{dayAt(8, 0), dayAt(13, 0)}, dayAt(18, 30), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mealsRemaining(tc.times, tc.asOf); got != tc.want {
				t.Errorf("mealsRemaining = %d, want %d", got, tc.want)
			}
		})
	}
}
