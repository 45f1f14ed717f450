package services

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"backend/models"
)

func testEngine() *PermissionEngine {
	return NewPermissionEngine(NewClassifier(DefaultThresholds()))
}

func stateWith(remainingCal float64, priority []string) models.RemainingDayState {
	if priority == nil {
		priority = models.DefaultMacroPriority
	}
	return models.RemainingDayState{
		RemainingCalories:  remainingCal,
		RemainingProtein:   100,
		RemainingFat:       40,
		RemainingCarbs:     120,
		TargetCalories:     2000,
		TargetProtein:      150,
		TargetFat:          60,
		TargetCarbs:        200,
		DamageControlFloor: 300,
		ControlMode:        models.ModeNormal,
		MealsRemaining:     2,
		MacroPriority:      priority,
		ComputedAt:         time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC),
	}
}

func TestEvaluateAllowWithConstraintWithinFloorMargin(t *testing.T) {
	// 500 kcal left, 700 kcal food: simulated -200 is inside the 300 kcal
	// safety margin, so constrained rather than blocked.
	state := stateWith(500, nil)
	food := FoodEstimate{Calories: 700, Protein: 10, Fat: 5, Carbs: 90}

	result := testEngine().Evaluate(state, food)
	if result.Status != StatusAllowWithConstraint {
		t.Fatalf("status = %s, want ALLOW_WITH_CONSTRAINT (%s)", result.Status, result.Reason)
	}
	if result.SimulatedState.RemainingCalories != -200 {
		t.Errorf("simulated remaining calories = %v, want -200", result.SimulatedState.RemainingCalories)
	}
}

func TestEvaluateBlocksPastFloorMargin(t *testing.T) {
	state := stateWith(500, nil)
	food := FoodEstimate{Calories: 900}

	result := testEngine().Evaluate(state, food)
	if result.Status != StatusBlock {
		t.Fatalf("status = %s, want BLOCK", result.Status)
	}
	if !strings.Contains(result.Reason, "calories") || !strings.Contains(result.Reason, "400") {
		t.Errorf("reason %q should name calories and the 400 kcal margin", result.Reason)
	}
}

func TestEvaluateBlocksMacroBreachBeyondTolerance(t *testing.T) {
	// Protein target 150 -> tolerance -30g. Simulated -35 breaches it.
	state := stateWith(1500, []string{
		models.MacroProtein, models.MacroCalories, models.MacroFat, models.MacroCarbs,
	})
	state.RemainingProtein = 10
	food := FoodEstimate{Calories: 200, Protein: 45}

	result := testEngine().Evaluate(state, food)
	if result.Status != StatusBlock {
		t.Fatalf("status = %s, want BLOCK (%s)", result.Status, result.Reason)
	}
	if !strings.Contains(result.Reason, "protein") || !strings.Contains(result.Reason, "35g") {
		t.Errorf("reason %q should name protein and the 35g margin", result.Reason)
	}
}

func TestEvaluateConstraintWhenSimulationEntersDamageControl(t *testing.T) {
	state := stateWith(600, nil)
	food := FoodEstimate{Calories: 350}

	result := testEngine().Evaluate(state, food)
	if result.Status != StatusAllowWithConstraint {
		t.Fatalf("status = %s, want ALLOW_WITH_CONSTRAINT", result.Status)
	}
	if result.SimulatedState.ControlMode != models.ModeDamageControl {
		t.Errorf("simulated mode = %s, want DAMAGE_CONTROL", result.SimulatedState.ControlMode)
	}
	if !strings.Contains(result.Reason, "damage control") {
		t.Errorf("reason %q should mention damage control", result.Reason)
	}
}

func TestEvaluateAllow(t *testing.T) {
	state := stateWith(1500, nil)
	food := FoodEstimate{Calories: 400, Protein: 30, Fat: 10, Carbs: 40}

	result := testEngine().Evaluate(state, food)
	if result.Status != StatusAllow {
		t.Fatalf("status = %s, want ALLOW (%s)", result.Status, result.Reason)
	}
}

func TestEvaluatePriorityBreaksTies(t *testing.T) {
	// Both protein and fat breach their -20% tolerance; the reason follows
	// whichever comes first in the priority order.
	food := FoodEstimate{Calories: 100, Protein: 45, Fat: 60}

	proteinFirst := stateWith(1500, []string{
		models.MacroProtein, models.MacroFat, models.MacroCalories, models.MacroCarbs,
	})
	proteinFirst.RemainingProtein = 10
	proteinFirst.RemainingFat = 5

	fatFirst := proteinFirst
	fatFirst.MacroPriority = []string{
		models.MacroFat, models.MacroProtein, models.MacroCalories, models.MacroCarbs,
	}

	engine := testEngine()
	if r := engine.Evaluate(proteinFirst, food); !strings.Contains(r.Reason, "protein") {
		t.Errorf("protein-first reason = %q, want protein named", r.Reason)
	}
	if r := engine.Evaluate(fatFirst, food); !strings.Contains(r.Reason, "fat") {
		t.Errorf("fat-first reason = %q, want fat named", r.Reason)
	}
}

func TestEvaluateDoesNotMutateCurrentState(t *testing.T) {
	state := stateWith(500, nil)
	snapshot := state

	testEngine().Evaluate(state, FoodEstimate{Calories: 900, Protein: 50, Fat: 30, Carbs: 80})
	if !reflect.DeepEqual(state, snapshot) {
		t.Errorf("Evaluate mutated its input:\nbefore %+v\nafter  %+v", snapshot, state)
	}
}

func TestEvaluateSimulationIsExact(t *testing.T) {
	state := stateWith(800, nil)
	food := FoodEstimate{Calories: 123.5, Protein: 11.25, Fat: 3.75, Carbs: 20.5}

	result := testEngine().Evaluate(state, food)
	sim := result.SimulatedState
	if sim.RemainingCalories != state.RemainingCalories-food.Calories ||
		sim.RemainingProtein != state.RemainingProtein-food.Protein ||
		sim.RemainingFat != state.RemainingFat-food.Fat ||
		sim.RemainingCarbs != state.RemainingCarbs-food.Carbs {
		t.Errorf("simulated state is not current minus food: %+v", sim)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	state := stateWith(700, nil)
	food := FoodEstimate{Calories: 650, Protein: 20, Fat: 15, Carbs: 70}

	engine := testEngine()
	first := engine.Evaluate(state, food)
	second := engine.Evaluate(state, food)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same state and food produced different results:\n%+v\n%+v", first, second)
	}
}
