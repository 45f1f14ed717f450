package services

import (
	"fmt"

	"backend/models"
)

// FoodEstimate carries the externally resolved macros of a candidate food.
type FoodEstimate struct {
	Name     string  `json:"name,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Validate rejects negative macros; the engine trusts the estimator for
// everything beyond non-negativity.
func (f FoodEstimate) Validate() error {
	if f.Calories < 0 || f.Protein < 0 || f.Fat < 0 || f.Carbs < 0 {
		return fmt.Errorf("%w: food macros must be non-negative", ErrInvalidInput)
	}
	return nil
}

// Permission verdicts.
const (
	StatusAllow               = "ALLOW"
	StatusAllowWithConstraint = "ALLOW_WITH_CONSTRAINT"
	StatusBlock               = "BLOCK"
)

// PermissionResult is the advisory verdict for a candidate food, with the
// state before and the simulated state after eating it.
type PermissionResult struct {
	Status         string                   `json:"status"`
	Reason         string                   `json:"reason"`
	CurrentState   models.RemainingDayState `json:"current_state"`
	SimulatedState models.RemainingDayState `json:"simulated_state"`
}

type severity int

const (
	sevNone severity = iota
	sevConstraint
	sevBlock
)

// PermissionEngine decides whether a candidate food fits the remaining
// budget. Pure: it never mutates the state it is given and never writes.
type PermissionEngine struct {
	classifier *Classifier
}

func NewPermissionEngine(c *Classifier) *PermissionEngine {
	return &PermissionEngine{classifier: c}
}

// Evaluate simulates eating the food and issues a verdict. Macros are
// checked in the state's priority order; the first macro to breach the
// deciding tier names the reason.
func (e *PermissionEngine) Evaluate(current models.RemainingDayState, food FoodEstimate) PermissionResult {
	simulated := current
	simulated.RemainingCalories -= food.Calories
	simulated.RemainingProtein -= food.Protein
	simulated.RemainingFat -= food.Fat
	simulated.RemainingCarbs -= food.Carbs
	// Only calories gate the mode; meal slots are unchanged by a
	// hypothetical meal.
	simulated.ControlMode = e.classifier.modeFor(simulated.RemainingCalories,
		current.TargetCalories, current.DamageControlFloor, current.MealsRemaining)

	priority := current.MacroPriority
	if len(priority) != 4 {
		priority = models.DefaultMacroPriority
	}

	worst := sevNone
	deciding := models.MacroCalories
	for _, macro := range priority {
		if s := e.severityFor(macro, current, simulated); s > worst {
			worst = s
			deciding = macro
		}
	}

	result := PermissionResult{
		CurrentState:   current,
		SimulatedState: simulated,
	}
	switch worst {
	case sevBlock:
		result.Status = StatusBlock
		result.Reason = overBudgetReason(deciding, simulated)
	case sevConstraint:
		result.Status = StatusAllowWithConstraint
		result.Reason = constraintReason(deciding, simulated)
	default:
		result.Status = StatusAllow
		result.Reason = fmt.Sprintf("fits today's budget with %.0f kcal to spare", simulated.RemainingCalories)
	}
	return result
}

// severityFor grades one macro's simulated overshoot. Calories additionally
// carry the damage-control floor rule and the simulated-mode constraint.
func (e *PermissionEngine) severityFor(macro string, current, simulated models.RemainingDayState) severity {
	remaining := simulated.RemainingFor(macro)
	target := current.TargetFor(macro)
	tolerance := e.classifier.Thresholds().MacroBreachTolerance

	if macro == models.MacroCalories && remaining <= -current.DamageControlFloor {
		return sevBlock
	}
	if remaining < -(tolerance * target) {
		return sevBlock
	}
	if remaining < 0 {
		return sevConstraint
	}
	if macro == models.MacroCalories && simulated.ControlMode == models.ModeDamageControl {
		return sevConstraint
	}
	return sevNone
}

func overBudgetReason(macro string, simulated models.RemainingDayState) string {
	over := -simulated.RemainingFor(macro)
	return fmt.Sprintf("would leave %s %.0f%s over budget", macro, over, macroUnit(macro))
}

func constraintReason(macro string, simulated models.RemainingDayState) string {
	remaining := simulated.RemainingFor(macro)
	if remaining >= 0 {
		// Calories still non-negative but at or below the floor.
		return fmt.Sprintf("would drop remaining calories to %.0f, entering damage control", simulated.RemainingCalories)
	}
	return fmt.Sprintf("would leave %s %.0f%s over budget", macro, -remaining, macroUnit(macro))
}

func macroUnit(macro string) string {
	if macro == models.MacroCalories {
		return " kcal"
	}
	return "g"
}
