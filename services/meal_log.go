package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"backend/logger"
	"backend/models"
)

// TargetStore is the goal/target collaborator. ActiveTargets returns
// ErrNoTargetsSet when the user has no active goal with targets.
type TargetStore interface {
	ActiveTargets(ctx context.Context, userID uint) (*models.MacroTargets, error)
}

// SnapshotStore persists the last control mode seen on the write path, for
// transition auditing. LastSnapshot returns nil when none exists yet.
type SnapshotStore interface {
	LastSnapshot(ctx context.Context, userID uint, day time.Time) (*models.DayStateSnapshot, error)
	SaveSnapshot(ctx context.Context, snap *models.DayStateSnapshot) error
	RecordTransition(ctx context.Context, tr *models.ControlModeTransition) error
	TransitionsForDay(ctx context.Context, userID uint, day time.Time) ([]models.ControlModeTransition, error)
}

// MealInput is a meal as submitted for logging.
type MealInput struct {
	Name        string     `json:"name"`
	Calories    float64    `json:"calories"`
	ProteinG    float64    `json:"protein_g"`
	FatG        float64    `json:"fat_g"`
	CarbsG      float64    `json:"carbs_g"`
	Ingredients []string   `json:"ingredients,omitempty"`
	LoggedAt    *time.Time `json:"logged_at,omitempty"`
}

// MealLogService owns the meal-log write path. Writes for a single user are
// serialized with a keyed mutex so two concurrent logs cannot both decide
// against the same stale totals; cross-user throughput is unaffected.
type MealLogService struct {
	store      MealLogStore
	targets    TargetStore
	snapshots  SnapshotStore
	aggregator *Aggregator
	classifier *Classifier
	engine     *PermissionEngine
	hub        *RealtimeHub
	alerts     *AlertBus

	locks sync.Map // userID -> *sync.Mutex
	now   func() time.Time
}

func NewMealLogService(store MealLogStore, targets TargetStore, snapshots SnapshotStore,
	agg *Aggregator, classifier *Classifier, engine *PermissionEngine,
	hub *RealtimeHub, alerts *AlertBus) *MealLogService {
	return &MealLogService{
		store:      store,
		targets:    targets,
		snapshots:  snapshots,
		aggregator: agg,
		classifier: classifier,
		engine:     engine,
		hub:        hub,
		alerts:     alerts,
		now:        time.Now,
	}
}

func (s *MealLogService) userLock(userID uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// CurrentState recomputes the user's RemainingDayState. Read-only.
func (s *MealLogService) CurrentState(ctx context.Context, userID uint) (models.RemainingDayState, error) {
	targets, err := s.targets.ActiveTargets(ctx, userID)
	if err != nil {
		return models.RemainingDayState{}, err
	}
	asOf := s.now()
	totals, err := s.aggregator.Aggregate(ctx, userID, asOf)
	if err != nil {
		return models.RemainingDayState{}, err
	}
	return s.classifier.Classify(targets, totals, asOf), nil
}

// CheckPermission evaluates a candidate food against the current state
// without writing anything.
func (s *MealLogService) CheckPermission(ctx context.Context, userID uint, food FoodEstimate) (PermissionResult, error) {
	if err := food.Validate(); err != nil {
		return PermissionResult{}, err
	}
	state, err := s.CurrentState(ctx, userID)
	if err != nil {
		return PermissionResult{}, err
	}
	return s.engine.Evaluate(state, food), nil
}

// LogMeal runs the serialized read-totals -> decide -> write transaction.
// A BLOCK verdict without override fails with *BlockedError; an override
// logs the entry with was_override=true for audit. On success the fresh
// RemainingDayState is returned.
func (s *MealLogService) LogMeal(ctx context.Context, userID uint, in MealInput, wasOverride bool) (models.RemainingDayState, error) {
	food := FoodEstimate{Name: in.Name, Calories: in.Calories, Protein: in.ProteinG, Fat: in.FatG, Carbs: in.CarbsG}
	if err := food.Validate(); err != nil {
		return models.RemainingDayState{}, err
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	targets, err := s.targets.ActiveTargets(ctx, userID)
	if err != nil {
		return models.RemainingDayState{}, err
	}

	asOf := s.now()
	totals, err := s.aggregator.Aggregate(ctx, userID, asOf)
	if err != nil {
		return models.RemainingDayState{}, err
	}
	state := s.classifier.Classify(targets, totals, asOf)

	if !wasOverride {
		if result := s.engine.Evaluate(state, food); result.Status == StatusBlock {
			return models.RemainingDayState{}, &BlockedError{Result: result}
		}
	}

	loggedAt := asOf
	if in.LoggedAt != nil {
		loggedAt = *in.LoggedAt
	}
	ingredients, _ := json.Marshal(in.Ingredients)

	entry := &models.MealLogEntry{
		UserID:      userID,
		Name:        in.Name,
		Calories:    in.Calories,
		ProteinG:    in.ProteinG,
		FatG:        in.FatG,
		CarbsG:      in.CarbsG,
		Ingredients: string(ingredients),
		WasOverride: wasOverride,
		LoggedAt:    loggedAt,
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		return models.RemainingDayState{}, err
	}
	logger.Info("Meal logged", "user_id", userID, "meal", in.Name,
		"calories", in.Calories, "override", wasOverride)

	totals, err = s.aggregator.Aggregate(ctx, userID, asOf)
	if err != nil {
		return models.RemainingDayState{}, err
	}
	fresh := s.classifier.Classify(targets, totals, asOf)

	s.recordTransition(ctx, userID, fresh, asOf)
	if s.hub != nil {
		s.hub.Broadcast(userID, map[string]any{"kind": "day_state.updated", "state": fresh})
	}
	return fresh, nil
}

// DeleteMealLog soft-deletes an entry. The caller re-fetches the day state
// afterwards; the next Aggregate reflects the deletion with no stale cache.
func (s *MealLogService) DeleteMealLog(ctx context.Context, userID, mealID uint) error {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()
	return s.store.Delete(ctx, userID, mealID)
}

// ListToday returns the entries counted toward the current local day.
func (s *MealLogService) ListToday(ctx context.Context, userID uint) ([]models.MealLogEntry, error) {
	start, end := s.aggregator.DayWindow(s.now())
	return s.store.ListForUser(ctx, userID, start, end)
}

// TransitionsToday returns today's control-mode audit rows.
func (s *MealLogService) TransitionsToday(ctx context.Context, userID uint) ([]models.ControlModeTransition, error) {
	day, _ := s.aggregator.DayWindow(s.now())
	return s.snapshots.TransitionsForDay(ctx, userID, day)
}

// recordTransition compares the freshly computed mode against the last
// write-path snapshot and records an audit row on change. Best effort: audit
// failures are logged, never surfaced to the logging caller.
func (s *MealLogService) recordTransition(ctx context.Context, userID uint, state models.RemainingDayState, asOf time.Time) {
	if s.snapshots == nil {
		return
	}
	day, _ := s.aggregator.DayWindow(asOf)

	prev, err := s.snapshots.LastSnapshot(ctx, userID, day)
	if err != nil {
		logger.Warn("Failed to load day-state snapshot", "user_id", userID, "error", err)
		return
	}
	if prev != nil && prev.ControlMode != string(state.ControlMode) {
		tr := &models.ControlModeTransition{
			UserID:                        userID,
			Date:                          day,
			FromMode:                      prev.ControlMode,
			ToMode:                        string(state.ControlMode),
			RemainingCaloriesAtTransition: state.RemainingCalories,
		}
		if err := s.snapshots.RecordTransition(ctx, tr); err != nil {
			logger.Warn("Failed to record mode transition", "user_id", userID, "error", err)
		}
		if s.alerts != nil && state.ControlMode.Severity() > models.ControlMode(prev.ControlMode).Severity() {
			s.alerts.Emit(userID, "warning", "Budget mode changed to "+string(state.ControlMode))
		}
	}

	snap := &models.DayStateSnapshot{
		UserID:            userID,
		Date:              day,
		ControlMode:       string(state.ControlMode),
		RemainingCalories: state.RemainingCalories,
	}
	if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
		logger.Warn("Failed to save day-state snapshot", "user_id", userID, "error", err)
	}
}
