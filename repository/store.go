package repository

import (
	"context"
	"errors"
	"time"

	"backend/models"
	"backend/services"

	"gorm.io/gorm"
)

// Store is the gorm-backed implementation of the service collaborators:
// meal-log store, target store and snapshot store.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- MealLogStore ---

func (s *Store) Insert(ctx context.Context, entry *models.MealLogEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *Store) ListForUser(ctx context.Context, userID uint, from, to time.Time) ([]models.MealLogEntry, error) {
	var entries []models.MealLogEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, from, to).
		Order("logged_at ASC").
		Find(&entries).Error
	return entries, err
}

func (s *Store) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.MealLogEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- TargetStore ---

// ActiveTargets returns the macro targets of the user's most recently
// updated active goal, or ErrNoTargetsSet.
func (s *Store) ActiveTargets(ctx context.Context, userID uint) (*models.MacroTargets, error) {
	var goal models.Goal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at desc").
		First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNoTargetsSet
		}
		return nil, err
	}

	var targets models.MacroTargets
	err = s.db.WithContext(ctx).Where("goal_id = ?", goal.ID).First(&targets).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNoTargetsSet
		}
		return nil, err
	}
	return &targets, nil
}

// GoalForUser verifies ownership before targets are written.
func (s *Store) GoalForUser(ctx context.Context, goalID, userID uint) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// SaveTargets replaces a goal's targets wholesale and marks the goal as the
// active one.
func (s *Store) SaveTargets(ctx context.Context, goalID uint, targets *models.MacroTargets) error {
	targets.GoalID = goalID
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.MacroTargets
		err := tx.Where("goal_id = ?", goalID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(targets).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			targets.ID = existing.ID
			targets.CreatedAt = existing.CreatedAt
			if err := tx.Save(targets).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Goal{}).Where("id = ?", goalID).
			Updates(map[string]any{"is_active": true, "updated_at": time.Now()}).Error
	})
}

func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) error {
	return s.db.WithContext(ctx).Create(goal).Error
}

func (s *Store) ListGoals(ctx context.Context, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&goals).Error
	return goals, err
}

func (s *Store) DeleteGoal(ctx context.Context, goalID, userID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		Delete(&models.Goal{})
	return res.RowsAffected > 0, res.Error
}

// --- SnapshotStore ---

func (s *Store) LastSnapshot(ctx context.Context, userID uint, day time.Time) (*models.DayStateSnapshot, error) {
	var snap models.DayStateSnapshot
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snap *models.DayStateSnapshot) error {
	var existing models.DayStateSnapshot
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", snap.UserID, snap.Date).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(snap).Error
	}
	if err != nil {
		return err
	}
	snap.ID = existing.ID
	snap.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(snap).Error
}

func (s *Store) RecordTransition(ctx context.Context, tr *models.ControlModeTransition) error {
	return s.db.WithContext(ctx).Create(tr).Error
}

func (s *Store) TransitionsForDay(ctx context.Context, userID uint, day time.Time) ([]models.ControlModeTransition, error) {
	var out []models.ControlModeTransition
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
