package models

import (
	"time"

	"gorm.io/gorm"
)

// MealLogEntry is one logged meal. Immutable once created except for
// deletion; deleting retroactively changes same-day consumption totals.
type MealLogEntry struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Name   string `gorm:"size:255" json:"name"`

	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`

	// Opaque JSON list; not interpreted by the budgeting engine.
	Ingredients string `gorm:"type:text" json:"ingredients"`

	// True when the meal was logged despite a BLOCK verdict.
	WasOverride bool `json:"was_override"`

	LoggedAt  time.Time      `gorm:"index;not null" json:"logged_at"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
