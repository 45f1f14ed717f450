package services

import (
	"context"
	"time"

	"backend/models"
)

// MealLogStore is the external meal-log collaborator. Implemented in
// repository against gorm; tests use an in-memory fake.
type MealLogStore interface {
	Insert(ctx context.Context, entry *models.MealLogEntry) error
	ListForUser(ctx context.Context, userID uint, from, to time.Time) ([]models.MealLogEntry, error)
	Delete(ctx context.Context, userID, id uint) error
}

// ConsumptionTotals sums one user's meal logs for a single local day.
// MealTimes carries the logged_at of every counted entry so the classifier
// can derive meal-slot usage without a second store read.
type ConsumptionTotals struct {
	Calories  float64     `json:"calories"`
	Protein   float64     `json:"protein"`
	Fat       float64     `json:"fat"`
	Carbs     float64     `json:"carbs"`
	MealTimes []time.Time `json:"-"`
}

// Aggregator recomputes consumption totals from the store on every call.
// Totals are never incrementally patched, so deletions are always reflected.
type Aggregator struct {
	store MealLogStore
	loc   *time.Location
}

func NewAggregator(store MealLogStore, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{store: store, loc: loc}
}

// DayWindow returns the [start, end) bounds of the local calendar day
// containing asOf.
func (a *Aggregator) DayWindow(asOf time.Time) (time.Time, time.Time) {
	local := asOf.In(a.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, a.loc)
	return start, start.Add(24 * time.Hour)
}

// Aggregate sums all non-deleted entries whose logged_at falls within the
// user's local day containing asOf. Read-only.
func (a *Aggregator) Aggregate(ctx context.Context, userID uint, asOf time.Time) (ConsumptionTotals, error) {
	start, end := a.DayWindow(asOf)

	entries, err := a.store.ListForUser(ctx, userID, start, end)
	if err != nil {
		return ConsumptionTotals{}, err
	}

	var totals ConsumptionTotals
	for _, e := range entries {
		totals.Calories += e.Calories
		totals.Protein += e.ProteinG
		totals.Fat += e.FatG
		totals.Carbs += e.CarbsG
		totals.MealTimes = append(totals.MealTimes, e.LoggedAt.In(a.loc))
	}
	return totals, nil
}
