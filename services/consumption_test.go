package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"backend/models"
	"gorm.io/gorm"
)

// fakeMealStore is an in-memory MealLogStore for tests.
type fakeMealStore struct {
	mu      sync.Mutex
	nextID  uint
	entries []models.MealLogEntry
}

func newFakeMealStore() *fakeMealStore {
	return &fakeMealStore{nextID: 1}
}

func (f *fakeMealStore) Insert(_ context.Context, entry *models.MealLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = f.nextID
	f.nextID++
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeMealStore) ListForUser(_ context.Context, userID uint, from, to time.Time) ([]models.MealLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MealLogEntry
	for _, e := range f.entries {
		if e.UserID == userID && !e.LoggedAt.Before(from) && e.LoggedAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeMealStore) Delete(_ context.Context, userID, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == id && e.UserID == userID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func seedEntry(store *fakeMealStore, userID uint, loggedAt time.Time, cal, prot, fat, carbs float64) uint {
	entry := &models.MealLogEntry{
		UserID: userID, Calories: cal, ProteinG: prot, FatG: fat, CarbsG: carbs,
		LoggedAt: loggedAt,
	}
	_ = store.Insert(context.Background(), entry)
	return entry.ID
}

func TestAggregateSumsOnlyTheLocalDay(t *testing.T) {
	store := newFakeMealStore()
	asOf := time.Date(2025, 6, 12, 15, 0, 0, 0, time.UTC)

	seedEntry(store, 1, asOf.Add(-2*time.Hour), 500, 30, 10, 60)      // today
	seedEntry(store, 1, asOf.Add(-5*time.Hour), 300, 20, 5, 40)       // today
	seedEntry(store, 1, asOf.Add(-24*time.Hour), 999, 99, 99, 99)     // yesterday
	seedEntry(store, 1, asOf.Add(10*time.Hour), 999, 99, 99, 99)      // tomorrow
	seedEntry(store, 2, asOf.Add(-time.Hour), 1000, 100, 100, 100)    // other user

	agg := NewAggregator(store, time.UTC)
	totals, err := agg.Aggregate(context.Background(), 1, asOf)
	if err != nil {
		t.Fatal(err)
	}

	if totals.Calories != 800 || totals.Protein != 50 || totals.Fat != 15 || totals.Carbs != 100 {
		t.Errorf("totals = %+v, want 800/50/15/100", totals)
	}
	if len(totals.MealTimes) != 2 {
		t.Errorf("meal times = %d, want 2", len(totals.MealTimes))
	}
}

func TestAggregateReflectsDeletions(t *testing.T) {
	store := newFakeMealStore()
	asOf := time.Date(2025, 6, 12, 20, 0, 0, 0, time.UTC)

	keep := seedEntry(store, 1, asOf.Add(-6*time.Hour), 400, 25, 12, 50)
	remove := seedEntry(store, 1, asOf.Add(-3*time.Hour), 600, 40, 20, 70)
	_ = keep

	agg := NewAggregator(store, time.UTC)
	ctx := context.Background()

	before, err := agg.Aggregate(ctx, 1, asOf)
	if err != nil {
		t.Fatal(err)
	}
	if before.Calories != 1000 {
		t.Fatalf("before deletion calories = %v, want 1000", before.Calories)
	}

	if err := store.Delete(ctx, 1, remove); err != nil {
		t.Fatal(err)
	}

	after, err := agg.Aggregate(ctx, 1, asOf)
	if err != nil {
		t.Fatal(err)
	}
	if after.Calories != 400 || after.Protein != 25 {
		t.Errorf("after deletion totals = %+v, want 400/25/12/50", after)
	}
}

func TestAggregateEmptyDay(t *testing.T) {
	agg := NewAggregator(newFakeMealStore(), time.UTC)
	totals, err := agg.Aggregate(context.Background(), 1, time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if totals.Calories != 0 || len(totals.MealTimes) != 0 {
		t.Errorf("empty day totals = %+v, want zeros", totals)
	}
}

func TestDayWindowBounds(t *testing.T) {
	agg := NewAggregator(newFakeMealStore(), time.UTC)
	start, end := agg.DayWindow(time.Date(2025, 6, 12, 23, 59, 0, 0, time.UTC))

	if !start.Equal(time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}
