package dashboard

import (
	"context"
	"fmt"

	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/fdg312/nafld-hub/internal/medications"
	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type MealTotalsSource interface {
	MealDailyTotals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealDayTotals, error)
}

type ActivityTotalsSource interface {
	ActivityDailyTotals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.ActivityDayTotals, error)
}

type MedicationSource interface {
	ListMedications(ctx context.Context, profileID uuid.UUID) ([]storage.Medication, error)
	ListIntakes(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MedicationIntake, error)
}

// Aggregator folds meals, activities and medication intakes into one
// scoring.DailyRecord per calendar day.
type Aggregator struct {
	meals       MealTotalsSource
	activities  ActivityTotalsSource
	medications MedicationSource
}

func NewAggregator(meals MealTotalsSource, activities ActivityTotalsSource, meds MedicationSource) *Aggregator {
	return &Aggregator{meals: meals, activities: activities, medications: meds}
}

// Lifetime holds all-time totals up to a date.
type Lifetime struct {
	Meals           int
	Walks           int
	WalkKm          float64
	Activities      int
	ActivityMinutes float64
	DaysLogged      int
}

// Records returns one record per day from..to inclusive, oldest first. Days
// without data are present with zero values.
func (a *Aggregator) Records(ctx context.Context, profileID uuid.UUID, from, to string) ([]scoring.DailyRecord, error) {
	days := daterange.Days(from, to)
	if days == nil {
		return nil, daterange.ErrInvalidDate
	}

	var (
		meals   []storage.MealDayTotals
		acts    []storage.ActivityDayTotals
		meds    []storage.Medication
		intakes []storage.MedicationIntake
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meals, err = a.meals.MealDailyTotals(gctx, profileID, from, to)
		if err != nil {
			return fmt.Errorf("meal totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		acts, err = a.activities.ActivityDailyTotals(gctx, profileID, from, to)
		if err != nil {
			return fmt.Errorf("activity totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		meds, err = a.medications.ListMedications(gctx, profileID)
		if err != nil {
			return fmt.Errorf("list medications: %w", err)
		}
		intakes, err = a.medications.ListIntakes(gctx, profileID, from, to)
		if err != nil {
			return fmt.Errorf("list intakes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]scoring.DailyRecord, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		records[i].Date = d
		index[d] = i
	}

	for _, m := range meals {
		i, ok := index[m.Date]
		if !ok {
			continue
		}
		r := &records[i]
		r.MealsLogged = m.Meals
		r.CaloriesKcal = m.CaloriesKcal
		r.ProteinG = m.ProteinG
		r.CarbsG = m.CarbsG
		r.FatG = m.FatG
		r.SugarG = m.SugarG
		r.FiberG = m.FiberG
		r.SaturatedFatG = m.SaturatedFatG
	}
	for _, t := range acts {
		i, ok := index[t.Date]
		if !ok {
			continue
		}
		r := &records[i]
		r.ActivityMinutes = t.Minutes
		r.ActivityKcal = t.CaloriesKcal
		r.ActivitySession = t.Sessions
		r.Walks = t.Walks
		r.WalkKm = t.WalkKm
	}
	for day, adh := range medications.DailyAdherence(meds, intakes, days) {
		r := &records[index[day]]
		r.MedicationsScheduled = adh.Scheduled
		r.MedicationsTaken = adh.Taken
	}

	return records, nil
}

// Lifetime sums every meal and activity logged on or before to.
func (a *Aggregator) Lifetime(ctx context.Context, profileID uuid.UUID, to string) (Lifetime, error) {
	var (
		meals []storage.MealDayTotals
		acts  []storage.ActivityDayTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meals, err = a.meals.MealDailyTotals(gctx, profileID, "", to)
		return err
	})
	g.Go(func() error {
		var err error
		acts, err = a.activities.ActivityDailyTotals(gctx, profileID, "", to)
		return err
	})
	if err := g.Wait(); err != nil {
		return Lifetime{}, fmt.Errorf("lifetime totals: %w", err)
	}

	var lt Lifetime
	logged := make(map[string]struct{}, len(meals)+len(acts))
	for _, m := range meals {
		lt.Meals += m.Meals
		logged[m.Date] = struct{}{}
	}
	for _, t := range acts {
		lt.Activities += t.Sessions
		lt.ActivityMinutes += t.Minutes
		lt.Walks += t.Walks
		lt.WalkKm += t.WalkKm
		logged[t.Date] = struct{}{}
	}
	lt.DaysLogged = len(logged)
	return lt, nil
}
