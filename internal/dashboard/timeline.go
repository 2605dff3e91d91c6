package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/fdg312/nafld-hub/internal/storage"
)

// timeline answers "what did the body look like on day X" for a date range
// with two weight queries instead of one per day.
type timeline struct {
	heightCm  float64
	birthDate string
	base      *storage.WeightEntry
	entries   []storage.WeightEntry // ascending by date
}

func (s *Service) loadTimeline(ctx context.Context, profile *storage.Profile, from, to string) (*timeline, error) {
	tl := &timeline{}
	if profile.HeightCm != nil {
		tl.heightCm = *profile.HeightCm
	}
	if profile.BirthDate != nil {
		tl.birthDate = *profile.BirthDate
	}

	base, err := s.weights.LatestWeight(ctx, profile.ID, from)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("latest weight: %w", err)
	}
	tl.base = base

	entries, err := s.weights.ListWeights(ctx, profile.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	tl.entries = entries
	return tl, nil
}

// weightOn returns the latest weigh-in dated on or before day.
func (t *timeline) weightOn(day string) *storage.WeightEntry {
	w := t.base
	for i := range t.entries {
		if t.entries[i].Date > day {
			break
		}
		w = &t.entries[i]
	}
	return w
}

func (t *timeline) bmiOn(day string) float64 {
	w := t.weightOn(day)
	if w == nil {
		return 0
	}
	bmi, err := scoring.BMI(w.WeightKg, t.heightCm)
	if err != nil {
		return 0
	}
	return bmi
}

func (t *timeline) snapshot(rec scoring.DailyRecord) scoring.Snapshot {
	return scoring.Snapshot{
		Day: rec,
		BMI: t.bmiOn(rec.Date),
		Age: scoring.AgeOn(t.birthDate, rec.Date),
	}
}

func (t *timeline) dto(day string) BodyDTO {
	var out BodyDTO
	if w := t.weightOn(day); w != nil {
		kg := w.WeightKg
		out.WeightKg = &kg
	}
	if t.heightCm > 0 {
		h := t.heightCm
		out.HeightCm = &h
	}
	bmi := t.bmiOn(day)
	if bmi > 0 {
		rounded := math.Round(bmi*10) / 10
		out.BMI = &rounded
	}
	out.BMICategory = scoring.BMICategory(bmi)
	if age := scoring.AgeOn(t.birthDate, day); age > 0 {
		out.Age = &age
	}
	return out
}
