package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fdg312/nafld-hub/internal/access"
	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

// MaxRangeDays bounds GET /v1/dashboard/history.
const MaxRangeDays = 366

// streakSpan is how much history is loaded to follow streaks.
const streakSpan = 366

var ErrProfileNotFound = access.ErrProfileNotFound

// ObjectiveSource resolves the saved objective and the computed defaults.
type ObjectiveSource interface {
	Active(ctx context.Context, profileID uuid.UUID) (*scoring.Objective, error)
	Suggest(ctx context.Context, profile *storage.Profile, date string) (scoring.Objective, error)
}

type WeightSource interface {
	ListWeights(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.WeightEntry, error)
	LatestWeight(ctx context.Context, profileID uuid.UUID, date string) (*storage.WeightEntry, error)
	FirstWeight(ctx context.Context, profileID uuid.UUID) (*storage.WeightEntry, error)
}

type Service struct {
	profiles   access.ProfileGetter
	objectives ObjectiveSource
	weights    WeightSource
	agg        *Aggregator
	windowDays int
	badges     []scoring.BadgeDef
	now        func() time.Time
}

func NewService(profiles access.ProfileGetter, objectives ObjectiveSource, weights WeightSource, agg *Aggregator, windowDays int) *Service {
	if windowDays <= 0 {
		windowDays = 14
	}
	return &Service{
		profiles:   profiles,
		objectives: objectives,
		weights:    weights,
		agg:        agg,
		windowDays: windowDays,
		badges:     scoring.DefaultBadges(),
		now:        time.Now,
	}
}

// GetDashboard scores date and computes streaks, badges and the trailing
// window. An empty date means today.
func (s *Service) GetDashboard(ctx context.Context, profileID uuid.UUID, date string) (*DashboardResponse, error) {
	profile, err := access.Profile(ctx, s.profiles, profileID)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = s.now().UTC().Format(daterange.Layout)
	}
	if err := daterange.ValidateDate(date); err != nil {
		return nil, err
	}

	objective, err := s.objectives.Active(ctx, profileID)
	if err != nil {
		return nil, err
	}
	view := ObjectiveView{}
	if objective != nil {
		view.Objective = *objective
	} else {
		suggested, err := s.objectives.Suggest(ctx, profile, date)
		if err != nil {
			return nil, err
		}
		view = ObjectiveView{IsDefault: true, Objective: suggested}
	}

	history, err := s.agg.Records(ctx, profileID, daterange.AddDays(date, -(streakSpan-1)), date)
	if err != nil {
		return nil, err
	}
	window := history[max(0, len(history)-s.windowDays):]

	timeline, err := s.loadTimeline(ctx, profile, window[0].Date, date)
	if err != nil {
		return nil, err
	}
	scored := scoreDays(objective, window, timeline)
	today := scored[len(scored)-1]

	streaks := scoring.ComputeStreaks(history, date, scoring.DefaultPredicates(view.Objective))

	lifetime, err := s.agg.Lifetime(ctx, profileID, date)
	if err != nil {
		return nil, err
	}
	lost, err := s.weightLost(ctx, profileID, date)
	if err != nil {
		return nil, err
	}
	stats := buildStats(lifetime, streaks, lost, scored)

	return &DashboardResponse{
		ProfileID: profileID,
		Date:      date,
		Score:     today.Score,
		Day:       today.Record,
		Body:      timeline.dto(date),
		Objective: view,
		Streaks:   streaks,
		Badges:    scoring.ComputeBadges(stats, s.badges),
		Stats:     stats,
		Window:    scored,
	}, nil
}

// GetHistory returns records from..to with a score per day.
func (s *Service) GetHistory(ctx context.Context, profileID uuid.UUID, from, to string) (*HistoryResponse, error) {
	profile, err := access.Profile(ctx, s.profiles, profileID)
	if err != nil {
		return nil, err
	}
	if err := daterange.Validate(from, to, MaxRangeDays); err != nil {
		return nil, err
	}

	days, err := s.Scores(ctx, profile, from, to)
	if err != nil {
		return nil, err
	}
	return &HistoryResponse{ProfileID: profileID, From: from, To: to, Days: days}, nil
}

// Scores builds scored records for an already authorized profile and a
// validated range. Days are scored against the current objective.
func (s *Service) Scores(ctx context.Context, profile *storage.Profile, from, to string) ([]DayScore, error) {
	objective, err := s.objectives.Active(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	records, err := s.agg.Records(ctx, profile.ID, from, to)
	if err != nil {
		return nil, err
	}
	timeline, err := s.loadTimeline(ctx, profile, from, to)
	if err != nil {
		return nil, err
	}
	return scoreDays(objective, records, timeline), nil
}

func scoreDays(objective *scoring.Objective, records []scoring.DailyRecord, tl *timeline) []DayScore {
	out := make([]DayScore, len(records))
	for i, rec := range records {
		out[i] = DayScore{
			Record: rec,
			Score:  scoring.ComputeHealthScore(objective, tl.snapshot(rec)),
		}
	}
	return out
}

func (s *Service) weightLost(ctx context.Context, profileID uuid.UUID, date string) (float64, error) {
	first, err := s.weights.FirstWeight(ctx, profileID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("first weight: %w", err)
	}
	latest, err := s.weights.LatestWeight(ctx, profileID, date)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("latest weight: %w", err)
	}
	if first == nil || latest == nil {
		return 0, nil
	}
	return math.Max(0, math.Round((first.WeightKg-latest.WeightKg)*10)/10), nil
}

func buildStats(lt Lifetime, streaks []scoring.StreakState, weightLost float64, window []DayScore) scoring.Stats {
	stats := scoring.Stats{
		TotalMeals:           lt.Meals,
		TotalWalks:           lt.Walks,
		TotalWalkKm:          lt.WalkKm,
		TotalActivities:      lt.Activities,
		TotalActivityMinutes: lt.ActivityMinutes,
		DaysLogged:           lt.DaysLogged,
		WeightLostKg:         weightLost,
	}
	for _, st := range streaks {
		switch st.Predicate {
		case "meals":
			stats.MealStreak = st.Days
		case "activity":
			stats.ActivityStreak = st.Days
		case "medications":
			stats.MedicationStreak = st.Days
		}
	}
	for _, d := range window {
		if d.Score.Total > stats.BestScore {
			stats.BestScore = d.Score.Total
		}
	}
	return stats
}
