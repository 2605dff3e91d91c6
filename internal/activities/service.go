package activities

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/fdg312/nafld-hub/internal/access"
	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrActivityNotFound   = errors.New("activity not found")
	ErrProfileNotFound    = access.ErrProfileNotFound
	ErrDistanceNotAllowed = errors.New("distance is not recorded for this kind of activity")
)

const MaxRangeDays = 366

var validate = validator.New()

// metPerKind holds rough MET values used when no calorie figure is given.
var metPerKind = map[string]float64{
	"walk":     3.5,
	"run":      9.8,
	"cycling":  7.5,
	"swimming": 8.0,
	"strength": 5.0,
	"other":    4.0,
}

// fallbackWeightKg is used for calorie estimates when the profile has no weigh-in.
const fallbackWeightKg = 75

// WeightSource provides the latest body weight for calorie estimates.
type WeightSource interface {
	LatestWeight(ctx context.Context, profileID uuid.UUID, date string) (*storage.WeightEntry, error)
}

type Service struct {
	store    storage.ActivitiesStorage
	weights  WeightSource
	profiles access.ProfileGetter
}

func NewService(store storage.ActivitiesStorage, weights WeightSource, profiles access.ProfileGetter) *Service {
	return &Service{store: store, weights: weights, profiles: profiles}
}

func (s *Service) List(ctx context.Context, profileID uuid.UUID, from, to string) ([]ActivityDTO, error) {
	if _, err := access.Profile(ctx, s.profiles, profileID); err != nil {
		return nil, err
	}
	if err := daterange.Validate(from, to, MaxRangeDays); err != nil {
		return nil, err
	}

	list, err := s.store.ListActivities(ctx, profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	dtos := make([]ActivityDTO, len(list))
	for i, a := range list {
		dtos[i] = toDTO(a)
	}
	return dtos, nil
}

// Create stores an activity. Missing calories are estimated from MET and the
// latest weight.
func (s *Service) Create(ctx context.Context, req CreateActivityRequest) (*ActivityDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.DistanceKm != nil && (req.Kind == "strength" || req.Kind == "other") {
		return nil, ErrDistanceNotAllowed
	}
	if _, err := access.Profile(ctx, s.profiles, req.ProfileID); err != nil {
		return nil, err
	}

	kcal := 0.0
	if req.CaloriesKcal != nil {
		kcal = *req.CaloriesKcal
	} else {
		weight := float64(fallbackWeightKg)
		if w, err := s.weights.LatestWeight(ctx, req.ProfileID, req.Date); err == nil && w != nil {
			weight = w.WeightKg
		}
		kcal = EstimateCalories(req.Kind, req.DurationMinutes, weight)
	}

	a := &storage.Activity{
		ProfileID:       req.ProfileID,
		Date:            req.Date,
		Kind:            req.Kind,
		DurationMinutes: req.DurationMinutes,
		DistanceKm:      req.DistanceKm,
		CaloriesKcal:    kcal,
		Notes:           req.Notes,
	}
	if err := s.store.CreateActivity(ctx, a); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}

	dto := toDTO(*a)
	return &dto, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.store.GetActivity(ctx, id)
	if err != nil {
		return ErrActivityNotFound
	}
	if _, err := access.Profile(ctx, s.profiles, a.ProfileID); err != nil {
		return ErrActivityNotFound
	}
	return s.store.DeleteActivity(ctx, id)
}

// EstimateCalories returns MET * kg * hours, rounded to whole kcal.
func EstimateCalories(kind string, minutes, weightKg float64) float64 {
	met, ok := metPerKind[kind]
	if !ok {
		met = metPerKind["other"]
	}
	if minutes <= 0 || weightKg <= 0 {
		return 0
	}
	return math.Round(met * weightKg * minutes / 60)
}
