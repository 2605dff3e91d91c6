package meals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/nafld-hub/internal/access"
	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrMealNotFound    = errors.New("meal not found")
	ErrProfileNotFound = access.ErrProfileNotFound
)

// MaxRangeDays bounds list and daily queries.
const MaxRangeDays = 366

var validate = validator.New()

type Service struct {
	store    storage.MealsStorage
	profiles access.ProfileGetter
}

func NewService(store storage.MealsStorage, profiles access.ProfileGetter) *Service {
	return &Service{store: store, profiles: profiles}
}

func (s *Service) List(ctx context.Context, profileID uuid.UUID, from, to string) ([]MealDTO, error) {
	if _, err := access.Profile(ctx, s.profiles, profileID); err != nil {
		return nil, err
	}
	if err := daterange.Validate(from, to, MaxRangeDays); err != nil {
		return nil, err
	}

	list, err := s.store.ListMeals(ctx, profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	dtos := make([]MealDTO, len(list))
	for i, m := range list {
		dtos[i] = toDTO(m)
	}
	return dtos, nil
}

func (s *Service) Create(ctx context.Context, req CreateMealRequest) (*MealDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := access.Profile(ctx, s.profiles, req.ProfileID); err != nil {
		return nil, err
	}

	meal := &storage.Meal{
		ProfileID:     req.ProfileID,
		Date:          req.Date,
		MealType:      req.MealType,
		Title:         strings.TrimSpace(req.Title),
		CaloriesKcal:  req.CaloriesKcal,
		ProteinG:      req.ProteinG,
		CarbsG:        req.CarbsG,
		FatG:          req.FatG,
		SugarG:        req.SugarG,
		FiberG:        req.FiberG,
		SaturatedFatG: req.SaturatedFatG,
		Notes:         req.Notes,
	}
	if err := s.store.CreateMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}

	dto := toDTO(*meal)
	return &dto, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateMealRequest) (*MealDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	meal, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		meal.Date = *req.Date
	}
	if req.MealType != nil {
		meal.MealType = *req.MealType
	}
	if req.Title != nil {
		meal.Title = strings.TrimSpace(*req.Title)
	}
	setFloat(&meal.CaloriesKcal, req.CaloriesKcal)
	setFloat(&meal.ProteinG, req.ProteinG)
	setFloat(&meal.CarbsG, req.CarbsG)
	setFloat(&meal.FatG, req.FatG)
	setFloat(&meal.SugarG, req.SugarG)
	setFloat(&meal.FiberG, req.FiberG)
	setFloat(&meal.SaturatedFatG, req.SaturatedFatG)
	if req.Notes != nil {
		meal.Notes = req.Notes
	}

	if err := s.store.UpdateMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}

	dto := toDTO(*meal)
	return &dto, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.owned(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteMeal(ctx, id)
}

// Daily returns per-day nutrition totals for days that have meals.
func (s *Service) Daily(ctx context.Context, profileID uuid.UUID, from, to string) ([]DayTotalsDTO, error) {
	if _, err := access.Profile(ctx, s.profiles, profileID); err != nil {
		return nil, err
	}
	if err := daterange.Validate(from, to, MaxRangeDays); err != nil {
		return nil, err
	}

	totals, err := s.store.MealDailyTotals(ctx, profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("meal totals: %w", err)
	}

	dtos := make([]DayTotalsDTO, len(totals))
	for i, t := range totals {
		dtos[i] = totalsToDTO(t)
	}
	return dtos, nil
}

// owned loads a meal and hides it when the caller does not own its profile.
func (s *Service) owned(ctx context.Context, id uuid.UUID) (*storage.Meal, error) {
	meal, err := s.store.GetMeal(ctx, id)
	if err != nil {
		return nil, ErrMealNotFound
	}
	if _, err := access.Profile(ctx, s.profiles, meal.ProfileID); err != nil {
		return nil, ErrMealNotFound
	}
	return meal, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
