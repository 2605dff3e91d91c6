package weights

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
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrWeightNotFound  = errors.New("weight entry not found")
	ErrProfileNotFound = access.ErrProfileNotFound
)

const MaxRangeDays = 366

var validate = validator.New()

type Service struct {
	store    storage.WeightsStorage
	profiles access.ProfileGetter
	now      func() time.Time
}

func NewService(store storage.WeightsStorage, profiles access.ProfileGetter) *Service {
	return &Service{store: store, profiles: profiles, now: time.Now}
}

func (s *Service) List(ctx context.Context, profileID uuid.UUID, from, to string) ([]WeightDTO, error) {
	if _, err := access.Profile(ctx, s.profiles, profileID); err != nil {
		return nil, err
	}
	if err := daterange.Validate(from, to, MaxRangeDays); err != nil {
		return nil, err
	}

	list, err := s.store.ListWeights(ctx, profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}

	dtos := make([]WeightDTO, len(list))
	for i, w := range list {
		dtos[i] = toDTO(w)
	}
	return dtos, nil
}

func (s *Service) Create(ctx context.Context, req CreateWeightRequest) (*WeightDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := access.Profile(ctx, s.profiles, req.ProfileID); err != nil {
		return nil, err
	}

	entry := &storage.WeightEntry{
		ProfileID: req.ProfileID,
		Date:      req.Date,
		WeightKg:  req.WeightKg,
		Notes:     req.Notes,
	}
	if err := s.store.CreateWeight(ctx, entry); err != nil {
		return nil, fmt.Errorf("create weight: %w", err)
	}

	dto := toDTO(*entry)
	return &dto, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := s.store.GetWeight(ctx, id)
	if err != nil {
		return ErrWeightNotFound
	}
	if _, err := access.Profile(ctx, s.profiles, entry.ProfileID); err != nil {
		return ErrWeightNotFound
	}
	return s.store.DeleteWeight(ctx, id)
}

// BMI reports the latest BMI on date (today when empty).
func (s *Service) BMI(ctx context.Context, profileID uuid.UUID, date string) (*BMIResponse, error) {
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

	resp := &BMIResponse{Date: date, HeightCm: profile.HeightCm, Category: scoring.BMICategory(0)}

	latest, err := s.store.LatestWeight(ctx, profileID, date)
	if err != nil {
		return nil, fmt.Errorf("latest weight: %w", err)
	}
	if latest == nil {
		return resp, nil
	}
	resp.WeightKg = &latest.WeightKg

	first, err := s.store.FirstWeight(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("first weight: %w", err)
	}
	if first != nil {
		resp.WeightLostKg = round1(first.WeightKg - latest.WeightKg)
	}

	if profile.HeightCm != nil {
		if bmi, err := scoring.BMI(latest.WeightKg, *profile.HeightCm); err == nil {
			bmi = round1(bmi)
			resp.BMI = &bmi
			resp.Category = scoring.BMICategory(bmi)
		}
	}
	return resp, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
