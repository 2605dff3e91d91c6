package objectives

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/nafld-hub/internal/access"
	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var ErrProfileNotFound = access.ErrProfileNotFound

var validate = validator.New()

// WeightSource provides the weight used to derive body-based targets.
type WeightSource interface {
	LatestWeight(ctx context.Context, profileID uuid.UUID, date string) (*storage.WeightEntry, error)
}

type Service struct {
	store    storage.ObjectivesStorage
	weights  WeightSource
	profiles access.ProfileGetter
	params   scoring.ObjectiveParams
	now      func() time.Time
}

func NewService(store storage.ObjectivesStorage, weights WeightSource, profiles access.ProfileGetter, params scoring.ObjectiveParams) *Service {
	return &Service{
		store:    store,
		weights:  weights,
		profiles: profiles,
		params:   params,
		now:      time.Now,
	}
}

// GetActive returns the saved objective or, when there is none, targets
// derived from the profile flagged IsDefault.
func (s *Service) GetActive(ctx context.Context, profileID uuid.UUID) (*ObjectiveDTO, error) {
	profile, err := access.Profile(ctx, s.profiles, profileID)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.GetActive(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("get active objective: %w", err)
	}
	if stored != nil {
		dto := toDTO(*stored)
		return &dto, nil
	}

	suggested, err := s.Suggest(ctx, profile, s.today())
	if err != nil {
		return nil, err
	}
	return &ObjectiveDTO{ProfileID: profileID, IsDefault: true, Objective: suggested}, nil
}

func (s *Service) History(ctx context.Context, profileID uuid.UUID, limit int) ([]ObjectiveDTO, error) {
	if _, err := access.Profile(ctx, s.profiles, profileID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.store.ListObjectives(ctx, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}

	dtos := make([]ObjectiveDTO, 0, len(list))
	for _, o := range list {
		dtos = append(dtos, toDTO(o))
	}
	return dtos, nil
}

// Create stores a new active objective. The previous one is superseded.
func (s *Service) Create(ctx context.Context, req CreateObjectiveRequest) (*ObjectiveDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	profile, err := access.Profile(ctx, s.profiles, req.ProfileID)
	if err != nil {
		return nil, err
	}

	base, err := s.Suggest(ctx, profile, s.today())
	if err != nil {
		return nil, err
	}

	obj := &storage.Objective{
		ProfileID:       req.ProfileID,
		CaloriesKcal:    pick(req.CaloriesKcal, base.CaloriesKcal),
		ProteinMinG:     pick(req.ProteinMinG, base.ProteinMinG),
		FiberMinG:       pick(req.FiberMinG, base.FiberMinG),
		CarbsG:          pick(req.CarbsG, base.CarbsG),
		FatG:            pick(req.FatG, base.FatG),
		SugarMaxG:       pick(req.SugarMaxG, base.SugarMaxG),
		SatFatMaxG:      pick(req.SatFatMaxG, base.SatFatMaxG),
		CapMargin:       pick(req.CapMargin, base.CapMargin),
		ActivityMinutes: pick(req.ActivityMinutes, base.ActivityMinutes),
		ActivityKcal:    pick(req.ActivityKcal, base.ActivityKcal),
		TargetWeightKg:  req.TargetWeightKg,
	}
	if obj.TargetWeightKg == nil && base.TargetWeightKg > 0 {
		tw := base.TargetWeightKg
		obj.TargetWeightKg = &tw
	}

	if err := s.store.CreateObjective(ctx, obj); err != nil {
		return nil, fmt.Errorf("create objective: %w", err)
	}

	dto := toDTO(*obj)
	return &dto, nil
}

// Active returns the saved objective in scoring form, or nil when the
// profile never saved one.
func (s *Service) Active(ctx context.Context, profileID uuid.UUID) (*scoring.Objective, error) {
	stored, err := s.store.GetActive(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("get active objective: %w", err)
	}
	if stored == nil {
		return nil, nil
	}
	obj := ToScoring(*stored)
	return &obj, nil
}

// Suggest derives default targets from the profile's body on date.
func (s *Service) Suggest(ctx context.Context, profile *storage.Profile, date string) (scoring.Objective, error) {
	body, err := s.Body(ctx, profile, date)
	if err != nil {
		return scoring.Objective{}, err
	}
	return scoring.DefaultObjective(body, s.params), nil
}

// Body resolves height, age and latest weight on date. Missing data is left
// at zero.
func (s *Service) Body(ctx context.Context, profile *storage.Profile, date string) (scoring.Body, error) {
	body := scoring.Body{
		Sex:           profile.Sex,
		ActivityLevel: profile.ActivityLevel,
	}
	if profile.HeightCm != nil {
		body.HeightCm = *profile.HeightCm
	}
	if profile.BirthDate != nil {
		body.Age = scoring.AgeOn(*profile.BirthDate, date)
	}

	w, err := s.weights.LatestWeight(ctx, profile.ID, date)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return body, fmt.Errorf("latest weight: %w", err)
	}
	if w != nil {
		body.WeightKg = w.WeightKg
	}
	return body, nil
}

func (s *Service) today() string {
	return s.now().UTC().Format(scoring.DateLayout)
}

func pick(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
