package symptoms

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/nafld-hub/internal/access"
	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const MaxRangeDays = 366

var (
	ErrSymptomNotFound = errors.New("symptom not found")
	ErrProfileNotFound = access.ErrProfileNotFound
)

var validate = validator.New()

type Service struct {
	store    storage.SymptomsStorage
	profiles access.ProfileGetter
}

func NewService(store storage.SymptomsStorage, profiles access.ProfileGetter) *Service {
	return &Service{store: store, profiles: profiles}
}

func (s *Service) List(ctx context.Context, profileID uuid.UUID, from, to string) ([]SymptomDTO, error) {
	if _, err := access.Profile(ctx, s.profiles, profileID); err != nil {
		return nil, err
	}
	if err := daterange.Validate(from, to, MaxRangeDays); err != nil {
		return nil, err
	}

	list, err := s.store.ListSymptoms(ctx, profileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list symptoms: %w", err)
	}

	dtos := make([]SymptomDTO, len(list))
	for i, sym := range list {
		dtos[i] = toDTO(sym)
	}
	return dtos, nil
}

// Upsert stores the report for (profile, date, kind), replacing any earlier
// one for the same day.
func (s *Service) Upsert(ctx context.Context, req UpsertSymptomRequest) (*SymptomDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := access.Profile(ctx, s.profiles, req.ProfileID); err != nil {
		return nil, err
	}

	sym := &storage.Symptom{
		ProfileID: req.ProfileID,
		Date:      req.Date,
		Kind:      req.Kind,
		Severity:  req.Severity,
		Notes:     req.Notes,
	}
	if err := s.store.UpsertSymptom(ctx, sym); err != nil {
		return nil, fmt.Errorf("upsert symptom: %w", err)
	}

	dto := toDTO(*sym)
	return &dto, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	sym, err := s.store.GetSymptom(ctx, id)
	if err != nil {
		return ErrSymptomNotFound
	}
	if _, err := access.Profile(ctx, s.profiles, sym.ProfileID); err != nil {
		return ErrSymptomNotFound
	}
	return s.store.DeleteSymptom(ctx, id)
}

func toDTO(s storage.Symptom) SymptomDTO {
	return SymptomDTO{
		ID:        s.ID,
		ProfileID: s.ProfileID,
		Date:      s.Date,
		Kind:      s.Kind,
		Severity:  s.Severity,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
