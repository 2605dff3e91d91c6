package medications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/nafld-hub/internal/access"
	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrMedicationNotFound = errors.New("medication not found")
	ErrProfileNotFound    = access.ErrProfileNotFound
	ErrMaxMedications     = errors.New("maximum number of medications reached")
)

var validate = validator.New()

type Service struct {
	store    storage.MedicationsStorage
	profiles access.ProfileGetter
	maxPer   int
	now      func() time.Time
}

// NewService creates the medications service. maxPerProfile <= 0 disables the
// limit.
func NewService(store storage.MedicationsStorage, profiles access.ProfileGetter, maxPerProfile int) *Service {
	return &Service{store: store, profiles: profiles, maxPer: maxPerProfile, now: time.Now}
}

func (s *Service) List(ctx context.Context, profileID uuid.UUID) ([]MedicationDTO, error) {
	if _, err := access.Profile(ctx, s.profiles, profileID); err != nil {
		return nil, err
	}

	meds, err := s.store.ListMedications(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}

	dtos := make([]MedicationDTO, len(meds))
	for i, m := range meds {
		dtos[i] = toDTO(m)
	}
	return dtos, nil
}

func (s *Service) Create(ctx context.Context, req CreateMedicationRequest) (*MedicationDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := access.Profile(ctx, s.profiles, req.ProfileID); err != nil {
		return nil, err
	}
	if s.maxPer > 0 {
		existing, err := s.store.ListMedications(ctx, req.ProfileID)
		if err != nil {
			return nil, fmt.Errorf("list medications: %w", err)
		}
		if len(existing) >= s.maxPer {
			return nil, ErrMaxMedications
		}
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	med := &storage.Medication{
		ProfileID: req.ProfileID,
		Name:      strings.TrimSpace(req.Name),
		Dosage:    req.Dosage,
		Notes:     req.Notes,
	}
	setActive(med, active, s.now())
	if err := s.store.CreateMedication(ctx, med); err != nil {
		return nil, fmt.Errorf("create medication: %w", err)
	}

	dto := toDTO(*med)
	return &dto, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateMedicationRequest) (*MedicationDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	med, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		med.Name = strings.TrimSpace(*req.Name)
	}
	if req.Dosage != nil {
		med.Dosage = req.Dosage
	}
	if req.Active != nil {
		setActive(med, *req.Active, s.now())
	}
	if req.Notes != nil {
		med.Notes = req.Notes
	}

	if err := s.store.UpdateMedication(ctx, med); err != nil {
		return nil, fmt.Errorf("update medication: %w", err)
	}

	dto := toDTO(*med)
	return &dto, nil
}

// Delete removes the medication together with its intake history.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.owned(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteMedication(ctx, id)
}

// UpsertIntake records taken/skipped for a medication on a day.
func (s *Service) UpsertIntake(ctx context.Context, req UpsertIntakeRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if _, err := access.Profile(ctx, s.profiles, req.ProfileID); err != nil {
		return err
	}

	med, err := s.store.GetMedication(ctx, req.MedicationID)
	if err != nil || med.ProfileID != req.ProfileID {
		return ErrMedicationNotFound
	}

	return s.store.UpsertIntake(ctx, &storage.MedicationIntake{
		ProfileID:    req.ProfileID,
		MedicationID: req.MedicationID,
		Date:         req.Date,
		Status:       req.Status,
	})
}

// Daily lists every medication relevant to date with its status.
func (s *Service) Daily(ctx context.Context, profileID uuid.UUID, date string) (*DailyResponse, error) {
	if _, err := access.Profile(ctx, s.profiles, profileID); err != nil {
		return nil, err
	}
	if err := daterange.ValidateDate(date); err != nil {
		return nil, err
	}

	meds, err := s.store.ListMedications(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	intakes, err := s.store.ListIntakes(ctx, profileID, date, date)
	if err != nil {
		return nil, fmt.Errorf("list intakes: %w", err)
	}

	statuses := make(map[uuid.UUID]string, len(intakes))
	for _, in := range intakes {
		statuses[in.MedicationID] = in.Status
	}

	resp := &DailyResponse{Date: date, Items: []DailyStatus{}}
	for _, m := range meds {
		status, logged := statuses[m.ID]
		if !logged && !scheduledOn(m, date) {
			continue
		}
		if !logged {
			status = StatusNone
		}
		resp.Items = append(resp.Items, DailyStatus{
			MedicationID: m.ID,
			Name:         m.Name,
			Dosage:       m.Dosage,
			Status:       status,
		})
	}

	a := DailyAdherence(meds, intakes, []string{date})[date]
	resp.Scheduled, resp.Taken = a.Scheduled, a.Taken
	return resp, nil
}

func (s *Service) owned(ctx context.Context, id uuid.UUID) (*storage.Medication, error) {
	med, err := s.store.GetMedication(ctx, id)
	if err != nil {
		return nil, ErrMedicationNotFound
	}
	if _, err := access.Profile(ctx, s.profiles, med.ProfileID); err != nil {
		return nil, ErrMedicationNotFound
	}
	return med, nil
}
