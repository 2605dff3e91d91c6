package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/fdg312/nafld-hub/internal/userctx"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrInvalidType       = errors.New("invalid profile type")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrCannotDeleteOwner = errors.New("cannot delete owner profile")
	ErrNotFound          = errors.New("profile not found")
	ErrBirthDateFuture   = errors.New("birth date is in the future")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("activity_level", func(fl validator.FieldLevel) bool {
		return scoring.ValidActivityLevel(fl.Field().String())
	})
	return v
}

type Service struct {
	storage storage.Storage
	now     func() time.Time
}

func NewService(st storage.Storage) *Service {
	return &Service{storage: st, now: time.Now}
}

// ListProfiles returns the caller's profiles, creating the owner profile on
// first use.
func (s *Service) ListProfiles(ctx context.Context) ([]ProfileDTO, error) {
	userID := userctx.UserIDOrDefault(ctx)

	if err := s.ensureOwnerProfile(ctx, userID); err != nil {
		return nil, err
	}

	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		if p.OwnerUserID != userID {
			continue
		}
		dtos = append(dtos, s.toDTO(p))
	}

	return dtos, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := s.toDTO(*profile)
	return &dto, nil
}

func (s *Service) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Type != "guest" {
		return nil, ErrInvalidType
	}
	if err := s.checkBirthDate(req.BirthDate); err != nil {
		return nil, err
	}

	profile := &storage.Profile{
		OwnerUserID:   userctx.UserIDOrDefault(ctx),
		Type:          req.Type,
		Name:          strings.TrimSpace(req.Name),
		HeightCm:      req.HeightCm,
		BirthDate:     req.BirthDate,
		Sex:           req.Sex,
		ActivityLevel: req.ActivityLevel,
	}

	if err := s.storage.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	dto := s.toDTO(*profile)
	return &dto, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrEmptyName
	}
	if err := s.checkBirthDate(req.BirthDate); err != nil {
		return nil, err
	}

	profile, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.HeightCm != nil {
		profile.HeightCm = req.HeightCm
	}
	if req.BirthDate != nil {
		profile.BirthDate = req.BirthDate
	}
	if req.Sex != nil {
		profile.Sex = *req.Sex
	}
	if req.ActivityLevel != nil {
		profile.ActivityLevel = *req.ActivityLevel
	}

	if err := s.storage.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	dto := s.toDTO(*profile)
	return &dto, nil
}

// DeleteProfile removes a guest profile. The owner profile cannot be deleted.
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	profile, err := s.owned(ctx, id)
	if err != nil {
		return err
	}

	if profile.Type == "owner" {
		return ErrCannotDeleteOwner
	}

	return s.storage.DeleteProfile(ctx, id)
}

func (s *Service) owned(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if profile.OwnerUserID != userctx.UserIDOrDefault(ctx) {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (s *Service) checkBirthDate(birth *string) error {
	if birth == nil || *birth == "" {
		return nil
	}
	if *birth > s.now().UTC().Format("2006-01-02") {
		return ErrBirthDateFuture
	}
	return nil
}

func (s *Service) toDTO(p storage.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:            p.ID,
		OwnerUserID:   p.OwnerUserID,
		Type:          p.Type,
		Name:          p.Name,
		HeightCm:      p.HeightCm,
		BirthDate:     p.BirthDate,
		Sex:           p.Sex,
		ActivityLevel: p.ActivityLevel,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.BirthDate != nil && *p.BirthDate != "" {
		if age := scoring.AgeOn(*p.BirthDate, s.now().UTC().Format("2006-01-02")); age > 0 {
			dto.Age = &age
		}
	}
	return dto
}

func (s *Service) ensureOwnerProfile(ctx context.Context, userID string) error {
	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if p.OwnerUserID == userID && p.Type == "owner" {
			return nil
		}
	}
	profile := &storage.Profile{
		OwnerUserID: userID,
		Type:        "owner",
		Name:        "Me",
	}
	return s.storage.CreateProfile(ctx, profile)
}
