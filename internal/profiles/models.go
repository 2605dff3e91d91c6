package profiles

import (
	"time"

	"github.com/google/uuid"
)

type ProfileDTO struct {
	ID            uuid.UUID `json:"id"`
	OwnerUserID   string    `json:"owner_user_id"`
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	HeightCm      *float64  `json:"height_cm,omitempty"`
	BirthDate     *string   `json:"birth_date,omitempty"`
	Age           *int      `json:"age,omitempty"`
	Sex           string    `json:"sex,omitempty"`
	ActivityLevel string    `json:"activity_level,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProfilesResponse is returned by GET /v1/profiles.
type ProfilesResponse struct {
	Profiles []ProfileDTO `json:"profiles"`
}

// CreateProfileRequest is the body of POST /v1/profiles. Only guest profiles
// can be created; the owner profile exists implicitly.
type CreateProfileRequest struct {
	Type          string   `json:"type" validate:"required"`
	Name          string   `json:"name" validate:"max=100"`
	HeightCm      *float64 `json:"height_cm,omitempty" validate:"omitempty,gte=50,lte=250"`
	BirthDate     *string  `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Sex           string   `json:"sex,omitempty" validate:"omitempty,oneof=male female"`
	ActivityLevel string   `json:"activity_level,omitempty" validate:"omitempty,activity_level"`
}

// UpdateProfileRequest is the body of PATCH /v1/profiles/{id}. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	HeightCm      *float64 `json:"height_cm,omitempty" validate:"omitempty,gte=50,lte=250"`
	BirthDate     *string  `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Sex           *string  `json:"sex,omitempty" validate:"omitempty,oneof=male female"`
	ActivityLevel *string  `json:"activity_level,omitempty" validate:"omitempty,activity_level"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
