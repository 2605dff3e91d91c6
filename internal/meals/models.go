package meals

import (
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

// Meal types.
const (
	TypeBreakfast = "breakfast"
	TypeLunch     = "lunch"
	TypeDinner    = "dinner"
	TypeSnack     = "snack"
)

type MealDTO struct {
	ID            uuid.UUID `json:"id"`
	ProfileID     uuid.UUID `json:"profile_id"`
	Date          string    `json:"date"`
	MealType      string    `json:"meal_type"`
	Title         string    `json:"title"`
	CaloriesKcal  float64   `json:"calories_kcal"`
	ProteinG      float64   `json:"protein_g"`
	CarbsG        float64   `json:"carbs_g"`
	FatG          float64   `json:"fat_g"`
	SugarG        float64   `json:"sugar_g"`
	FiberG        float64   `json:"fiber_g"`
	SaturatedFatG float64   `json:"saturated_fat_g"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DayTotalsDTO struct {
	Date          string  `json:"date"`
	Meals         int     `json:"meals"`
	CaloriesKcal  float64 `json:"calories_kcal"`
	ProteinG      float64 `json:"protein_g"`
	CarbsG        float64 `json:"carbs_g"`
	FatG          float64 `json:"fat_g"`
	SugarG        float64 `json:"sugar_g"`
	FiberG        float64 `json:"fiber_g"`
	SaturatedFatG float64 `json:"saturated_fat_g"`
}

type MealsResponse struct {
	Meals []MealDTO `json:"meals"`
}

type DailyResponse struct {
	Days []DayTotalsDTO `json:"days"`
}

type CreateMealRequest struct {
	ProfileID     uuid.UUID `json:"profile_id" validate:"required"`
	Date          string    `json:"date" validate:"required,datetime=2006-01-02"`
	MealType      string    `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	Title         string    `json:"title" validate:"required,max=200"`
	CaloriesKcal  float64   `json:"calories_kcal" validate:"gte=0,lte=10000"`
	ProteinG      float64   `json:"protein_g" validate:"gte=0,lte=1000"`
	CarbsG        float64   `json:"carbs_g" validate:"gte=0,lte=1000"`
	FatG          float64   `json:"fat_g" validate:"gte=0,lte=1000"`
	SugarG        float64   `json:"sugar_g" validate:"gte=0,lte=1000"`
	FiberG        float64   `json:"fiber_g" validate:"gte=0,lte=1000"`
	SaturatedFatG float64   `json:"saturated_fat_g" validate:"gte=0,lte=1000"`
	Notes         *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateMealRequest is a partial update; nil fields are kept.
type UpdateMealRequest struct {
	Date          *string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MealType      *string  `json:"meal_type,omitempty" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	Title         *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	CaloriesKcal  *float64 `json:"calories_kcal,omitempty" validate:"omitempty,gte=0,lte=10000"`
	ProteinG      *float64 `json:"protein_g,omitempty" validate:"omitempty,gte=0,lte=1000"`
	CarbsG        *float64 `json:"carbs_g,omitempty" validate:"omitempty,gte=0,lte=1000"`
	FatG          *float64 `json:"fat_g,omitempty" validate:"omitempty,gte=0,lte=1000"`
	SugarG        *float64 `json:"sugar_g,omitempty" validate:"omitempty,gte=0,lte=1000"`
	FiberG        *float64 `json:"fiber_g,omitempty" validate:"omitempty,gte=0,lte=1000"`
	SaturatedFatG *float64 `json:"saturated_fat_g,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Notes         *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toDTO(m storage.Meal) MealDTO {
	return MealDTO{
		ID:            m.ID,
		ProfileID:     m.ProfileID,
		Date:          m.Date,
		MealType:      m.MealType,
		Title:         m.Title,
		CaloriesKcal:  m.CaloriesKcal,
		ProteinG:      m.ProteinG,
		CarbsG:        m.CarbsG,
		FatG:          m.FatG,
		SugarG:        m.SugarG,
		FiberG:        m.FiberG,
		SaturatedFatG: m.SaturatedFatG,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func totalsToDTO(t storage.MealDayTotals) DayTotalsDTO {
	return DayTotalsDTO(t)
}
