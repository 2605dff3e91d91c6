package dashboard

import (
	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/google/uuid"
)

// DayScore is one day of history with the score it earned.
type DayScore struct {
	Record scoring.DailyRecord `json:"record"`
	Score  scoring.ScoreResult `json:"score"`
}

// BodyDTO is the body snapshot used for the day's score.
type BodyDTO struct {
	WeightKg    *float64 `json:"weight_kg,omitempty"`
	HeightCm    *float64 `json:"height_cm,omitempty"`
	BMI         *float64 `json:"bmi,omitempty"`
	BMICategory string   `json:"bmi_category"`
	Age         *int     `json:"age,omitempty"`
}

// ObjectiveView is the objective the day was scored against, or the computed
// defaults when none is saved.
type ObjectiveView struct {
	IsDefault bool `json:"is_default"`
	scoring.Objective
}

// DashboardResponse is the response for GET /v1/dashboard
type DashboardResponse struct {
	ProfileID uuid.UUID             `json:"profile_id"`
	Date      string                `json:"date"`
	Score     scoring.ScoreResult   `json:"score"`
	Day       scoring.DailyRecord   `json:"day"`
	Body      BodyDTO               `json:"body"`
	Objective ObjectiveView         `json:"objective"`
	Streaks   []scoring.StreakState `json:"streaks"`
	Badges    scoring.BadgeResult   `json:"badges"`
	Stats     scoring.Stats         `json:"stats"`
	Window    []DayScore            `json:"window"`
}

// HistoryResponse is the response for GET /v1/dashboard/history
type HistoryResponse struct {
	ProfileID uuid.UUID  `json:"profile_id"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Days      []DayScore `json:"days"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
