// Package scoring computes the daily health score, streaks and badges from
// already aggregated history. Every function here is pure: no I/O, no clock
// reads, no shared state. "Today" is always passed in by the caller.
package scoring

// DateLayout is the calendar day format used across records.
const DateLayout = "2006-01-02"

// Sub-score ceilings.
const (
	MaxBMIPoints       = 25
	MaxAgePoints       = 15
	MaxActivityPoints  = 25
	MaxNutritionPoints = 20
	MaxAdherencePoints = 15

	MaxTotal = 100
)

// Defaults applied when an Objective leaves a field at zero.
const (
	DefaultCapMargin       = 1.20
	DefaultActivityMinutes = 30
	DefaultActivityKcal    = 200
	DefaultBMILow          = 18.5
	DefaultBMIHigh         = 25
	DefaultBMIFloor        = 35
)

// Flags reported on ScoreResult.
const (
	FlagNoObjective       = "no_objective"
	FlagUnderweight       = "underweight"
	FlagBMIUnknown        = "bmi_unknown"
	FlagAgeUnknown        = "age_unknown"
	FlagNoNutritionData   = "no_nutrition_data"
	FlagCaloriesOverCap   = "calories_over_cap"
	FlagSugarOverCap      = "sugar_over_cap"
	FlagSaturatedFatOver  = "saturated_fat_over_cap"
	FlagMedicationsMissed = "medications_missed"
)

// DailyRecord is one calendar day of aggregated tracking data.
type DailyRecord struct {
	Date string `json:"date"`

	MealsLogged   int     `json:"meals_logged"`
	CaloriesKcal  float64 `json:"calories_kcal"`
	ProteinG      float64 `json:"protein_g"`
	CarbsG        float64 `json:"carbs_g"`
	FatG          float64 `json:"fat_g"`
	SugarG        float64 `json:"sugar_g"`
	FiberG        float64 `json:"fiber_g"`
	SaturatedFatG float64 `json:"saturated_fat_g"`

	ActivityMinutes float64 `json:"activity_minutes"`
	ActivityKcal    float64 `json:"activity_kcal"`
	ActivitySession int     `json:"activity_sessions"`
	Walks           int     `json:"walks"`
	WalkKm          float64 `json:"walk_km"`

	MedicationsScheduled int `json:"medications_scheduled"`
	MedicationsTaken     int `json:"medications_taken"`
}

// Objective holds a profile's target thresholds.
type Objective struct {
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinMinG  float64 `json:"protein_min_g"`
	FiberMinG    float64 `json:"fiber_min_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
	SugarMaxG    float64 `json:"sugar_max_g"`
	SatFatMaxG   float64 `json:"saturated_fat_max_g"`

	// CapMargin is the multiplier above a cap or target at which a nutrition
	// component is zeroed (1.2 means 120 %).
	CapMargin float64 `json:"cap_margin"`

	ActivityMinutes float64 `json:"activity_minutes"`
	ActivityKcal    float64 `json:"activity_kcal"`

	BMILow   float64 `json:"bmi_low"`
	BMIHigh  float64 `json:"bmi_high"`
	BMIFloor float64 `json:"bmi_floor"`

	TargetWeightKg float64 `json:"target_weight_kg,omitempty"`
}

// Snapshot is the input of ComputeHealthScore: one day plus body context
// resolved by the caller for that day.
type Snapshot struct {
	Day DailyRecord
	BMI float64
	Age int
}

// Breakdown lists the points awarded per criterion.
type Breakdown struct {
	BMI       int    `json:"bmi"`
	BMIZone   string `json:"bmi_zone"`
	Age       int    `json:"age"`
	Activity  int    `json:"activity"`
	Nutrition int    `json:"nutrition"`
	Adherence int    `json:"adherence"`
}

// ScoreResult is the outcome of ComputeHealthScore.
type ScoreResult struct {
	Total     int       `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
	Flags     []string  `json:"flags"`
	Advice    []string  `json:"advice,omitempty"`
}

// HasFlag reports whether flag was raised.
func (r ScoreResult) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// StreakState is a streak length together with the predicate that produced it.
type StreakState struct {
	Predicate string `json:"predicate"`
	Days      int    `json:"days"`
}

// Stats aggregates lifetime and window figures used by the badge table.
type Stats struct {
	TotalMeals           int     `json:"total_meals"`
	TotalWalks           int     `json:"total_walks"`
	TotalWalkKm          float64 `json:"total_walk_km"`
	TotalActivities      int     `json:"total_activities"`
	TotalActivityMinutes float64 `json:"total_activity_minutes"`
	DaysLogged           int     `json:"days_logged"`

	MealStreak       int `json:"meal_streak"`
	ActivityStreak   int `json:"activity_streak"`
	MedicationStreak int `json:"medication_streak"`

	WeightLostKg float64 `json:"weight_lost_kg"`
	BestScore    int     `json:"best_score"`
}
