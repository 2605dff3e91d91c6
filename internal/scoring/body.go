package scoring

import (
	"errors"
	"math"
	"time"
)

// ErrImplausibleBody is returned for heights or weights outside human range.
var ErrImplausibleBody = errors.New("height/weight out of plausible range")

// Activity levels accepted on profiles.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

var activityFactors = map[string]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// Body describes a profile's physical data used to derive targets.
type Body struct {
	WeightKg      float64
	HeightCm      float64
	Age           int
	Sex           string // "male", "female" or empty
	ActivityLevel string
}

// ObjectiveParams carries configurable defaults for DefaultObjective.
type ObjectiveParams struct {
	CapMargin       float64
	ActivityMinutes float64
	ActivityKcal    float64
}

// BMI computes kg/m² from weight in kilograms and height in centimeters.
func BMI(weightKg, heightCm float64) (float64, error) {
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, ErrImplausibleBody
	}
	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

// BMICategory returns a stable zone identifier for a BMI value using the WHO
// cut-offs, where 25.0 is already overweight. Score breakdowns report the
// scoring range instead; see bmiPoints.
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0 || math.IsNaN(bmi):
		return "unknown"
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	case bmi < 35:
		return "obese_1"
	case bmi < 40:
		return "obese_2"
	default:
		return "obese_3"
	}
}

// AgeOn returns full years between birthDate and today (both YYYY-MM-DD).
// Unparsable or future dates yield 0.
func AgeOn(birthDate, today string) int {
	born, err := time.Parse(DateLayout, birthDate)
	if err != nil {
		return 0
	}
	now, err := time.Parse(DateLayout, today)
	if err != nil || now.Before(born) {
		return 0
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day. An unknown sex
// uses the midpoint of both constants.
func BMR(b Body) float64 {
	base := 10*b.WeightKg + 6.25*b.HeightCm - 5*float64(b.Age)
	switch b.Sex {
	case "male":
		return base + 5
	case "female":
		return base - 161
	default:
		return base - 78
	}
}

// TDEE scales a BMR by the activity level factor; unknown levels are sedentary.
func TDEE(bmr float64, activityLevel string) float64 {
	f, ok := activityFactors[activityLevel]
	if !ok {
		f = activityFactors[ActivitySedentary]
	}
	return bmr * f
}

// ValidActivityLevel reports whether level is one of the known levels.
func ValidActivityLevel(level string) bool {
	_, ok := activityFactors[level]
	return ok
}

// DefaultObjective derives starting targets for a profile. Overweight bodies
// get a 500 kcal deficit; underweight bodies never do.
func DefaultObjective(b Body, p ObjectiveParams) Objective {
	obj := Objective{
		CapMargin:       p.CapMargin,
		ActivityMinutes: p.ActivityMinutes,
		ActivityKcal:    p.ActivityKcal,
		FiberMinG:       30,
		SugarMaxG:       25,
	}.WithDefaults()

	if b.WeightKg <= 0 || b.HeightCm <= 0 {
		obj.CaloriesKcal = 2000
		obj.ProteinMinG = 60
		obj.SatFatMaxG = math.Round(2000 * 0.10 / 9)
		return obj
	}

	kcal := TDEE(BMR(b), b.ActivityLevel)
	if bmi, err := BMI(b.WeightKg, b.HeightCm); err == nil && bmi >= DefaultBMIHigh {
		kcal -= 500
		obj.TargetWeightKg = math.Round(b.WeightKg*0.93*10) / 10
	}
	kcal = math.Max(kcal, 1200)

	obj.CaloriesKcal = math.Round(kcal)
	obj.ProteinMinG = math.Round(1.2 * b.WeightKg)
	obj.SatFatMaxG = math.Round(kcal * 0.10 / 9)
	obj.CarbsG = math.Round(kcal * 0.45 / 4)
	obj.FatG = math.Round(kcal * 0.30 / 9)
	return obj
}
