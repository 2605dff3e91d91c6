package scoring

import (
	"errors"
	"math"
	"testing"
)

func TestBMI(t *testing.T) {
	bmi, err := BMI(70, 175)
	if err != nil {
		t.Fatalf("BMI: %v", err)
	}
	if math.Abs(bmi-22.857) > 0.01 {
		t.Errorf("BMI = %.3f, want ~22.857", bmi)
	}

	for _, c := range [][2]float64{{0, 170}, {70, 0}, {500, 170}, {70, 300}} {
		if _, err := BMI(c[0], c[1]); !errors.Is(err, ErrImplausibleBody) {
			t.Errorf("BMI(%v,%v) err = %v, want ErrImplausibleBody", c[0], c[1], err)
		}
	}
}

func TestBMICategory(t *testing.T) {
	tests := map[float64]string{
		0:    "unknown",
		17:   "underweight",
		22:   "normal",
		27:   "overweight",
		31:   "obese_1",
		37:   "obese_2",
		42.5: "obese_3",
	}
	for bmi, want := range tests {
		if got := BMICategory(bmi); got != want {
			t.Errorf("BMICategory(%v) = %q, want %q", bmi, got, want)
		}
	}
}

func TestAgeOn(t *testing.T) {
	tests := []struct {
		birth, today string
		want         int
	}{
		{"1990-06-15", "2026-06-14", 35},
		{"1990-06-15", "2026-06-15", 36},
		{"2000-01-01", "2026-12-31", 26},
		{"2030-01-01", "2026-01-01", 0},
		{"", "2026-01-01", 0},
	}
	for _, tt := range tests {
		if got := AgeOn(tt.birth, tt.today); got != tt.want {
			t.Errorf("AgeOn(%q,%q) = %d, want %d", tt.birth, tt.today, got, tt.want)
		}
	}
}

func TestDefaultObjective_Overweight(t *testing.T) {
	b := Body{WeightKg: 95, HeightCm: 178, Age: 45, Sex: "male", ActivityLevel: ActivityLight}
	obj := DefaultObjective(b, ObjectiveParams{})

	tdee := TDEE(BMR(b), ActivityLight)
	if want := math.Round(tdee - 500); obj.CaloriesKcal != want {
		t.Errorf("CaloriesKcal = %v, want %v", obj.CaloriesKcal, want)
	}
	if obj.ProteinMinG != 114 {
		t.Errorf("ProteinMinG = %v, want 114", obj.ProteinMinG)
	}
	if obj.TargetWeightKg <= 0 || obj.TargetWeightKg >= b.WeightKg {
		t.Errorf("TargetWeightKg = %v", obj.TargetWeightKg)
	}
	if obj.CapMargin != DefaultCapMargin || obj.ActivityMinutes != DefaultActivityMinutes {
		t.Errorf("defaults not applied: %+v", obj)
	}
}

func TestDefaultObjective_UnderweightHasNoDeficit(t *testing.T) {
	b := Body{WeightKg: 50, HeightCm: 175, Age: 28, Sex: "female", ActivityLevel: ActivityModerate}
	obj := DefaultObjective(b, ObjectiveParams{CapMargin: 1.1})

	if want := math.Round(TDEE(BMR(b), ActivityModerate)); obj.CaloriesKcal != want {
		t.Errorf("CaloriesKcal = %v, want %v", obj.CaloriesKcal, want)
	}
	if obj.TargetWeightKg != 0 {
		t.Errorf("TargetWeightKg = %v, want 0", obj.TargetWeightKg)
	}
	if obj.CapMargin != 1.1 {
		t.Errorf("CapMargin = %v, want 1.1", obj.CapMargin)
	}
}

func TestDefaultObjective_NoBodyData(t *testing.T) {
	obj := DefaultObjective(Body{}, ObjectiveParams{})
	if obj.CaloriesKcal != 2000 || obj.ProteinMinG != 60 {
		t.Errorf("fallback = %+v", obj)
	}
}
