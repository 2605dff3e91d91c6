package scoring

import (
	"reflect"
	"testing"
)

func baseObjective() *Objective {
	return &Objective{
		CaloriesKcal:    2000,
		ProteinMinG:     90,
		FiberMinG:       30,
		SugarMaxG:       25,
		SatFatMaxG:      20,
		ActivityMinutes: 30,
		ActivityKcal:    200,
	}
}

func TestBMIPoints_HealthyRangeIsFull(t *testing.T) {
	for _, bmi := range []float64{18.5, 19, 21.7, 24.9, 25} {
		if got := BMIPoints(bmi); got != MaxBMIPoints {
			t.Errorf("BMIPoints(%v) = %d, want %d", bmi, got, MaxBMIPoints)
		}
	}
}

func TestBMIPoints_AboveFloorIsOne(t *testing.T) {
	for _, bmi := range []float64{35.1, 38, 45, 60, 200} {
		if got := BMIPoints(bmi); got != 1 {
			t.Errorf("BMIPoints(%v) = %d, want 1", bmi, got)
		}
	}
}

func TestBMIPoints_NonIncreasingAboveHealthy(t *testing.T) {
	prev := BMIPoints(25)
	for bmi := 25.0; bmi <= 50; bmi += 0.1 {
		got := BMIPoints(bmi)
		if got > prev {
			t.Fatalf("BMIPoints(%.1f) = %d increased from %d", bmi, got, prev)
		}
		if got < 1 {
			t.Fatalf("BMIPoints(%.1f) = %d, want >= 1", bmi, got)
		}
		prev = got
	}
}

func TestComputeHealthScore_UnderweightIsAdvisory(t *testing.T) {
	res := ComputeHealthScore(baseObjective(), Snapshot{BMI: 17, Age: 25})
	if res.Breakdown.BMI != MaxBMIPoints {
		t.Errorf("expected full BMI points for underweight, got %d", res.Breakdown.BMI)
	}
	if !res.HasFlag(FlagUnderweight) {
		t.Errorf("expected underweight flag, got %v", res.Flags)
	}
	if len(res.Advice) == 0 {
		t.Error("expected advice for underweight")
	}
}

func TestComputeHealthScore_NoObjective(t *testing.T) {
	res := ComputeHealthScore(nil, Snapshot{BMI: 22, Age: 30})
	if res.Total != 0 {
		t.Errorf("Total = %d, want 0", res.Total)
	}
	if len(res.Flags) != 1 || res.Flags[0] != FlagNoObjective {
		t.Errorf("Flags = %v, want [%s]", res.Flags, FlagNoObjective)
	}
}

func TestComputeHealthScore_HealthyScenario(t *testing.T) {
	obj := baseObjective()
	snap := Snapshot{
		BMI: 22,
		Age: 30,
		Day: DailyRecord{
			Date:            "2026-03-10",
			MealsLogged:     3,
			CaloriesKcal:    1800,
			ProteinG:        81,
			FiberG:          27,
			SugarG:          10,
			SaturatedFatG:   12,
			ActivityMinutes: 35,
			ActivityKcal:    180,
		},
	}

	res := ComputeHealthScore(obj, snap)
	if res.Total < 80 || res.Total > 100 {
		t.Fatalf("Total = %d, want within [80,100]; breakdown %+v", res.Total, res.Breakdown)
	}
	if res.Breakdown.Activity != MaxActivityPoints {
		t.Errorf("Activity = %d, want %d", res.Breakdown.Activity, MaxActivityPoints)
	}
	if res.Breakdown.Age != 13 {
		t.Errorf("Age = %d, want 13", res.Breakdown.Age)
	}
	if res.Breakdown.Nutrition != 19 {
		t.Errorf("Nutrition = %d, want 19", res.Breakdown.Nutrition)
	}
}

func TestComputeHealthScore_Pure(t *testing.T) {
	obj := baseObjective()
	snap := Snapshot{BMI: 31.4, Age: 52, Day: DailyRecord{
		MealsLogged: 2, CaloriesKcal: 2600, SugarG: 40, ActivityMinutes: 10,
		MedicationsScheduled: 2, MedicationsTaken: 1,
	}}
	first := ComputeHealthScore(obj, snap)
	for i := 0; i < 5; i++ {
		if got := ComputeHealthScore(obj, snap); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
	if *obj != *baseObjective() {
		t.Error("objective was mutated")
	}
}

func TestComputeHealthScore_TotalBounded(t *testing.T) {
	cases := []Snapshot{
		{},
		{BMI: 80, Age: 120},
		{BMI: 22, Age: 20, Day: DailyRecord{MealsLogged: 5, CaloriesKcal: 1e6, ActivityMinutes: 1e6, ActivityKcal: 1e6}},
		{BMI: -4, Age: -1, Day: DailyRecord{MealsLogged: -1, ActivityMinutes: -50}},
	}
	for i, snap := range cases {
		res := ComputeHealthScore(baseObjective(), snap)
		if res.Total < 0 || res.Total > MaxTotal {
			t.Errorf("case %d: Total = %d out of range", i, res.Total)
		}
	}
}

func TestComputeHealthScore_CapsZeroComponent(t *testing.T) {
	obj := baseObjective()
	day := DailyRecord{MealsLogged: 3, CaloriesKcal: 2000, ProteinG: 90, FiberG: 30, SugarG: 31, SaturatedFatG: 10}

	res := ComputeHealthScore(obj, Snapshot{BMI: 22, Age: 30, Day: day})
	if !res.HasFlag(FlagSugarOverCap) {
		t.Fatalf("expected sugar flag, got %v", res.Flags)
	}
	if res.Breakdown.Nutrition != MaxNutritionPoints-3 {
		t.Errorf("Nutrition = %d, want %d", res.Breakdown.Nutrition, MaxNutritionPoints-3)
	}

	// Within the 120 % margin nothing is lost.
	day.SugarG = 29
	res = ComputeHealthScore(obj, Snapshot{BMI: 22, Age: 30, Day: day})
	if res.HasFlag(FlagSugarOverCap) || res.Breakdown.Nutrition != MaxNutritionPoints {
		t.Errorf("unexpected penalty within margin: %+v flags %v", res.Breakdown, res.Flags)
	}
}

func TestComputeHealthScore_BMIZoneMatchesPoints(t *testing.T) {
	tests := []struct {
		bmi      float64
		wantPts  int
		wantZone string
	}{
		{22, MaxBMIPoints, "normal"},
		{25, MaxBMIPoints, "normal"},
		{27, 20, "overweight"},
		{31, 11, "obese_1"},
	}
	for _, tt := range tests {
		res := ComputeHealthScore(baseObjective(), Snapshot{BMI: tt.bmi, Age: 30})
		if res.Breakdown.BMI != tt.wantPts || res.Breakdown.BMIZone != tt.wantZone {
			t.Errorf("BMI %v: got %d/%s, want %d/%s", tt.bmi, res.Breakdown.BMI, res.Breakdown.BMIZone, tt.wantPts, tt.wantZone)
		}
	}
	if got := BMICategory(25); got != "overweight" {
		t.Errorf("BMICategory(25) = %s, want overweight", got)
	}
}

func TestComputeHealthScore_CapMarginOne(t *testing.T) {
	obj := baseObjective()
	obj.CapMargin = 1
	day := DailyRecord{MealsLogged: 3, CaloriesKcal: 2300, ProteinG: 90, FiberG: 30, SugarG: 29, SaturatedFatG: 10}

	res := ComputeHealthScore(obj, Snapshot{BMI: 22, Age: 30, Day: day})
	if !res.HasFlag(FlagCaloriesOverCap) || !res.HasFlag(FlagSugarOverCap) {
		t.Fatalf("expected calories and sugar flags, got %v", res.Flags)
	}
	if want := MaxNutritionPoints - 6 - 3; res.Breakdown.Nutrition != want {
		t.Errorf("Nutrition = %d, want %d", res.Breakdown.Nutrition, want)
	}

	if got := (Objective{CapMargin: 1}).WithDefaults().CapMargin; got != 1 {
		t.Errorf("WithDefaults CapMargin = %v, want 1", got)
	}
	if got := (Objective{}).WithDefaults().CapMargin; got != DefaultCapMargin {
		t.Errorf("WithDefaults zero CapMargin = %v, want %v", got, DefaultCapMargin)
	}
}

func TestComputeHealthScore_Adherence(t *testing.T) {
	day := DailyRecord{MedicationsScheduled: 4, MedicationsTaken: 2}
	res := ComputeHealthScore(baseObjective(), Snapshot{BMI: 22, Age: 30, Day: day})
	if res.Breakdown.Adherence != 8 {
		t.Errorf("Adherence = %d, want 8", res.Breakdown.Adherence)
	}
	if !res.HasFlag(FlagMedicationsMissed) {
		t.Errorf("expected medications_missed, got %v", res.Flags)
	}
}

func TestComputeHealthScore_UnknownInputsFlagged(t *testing.T) {
	res := ComputeHealthScore(baseObjective(), Snapshot{})
	for _, f := range []string{FlagBMIUnknown, FlagAgeUnknown, FlagNoNutritionData} {
		if !res.HasFlag(f) {
			t.Errorf("missing flag %s in %v", f, res.Flags)
		}
	}
}

func TestAgePoints(t *testing.T) {
	tests := []struct {
		age  int
		want int
		ok   bool
	}{
		{0, 0, false},
		{18, 15, true},
		{29, 15, true},
		{30, 13, true},
		{45, 11, true},
		{59, 9, true},
		{65, 7, true},
		{90, 5, true},
	}
	for _, tt := range tests {
		got, ok := AgePoints(tt.age)
		if got != tt.want || ok != tt.ok {
			t.Errorf("AgePoints(%d) = %d,%v want %d,%v", tt.age, got, ok, tt.want, tt.ok)
		}
	}
}
