package scoring

import "math"

// Plausibility bounds for clamping malformed input.
const (
	minPlausibleBMI = 10
	maxPlausibleBMI = 80
	maxPlausibleAge = 120
)

// Nutrition component weights (sum = MaxNutritionPoints).
const (
	caloriesWeight = 6.0
	proteinWeight  = 4.0
	fiberWeight    = 4.0
	sugarWeight    = 3.0
	satFatWeight   = 3.0
)

// ComputeHealthScore returns a 0..100 score for one day. A nil objective yields
// a zero score flagged no_objective.
func ComputeHealthScore(objective *Objective, snapshot Snapshot) ScoreResult {
	if objective == nil {
		return ScoreResult{Total: 0, Flags: []string{FlagNoObjective}}
	}
	obj := objective.WithDefaults()

	res := ScoreResult{Flags: []string{}}

	bmiPts, zone, bmiFlags := bmiPoints(obj, snapshot.BMI)
	res.Breakdown.BMI = bmiPts
	res.Breakdown.BMIZone = zone
	res.Flags = append(res.Flags, bmiFlags...)

	agePts, ok := AgePoints(snapshot.Age)
	if !ok {
		res.Flags = append(res.Flags, FlagAgeUnknown)
	}
	res.Breakdown.Age = agePts

	res.Breakdown.Activity = activityPoints(obj, snapshot.Day)

	nutPts, nutFlags := nutritionPoints(obj, snapshot.Day)
	res.Breakdown.Nutrition = nutPts
	res.Flags = append(res.Flags, nutFlags...)

	adhPts, missed := adherencePoints(snapshot.Day)
	res.Breakdown.Adherence = adhPts
	if missed {
		res.Flags = append(res.Flags, FlagMedicationsMissed)
	}

	total := res.Breakdown.BMI + res.Breakdown.Age + res.Breakdown.Activity +
		res.Breakdown.Nutrition + res.Breakdown.Adherence
	res.Total = clampInt(total, 0, MaxTotal)
	res.Advice = advise(res, snapshot)

	return res
}

// WithDefaults returns a copy with zero fields replaced by defaults. A cap
// margin of exactly 1 is valid and zeroes a part at 100 % of its target.
func (o Objective) WithDefaults() Objective {
	if o.CapMargin < 1 {
		o.CapMargin = DefaultCapMargin
	}
	if o.ActivityMinutes <= 0 {
		o.ActivityMinutes = DefaultActivityMinutes
	}
	if o.ActivityKcal <= 0 {
		o.ActivityKcal = DefaultActivityKcal
	}
	if o.BMILow <= 0 || o.BMIHigh <= o.BMILow || o.BMIFloor <= o.BMIHigh {
		o.BMILow = DefaultBMILow
		o.BMIHigh = DefaultBMIHigh
		o.BMIFloor = DefaultBMIFloor
	}
	return o
}

// BMIPoints scores a BMI against the default boundaries. Values below the
// healthy range are not penalised here; see the underweight flag instead.
func BMIPoints(bmi float64) int {
	pts, _, _ := bmiPoints(Objective{}.WithDefaults(), bmi)
	return pts
}

func bmiPoints(obj Objective, bmi float64) (int, string, []string) {
	if bmi <= 0 || math.IsNaN(bmi) {
		return 0, "unknown", []string{FlagBMIUnknown}
	}
	bmi = clampFloat(bmi, minPlausibleBMI, maxPlausibleBMI)
	zone := BMICategory(bmi)

	switch {
	case bmi < obj.BMILow:
		return MaxBMIPoints, zone, []string{FlagUnderweight}
	case bmi <= obj.BMIHigh:
		// The zone follows the scoring range, which is inclusive at BMIHigh.
		return MaxBMIPoints, "normal", nil
	case bmi <= obj.BMIFloor:
		slope := float64(MaxBMIPoints-1) / (obj.BMIFloor - obj.BMIHigh)
		pts := float64(MaxBMIPoints) - (bmi-obj.BMIHigh)*slope
		return clampInt(int(math.Round(pts)), 1, MaxBMIPoints), zone, nil
	default:
		return 1, zone, nil
	}
}

// AgePoints maps an age to its tier. The bool is false when the age is unknown.
func AgePoints(age int) (int, bool) {
	if age <= 0 {
		return 0, false
	}
	age = clampInt(age, 0, maxPlausibleAge)
	switch {
	case age < 30:
		return 15, true
	case age < 40:
		return 13, true
	case age < 50:
		return 11, true
	case age < 60:
		return 9, true
	case age < 70:
		return 7, true
	default:
		return 5, true
	}
}

func activityPoints(obj Objective, day DailyRecord) int {
	byMinutes := ratio(day.ActivityMinutes, obj.ActivityMinutes)
	byKcal := ratio(day.ActivityKcal, obj.ActivityKcal)
	return int(math.Round(MaxActivityPoints * math.Max(byMinutes, byKcal)))
}

func nutritionPoints(obj Objective, day DailyRecord) (int, []string) {
	if day.MealsLogged <= 0 {
		return 0, []string{FlagNoNutritionData}
	}

	var flags []string
	pts := 0.0

	if obj.CaloriesKcal > 0 && day.CaloriesKcal > obj.CaloriesKcal*obj.CapMargin {
		flags = append(flags, FlagCaloriesOverCap)
	} else {
		pts += caloriesWeight * ratio(day.CaloriesKcal, obj.CaloriesKcal)
	}

	pts += proteinWeight * ratio(day.ProteinG, obj.ProteinMinG)
	pts += fiberWeight * ratio(day.FiberG, obj.FiberMinG)

	if obj.SugarMaxG > 0 && day.SugarG > obj.SugarMaxG*obj.CapMargin {
		flags = append(flags, FlagSugarOverCap)
	} else {
		pts += sugarWeight
	}

	if obj.SatFatMaxG > 0 && day.SaturatedFatG > obj.SatFatMaxG*obj.CapMargin {
		flags = append(flags, FlagSaturatedFatOver)
	} else {
		pts += satFatWeight
	}

	return clampInt(int(math.Round(pts)), 0, MaxNutritionPoints), flags
}

func adherencePoints(day DailyRecord) (int, bool) {
	if day.MedicationsScheduled <= 0 {
		return MaxAdherencePoints, false
	}
	taken := clampInt(day.MedicationsTaken, 0, day.MedicationsScheduled)
	pts := float64(MaxAdherencePoints) * float64(taken) / float64(day.MedicationsScheduled)
	return int(math.Round(pts)), taken < day.MedicationsScheduled
}

func advise(res ScoreResult, snapshot Snapshot) []string {
	var advice []string
	if res.HasFlag(FlagUnderweight) {
		advice = append(advice, "BMI is below the healthy range: weight loss goals do not apply, discuss nutrition with your care team.")
	}
	if snapshot.BMI >= 30 {
		advice = append(advice, "Losing 7 to 10 percent of body weight is the most effective way to reduce liver fat.")
	}
	if res.HasFlag(FlagSugarOverCap) {
		advice = append(advice, "Added sugar was well above the daily cap; sugary drinks are a major driver of liver fat.")
	}
	if res.HasFlag(FlagSaturatedFatOver) {
		advice = append(advice, "Saturated fat exceeded the cap; prefer olive oil, fish and nuts.")
	}
	if res.Breakdown.Activity == 0 {
		advice = append(advice, "No activity logged today: a 30 minute walk counts.")
	}
	return advice
}

// ratio returns value/target clamped to [0,1]. A non-positive target counts as met.
func ratio(value, target float64) float64 {
	if target <= 0 {
		return 1
	}
	if value <= 0 || math.IsNaN(value) {
		return 0
	}
	return math.Min(value/target, 1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
