package scoring

import (
	"math"
	"sort"
)

// BadgeDef is one row of the declarative badge table. A badge is earned when
// Metric(stats) reaches Threshold.
type BadgeDef struct {
	ID          string
	Label       string
	Icon        string
	Description string
	Threshold   float64
	Metric      func(Stats) float64
}

// BadgeStatus is the evaluated state of a badge.
type BadgeStatus struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
	Threshold   float64 `json:"threshold"`
	Value       float64 `json:"value"`
	Remaining   float64 `json:"remaining"`
	Progress    float64 `json:"progress"`
	Earned      bool    `json:"earned"`
}

// BadgeResult partitions a badge table.
type BadgeResult struct {
	Earned []BadgeStatus `json:"earned"`
	ToEarn []BadgeStatus `json:"to_earn"`
}

// ComputeBadges evaluates every definition against stats. Earned keeps table
// order; ToEarn is ordered by remaining distance, ties keeping table order.
func ComputeBadges(stats Stats, table []BadgeDef) BadgeResult {
	res := BadgeResult{
		Earned: make([]BadgeStatus, 0, len(table)),
		ToEarn: make([]BadgeStatus, 0, len(table)),
	}
	for _, def := range table {
		st := evaluateBadge(stats, def)
		if st.Earned {
			res.Earned = append(res.Earned, st)
		} else {
			res.ToEarn = append(res.ToEarn, st)
		}
	}
	sort.SliceStable(res.ToEarn, func(i, j int) bool {
		return res.ToEarn[i].Remaining < res.ToEarn[j].Remaining
	})
	return res
}

func evaluateBadge(stats Stats, def BadgeDef) BadgeStatus {
	value := 0.0
	if def.Metric != nil {
		value = def.Metric(stats)
	}
	if math.IsNaN(value) || value < 0 {
		value = 0
	}

	st := BadgeStatus{
		ID:          def.ID,
		Label:       def.Label,
		Icon:        def.Icon,
		Description: def.Description,
		Threshold:   def.Threshold,
		Value:       value,
		Earned:      value >= def.Threshold,
	}
	if st.Earned {
		st.Progress = 1
		return st
	}
	st.Remaining = def.Threshold - value
	st.Progress = value / def.Threshold
	return st
}

// DefaultBadges is the badge table used by the service.
func DefaultBadges() []BadgeDef {
	return []BadgeDef{
		{
			ID: "first_meal", Label: "First bite", Icon: "fork.knife",
			Description: "Log your first meal",
			Threshold:   1,
			Metric:      func(s Stats) float64 { return float64(s.TotalMeals) },
		},
		{
			ID: "meal_streak_7", Label: "Consistent eater", Icon: "calendar",
			Description: "Log meals 7 days in a row",
			Threshold:   7,
			Metric:      func(s Stats) float64 { return float64(s.MealStreak) },
		},
		{
			ID: "meal_streak_30", Label: "Habit formed", Icon: "calendar.badge.checkmark",
			Description: "Log meals 30 days in a row",
			Threshold:   30,
			Metric:      func(s Stats) float64 { return float64(s.MealStreak) },
		},
		{
			ID: "first_walk", Label: "First steps", Icon: "figure.walk",
			Description: "Log your first walk",
			Threshold:   1,
			Metric:      func(s Stats) float64 { return float64(s.TotalWalks) },
		},
		{
			ID: "walks_10", Label: "Walker", Icon: "figure.walk.motion",
			Description: "Log 10 walks",
			Threshold:   10,
			Metric:      func(s Stats) float64 { return float64(s.TotalWalks) },
		},
		{
			ID: "walks_50", Label: "Trail regular", Icon: "map",
			Description: "Log 50 walks",
			Threshold:   50,
			Metric:      func(s Stats) float64 { return float64(s.TotalWalks) },
		},
		{
			ID: "distance_50km", Label: "50 km", Icon: "point.topleft.down.to.point.bottomright.curvepath",
			Description: "Walk 50 km in total",
			Threshold:   50,
			Metric:      func(s Stats) float64 { return s.TotalWalkKm },
		},
		{
			ID: "distance_100km", Label: "100 km", Icon: "flag.checkered",
			Description: "Walk 100 km in total",
			Threshold:   100,
			Metric:      func(s Stats) float64 { return s.TotalWalkKm },
		},
		{
			ID: "active_streak_7", Label: "Active week", Icon: "flame",
			Description: "Be active 7 days in a row",
			Threshold:   7,
			Metric:      func(s Stats) float64 { return float64(s.ActivityStreak) },
		},
		{
			ID: "active_hours_10", Label: "Ten active hours", Icon: "timer",
			Description: "Accumulate 600 minutes of activity",
			Threshold:   600,
			Metric:      func(s Stats) float64 { return s.TotalActivityMinutes },
		},
		{
			ID: "medication_streak_7", Label: "On schedule", Icon: "pills",
			Description: "Take every scheduled medication 7 days in a row",
			Threshold:   7,
			Metric:      func(s Stats) float64 { return float64(s.MedicationStreak) },
		},
		{
			ID: "weight_loss_5kg", Label: "Lighter liver", Icon: "scalemass",
			Description: "Lose 5 kg since your first weigh-in",
			Threshold:   5,
			Metric:      func(s Stats) float64 { return s.WeightLostKg },
		},
		{
			ID: "score_80", Label: "Healthy day", Icon: "heart",
			Description: "Reach a daily health score of 80",
			Threshold:   80,
			Metric:      func(s Stats) float64 { return float64(s.BestScore) },
		},
		{
			ID: "days_logged_30", Label: "Month of data", Icon: "chart.bar",
			Description: "Log something on 30 different days",
			Threshold:   30,
			Metric:      func(s Stats) float64 { return float64(s.DaysLogged) },
		},
	}
}
