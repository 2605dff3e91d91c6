package scoring

import "time"

// maxStreakSpan bounds how far back a streak is followed.
const maxStreakSpan = 366

// Predicate decides whether a day qualifies for a streak.
type Predicate func(DailyRecord) bool

// NamedPredicate pairs a predicate with its stable name.
type NamedPredicate struct {
	Name string
	Fn   Predicate
}

// HasMeal holds when at least one meal was logged.
func HasMeal(d DailyRecord) bool { return d.MealsLogged > 0 }

// ActiveDay holds when any activity minutes or calories were logged.
func ActiveDay(d DailyRecord) bool { return d.ActivityKcal > 0 || d.ActivityMinutes > 0 }

// WalkDay holds when a walk was logged.
func WalkDay(d DailyRecord) bool { return d.Walks > 0 }

// MedicationAdherent holds when something was scheduled and all of it was taken.
func MedicationAdherent(d DailyRecord) bool {
	return d.MedicationsScheduled > 0 && d.MedicationsTaken >= d.MedicationsScheduled
}

// CaloriesOnTarget returns a predicate checking the day's calories stay
// within the objective's margin.
func CaloriesOnTarget(objective Objective) Predicate {
	obj := objective.WithDefaults()
	return func(d DailyRecord) bool {
		if d.MealsLogged <= 0 {
			return false
		}
		if obj.CaloriesKcal <= 0 {
			return true
		}
		return d.CaloriesKcal <= obj.CaloriesKcal*obj.CapMargin
	}
}

// DefaultPredicates lists the streaks reported on the dashboard. The
// calories streak is measured against objective.
func DefaultPredicates(objective Objective) []NamedPredicate {
	return []NamedPredicate{
		{Name: "meals", Fn: HasMeal},
		{Name: "activity", Fn: ActiveDay},
		{Name: "walks", Fn: WalkDay},
		{Name: "medications", Fn: MedicationAdherent},
		{Name: "calories", Fn: CaloriesOnTarget(objective)},
	}
}

// CountTrailing counts the trailing run of true values in an oldest-to-newest
// window.
func CountTrailing(days []bool) int {
	n := 0
	for i := len(days) - 1; i >= 0; i-- {
		if !days[i] {
			break
		}
		n++
	}
	return n
}

// ComputeStreak counts consecutive qualifying days ending at today. A day with
// no record breaks the streak. Records dated after today are ignored and the
// walk never goes past the oldest record in history.
func ComputeStreak(history []DailyRecord, today string, predicate Predicate) int {
	if predicate == nil || len(history) == 0 {
		return 0
	}
	end, err := time.Parse(DateLayout, today)
	if err != nil {
		return 0
	}

	byDate := make(map[string]DailyRecord, len(history))
	var oldest time.Time
	for _, rec := range history {
		d, err := time.Parse(DateLayout, rec.Date)
		if err != nil {
			continue
		}
		byDate[rec.Date] = rec
		if oldest.IsZero() || d.Before(oldest) {
			oldest = d
		}
	}
	if oldest.IsZero() {
		return 0
	}
	if limit := end.AddDate(0, 0, -(maxStreakSpan - 1)); oldest.Before(limit) {
		oldest = limit
	}

	days := make([]bool, 0, len(byDate))
	for d := oldest; !d.After(end); d = d.AddDate(0, 0, 1) {
		rec, ok := byDate[d.Format(DateLayout)]
		days = append(days, ok && predicate(rec))
	}
	return CountTrailing(days)
}

// ComputeStreaks evaluates every named predicate over the same window.
func ComputeStreaks(history []DailyRecord, today string, predicates []NamedPredicate) []StreakState {
	out := make([]StreakState, 0, len(predicates))
	for _, p := range predicates {
		out = append(out, StreakState{Predicate: p.Name, Days: ComputeStreak(history, today, p.Fn)})
	}
	return out
}
