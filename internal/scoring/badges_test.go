package scoring

import (
	"reflect"
	"testing"
)

func TestComputeBadges_DisjointAndCovering(t *testing.T) {
	statsCases := []Stats{
		{},
		{TotalMeals: 1, MealStreak: 3, TotalWalks: 12, TotalWalkKm: 61.5},
		{TotalMeals: 400, MealStreak: 45, TotalWalks: 80, TotalWalkKm: 250, ActivityStreak: 9,
			TotalActivityMinutes: 2000, MedicationStreak: 10, WeightLostKg: 6, BestScore: 91, DaysLogged: 60},
	}
	table := DefaultBadges()

	for i, stats := range statsCases {
		res := ComputeBadges(stats, table)
		if len(res.Earned)+len(res.ToEarn) != len(table) {
			t.Fatalf("case %d: %d earned + %d to earn != %d", i, len(res.Earned), len(res.ToEarn), len(table))
		}
		seen := make(map[string]bool)
		for _, b := range append(append([]BadgeStatus{}, res.Earned...), res.ToEarn...) {
			if seen[b.ID] {
				t.Fatalf("case %d: badge %s appears twice", i, b.ID)
			}
			seen[b.ID] = true
		}
		for _, def := range table {
			if !seen[def.ID] {
				t.Errorf("case %d: badge %s missing", i, def.ID)
			}
		}
	}
}

func TestComputeBadges_ToEarnSortedByRemaining(t *testing.T) {
	stats := Stats{TotalWalks: 8, TotalWalkKm: 20, MealStreak: 2}
	res := ComputeBadges(stats, DefaultBadges())
	for i := 1; i < len(res.ToEarn); i++ {
		if res.ToEarn[i-1].Remaining > res.ToEarn[i].Remaining {
			t.Fatalf("to_earn not sorted at %d: %v > %v", i, res.ToEarn[i-1].Remaining, res.ToEarn[i].Remaining)
		}
	}
}

func TestComputeBadges_StableOnTies(t *testing.T) {
	table := []BadgeDef{
		{ID: "c", Threshold: 5, Metric: func(Stats) float64 { return 0 }},
		{ID: "a", Threshold: 5, Metric: func(Stats) float64 { return 0 }},
		{ID: "b", Threshold: 2, Metric: func(Stats) float64 { return 0 }},
		{ID: "d", Threshold: 5, Metric: func(Stats) float64 { return 0 }},
	}
	res := ComputeBadges(Stats{}, table)
	var ids []string
	for _, b := range res.ToEarn {
		ids = append(ids, b.ID)
	}
	want := []string{"b", "c", "a", "d"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestComputeBadges_Progress(t *testing.T) {
	table := []BadgeDef{
		{ID: "walks", Threshold: 10, Metric: func(s Stats) float64 { return float64(s.TotalWalks) }},
		{ID: "none", Threshold: 3},
	}
	res := ComputeBadges(Stats{TotalWalks: 4}, table)
	if len(res.ToEarn) != 2 {
		t.Fatalf("ToEarn = %d, want 2", len(res.ToEarn))
	}
	// "none" has no metric and needs 3; "walks" needs 6.
	if res.ToEarn[0].ID != "none" || res.ToEarn[0].Value != 0 {
		t.Errorf("first = %+v", res.ToEarn[0])
	}
	walks := res.ToEarn[1]
	if walks.Remaining != 6 || walks.Progress != 0.4 {
		t.Errorf("walks = %+v, want remaining 6 progress 0.4", walks)
	}

	res = ComputeBadges(Stats{TotalWalks: 15}, table[:1])
	if len(res.Earned) != 1 || res.Earned[0].Progress != 1 || res.Earned[0].Remaining != 0 {
		t.Errorf("earned = %+v", res.Earned)
	}
}

func TestComputeBadges_Pure(t *testing.T) {
	stats := Stats{TotalMeals: 3, TotalWalks: 11, BestScore: 70}
	a := ComputeBadges(stats, DefaultBadges())
	b := ComputeBadges(stats, DefaultBadges())
	if !reflect.DeepEqual(a, b) {
		t.Error("ComputeBadges is not deterministic")
	}
}

func TestDefaultBadges_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range DefaultBadges() {
		if def.ID == "" || def.Metric == nil || def.Threshold <= 0 {
			t.Errorf("incomplete definition %+v", def.ID)
		}
		if seen[def.ID] {
			t.Errorf("duplicate id %s", def.ID)
		}
		seen[def.ID] = true
	}
}
