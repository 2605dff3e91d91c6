package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/nafld-hub/internal/objectives"
	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/fdg312/nafld-hub/internal/storage/memory"
	"github.com/fdg312/nafld-hub/internal/userctx"
	"github.com/google/uuid"
)

func setup(t *testing.T) (*Service, *memory.MemoryStorage, uuid.UUID) {
	t.Helper()
	store := memory.New()
	profiles, _ := store.ListProfiles(context.Background())

	objSvc := objectives.NewService(store.GetObjectivesStorage(), store.GetWeightsStorage(), store, scoring.ObjectiveParams{})
	agg := NewAggregator(store.GetMealsStorage(), store.GetActivitiesStorage(), store.GetMedicationsStorage())
	service := NewService(store, objSvc, store.GetWeightsStorage(), agg, 7)
	service.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return service, store, profiles[0].ID
}

func addMeal(t *testing.T, store *memory.MemoryStorage, profileID uuid.UUID, date string, kcal float64) {
	t.Helper()
	err := store.GetMealsStorage().CreateMeal(context.Background(), &storage.Meal{
		ProfileID: profileID, Date: date, MealType: "lunch", Title: "meal",
		CaloriesKcal: kcal, ProteinG: 30, FiberG: 10, SugarG: 10, SaturatedFatG: 5,
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
}

func TestGetDashboard_NoObjective(t *testing.T) {
	service, store, profileID := setup(t)
	addMeal(t, store, profileID, "2026-03-14", 600)

	resp, err := service.GetDashboard(context.Background(), profileID, "")
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if resp.Date != "2026-03-14" {
		t.Errorf("date = %s, want 2026-03-14", resp.Date)
	}
	if resp.Score.Total != 0 || !resp.Score.HasFlag(scoring.FlagNoObjective) {
		t.Errorf("score = %+v, want 0 with no_objective", resp.Score)
	}
	if !resp.Objective.IsDefault || resp.Objective.CaloriesKcal <= 0 {
		t.Errorf("objective = %+v, want computed defaults", resp.Objective)
	}
	if len(resp.Window) != 7 || resp.Window[6].Record.Date != "2026-03-14" {
		t.Errorf("window = %d days", len(resp.Window))
	}
}

func TestGetDashboard_StreaksAndBadges(t *testing.T) {
	service, store, profileID := setup(t)
	ctx := context.Background()

	_ = store.GetObjectivesStorage().CreateObjective(ctx, &storage.Objective{
		ProfileID: profileID, CaloriesKcal: 2000, ProteinMinG: 60, FiberMinG: 25,
		SugarMaxG: 50, SatFatMaxG: 20, CapMargin: 1.2, ActivityMinutes: 30, ActivityKcal: 200,
	})
	for _, d := range []string{"2026-03-10", "2026-03-12", "2026-03-13", "2026-03-14"} {
		addMeal(t, store, profileID, d, 700)
	}
	km := 5.0
	_ = store.GetActivitiesStorage().CreateActivity(ctx, &storage.Activity{
		ProfileID: profileID, Date: "2026-03-14", Kind: "walk", DurationMinutes: 60, DistanceKm: &km, CaloriesKcal: 250,
	})

	resp, err := service.GetDashboard(ctx, profileID, "2026-03-14")
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if resp.Objective.IsDefault {
		t.Error("expected the saved objective")
	}
	if resp.Score.HasFlag(scoring.FlagNoObjective) || resp.Score.Breakdown.Activity != scoring.MaxActivityPoints {
		t.Errorf("score = %+v", resp.Score)
	}

	streaks := map[string]int{}
	for _, s := range resp.Streaks {
		streaks[s.Predicate] = s.Days
	}
	if streaks["meals"] != 3 || streaks["walks"] != 1 || streaks["medications"] != 0 || streaks["calories"] != 3 {
		t.Errorf("streaks = %v", streaks)
	}

	if resp.Stats.TotalMeals != 4 || resp.Stats.TotalWalks != 1 || resp.Stats.TotalWalkKm != 5 || resp.Stats.DaysLogged != 4 {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if resp.Stats.BestScore < resp.Score.Total {
		t.Errorf("best score %d below today's %d", resp.Stats.BestScore, resp.Score.Total)
	}

	earned := map[string]bool{}
	for _, b := range resp.Badges.Earned {
		earned[b.ID] = true
	}
	if !earned["first_meal"] || !earned["first_walk"] || earned["walks_10"] {
		t.Errorf("earned = %v", earned)
	}
	if len(resp.Badges.Earned)+len(resp.Badges.ToEarn) != len(scoring.DefaultBadges()) {
		t.Error("badges do not cover the table")
	}
}

func TestGetDashboard_BodyAndWeightLost(t *testing.T) {
	service, store, profileID := setup(t)
	ctx := context.Background()

	profile, _ := store.GetProfile(ctx, profileID)
	height := 180.0
	birth := "1986-05-01"
	profile.HeightCm = &height
	profile.BirthDate = &birth
	_ = store.UpdateProfile(ctx, profile)

	_ = store.GetWeightsStorage().CreateWeight(ctx, &storage.WeightEntry{ProfileID: profileID, Date: "2026-01-01", WeightKg: 100})
	_ = store.GetWeightsStorage().CreateWeight(ctx, &storage.WeightEntry{ProfileID: profileID, Date: "2026-03-12", WeightKg: 94.5})

	resp, err := service.GetDashboard(ctx, profileID, "2026-03-14")
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if resp.Body.BMI == nil || *resp.Body.BMI != 29.2 || resp.Body.BMICategory != "overweight" {
		t.Errorf("body = %+v", resp.Body)
	}
	if resp.Body.Age == nil || *resp.Body.Age != 39 {
		t.Errorf("age = %v, want 39", resp.Body.Age)
	}
	if resp.Stats.WeightLostKg != 5.5 {
		t.Errorf("weight lost = %v, want 5.5", resp.Stats.WeightLostKg)
	}
}

func TestGetDashboard_ForeignProfile(t *testing.T) {
	service, _, profileID := setup(t)
	ctx := userctx.WithUserID(context.Background(), "someone-else")
	if _, err := service.GetDashboard(ctx, profileID, ""); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestHandleHistory(t *testing.T) {
	service, store, profileID := setup(t)
	addMeal(t, store, profileID, "2026-03-02", 500)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/history?profile_id="+profileID.String()+"&from=2026-03-01&to=2026-03-03", nil)
	w := httptest.NewRecorder()
	HandleHistory(service)(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp HistoryResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(resp.Days))
	}
	if resp.Days[1].Record.MealsLogged != 1 || resp.Days[0].Record.MealsLogged != 0 {
		t.Errorf("unexpected records %+v", resp.Days)
	}
}

func TestHandleHistory_Errors(t *testing.T) {
	service, _, profileID := setup(t)
	pid := profileID.String()

	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"missing to", "profile_id=" + pid + "&from=2026-01-01", "missing_params"},
		{"bad profile", "profile_id=nope&from=2026-01-01&to=2026-01-02", "invalid_profile_id"},
		{"reversed", "profile_id=" + pid + "&from=2026-02-01&to=2026-01-01", "invalid_date"},
		{"too long", "profile_id=" + pid + "&from=2024-01-01&to=2026-01-01", "range_too_long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/history?"+tt.query, nil)
			w := httptest.NewRecorder()
			HandleHistory(service)(w, req)

			var resp ErrorResponse
			_ = json.NewDecoder(w.Body).Decode(&resp)
			if w.Code != http.StatusBadRequest || resp.Error.Code != tt.code {
				t.Errorf("got %d %s, want 400 %s", w.Code, resp.Error.Code, tt.code)
			}
		})
	}
}

type failingMeals struct{}

func (failingMeals) MealDailyTotals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealDayTotals, error) {
	return nil, errors.New("db down")
}

func TestAggregator_PropagatesErrors(t *testing.T) {
	store := memory.New()
	agg := NewAggregator(failingMeals{}, store.GetActivitiesStorage(), store.GetMedicationsStorage())
	if _, err := agg.Records(context.Background(), uuid.New(), "2026-03-01", "2026-03-02"); err == nil {
		t.Error("expected error from failing source")
	}
}

func TestAggregator_MedicationCounts(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	profileID := uuid.New()
	meds := store.GetMedicationsStorage()

	med := &storage.Medication{ProfileID: profileID, Name: "A", Active: true}
	_ = meds.CreateMedication(ctx, med)
	today := time.Now().UTC().Format("2006-01-02")
	_ = meds.UpsertIntake(ctx, &storage.MedicationIntake{ProfileID: profileID, MedicationID: med.ID, Date: today, Status: "taken"})

	agg := NewAggregator(store.GetMealsStorage(), store.GetActivitiesStorage(), meds)
	records, err := agg.Records(ctx, profileID, today, today)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if records[0].MedicationsScheduled != 1 || records[0].MedicationsTaken != 1 {
		t.Errorf("record = %+v", records[0])
	}
}
