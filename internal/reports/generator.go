package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/fdg312/nafld-hub/internal/dashboard"
	"github.com/jung-kurt/gofpdf"
)

// recentDays is how many trailing days the PDF table shows.
const recentDays = 14

// Summary holds the period figures printed at the top of a PDF.
type Summary struct {
	Days          int
	DaysWithMeals int
	AvgScore      float64
	BestScore     int
	AvgCalories   float64
	ActiveMinutes float64
	WalkKm        float64
	Scheduled     int
	Taken         int
}

// Adherence is the share of scheduled medications taken, or -1 when nothing
// was scheduled.
func (s Summary) Adherence() float64 {
	if s.Scheduled == 0 {
		return -1
	}
	return float64(s.Taken) / float64(s.Scheduled)
}

func summarize(days []dashboard.DayScore) Summary {
	sum := Summary{Days: len(days)}
	var scoreTotal, kcalTotal float64
	for _, d := range days {
		scoreTotal += float64(d.Score.Total)
		if d.Score.Total > sum.BestScore {
			sum.BestScore = d.Score.Total
		}
		if d.Record.MealsLogged > 0 {
			sum.DaysWithMeals++
			kcalTotal += d.Record.CaloriesKcal
		}
		sum.ActiveMinutes += d.Record.ActivityMinutes
		sum.WalkKm += d.Record.WalkKm
		sum.Scheduled += d.Record.MedicationsScheduled
		sum.Taken += d.Record.MedicationsTaken
	}
	if sum.Days > 0 {
		sum.AvgScore = scoreTotal / float64(sum.Days)
	}
	if sum.DaysWithMeals > 0 {
		sum.AvgCalories = kcalTotal / float64(sum.DaysWithMeals)
	}
	return sum
}

var csvHeader = []string{
	"date", "score", "bmi_points", "age_points", "activity_points", "nutrition_points", "adherence_points",
	"meals", "calories_kcal", "protein_g", "carbs_g", "fat_g", "sugar_g", "fiber_g", "saturated_fat_g",
	"activity_minutes", "activity_kcal", "walks", "walk_km",
	"medications_scheduled", "medications_taken", "flags",
}

func generateCSV(days []dashboard.DayScore) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, d := range days {
		r, s := d.Record, d.Score
		row := []string{
			r.Date,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Breakdown.BMI),
			strconv.Itoa(s.Breakdown.Age),
			strconv.Itoa(s.Breakdown.Activity),
			strconv.Itoa(s.Breakdown.Nutrition),
			strconv.Itoa(s.Breakdown.Adherence),
			strconv.Itoa(r.MealsLogged),
			formatNum(r.CaloriesKcal),
			formatNum(r.ProteinG),
			formatNum(r.CarbsG),
			formatNum(r.FatG),
			formatNum(r.SugarG),
			formatNum(r.FiberG),
			formatNum(r.SaturatedFatG),
			formatNum(r.ActivityMinutes),
			formatNum(r.ActivityKcal),
			strconv.Itoa(r.Walks),
			formatNum(r.WalkKm),
			strconv.Itoa(r.MedicationsScheduled),
			strconv.Itoa(r.MedicationsTaken),
			strings.Join(s.Flags, ";"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// generatePDF renders a one-page summary plus the recent days table. Core
// fonts only, so text stays ASCII.
func generatePDF(profileName, from, to string, days []dashboard.DayScore) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Health Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Profile: %s", profileName))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", from, to))
	pdf.Ln(12)

	sum := summarize(days)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Average score: %.1f (best %d)", sum.AvgScore, sum.BestScore),
		fmt.Sprintf("Days with meals logged: %d of %d", sum.DaysWithMeals, sum.Days),
		fmt.Sprintf("Average calories on logged days: %s kcal", noData(sum.DaysWithMeals > 0, sum.AvgCalories)),
		fmt.Sprintf("Active minutes: %.0f", sum.ActiveMinutes),
		fmt.Sprintf("Distance walked: %.1f km", sum.WalkKm),
	}
	if a := sum.Adherence(); a >= 0 {
		lines = append(lines, fmt.Sprintf("Medication adherence: %.0f%% (%d of %d)", a*100, sum.Taken, sum.Scheduled))
	} else {
		lines = append(lines, "Medication adherence: no data")
	}
	for _, l := range lines {
		pdf.Cell(0, 6, l)
		pdf.Ln(5)
	}
	pdf.Ln(7)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Recent days")
	pdf.Ln(8)
	drawRecentDaysTable(pdf, days)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawRecentDaysTable(pdf *gofpdf.Fpdf, days []dashboard.DayScore) {
	recent := days
	if len(recent) > recentDays {
		recent = recent[len(recent)-recentDays:]
	}

	pdf.SetFont("Arial", "B", 8)
	headers := []string{"Date", "Score", "Kcal", "Protein", "Sugar", "Sat fat", "Active min", "Walk km", "Meds"}
	widths := []float64{24, 16, 20, 20, 18, 18, 22, 20, 20}
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 6, h, "1", ln, "C", false, 0, "")
	}

	pdf.SetFont("Arial", "", 8)
	for _, d := range recent {
		r := d.Record
		meds := "-"
		if r.MedicationsScheduled > 0 {
			meds = fmt.Sprintf("%d/%d", r.MedicationsTaken, r.MedicationsScheduled)
		}
		cells := []string{
			r.Date,
			strconv.Itoa(d.Score.Total),
			blankIfZero(r.MealsLogged > 0, r.CaloriesKcal),
			blankIfZero(r.MealsLogged > 0, r.ProteinG),
			blankIfZero(r.MealsLogged > 0, r.SugarG),
			blankIfZero(r.MealsLogged > 0, r.SaturatedFatG),
			blankIfZero(r.ActivityMinutes > 0, r.ActivityMinutes),
			blankIfZero(r.WalkKm > 0, r.WalkKm),
			meds,
		}
		for i, c := range cells {
			ln := 0
			if i == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(widths[i], 6, c, "1", ln, "C", false, 0, "")
		}
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func blankIfZero(ok bool, v float64) string {
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.0f", v)
}

func noData(ok bool, v float64) string {
	if !ok {
		return "no data"
	}
	return fmt.Sprintf("%.0f", v)
}
