package medications

import (
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

// Adherence is the scheduled/taken count for one day.
type Adherence struct {
	Scheduled int
	Taken     int
}

// DailyAdherence computes adherence for each day in days. A medication is
// scheduled on a day when it existed by then and had not been deactivated
// yet, or when an intake was recorded for it that day. Taken counts "taken" intakes only, so Taken
// never exceeds Scheduled.
func DailyAdherence(meds []storage.Medication, intakes []storage.MedicationIntake, days []string) map[string]Adherence {
	byDay := make(map[string]map[uuid.UUID]string)
	for _, in := range intakes {
		if byDay[in.Date] == nil {
			byDay[in.Date] = make(map[uuid.UUID]string)
		}
		byDay[in.Date][in.MedicationID] = in.Status
	}

	out := make(map[string]Adherence, len(days))
	for _, day := range days {
		recorded := byDay[day]
		var a Adherence
		for _, m := range meds {
			status, logged := recorded[m.ID]
			if !logged && !scheduledOn(m, day) {
				continue
			}
			a.Scheduled++
			if status == StatusTaken {
				a.Taken++
			}
		}
		out[day] = a
	}
	return out
}

// scheduledOn depends only on the recorded lifecycle, so deactivating a
// medication leaves earlier days unchanged.
func scheduledOn(m storage.Medication, day string) bool {
	if dateOf(m.CreatedAt) > day {
		return false
	}
	return m.DeactivatedAt == nil || day < dateOf(*m.DeactivatedAt)
}

// setActive records the transition time when a medication is switched off
// and clears it when switched back on.
func setActive(m *storage.Medication, active bool, now time.Time) {
	switch {
	case active:
		m.DeactivatedAt = nil
	case m.Active || m.DeactivatedAt == nil:
		t := now.UTC()
		m.DeactivatedAt = &t
	}
	m.Active = active
}

func dateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
