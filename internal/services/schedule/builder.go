package schedule

import (
	"strings"
	"time"

	"github.com/msv-stihl/limpeza/internal/models"
)

// Build computes, for every shift window, the environments scheduled today
// whose location or asset QR code was not read during that shift.
func Build(entries []models.ScheduleEntry, readings []models.ChecklistReading, now time.Time) models.ShiftReport {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	report := make(models.ShiftReport, len(Windows))

	for _, w := range Windows {
		read := readCodes(readings, w, today)

		missing := []models.MissingEnvironment{}
		for _, e := range entries {
			if !e.Weekdays[now.Weekday()] || !coversShift(e.Shifts, w.Shift) {
				continue
			}
			if read[e.Location] || read[e.AssetID] {
				continue
			}
			missing = append(missing, e.Record())
		}
		report[w.Shift] = missing
	}
	return report
}

func readCodes(readings []models.ChecklistReading, w Window, today time.Time) map[string]bool {
	codes := make(map[string]bool)
	for _, r := range readings {
		if r.StartedAt == nil || r.QRCode == "" {
			continue
		}
		started := r.StartedAt.In(today.Location())
		if !LogicalDate(started, w.Shift).Equal(today) || !w.Contains(ClockOf(started)) {
			continue
		}
		codes[r.QRCode] = true
	}
	return codes
}

// coversShift matches the schedule's free-form Turnos column, e.g. "T1/T2".
func coversShift(turnos, shift string) bool {
	return strings.Contains(strings.ToUpper(turnos), strings.ToUpper(shift))
}
