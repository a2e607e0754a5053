package schedule

import (
	"fmt"
	"time"
)

// Clock is a time of day in seconds since midnight.
type Clock int

func At(hour, minute int) Clock { return Clock(hour*3600 + minute*60) }

func ClockOf(t time.Time) Clock { return At(t.Hour(), t.Minute()) + Clock(t.Second()) }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)%3600/60, int(c)%60)
}

// Window is the working period of a shift. Bounds are inclusive; a window
// whose start is after its end runs over midnight.
type Window struct {
	Shift string
	Start Clock
	End   Clock
}

func (w Window) Overnight() bool { return w.Start > w.End }

func (w Window) Contains(c Clock) bool {
	if w.Overnight() {
		return c >= w.Start || c <= w.End
	}
	return c >= w.Start && c <= w.End
}

// Windows lists every shift the report is built for, in publishing order.
var Windows = []Window{
	{Shift: "T1", Start: At(22, 35), End: At(6, 0)},
	{Shift: "T2", Start: At(6, 0), End: At(14, 20)},
	{Shift: "T3", Start: At(14, 20), End: At(22, 35)},
	{Shift: "T2E", Start: At(6, 0), End: At(15, 48)},
	{Shift: "T3E", Start: At(15, 48), End: At(1, 9)},
}

// ShiftNames returns the names of Windows in order.
func ShiftNames() []string {
	names := make([]string, 0, len(Windows))
	for _, w := range Windows {
		names = append(names, w.Shift)
	}
	return names
}

// LogicalDate is the working day a reading taken at t counts for. T1 starts
// the evening before its day; T3E ends after midnight of its day.
func LogicalDate(t time.Time, shift string) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	c := ClockOf(t)
	switch {
	case shift == "T1" && c >= At(22, 35):
		return day.AddDate(0, 0, 1)
	case shift == "T3E" && c <= At(1, 9):
		return day.AddDate(0, 0, -1)
	}
	return day
}
