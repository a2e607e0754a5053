package models

import "time"

// ScheduleEntry is one row of the cleaning schedule.
type ScheduleEntry struct {
	Location    string
	AssetID     string
	Description string
	Shifts      string
	Weekdays    map[time.Weekday]bool
}

// Record converts the entry into its report representation.
func (e ScheduleEntry) Record() MissingEnvironment {
	return MissingEnvironment{
		Location:    e.Location,
		AssetID:     e.AssetID,
		Description: e.Description,
		Shifts:      e.Shifts,
	}
}
