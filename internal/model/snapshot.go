package model

import "time"

// Snapshot is one refresh cycle's worth of normalized feed data. It is
// immutable once built; the reconciliation core derives everything else
// from it. Version increases monotonically per process so derived data
// can be memoized by snapshot identity.
type Snapshot struct {
	Administrative []AttendanceRecord       `json:"administrative"`
	Instructor     []AttendanceRecord       `json:"instructor"`
	Schedules      map[string]GroupSchedule `json:"schedules"`
	Directory      map[string]string        `json:"directory"`
	Reviews        []ReviewRecord           `json:"reviews"`

	FetchedAt time.Time `json:"fetched_at"`
	Version   uint64    `json:"version"`
}
