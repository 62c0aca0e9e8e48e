package schedule

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyInterval is returned when start is not strictly before end
var ErrEmptyInterval = errors.New("end time must be after start time")

// Interval is a half-open time range [Start, End)
type Interval struct {
	Start Clock
	End   Clock
}

// NewInterval returns an Interval only when start < end
func NewInterval(start, end Clock) (Interval, error) {
	if start >= end {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrEmptyInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether the two half-open ranges share any instant.
// Back-to-back ranges (10:00-11:00 and 11:00-12:00) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Duration in minutes
func (i Interval) Duration() int {
	return int(i.End - i.Start)
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Slot is the scheduling view of a timetable entry
type Slot struct {
	ID        int64
	TeacherID int64
	Day       Weekday
	Interval  Interval
}

// ConflictsWith reports whether two distinct slots occupy the same teacher at the same time
func (s Slot) ConflictsWith(other Slot) bool {
	if s.ID != 0 && s.ID == other.ID {
		return false
	}
	return s.TeacherID == other.TeacherID &&
		s.Day == other.Day &&
		s.Interval.Overlaps(other.Interval)
}

// FindConflict returns the first slot in existing that conflicts with candidate.
// A slot sharing the candidate's ID is the candidate itself and never conflicts.
func FindConflict(candidate Slot, existing []Slot) (Slot, bool) {
	for _, s := range existing {
		if candidate.ConflictsWith(s) {
			return s, true
		}
	}
	return Slot{}, false
}

// Less orders slots by day, start, end, then ID
func Less(a, b Slot) bool {
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	if a.Interval.Start != b.Interval.Start {
		return a.Interval.Start < b.Interval.Start
	}
	if a.Interval.End != b.Interval.End {
		return a.Interval.End < b.Interval.End
	}
	return a.ID < b.ID
}

// SortFunc sorts any slice in canonical week order given a projection to Slot
func SortFunc[T any](items []T, slot func(T) Slot) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(slot(items[i]), slot(items[j]))
	})
}

// Sort sorts slots in canonical week order
func Sort(slots []Slot) {
	SortFunc(slots, func(s Slot) Slot { return s })
}
