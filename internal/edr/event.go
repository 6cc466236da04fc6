package edr

import (
	"fmt"
	"slices"
	"time"
)

type EventKind int

const (
	Passing EventKind = iota
	Entering
	Departing
)

func (kind EventKind) String() string {
	switch kind {
	case Entering:
		return "Entering"
	case Departing:
		return "Departing"
	default:
		return "Passing"
	}
}

// Tag is the short column marker shown next to the train.
func (kind EventKind) Tag() string {
	switch kind {
	case Entering:
		return "IN"
	case Departing:
		return "OUT"
	default:
		return ""
	}
}

// Event is a single derived dispatch occurrence at the selected station.
type Event struct {
	Train       string
	TrainNumber string
	StopIndex   int
	Kind        EventKind

	// Time is the actual time, nil while unknown. PlannedTime is always set.
	Time        *time.Time
	PlannedTime time.Time

	Prev string
	Next string

	// Player is true when the train is human-controlled.
	Player bool
}

func (event Event) EffectiveTime() time.Time {
	if event.Time != nil {
		return *event.Time
	}
	return event.PlannedTime
}

// Delay is actual minus planned, zero while the actual time is unknown.
func (event Event) Delay() time.Duration {
	if event.Time == nil {
		return 0
	}
	return event.Time.Sub(event.PlannedTime)
}

// Clock formats the effective time as HH:MM, with the delay in minutes
// appended once an actual time is known.
func (event Event) Clock() string {
	clock := event.EffectiveTime().Format("15:04")
	if event.Time == nil {
		return clock
	}
	minutes := int(event.Delay().Round(time.Minute) / time.Minute)
	if minutes == 0 {
		return clock
	}
	return fmt.Sprintf("%s %+d", clock, minutes)
}

// SortEvents orders events by effective time. Events with the same time keep
// their relative order.
func SortEvents(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return a.EffectiveTime().Compare(b.EffectiveTime())
	})
}
