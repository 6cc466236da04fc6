package edr

const notPlatformStop = "Not a platform stop!"

// Synthesize builds the events for train at timetable[target]: one Passing
// event for a pass-through point, Entering and Departing for a platform stop.
// At either end of the timetable the missing neighbour is the stop itself.
func Synthesize(train Train, timetable []Stop, target int) []Event {
	if target < 0 || target >= len(timetable) {
		return nil
	}
	stop := timetable[target]
	prev, next := stop, stop
	if target > 0 {
		prev = timetable[target-1]
	}
	if target+1 < len(timetable) {
		next = timetable[target+1]
	}

	base := Event{
		Train:       train.Label(),
		TrainNumber: train.Number,
		StopIndex:   stop.Index,
		Player:      !train.Bot(),
	}

	if stop.Kind != PlatformStop {
		passing := base
		passing.Kind = Passing
		passing.Time = stop.ActualArrival
		passing.PlannedTime = stop.ScheduledArrival
		passing.Prev = prev.label(prev.Line)
		// the outgoing label carries this stop's line, not the next one's
		passing.Next = next.label(stop.Line)
		return []Event{passing}
	}

	platform, hasPlatform := stop.PlatformTrack()

	entering := base
	entering.Kind = Entering
	entering.Time = stop.ActualArrival
	entering.PlannedTime = stop.ScheduledArrival
	entering.Prev = prev.label(prev.Line)
	entering.Next = notPlatformStop
	if hasPlatform {
		entering.Next = platform
	}

	departing := base
	departing.Kind = Departing
	departing.Time = stop.ActualDeparture
	departing.PlannedTime = stop.ScheduledDeparture
	departing.Prev = platform
	departing.Next = next.label(next.Line)

	return []Event{entering, departing}
}
