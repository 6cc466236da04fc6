package edr

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TimetableSource returns the static timetable of one train.
type TimetableSource interface {
	Timetable(ctx context.Context, trainNumber string) ([]Stop, error)
}

// Engine derives dispatch events from live trains. It is not safe for
// concurrent use by multiple refresh cycles over the same train slice.
type Engine struct {
	resolver NameResolver
}

func NewEngine(resolver NameResolver) *Engine {
	if resolver == nil {
		resolver = ByName{}
	}
	return &Engine{resolver: resolver}
}

// Derive sets each train's nearest station and returns the events for target,
// unsorted. A timetable fetch error aborts the whole derivation.
func (engine *Engine) Derive(ctx context.Context, trains []Train, stations []Station, target Station, source TimetableSource) ([]Event, error) {
	if len(stations) == 0 {
		zap.S().Warnw("no stations to anchor trains against", "trains", len(trains))
		return nil, nil
	}

	events := make([]Event, 0, len(trains))
	skipped := 0
	for i := range trains {
		train := &trains[i]
		nearest, distance, err := Nearest(train.Position, stations)
		if err != nil {
			return nil, err
		}
		train.Nearest = nearest.Name

		timetable, err := source.Timetable(ctx, train.Number)
		if err != nil {
			return nil, fmt.Errorf("timetable %s: %w", train.Number, err)
		}
		OrderTimetable(timetable)

		alignment, ok := Align(timetable, train.Nearest, target.Name, engine.resolver)
		if !ok || !alignment.Reached() {
			skipped++
			continue
		}
		zap.S().Debugw("aligned train",
			"train", train.Number,
			"anchor", train.Nearest,
			"distance_km", distance,
			"anchor_index", alignment.Anchor,
			"target_index", alignment.Target,
		)
		events = append(events, Synthesize(*train, timetable, alignment.Target)...)
	}

	zap.S().Debugw("derived events", "station", target.Name, "events", len(events), "skipped", skipped)
	return events, nil
}
