package edr

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeTimetables struct {
	timetables map[string][]Stop
	err        error
	calls      []string
}

func (f *fakeTimetables) Timetable(ctx context.Context, trainNumber string) ([]Stop, error) {
	f.calls = append(f.calls, trainNumber)
	if f.err != nil {
		return nil, f.err
	}
	// hand out a copy so ordering in the engine cannot leak back
	return append([]Stop(nil), f.timetables[trainNumber]...), nil
}

var (
	stationA = Station{Name: "A", Position: Coordinate{Lat: 50.00, Lon: 19.00}}
	stationB = Station{Name: "B", Position: Coordinate{Lat: 50.10, Lon: 19.00}}
	stationC = Station{Name: "C", Position: Coordinate{Lat: 50.20, Lon: 19.00}}
	stationD = Station{Name: "D", Position: Coordinate{Lat: 50.30, Lon: 19.00}}
	abcd     = []Station{stationA, stationB, stationC, stationD}
)

func TestDeriveScenario(t *testing.T) {
	source := &fakeTimetables{timetables: map[string][]Stop{
		"100": scenarioTimetable(PlatformStop, "133", "133"),
	}}
	trains := []Train{{Number: "100", Name: "IC", Type: "user", Position: Coordinate{Lat: 50.101, Lon: 19.0}}}

	events, err := NewEngine(ByName{}).Derive(context.Background(), trains, abcd, stationC, source)
	if err != nil {
		t.Fatalf("Derive: %s", err)
	}
	if trains[0].Nearest != "B" {
		t.Fatalf("nearest = %q, want B", trains[0].Nearest)
	}
	got := []EventKind{}
	for _, event := range events {
		got = append(got, event.Kind)
	}
	if diff := cmp.Diff([]EventKind{Entering, Departing}, got); diff != "" {
		t.Fatalf("kinds diff: %s", diff)
	}
}

func TestDeriveSkipsTrainsPastTarget(t *testing.T) {
	source := &fakeTimetables{timetables: map[string][]Stop{
		"200": scenarioTimetable(PassThrough, "1", "1"),
	}}
	// nearest to D, which is after C in the timetable
	trains := []Train{{Number: "200", Position: stationD.Position}}

	events, err := NewEngine(nil).Derive(context.Background(), trains, abcd, stationC, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0", len(events))
	}
	if trains[0].Nearest != "D" {
		t.Fatalf("nearest = %q, want D", trains[0].Nearest)
	}
}

func TestDeriveSkipsUnmatchedTrains(t *testing.T) {
	source := &fakeTimetables{timetables: map[string][]Stop{
		"300": stops("X", "Y"),
		"301": scenarioTimetable(PassThrough, "1", "1"),
	}}
	trains := []Train{
		{Number: "300", Position: stationA.Position},
		{Number: "301", Position: stationA.Position},
	}

	events, err := NewEngine(ByName{}).Derive(context.Background(), trains, abcd, stationC, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].TrainNumber != "301" {
		t.Fatalf("events = %+v", events)
	}
}

func TestDeriveOrdersTimetableByIndex(t *testing.T) {
	timetable := scenarioTimetable(PassThrough, "1", "1")
	// delivered out of order, C must still see B before it and D after it
	shuffled := []Stop{timetable[3], timetable[1], timetable[0], timetable[2]}
	source := &fakeTimetables{timetables: map[string][]Stop{"400": shuffled}}
	trains := []Train{{Number: "400", Position: stationA.Position}}

	events, err := NewEngine(ByName{}).Derive(context.Background(), trains, abcd, stationC, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Prev != "B/L.132" || events[0].Next != "D/L.1" {
		t.Fatalf("events = %+v", events)
	}
}

func TestDeriveWithPrefixTable(t *testing.T) {
	table := PrefixTable{"A": "PA", "B": "PB", "C": "PC", "D": "PD"}
	source := &fakeTimetables{timetables: map[string][]Stop{
		"500": scenarioTimetable(PassThrough, "1", "1"),
	}}
	trains := []Train{{Number: "500", Position: stationB.Position}}

	events, err := NewEngine(table).Derive(context.Background(), trains, abcd, stationC, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}

func TestDeriveFetchError(t *testing.T) {
	boom := errors.New("boom")
	source := &fakeTimetables{err: boom}
	trains := []Train{{Number: "600", Position: stationA.Position}}

	_, err := NewEngine(ByName{}).Derive(context.Background(), trains, abcd, stationC, source)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestDeriveNoStations(t *testing.T) {
	source := &fakeTimetables{}
	trains := []Train{{Number: "700"}}

	events, err := NewEngine(ByName{}).Derive(context.Background(), trains, nil, stationC, source)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 || len(source.calls) != 0 {
		t.Fatalf("events = %v, calls = %v", events, source.calls)
	}
}
