package edr

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func trainsOf(events []Event) []string {
	out := make([]string, len(events))
	for i, event := range events {
		out[i] = event.Train
	}
	return out
}

func TestSortEventsByEffectiveTime(t *testing.T) {
	events := []Event{
		{Train: "late actual", PlannedTime: clock(10, 0), Time: ptr(clock(10, 30))},
		{Train: "planned only", PlannedTime: clock(10, 10)},
		{Train: "early actual", PlannedTime: clock(10, 20), Time: ptr(clock(9, 55))},
	}
	SortEvents(events)

	want := []string{"early actual", "planned only", "late actual"}
	if diff := cmp.Diff(want, trainsOf(events)); diff != "" {
		t.Fatalf("order diff: %s", diff)
	}
}

func TestSortEventsStableOnTies(t *testing.T) {
	events := []Event{
		{Train: "first", PlannedTime: clock(10, 5)},
		{Train: "earlier", PlannedTime: clock(10, 0)},
		{Train: "second", PlannedTime: clock(10, 5)},
		{Train: "third", PlannedTime: clock(10, 10), Time: ptr(clock(10, 5))},
	}
	SortEvents(events)

	want := []string{"earlier", "first", "second", "third"}
	if diff := cmp.Diff(want, trainsOf(events)); diff != "" {
		t.Fatalf("order diff: %s", diff)
	}
}

func TestSortEventsIdempotent(t *testing.T) {
	events := []Event{
		{Train: "a", PlannedTime: clock(9, 0)},
		{Train: "b", PlannedTime: clock(9, 1)},
		{Train: "c", PlannedTime: clock(9, 2)},
	}
	before := append([]Event(nil), events...)
	SortEvents(events)
	if diff := cmp.Diff(before, events); diff != "" {
		t.Fatalf("sorted input changed: %s", diff)
	}
}

func TestEventClock(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{name: "planned", event: Event{PlannedTime: clock(7, 4)}, want: "07:04"},
		{name: "on time", event: Event{PlannedTime: clock(7, 4), Time: ptr(clock(7, 4))}, want: "07:04"},
		{name: "late", event: Event{PlannedTime: clock(7, 4), Time: ptr(clock(7, 9))}, want: "07:09 +5"},
		{name: "early", event: Event{PlannedTime: clock(7, 4), Time: ptr(clock(7, 2))}, want: "07:02 -2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Clock(); got != tt.want {
				t.Fatalf("Clock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEventDelay(t *testing.T) {
	event := Event{PlannedTime: clock(12, 0)}
	if event.Delay() != 0 {
		t.Fatalf("delay without actual = %s", event.Delay())
	}
	event.Time = ptr(clock(12, 3))
	if event.Delay() != 3*time.Minute {
		t.Fatalf("delay = %s, want 3m", event.Delay())
	}
}

func TestEventKindTag(t *testing.T) {
	for kind, want := range map[EventKind]string{Passing: "", Entering: "IN", Departing: "OUT"} {
		if got := kind.Tag(); got != want {
			t.Errorf("%s.Tag() = %q, want %q", kind, got, want)
		}
	}
}
