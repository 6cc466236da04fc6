package edr

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Coordinate is a WGS84 position in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

type Server struct {
	ID     string
	Name   string
	Code   string
	Active bool
}

// Station is one dispatch post as reported by the station directory.
// DispatchedBy holds the steam ids of the players currently dispatching it.
type Station struct {
	Name         string
	Prefix       string
	Position     Coordinate
	DispatchedBy []string
}

func (station Station) Dispatched() bool {
	return len(station.DispatchedBy) > 0
}

// SortStations orders stations by name, case-sensitive.
func SortStations(stations []Station) {
	slices.SortStableFunc(stations, func(a, b Station) int {
		return strings.Compare(a.Name, b.Name)
	})
}

type Train struct {
	Number       string
	Name         string
	Type         string
	ControlledBy string
	Position     Coordinate

	// Nearest is the anchor station name, set by the engine once per refresh.
	Nearest string
}

func (train Train) Label() string {
	return fmt.Sprintf("%s %s", train.Name, train.Number)
}

func (train Train) Bot() bool {
	return train.Type == "bot"
}

type StopKind int

const (
	PassThrough StopKind = iota
	PlatformStop
)

func (kind StopKind) String() string {
	switch kind {
	case PlatformStop:
		return "platform"
	default:
		return "pass-through"
	}
}

// Stop is a single timetable row. Rows are kept in schedule order.
type Stop struct {
	Index   int
	Station string
	Line    string
	Kind    StopKind

	ScheduledArrival   time.Time
	ScheduledDeparture time.Time
	ActualArrival      *time.Time
	ActualDeparture    *time.Time

	Platform *string
	Track    *int
}

// PlatformTrack returns "{platform}/{track}" when both are known.
func (stop Stop) PlatformTrack() (string, bool) {
	if stop.Platform == nil || stop.Track == nil {
		return "", false
	}
	return fmt.Sprintf("%s/%d", *stop.Platform, *stop.Track), true
}

func (stop Stop) label(line string) string {
	return fmt.Sprintf("%s/L.%s", stop.Station, line)
}

// Identity maps a steam id to the player's display name.
type Identity struct {
	SteamID string
	Name    string
}
