package simrail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tarediiran-industries.com/simrail-edr/internal/edr"
)

// Envelope wraps every list returned by the panel API.
type Envelope[T any] struct {
	Result      bool   `json:"result"`
	Description string `json:"description"`
	Data        []T    `json:"data"`
}

type ServerRecord struct {
	ID         string `json:"id"`
	ServerName string `json:"ServerName"`
	ServerCode string `json:"ServerCode"`
	IsActive   bool   `json:"IsActive"`
}

func (record ServerRecord) ToServer() (edr.Server, error) {
	if record.ServerCode == "" {
		return edr.Server{}, fmt.Errorf("server %q has no code", record.ServerName)
	}
	return edr.Server{
		ID:     record.ID,
		Name:   record.ServerName,
		Code:   record.ServerCode,
		Active: record.IsActive,
	}, nil
}

type DispatcherRecord struct {
	SteamId string `json:"SteamId"`
}

// StationRecord mirrors the upstream spelling of "Latititude".
type StationRecord struct {
	Name         string             `json:"Name"`
	Prefix       string             `json:"Prefix"`
	Latitude     float64            `json:"Latititude"`
	Longitude    float64            `json:"Longitude"`
	DispatchedBy []DispatcherRecord `json:"DispatchedBy"`
}

func (record StationRecord) ToStation() (edr.Station, error) {
	if record.Name == "" {
		return edr.Station{}, fmt.Errorf("station with prefix %q has no name", record.Prefix)
	}
	station := edr.Station{
		Name:     record.Name,
		Prefix:   record.Prefix,
		Position: edr.Coordinate{Lat: record.Latitude, Lon: record.Longitude},
	}
	for _, dispatcher := range record.DispatchedBy {
		if dispatcher.SteamId != "" {
			station.DispatchedBy = append(station.DispatchedBy, dispatcher.SteamId)
		}
	}
	return station, nil
}

type SteamInfoRecord struct {
	PersonaName string `json:"personaname"`
}

type SteamPlayerRecord struct {
	SteamId   string            `json:"SteamId"`
	SteamInfo []SteamInfoRecord `json:"SteamInfo"`
}

func (record SteamPlayerRecord) ToIdentity() (edr.Identity, bool) {
	if record.SteamId == "" || len(record.SteamInfo) == 0 {
		return edr.Identity{}, false
	}
	return edr.Identity{SteamID: record.SteamId, Name: record.SteamInfo[0].PersonaName}, true
}

// TrainDataRecord mirrors the upstream spellings "Latititute" and "Longitute".
type TrainDataRecord struct {
	ControlledBySteamID     *string `json:"ControlledBySteamID"`
	Latitude                float64 `json:"Latititute"`
	Longitude               float64 `json:"Longitute"`
	SignalInFront           *string `json:"SignalInFront"`
	DistanceToSignalInFront float64 `json:"DistanceToSignalInFront"`
	Velocity                float64 `json:"Velocity"`
	VDDelayedTimetableIndex *int    `json:"VDDelayedTimetableIndex"`
}

type TrainRecord struct {
	TrainNoLocal string          `json:"TrainNoLocal"`
	TrainName    string          `json:"TrainName"`
	StartStation string          `json:"StartStation"`
	EndStation   string          `json:"EndStation"`
	Vehicles     []string        `json:"Vehicles"`
	Type         string          `json:"Type"`
	TrainData    TrainDataRecord `json:"TrainData"`
}

func (record TrainRecord) ToTrain() (edr.Train, error) {
	if record.TrainNoLocal == "" {
		return edr.Train{}, fmt.Errorf("train %q has no number", record.TrainName)
	}
	train := edr.Train{
		Number:   record.TrainNoLocal,
		Name:     record.TrainName,
		Type:     record.Type,
		Position: edr.Coordinate{Lat: record.TrainData.Latitude, Lon: record.TrainData.Longitude},
	}
	if record.TrainData.ControlledBySteamID != nil {
		train.ControlledBy = *record.TrainData.ControlledBySteamID
	}
	return train, nil
}

// FlexString accepts a JSON string or number. Line identifiers come as
// either depending on the timetable backend.
type FlexString string

func (flex *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*flex = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*flex = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("line: %w", err)
	}
	*flex = FlexString(n.String())
	return nil
}

// StopRecord is one row of a train's static timetable.
type StopRecord struct {
	IndexOfPoint *int       `json:"indexOfPoint"`
	NameOfPoint  string     `json:"nameOfPoint"`
	Line         FlexString `json:"line"`
	PlannedStop  *int       `json:"plannedStop"`
	StopType     *string    `json:"stopType"`
	Platform     *string    `json:"platform"`
	Track        *int       `json:"track"`

	ScheduledArrivalObject   *time.Time `json:"scheduledArrivalObject"`
	ScheduledDepartureObject *time.Time `json:"scheduledDepartureObject"`
	ScheduledArrivalHour     *string    `json:"scheduled_arrival_hour"`
	ScheduledDepartureHour   *string    `json:"scheduled_departure_hour"`

	ActualArrivalTime     *string    `json:"actualArrivalTime"`
	ActualArrivalObject   *time.Time `json:"actualArrivalObject"`
	ActualDepartureTime   *string    `json:"actualDepartureTime"`
	ActualDepartureObject *time.Time `json:"actualDepartureObject"`
}

// ToStop validates the row. position is used as the index when the row does
// not carry one; day anchors bare HH:MM clock times.
func (record StopRecord) ToStop(position int, day time.Time) (edr.Stop, error) {
	if record.NameOfPoint == "" {
		return edr.Stop{}, fmt.Errorf("row %d has no station name", position)
	}
	stop := edr.Stop{
		Index:    position,
		Station:  record.NameOfPoint,
		Line:     string(record.Line),
		Kind:     record.kind(),
		Platform: record.Platform,
		Track:    record.Track,
	}
	if record.IndexOfPoint != nil {
		stop.Index = *record.IndexOfPoint
	}

	arrival, hasArrival, err := pickTime(record.ScheduledArrivalObject, record.ScheduledArrivalHour, day)
	if err != nil {
		return edr.Stop{}, fmt.Errorf("row %d (%s) arrival: %w", position, record.NameOfPoint, err)
	}
	departure, hasDeparture, err := pickTime(record.ScheduledDepartureObject, record.ScheduledDepartureHour, day)
	if err != nil {
		return edr.Stop{}, fmt.Errorf("row %d (%s) departure: %w", position, record.NameOfPoint, err)
	}
	switch {
	case !hasArrival && !hasDeparture:
		return edr.Stop{}, fmt.Errorf("row %d (%s) has no scheduled time", position, record.NameOfPoint)
	case !hasArrival:
		arrival = departure
	case !hasDeparture:
		departure = arrival
	}
	stop.ScheduledArrival = arrival
	stop.ScheduledDeparture = departure

	// the *Time string is the presence flag; the object carries the value
	if present(record.ActualArrivalTime) {
		if t, ok, err := pickTime(record.ActualArrivalObject, record.ActualArrivalTime, day); err == nil && ok {
			stop.ActualArrival = &t
		}
	}
	if present(record.ActualDepartureTime) {
		if t, ok, err := pickTime(record.ActualDepartureObject, record.ActualDepartureTime, day); err == nil && ok {
			stop.ActualDeparture = &t
		}
	}
	return stop, nil
}

func (record StopRecord) kind() edr.StopKind {
	if record.PlannedStop != nil {
		if *record.PlannedStop > 0 {
			return edr.PlatformStop
		}
		return edr.PassThrough
	}
	if record.StopType != nil {
		switch strings.TrimSpace(*record.StopType) {
		case "", "NoStopOver", "0":
			return edr.PassThrough
		default:
			return edr.PlatformStop
		}
	}
	return edr.PassThrough
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func pickTime(object *time.Time, clock *string, day time.Time) (time.Time, bool, error) {
	if object != nil && !object.IsZero() {
		return *object, true, nil
	}
	if clock == nil || strings.TrimSpace(*clock) == "" {
		return time.Time{}, false, nil
	}
	t, err := ParseClock(*clock, day)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// ParseClock reads "15:04" or "15:04:05" on the date of day, in day's location.
func ParseClock(clock string, day time.Time) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	var parsed time.Time
	var err error
	for _, layout := range []string{"15:04:05", "15:04"} {
		parsed, err = time.Parse(layout, clock)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("clock %q: %w", clock, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, day.Location()), nil
}
