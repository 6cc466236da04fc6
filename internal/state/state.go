// Package state holds the navigation state machine behind the dashboard and
// performs the per-step data refresh.
package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tarediiran-industries.com/simrail-edr/internal/common"
	"tarediiran-industries.com/simrail-edr/internal/edr"
	"tarediiran-industries.com/simrail-edr/internal/simrail"
)

var ErrMissingSelection = errors.New("no station selected")

type Step int

const (
	ServerSelection Step = iota
	StationSelection
	Dispatch
)

func (step Step) String() string {
	switch step {
	case StationSelection:
		return "StationSelection"
	case Dispatch:
		return "Dispatch"
	default:
		return "ServerSelection"
	}
}

// Flags are returned by every transition. The driving loop honors them
// independently: a redraw never implies a refetch.
type Flags struct {
	Refresh bool
	Redraw  bool
}

type Source interface {
	Servers(ctx context.Context) ([]edr.Server, error)
	Stations(ctx context.Context, serverCode string) ([]edr.Station, error)
	Identities(ctx context.Context, steamIDs []string) ([]edr.Identity, error)
	Trains(ctx context.Context, serverCode string) ([]edr.Train, error)
	Timetable(ctx context.Context, serverCode, trainNumber string) ([]edr.Stop, error)
}

// State is owned by a single goroutine. Refresh and the transitions must
// never run concurrently.
type State struct {
	Step Step

	Servers        []edr.Server
	ServerIndex    int
	SelectedServer string

	Stations        []edr.Station
	StationIndex    int
	SelectedStation *edr.Station

	Players []edr.Identity
	Trains  []edr.Train
	Events  []edr.Event

	SnapshotID  uuid.UUID
	RefreshedAt time.Time

	// Metrics is optional.
	Metrics *common.Metrics

	source Source
	engine *edr.Engine
	now    func() time.Time
}

// New fetches the server directory once and starts at server selection.
func New(ctx context.Context, source Source, engine *edr.Engine) (*State, error) {
	if engine == nil {
		engine = edr.NewEngine(nil)
	}
	state := &State{
		source: source,
		engine: engine,
		now:    time.Now,
	}
	if err := state.Refresh(ctx); err != nil {
		return nil, err
	}
	return state, nil
}

func (state *State) Select() Flags {
	switch state.Step {
	case ServerSelection:
		if len(state.Servers) == 0 {
			return Flags{}
		}
		state.SelectedServer = state.Servers[state.ServerIndex].Code
		state.Stations = nil
		state.StationIndex = 0
		state.Step = StationSelection
		return Flags{Refresh: true, Redraw: true}
	case StationSelection:
		if len(state.Stations) == 0 {
			return Flags{}
		}
		station := state.Stations[state.StationIndex]
		state.SelectedStation = &station
		state.Events = nil
		state.Step = Dispatch
		return Flags{Refresh: true, Redraw: true}
	default:
		return Flags{}
	}
}

// Back keeps the previously fetched lists; only a redraw is needed.
func (state *State) Back() Flags {
	switch state.Step {
	case Dispatch:
		state.Step = StationSelection
		return Flags{Redraw: true}
	case StationSelection:
		state.Step = ServerSelection
		return Flags{Redraw: true}
	default:
		return Flags{}
	}
}

// Cursor moves the active list's selection, wrapping at both ends.
func (state *State) Cursor(delta int) Flags {
	switch state.Step {
	case ServerSelection:
		if len(state.Servers) == 0 {
			return Flags{}
		}
		state.ServerIndex = wrap(state.ServerIndex+delta, len(state.Servers))
		return Flags{Redraw: true}
	case StationSelection:
		if len(state.Stations) == 0 {
			return Flags{}
		}
		state.StationIndex = wrap(state.StationIndex+delta, len(state.Stations))
		return Flags{Redraw: true}
	default:
		return Flags{}
	}
}

func wrap(index, length int) int {
	return ((index % length) + length) % length
}

// Refresh refetches the data for the current step. On error nothing is
// committed and the previous data stays visible.
func (state *State) Refresh(ctx context.Context) error {
	bench := common.NewBenchmarker("refresh " + state.Step.String())
	defer bench.Close()

	var err error
	switch state.Step {
	case ServerSelection:
		err = state.refreshServers(ctx)
	case StationSelection:
		err = state.refreshStations(ctx)
	case Dispatch:
		err = state.refreshDispatch(ctx)
	}
	if err != nil {
		return err
	}

	state.SnapshotID = uuid.New()
	state.RefreshedAt = state.now()
	if state.Metrics != nil {
		state.Metrics.RefreshSeconds.WithLabelValues(state.Step.String()).Observe(bench.Elapsed().Seconds())
	}
	return nil
}

func (state *State) refreshServers(ctx context.Context) error {
	servers, err := state.source.Servers(ctx)
	if err != nil {
		return fmt.Errorf("servers: %w", err)
	}
	state.Servers = servers
	state.ServerIndex = clampIndex(state.ServerIndex, len(servers))
	return nil
}

func (state *State) refreshStations(ctx context.Context) error {
	stations, err := state.source.Stations(ctx, state.SelectedServer)
	if err != nil {
		return fmt.Errorf("stations %s: %w", state.SelectedServer, err)
	}
	edr.SortStations(stations)

	var steamIDs []string
	for _, station := range stations {
		steamIDs = append(steamIDs, station.DispatchedBy...)
	}
	var players []edr.Identity
	if len(steamIDs) > 0 {
		players, err = state.source.Identities(ctx, steamIDs)
		if err != nil {
			return fmt.Errorf("identities: %w", err)
		}
	}

	state.Stations = stations
	state.StationIndex = clampIndex(state.StationIndex, len(stations))
	state.Players = players
	return nil
}

func (state *State) refreshDispatch(ctx context.Context) error {
	if state.SelectedStation == nil {
		return ErrMissingSelection
	}
	trains, err := state.source.Trains(ctx, state.SelectedServer)
	if err != nil {
		return fmt.Errorf("trains %s: %w", state.SelectedServer, err)
	}
	events, err := state.engine.Derive(ctx, trains, state.Stations, *state.SelectedStation, simrail.Bind(state.source, state.SelectedServer))
	if err != nil {
		return err
	}
	edr.SortEvents(events)

	zap.S().Debugw("dispatch refreshed",
		"server", state.SelectedServer,
		"station", state.SelectedStation.Name,
		"trains", len(trains),
		"events", len(events),
	)
	if state.Metrics != nil {
		state.Metrics.EventsDerived.Set(float64(len(events)))
	}
	state.Trains = trains
	state.Events = events
	return nil
}

func clampIndex(index, length int) int {
	if index >= length || index < 0 {
		return 0
	}
	return index
}

// PlayerName looks up the display name of a steam id among the identities
// fetched with the station list.
func (state *State) PlayerName(steamID string) (string, bool) {
	for _, player := range state.Players {
		if player.SteamID == steamID {
			return player.Name, true
		}
	}
	return "", false
}

// SortedEvents sorts the event collection in place by effective time.
func (state *State) SortedEvents() []edr.Event {
	edr.SortEvents(state.Events)
	return state.Events
}

// Title is the dispatch view heading.
func (state *State) Title() string {
	if state.SelectedStation == nil {
		return fmt.Sprintf(" %s ", state.SelectedServer)
	}
	return fmt.Sprintf(" %s/%s ", state.SelectedServer, state.SelectedStation.Name)
}

var ErrUnknownStation = errors.New("unknown station")

// Open starts at station selection for serverCode with the station list
// already fetched.
func Open(ctx context.Context, source Source, engine *edr.Engine, serverCode string) (*State, error) {
	if engine == nil {
		engine = edr.NewEngine(nil)
	}
	state := &State{
		Step:           StationSelection,
		SelectedServer: serverCode,
		source:         source,
		engine:         engine,
		now:            time.Now,
	}
	if err := state.Refresh(ctx); err != nil {
		return nil, err
	}
	return state, nil
}

// SelectStation moves the station cursor to the station named name and
// selects it.
func (state *State) SelectStation(name string) (Flags, error) {
	if state.Step != StationSelection {
		return Flags{}, fmt.Errorf("select station in step %s", state.Step)
	}
	for i, station := range state.Stations {
		if station.Name == name {
			state.StationIndex = i
			return state.Select(), nil
		}
	}
	return Flags{}, fmt.Errorf("%w: %q on %s", ErrUnknownStation, name, state.SelectedServer)
}

// Lookup runs the whole navigation for one station and returns the state
// with its events derived.
func Lookup(ctx context.Context, source Source, engine *edr.Engine, serverCode, stationName string) (*State, error) {
	state, err := Open(ctx, source, engine, serverCode)
	if err != nil {
		return nil, err
	}
	if _, err := state.SelectStation(stationName); err != nil {
		return nil, err
	}
	if err := state.Refresh(ctx); err != nil {
		return nil, err
	}
	return state, nil
}
