package edr_web

import (
	"net/url"
	"strings"
	"time"

	"tarediiran-industries.com/simrail-edr/internal/edr"
	"tarediiran-industries.com/simrail-edr/internal/state"
)

func stationPath(serverCode, stationName string) string {
	return "/servers/" + url.PathEscape(serverCode) + "/stations/" + url.PathEscape(stationName)
}

func BuildServersPageVM(servers []edr.Server) ServersPageVM {
	rows := make([]ServerRowVM, 0, len(servers))
	for _, server := range servers {
		rows = append(rows, ServerRowVM{
			Code:   server.Code,
			Name:   server.Name,
			Active: server.Active,
			Href:   "/servers/" + url.PathEscape(server.Code) + "/stations",
		})
	}
	return ServersPageVM{Servers: rows}
}

func BuildStationsPageVM(st *state.State) StationsPageVM {
	rows := make([]StationRowVM, 0, len(st.Stations))
	for _, station := range st.Stations {
		names := make([]string, 0, len(station.DispatchedBy))
		for _, id := range station.DispatchedBy {
			if name, ok := st.PlayerName(id); ok {
				names = append(names, name)
			} else {
				names = append(names, id)
			}
		}
		rows = append(rows, StationRowVM{
			Prefix:      station.Prefix,
			Name:        station.Name,
			Dispatchers: strings.Join(names, "/"),
			Dispatched:  station.Dispatched(),
			Href:        stationPath(st.SelectedServer, station.Name) + "/events",
		})
	}
	return StationsPageVM{Server: st.SelectedServer, Stations: rows}
}

func BuildEventRows(events []edr.Event) []EventRowVM {
	rows := make([]EventRowVM, 0, len(events))
	for _, event := range events {
		rows = append(rows, EventRowVM{
			Player:       event.Player,
			Train:        event.Train,
			TrainNumber:  event.TrainNumber,
			Kind:         event.Kind.String(),
			Tag:          event.Kind.Tag(),
			Clock:        event.Clock(),
			Planned:      event.PlannedTime.Format("15:04"),
			DelayMinutes: int(event.Delay().Round(time.Minute) / time.Minute),
			Known:        event.Time != nil,
			From:         event.Prev,
			To:           event.Next,
		})
	}
	return rows
}

func BuildEventsTableVM(st *state.State) EventsTableVM {
	return EventsTableVM{
		Title:      strings.TrimSpace(st.Title()),
		UpdatedAt:  st.RefreshedAt.Format("15:04:05"),
		SnapshotID: st.SnapshotID.String(),
		Rows:       BuildEventRows(st.SortedEvents()),
	}
}

func BuildEventsMessage(st *state.State) EventsMessage {
	message := EventsMessage{
		Server:     st.SelectedServer,
		SnapshotID: st.SnapshotID.String(),
		UpdatedAt:  st.RefreshedAt.Format(time.RFC3339),
		Events:     BuildEventRows(st.SortedEvents()),
	}
	if st.SelectedStation != nil {
		message.Station = st.SelectedStation.Name
	}
	return message
}

func BuildEventsPageVM(st *state.State, pollSeconds int) EventsPageVM {
	if pollSeconds <= 0 {
		pollSeconds = 5
	}
	path := stationPath(st.SelectedServer, st.SelectedStation.Name)
	return EventsPageVM{
		Server:       st.SelectedServer,
		Station:      st.SelectedStation.Name,
		PartialHref:  path + "/events/partial",
		StreamHref:   "/stream?stream=" + url.QueryEscape(StreamID(st.SelectedServer, st.SelectedStation.Name)),
		FeedHref:     path + "/feed",
		PollSeconds:  pollSeconds,
		InitialTable: BuildEventsTableVM(st),
	}
}
