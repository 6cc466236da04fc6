package edr_web

type ServersPageVM struct {
	Servers []ServerRowVM
}

type ServerRowVM struct {
	Code   string
	Name   string
	Active bool
	Href   string
}

type StationsPageVM struct {
	Server   string
	Stations []StationRowVM
}

type StationRowVM struct {
	Prefix      string
	Name        string
	Dispatchers string
	Dispatched  bool
	Href        string
}

type EventsPageVM struct {
	Server       string
	Station      string
	PartialHref  string
	StreamHref   string
	FeedHref     string
	PollSeconds  int
	InitialTable EventsTableVM
}

type EventsTableVM struct {
	Title      string
	UpdatedAt  string
	SnapshotID string
	Rows       []EventRowVM
}

// EventRowVM is also the JSON shape sent on the event stream.
type EventRowVM struct {
	Player       bool   `json:"player"`
	Train        string `json:"train"`
	TrainNumber  string `json:"train_number"`
	Kind         string `json:"kind"`
	Tag          string `json:"tag"`
	Clock        string `json:"clock"`
	Planned      string `json:"planned"`
	DelayMinutes int    `json:"delay_minutes"`
	Known        bool   `json:"actual_known"`
	From         string `json:"from"`
	To           string `json:"to"`
}

type EventsMessage struct {
	Server     string       `json:"server"`
	Station    string       `json:"station"`
	SnapshotID string       `json:"snapshot_id"`
	UpdatedAt  string       `json:"updated_at"`
	Events     []EventRowVM `json:"events"`
}
