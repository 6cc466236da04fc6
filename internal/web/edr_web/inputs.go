package edr_web

import (
	"net/url"
	"strconv"
	"strings"
)

type EventsQuery struct {
	Format string // "", "json" for the feed endpoint
	Poll   int    // seconds between partial reloads, 0 for the default
}

func ParseEventsQuery(values url.Values) EventsQuery {
	query := EventsQuery{
		Format: strings.ToLower(strings.TrimSpace(values.Get("format"))),
	}
	if poll, err := strconv.Atoi(values.Get("poll")); err == nil && poll > 0 {
		query.Poll = poll
	}
	return query
}

// StreamID names the SSE stream carrying one station's events.
func StreamID(serverCode, stationName string) string {
	return serverCode + "/" + stationName
}
