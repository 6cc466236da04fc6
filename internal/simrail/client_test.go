package simrail

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tarediiran-industries.com/simrail-edr/internal/edr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Options{PanelUrl: server.URL, TimetableUrl: server.URL, Timeout: 2 * time.Second})
	client.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return client
}

func TestServers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/servers-open", r.URL.Path)
		w.Write([]byte(`{"result":true,"description":"","data":[
			{"id":"1","ServerName":"EN1 (English)","ServerCode":"en1","IsActive":true},
			{"id":"2","ServerName":"PL2","ServerCode":"pl2","IsActive":false}]}`))
	})

	servers, err := client.Servers(context.Background())
	require.NoError(t, err)
	require.Equal(t, []edr.Server{
		{ID: "1", Name: "EN1 (English)", Code: "en1", Active: true},
		{ID: "2", Name: "PL2", Code: "pl2", Active: false},
	}, servers)
}

func TestStationsSendsServerCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stations-open", r.URL.Path)
		require.Equal(t, "en1", r.URL.Query().Get("serverCode"))
		w.Write([]byte(`{"result":true,"data":[
			{"Name":"Katowice","Prefix":"KO","Latititude":50.26,"Longitude":19.02,"DispatchedBy":[{"SteamId":"765"}]},
			{"Name":"Sosnowiec Główny","Prefix":"SG","Latititude":50.27,"Longitude":19.12,"DispatchedBy":[]}]}`))
	})

	stations, err := client.Stations(context.Background(), "en1")
	require.NoError(t, err)
	require.Len(t, stations, 2)
	require.Equal(t, "Katowice", stations[0].Name)
	require.Equal(t, edr.Coordinate{Lat: 50.26, Lon: 19.02}, stations[0].Position)
	require.Equal(t, []string{"765"}, stations[0].DispatchedBy)
	require.False(t, stations[1].Dispatched())
}

func TestIdentitiesEmptyMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	identities, err := client.Identities(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, identities)
	require.Zero(t, calls.Load())
}

func TestIdentitiesJoinsIds(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users-open/1,2", r.URL.Path)
		w.Write([]byte(`{"result":true,"data":[
			{"SteamId":"1","SteamInfo":[{"personaname":"alice"}]},
			{"SteamId":"2","SteamInfo":[]}]}`))
	})

	identities, err := client.Identities(context.Background(), []string{"1", "2"})
	require.NoError(t, err)
	require.Equal(t, []edr.Identity{{SteamID: "1", Name: "alice"}}, identities)
}

func TestTrains(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trains-open", r.URL.Path)
		w.Write([]byte(`{"result":true,"data":[
			{"TrainNoLocal":"14120","TrainName":"ROJ","Type":"user",
			 "TrainData":{"ControlledBySteamID":"765","Latititute":50.1,"Longitute":19.5}},
			{"TrainNoLocal":"3420","TrainName":"EIP","Type":"bot",
			 "TrainData":{"ControlledBySteamID":null,"Latititute":50.2,"Longitute":19.6}}]}`))
	})

	trains, err := client.Trains(context.Background(), "en1")
	require.NoError(t, err)
	require.Equal(t, []edr.Train{
		{Number: "14120", Name: "ROJ", Type: "user", ControlledBy: "765", Position: edr.Coordinate{Lat: 50.1, Lon: 19.5}},
		{Number: "3420", Name: "EIP", Type: "bot", Position: edr.Coordinate{Lat: 50.2, Lon: 19.6}},
	}, trains)
}

func TestTimetable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/train/en1/14120", r.URL.Path)
		w.Write([]byte(`[
			{"indexOfPoint":1,"nameOfPoint":"Katowice","line":1,"plannedStop":1,"platform":"IV","track":2,
			 "scheduled_arrival_hour":"10:05","scheduled_departure_hour":"10:08:00"},
			{"indexOfPoint":2,"nameOfPoint":"Sosnowiec Główny","line":"133","plannedStop":0,
			 "scheduledDepartureObject":"2024-05-01T10:15:00Z",
			 "actualArrivalTime":"10:17","actualArrivalObject":"2024-05-01T10:17:00Z"}]`))
	})

	timetable, err := client.Timetable(context.Background(), "en1", "14120")
	require.NoError(t, err)
	require.Len(t, timetable, 2)

	first := timetable[0]
	require.Equal(t, "1", first.Line)
	require.Equal(t, edr.PlatformStop, first.Kind)
	require.Equal(t, time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC), first.ScheduledArrival)
	require.Equal(t, time.Date(2024, 5, 1, 10, 8, 0, 0, time.UTC), first.ScheduledDeparture)
	label, ok := first.PlatformTrack()
	require.True(t, ok)
	require.Equal(t, "IV/2", label)

	second := timetable[1]
	require.Equal(t, "133", second.Line)
	require.Equal(t, edr.PassThrough, second.Kind)
	require.Equal(t, second.ScheduledDeparture, second.ScheduledArrival)
	require.NotNil(t, second.ActualArrival)
	require.Equal(t, time.Date(2024, 5, 1, 10, 17, 0, 0, time.UTC), *second.ActualArrival)
	require.Nil(t, second.ActualDeparture)
}

func TestFailuresAreNetworkErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"malformed", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":`))
		}},
		{"result false", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":false,"description":"maintenance","data":[]}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Servers(context.Background())
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrNetwork))

			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr))
			require.Equal(t, "servers", fetchErr.Endpoint)
		})
	}
}
