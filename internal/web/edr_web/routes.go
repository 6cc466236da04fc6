package edr_web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tarediiran-industries.com/simrail-edr/internal/feed"
	"tarediiran-industries.com/simrail-edr/internal/simrail"
	"tarediiran-industries.com/simrail-edr/internal/state"
)

func (server *EdrWebServer) fail(writer http.ResponseWriter, request *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, state.ErrUnknownStation):
		status = http.StatusNotFound
	case errors.Is(err, simrail.ErrNetwork):
		status = http.StatusBadGateway
	}
	zap.S().Warnw("request failed", "path", request.URL.Path, "status", status, "error", err)
	http.Error(writer, err.Error(), status)
}

func pathParam(request *http.Request, name string) (string, error) {
	value, err := url.PathUnescape(chi.URLParam(request, name))
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return value, nil
}

func (server *EdrWebServer) lookup(request *http.Request) (*state.State, error) {
	serverCode, err := pathParam(request, "server")
	if err != nil {
		return nil, err
	}
	stationName, err := pathParam(request, "station")
	if err != nil {
		return nil, err
	}
	st, err := state.Lookup(request.Context(), server.source, server.engine, serverCode, stationName)
	if err != nil {
		return nil, err
	}
	st.Metrics = server.metrics
	return st, nil
}

func (server *EdrWebServer) render(writer http.ResponseWriter, name string, viewmodel any) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := server.renderer.Render(writer, name, viewmodel); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}

func (server *EdrWebServer) handleServersPage(writer http.ResponseWriter, request *http.Request) {
	servers, err := server.source.Servers(request.Context())
	if err != nil {
		server.fail(writer, request, err)
		return
	}
	server.render(writer, "servers.html", BuildServersPageVM(servers))
}

func (server *EdrWebServer) handleStationsPage(writer http.ResponseWriter, request *http.Request) {
	serverCode, err := pathParam(request, "server")
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	st, err := state.Open(request.Context(), server.source, server.engine, serverCode)
	if err != nil {
		server.fail(writer, request, err)
		return
	}
	server.render(writer, "stations.html", BuildStationsPageVM(st))
}

func (server *EdrWebServer) handleEventsPage(writer http.ResponseWriter, request *http.Request) {
	st, err := server.lookup(request)
	if err != nil {
		server.fail(writer, request, err)
		return
	}
	query := ParseEventsQuery(request.URL.Query())
	poll := query.Poll
	if poll == 0 {
		poll = server.pollSeconds
	}
	server.render(writer, "events.html", BuildEventsPageVM(st, poll))
}

func (server *EdrWebServer) handleEventsPartial(writer http.ResponseWriter, request *http.Request) {
	st, err := server.lookup(request)
	if err != nil {
		server.fail(writer, request, err)
		return
	}
	server.render(writer, "events_table.html", BuildEventsTableVM(st))
}

func (server *EdrWebServer) handleEventsJson(writer http.ResponseWriter, request *http.Request) {
	st, err := server.lookup(request)
	if err != nil {
		server.fail(writer, request, err)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(BuildEventsMessage(st)); err != nil {
		zap.S().Warnw("encode events", "error", err)
	}
}

func (server *EdrWebServer) handleFeed(writer http.ResponseWriter, request *http.Request) {
	query := ParseEventsQuery(request.URL.Query())
	st, err := server.lookup(request)
	if err != nil {
		server.fail(writer, request, err)
		return
	}
	message := feed.Build(*st.SelectedStation, st.SortedEvents(), server.now())
	data, contentType, err := feed.Marshal(message, query.Format)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	writer.Header().Set("Content-Type", contentType)
	if _, err := writer.Write(data); err != nil {
		zap.S().Warnw("write feed", "error", err)
	}
}
