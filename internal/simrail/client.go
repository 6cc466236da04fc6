package simrail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	resty "gopkg.in/resty.v1"

	"tarediiran-industries.com/simrail-edr/internal/common"
	"tarediiran-industries.com/simrail-edr/internal/edr"
)

var ErrNetwork = errors.New("network failure")

// FetchError is any transport, status or decode failure talking to an
// external endpoint. It matches ErrNetwork with errors.Is.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrNetwork
}

type Options struct {
	PanelUrl     string
	TimetableUrl string
	Timeout      time.Duration
	Metrics      *common.Metrics
}

type Client struct {
	panel     *resty.Client
	timetable *resty.Client
	metrics   *common.Metrics

	// now anchors bare clock times in timetables
	now func() time.Time
}

func newRestClient(baseUrl string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetHostURL(strings.TrimRight(baseUrl, "/")).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}

func NewClient(opts Options) *Client {
	return &Client{
		panel:     newRestClient(opts.PanelUrl, opts.Timeout),
		timetable: newRestClient(opts.TimetableUrl, opts.Timeout),
		metrics:   opts.Metrics,
		now:       time.Now,
	}
}

func (client *Client) get(ctx context.Context, rest *resty.Client, endpoint, path string, query map[string]string, out any) error {
	request := rest.R().SetContext(ctx)
	if len(query) > 0 {
		request.SetQueryParams(query)
	}

	resp, err := request.Get(path)
	if err != nil {
		return client.fail(endpoint, err)
	}
	if client.metrics != nil {
		client.metrics.HttpRequestSeconds.WithLabelValues(endpoint).Observe(resp.Time().Seconds())
		client.metrics.HttpBytesTotal.WithLabelValues(endpoint).Add(float64(len(resp.Body())))
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return client.fail(endpoint, fmt.Errorf("status %d", resp.StatusCode()))
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return client.fail(endpoint, fmt.Errorf("decode: %w", err))
	}
	return nil
}

func (client *Client) fail(endpoint string, err error) error {
	if client.metrics != nil {
		client.metrics.HttpErrorsTotal.WithLabelValues(endpoint).Inc()
	}
	zap.S().Warnw("fetch failed", "endpoint", endpoint, "error", err)
	return &FetchError{Endpoint: endpoint, Err: err}
}

func getList[T any](ctx context.Context, client *Client, endpoint, path string, query map[string]string) ([]T, error) {
	var envelope Envelope[T]
	if err := client.get(ctx, client.panel, endpoint, path, query, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Result {
		return nil, client.fail(endpoint, fmt.Errorf("result=false: %s", envelope.Description))
	}
	return envelope.Data, nil
}

func (client *Client) Servers(ctx context.Context) ([]edr.Server, error) {
	records, err := getList[ServerRecord](ctx, client, "servers", "/servers-open", nil)
	if err != nil {
		return nil, err
	}
	servers := make([]edr.Server, 0, len(records))
	for _, record := range records {
		server, err := record.ToServer()
		if err != nil {
			return nil, client.fail("servers", err)
		}
		servers = append(servers, server)
	}
	return servers, nil
}

func (client *Client) Stations(ctx context.Context, serverCode string) ([]edr.Station, error) {
	records, err := getList[StationRecord](ctx, client, "stations", "/stations-open", map[string]string{"serverCode": serverCode})
	if err != nil {
		return nil, err
	}
	stations := make([]edr.Station, 0, len(records))
	for _, record := range records {
		station, err := record.ToStation()
		if err != nil {
			return nil, client.fail("stations", err)
		}
		stations = append(stations, station)
	}
	return stations, nil
}

// Identities resolves steam ids to display names. No request is made for an
// empty id list.
func (client *Client) Identities(ctx context.Context, steamIDs []string) ([]edr.Identity, error) {
	if len(steamIDs) == 0 {
		return nil, nil
	}
	escaped := make([]string, len(steamIDs))
	for i, id := range steamIDs {
		escaped[i] = url.PathEscape(id)
	}
	path := "/users-open/" + strings.Join(escaped, ",")
	records, err := getList[SteamPlayerRecord](ctx, client, "users", path, nil)
	if err != nil {
		return nil, err
	}
	identities := make([]edr.Identity, 0, len(records))
	for _, record := range records {
		if identity, ok := record.ToIdentity(); ok {
			identities = append(identities, identity)
		}
	}
	return identities, nil
}

func (client *Client) Trains(ctx context.Context, serverCode string) ([]edr.Train, error) {
	records, err := getList[TrainRecord](ctx, client, "trains", "/trains-open", map[string]string{"serverCode": serverCode})
	if err != nil {
		return nil, err
	}
	trains := make([]edr.Train, 0, len(records))
	for _, record := range records {
		train, err := record.ToTrain()
		if err != nil {
			return nil, client.fail("trains", err)
		}
		trains = append(trains, train)
	}
	return trains, nil
}

// Timetable returns the rows in the order the source delivered them.
func (client *Client) Timetable(ctx context.Context, serverCode, trainNumber string) ([]edr.Stop, error) {
	var records []StopRecord
	path := fmt.Sprintf("/train/%s/%s", url.PathEscape(serverCode), url.PathEscape(trainNumber))
	if err := client.get(ctx, client.timetable, "timetable", path, nil, &records); err != nil {
		return nil, err
	}
	day := client.now()
	timetable := make([]edr.Stop, 0, len(records))
	for i, record := range records {
		stop, err := record.ToStop(i, day)
		if err != nil {
			return nil, client.fail("timetable", fmt.Errorf("train %s: %w", trainNumber, err))
		}
		timetable = append(timetable, stop)
	}
	return timetable, nil
}
