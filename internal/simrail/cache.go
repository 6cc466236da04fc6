package simrail

import (
	"context"
	"time"

	"github.com/bluele/gcache"
	"go.uber.org/zap"

	"tarediiran-industries.com/simrail-edr/internal/common"
	"tarediiran-industries.com/simrail-edr/internal/config"
	"tarediiran-industries.com/simrail-edr/internal/edr"
)

// Source is the set of external directory fetches the dashboard needs.
type Source interface {
	Servers(ctx context.Context) ([]edr.Server, error)
	Stations(ctx context.Context, serverCode string) ([]edr.Station, error)
	Identities(ctx context.Context, steamIDs []string) ([]edr.Identity, error)
	Trains(ctx context.Context, serverCode string) ([]edr.Train, error)
	Timetable(ctx context.Context, serverCode, trainNumber string) ([]edr.Stop, error)
}

// CachedClient keeps static timetables and player names between refreshes.
// Live directories (servers, stations, trains) always go upstream.
type CachedClient struct {
	Source

	timetables gcache.Cache
	identities gcache.Cache
}

func NewCachedClient(upstream Source, size int, ttl time.Duration) *CachedClient {
	if size <= 0 {
		size = 1
	}
	return &CachedClient{
		Source:     upstream,
		timetables: newLRU(size, ttl),
		identities: newLRU(size, ttl),
	}
}

// newLRU builds an LRU cache; a ttl of zero keeps entries until evicted.
func newLRU(size int, ttl time.Duration) gcache.Cache {
	builder := gcache.New(size).LRU()
	if ttl > 0 {
		builder = builder.Expiration(ttl)
	}
	return builder.Build()
}

func (cached *CachedClient) Timetable(ctx context.Context, serverCode, trainNumber string) ([]edr.Stop, error) {
	key := serverCode + "/" + trainNumber
	if value, err := cached.timetables.Get(key); err == nil {
		if timetable, ok := value.([]edr.Stop); ok {
			// callers reorder the slice, hand out a copy
			return append([]edr.Stop(nil), timetable...), nil
		}
	}

	timetable, err := cached.Source.Timetable(ctx, serverCode, trainNumber)
	if err != nil {
		return nil, err
	}
	if err := cached.timetables.Set(key, append([]edr.Stop(nil), timetable...)); err != nil {
		zap.S().Warnw("timetable cache set", "key", key, "error", err)
	}
	return timetable, nil
}

// Identities only asks upstream for ids it has not seen recently.
func (cached *CachedClient) Identities(ctx context.Context, steamIDs []string) ([]edr.Identity, error) {
	identities := make([]edr.Identity, 0, len(steamIDs))
	var missing []string
	for _, id := range steamIDs {
		if value, err := cached.identities.Get(id); err == nil {
			if identity, ok := value.(edr.Identity); ok {
				identities = append(identities, identity)
				continue
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return identities, nil
	}

	fetched, err := cached.Source.Identities(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, identity := range fetched {
		_ = cached.identities.Set(identity.SteamID, identity)
	}
	return append(identities, fetched...), nil
}

type boundTimetables struct {
	source interface {
		Timetable(ctx context.Context, serverCode, trainNumber string) ([]edr.Stop, error)
	}
	serverCode string
}

func (bound boundTimetables) Timetable(ctx context.Context, trainNumber string) ([]edr.Stop, error) {
	return bound.source.Timetable(ctx, bound.serverCode, trainNumber)
}

// Bind fixes the server code so source can feed an edr.Engine.
func Bind(source Source, serverCode string) edr.TimetableSource {
	return boundTimetables{source: source, serverCode: serverCode}
}

// FromConfig builds the cached client every binary talks to.
func FromConfig(cfg config.ConfigFile, metrics *common.Metrics) *CachedClient {
	client := NewClient(Options{
		PanelUrl:     cfg.PanelUrl,
		TimetableUrl: cfg.TimetableUrl,
		Timeout:      cfg.RequestTimeout(),
		Metrics:      metrics,
	})
	return NewCachedClient(client, cfg.TimetableCacheSize, cfg.TimetableCacheTTL())
}
