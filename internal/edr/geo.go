package edr

import (
	"errors"
	"math"
)

const earthRadiusKm = 6371.0

var ErrNoStationsAvailable = errors.New("no stations available")

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b Coordinate) float64 {
	φ1 := a.Lat * math.Pi / 180.0
	φ2 := b.Lat * math.Pi / 180.0
	dφ := (a.Lat - b.Lat) * math.Pi / 180.0
	dλ := (a.Lon - b.Lon) * math.Pi / 180.0
	h := math.Sin(dφ/2)*math.Sin(dφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(dλ/2)*math.Sin(dλ/2)
	// rounding can push h just past 1 near the antipode
	return earthRadiusKm * 2 * math.Asin(math.Sqrt(math.Min(1, h)))
}

// Nearest returns the station closest to pos. On an exact tie the station
// listed first wins.
func Nearest(pos Coordinate, stations []Station) (Station, float64, error) {
	if len(stations) == 0 {
		return Station{}, 0, ErrNoStationsAvailable
	}
	best := stations[0]
	bestD := Haversine(pos, best.Position)
	for _, s := range stations[1:] {
		d := Haversine(pos, s.Position)
		// strict: equal distances keep the earlier candidate
		if d < bestD {
			best, bestD = s, d
		}
	}
	return best, bestD, nil
}
