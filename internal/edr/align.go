package edr

import "slices"

// Alignment holds the timetable positions of a train's anchor station and
// of the dispatch station.
type Alignment struct {
	Anchor int
	Target int
}

// Reached reports whether the train has not yet passed the dispatch station.
func (a Alignment) Reached() bool {
	return a.Anchor <= a.Target
}

// OrderTimetable puts rows in schedule order. Rows with equal indexes keep
// the order the source delivered them in.
func OrderTimetable(timetable []Stop) {
	slices.SortStableFunc(timetable, func(a, b Stop) int {
		return a.Index - b.Index
	})
}

// Align locates the anchor and target stations in timetable. The second
// return value is false when either cannot be found.
func Align(timetable []Stop, anchor, target string, resolver NameResolver) (Alignment, bool) {
	anchorKey, ok := resolver.Resolve(anchor)
	if !ok {
		return Alignment{}, false
	}
	targetKey, ok := resolver.Resolve(target)
	if !ok {
		return Alignment{}, false
	}

	a := Alignment{Anchor: -1, Target: -1}
	for i, stop := range timetable {
		key, ok := resolver.Resolve(stop.Station)
		if !ok {
			continue
		}
		if a.Anchor < 0 && key == anchorKey {
			a.Anchor = i
		}
		if a.Target < 0 && key == targetKey {
			a.Target = i
		}
		if a.Anchor >= 0 && a.Target >= 0 {
			return a, true
		}
	}
	return Alignment{}, false
}
