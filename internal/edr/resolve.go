package edr

// NameResolver maps a raw station name, as reported by the geolocation step
// or by a timetable row, to the key used for matching. A name without a
// mapping never matches anything.
type NameResolver interface {
	Resolve(name string) (string, bool)
}

// ByName matches rows on the verbatim station name.
type ByName struct{}

func (ByName) Resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return name, true
}

// PrefixTable matches rows on a canonical station prefix. It must not be
// modified once handed to an Engine.
type PrefixTable map[string]string

func (table PrefixTable) Resolve(name string) (string, bool) {
	prefix, ok := table[name]
	if !ok || prefix == "" {
		return "", false
	}
	return prefix, true
}
