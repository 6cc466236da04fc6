// Package prefixes loads the station name to prefix table used by the
// prefix resolver.
package prefixes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"tarediiran-industries.com/simrail-edr/internal/edr"
)

type tableFile struct {
	Stations map[string]string `toml:"stations"`
}

// Load reads a prefix table from a .toml or .csv file.
func Load(path string) (edr.PrefixTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadToml(path)
	case ".csv":
		return loadCsv(path)
	default:
		return nil, fmt.Errorf("prefix table %s: unsupported extension", path)
	}
}

func loadToml(path string) (edr.PrefixTable, error) {
	var file tableFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	table := make(edr.PrefixTable, len(file.Stations))
	for name, prefix := range file.Stations {
		if err := add(table, name, prefix); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return table, nil
}

func ReadCSVAsMapSlice(filePath string) ([]map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		record := make(map[string]string, len(headers))
		for i, header := range headers {
			record[strings.TrimSpace(header)] = row[i]
		}
		records = append(records, record)
	}
	return records, nil
}

func loadCsv(path string) (edr.PrefixTable, error) {
	records, err := ReadCSVAsMapSlice(path)
	if err != nil {
		return nil, fmt.Errorf("ReadCSVAsMapSlice: %w", err)
	}
	table := make(edr.PrefixTable, len(records))
	for i, record := range records {
		name, hasName := record["name"]
		prefix, hasPrefix := record["prefix"]
		if !hasName || !hasPrefix {
			return nil, fmt.Errorf("%s: header must contain name and prefix", path)
		}
		if err := add(table, name, prefix); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
	}
	return table, nil
}

func add(table edr.PrefixTable, name, prefix string) error {
	name = strings.TrimSpace(name)
	prefix = strings.TrimSpace(prefix)
	if name == "" || prefix == "" {
		return fmt.Errorf("empty name or prefix (%q = %q)", name, prefix)
	}
	if existing, ok := table[name]; ok && existing != prefix {
		return fmt.Errorf("station %q mapped to both %q and %q", name, existing, prefix)
	}
	table[name] = prefix
	return nil
}

// FromStations builds a table from the live station directory. Stations
// without a prefix are left out.
func FromStations(stations []edr.Station) edr.PrefixTable {
	table := make(edr.PrefixTable, len(stations))
	for _, station := range stations {
		if station.Name != "" && station.Prefix != "" {
			table[station.Name] = station.Prefix
		}
	}
	return table
}

// Resolver picks the matching strategy named by the resolver config key.
func Resolver(kind string, table edr.PrefixTable) (edr.NameResolver, error) {
	switch kind {
	case "", "name":
		return edr.ByName{}, nil
	case "prefix":
		if table == nil {
			return nil, fmt.Errorf("prefix resolver needs a table")
		}
		return table, nil
	default:
		return nil, fmt.Errorf("unknown resolver %q", kind)
	}
}

// FromConfig loads path (if any) and returns the configured resolver.
func FromConfig(kind, path string) (edr.NameResolver, error) {
	var table edr.PrefixTable
	if path != "" {
		var err error
		table, err = Load(path)
		if err != nil {
			return nil, err
		}
	}
	return Resolver(kind, table)
}
