// Package source provides the lot data sources the controller loads from.
//
// Every source returns the full collection in source order and a non-nil
// slice for an empty collection. Sources are read once at startup, so the
// database-backed ones open their connection inside Fetch and close it
// before returning.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/pacificsands/internal/config"
	"github.com/JonMunkholm/pacificsands/internal/lots"
)

// selectLots reads the collection from a relational lots table. Identifiers
// are quoted because type, view and position are keywords in SQL dialects.
const selectLots = `SELECT lot_number, "type", area_m2, frontage_m, status, "view", elevation_m
FROM lots
ORDER BY "position", lot_number`

// New returns the source selected by cfg.Data.Source.
func New(cfg *config.Config) (lots.Source, error) {
	switch strings.ToLower(cfg.Data.Source) {
	case config.SourceFile:
		return &File{Path: cfg.Data.Path}, nil
	case config.SourceHTTP:
		return &HTTP{URL: cfg.Data.URL}, nil
	case config.SourcePostgres:
		return &Postgres{DSN: cfg.Database.URL, Pool: cfg.Database}, nil
	case config.SourceSQLite:
		return &SQLite{Path: cfg.Data.Path}, nil
	case config.SourceShapefile:
		return &Shapefile{Path: cfg.Data.Path}, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// Decode parses a lot collection. Files ending in .yaml or .yml are read as
// YAML; everything else as a JSON array.
func Decode(name string, data []byte) ([]lots.Lot, error) {
	var out []lots.Lot

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}
	if out == nil {
		return nil, fmt.Errorf("%s does not contain a lot list", name)
	}
	return out, nil
}
