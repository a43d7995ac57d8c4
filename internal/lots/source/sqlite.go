package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/JonMunkholm/pacificsands/internal/lots"
)

// SQLite reads lots from a SQLite database with the same lots table layout
// as Postgres.
type SQLite struct {
	Path string
}

func (s *SQLite) Name() string { return "sqlite:" + s.Path }

func (s *SQLite) Fetch(ctx context.Context) ([]lots.Lot, error) {
	if strings.TrimSpace(s.Path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := sql.Open("sqlite", filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, selectLots)
	if err != nil {
		return nil, fmt.Errorf("query lots: %w", err)
	}
	defer rows.Close()

	out := []lots.Lot{}
	for rows.Next() {
		var l lots.Lot
		if err := rows.Scan(&l.LotNumber, &l.Type, &l.AreaM2, &l.FrontageM, &l.Status, &l.View, &l.ElevationM); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lots: %w", err)
	}
	return out, nil
}
