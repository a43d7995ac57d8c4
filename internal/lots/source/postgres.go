package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/pacificsands/internal/config"
	"github.com/JonMunkholm/pacificsands/internal/lots"
)

// Querier is the subset of pgx used to read lots.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads lots from a PostgreSQL table:
//
//	CREATE TABLE lots (
//	    "position"  integer PRIMARY KEY,
//	    lot_number  text NOT NULL UNIQUE,
//	    "type"      text NOT NULL,
//	    area_m2     double precision NOT NULL CHECK (area_m2 >= 0),
//	    frontage_m  double precision NOT NULL,
//	    status      text NOT NULL,
//	    "view"      text NOT NULL,
//	    elevation_m double precision NOT NULL
//	);
//
// When DB is nil a pool is opened from DSN for the duration of Fetch.
type Postgres struct {
	DSN  string
	Pool config.DatabaseConfig
	DB   Querier
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Fetch(ctx context.Context) ([]lots.Lot, error) {
	if p.DB != nil {
		return queryLots(ctx, p.DB)
	}

	poolConfig, err := pgxpool.ParseConfig(p.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if p.Pool.MaxConns > 0 {
		poolConfig.MaxConns = int32(p.Pool.MaxConns)
	}
	poolConfig.MinConns = int32(p.Pool.MinConns)
	if p.Pool.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = p.Pool.MaxConnLifetime
	}
	if p.Pool.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = p.Pool.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return queryLots(ctx, pool)
}

func queryLots(ctx context.Context, db Querier) ([]lots.Lot, error) {
	rows, err := db.Query(ctx, selectLots)
	if err != nil {
		return nil, fmt.Errorf("query lots: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[lots.Lot])
	if err != nil {
		return nil, fmt.Errorf("scan lots: %w", err)
	}
	if out == nil {
		out = []lots.Lot{}
	}
	return out, nil
}
