package lots

import "context"

// Source supplies the lot collection. Implementations live in package source.
type Source interface {
	// Name describes the source for logs, e.g. "file:data/lots.json".
	Name() string
	// Fetch returns the full collection in source order. An empty collection
	// must be returned as a non-nil empty slice.
	Fetch(ctx context.Context) ([]Lot, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) ([]Lot, error)

func (f SourceFunc) Name() string { return "func" }

func (f SourceFunc) Fetch(ctx context.Context) ([]Lot, error) { return f(ctx) }

// StaticSource serves a fixed collection. Useful for tests and fixtures.
type StaticSource []Lot

func (s StaticSource) Name() string { return "static" }

func (s StaticSource) Fetch(context.Context) ([]Lot, error) {
	out := make([]Lot, len(s))
	copy(out, s)
	return out, nil
}
