package lots

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// State is the controller lifecycle state.
type State int

const (
	StateUnloaded State = iota
	StateLoaded
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "unloaded"
}

// Controller owns the loaded lot collection and the current filtered view.
// Its methods are the only way to change either. It is safe for concurrent use.
type Controller struct {
	src    Source
	logger *slog.Logger
	lang   language.Tag

	loadMu sync.Mutex // serializes Load; held across the fetch

	mu         sync.RWMutex
	state      State
	loadErr    error
	generation string
	lotsData   []Lot
	filtered   []Lot
	criteria   FilterCriteria
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLanguage sets the locale used to format numbers in rendered rows.
func WithLanguage(tag language.Tag) Option {
	return func(c *Controller) { c.lang = tag }
}

// NewController returns an unloaded controller reading from src.
func NewController(src Source, opts ...Option) *Controller {
	c := &Controller{
		src:      src,
		logger:   slog.Default(),
		lang:     language.English,
		lotsData: []Lot{},
		filtered: []Lot{},
		criteria: DefaultCriteria(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the collection from the source. On success the view is the
// full collection in source order. On failure both collections stay empty,
// the error is recorded for Render and returned as a *LoadError.
//
// The collection is populated at most once; later calls return
// ErrAlreadyLoaded. There is no retry.
func (c *Controller) Load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	if c.State() == StateLoaded {
		return ErrAlreadyLoaded
	}

	name := c.src.Name()
	data, err := c.src.Fetch(ctx)
	if err == nil && data == nil {
		err = errors.New("source returned no collection")
	}
	if err != nil {
		loadErr := &LoadError{Source: name, Err: err}
		c.logger.ErrorContext(ctx, "error loading lots data", "source", name, "error", err)

		c.mu.Lock()
		c.loadErr = loadErr
		c.mu.Unlock()
		return loadErr
	}

	c.mu.Lock()
	c.lotsData = slices.Clone(data)
	c.filtered = slices.Clone(data)
	c.criteria = DefaultCriteria()
	c.generation = uuid.NewString()
	c.loadErr = nil
	c.state = StateLoaded
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "lots data loaded", "source", name, "count", len(data))
	return nil
}

// ApplyFilters derives a new view from the loaded collection: filter first,
// then sort. The view replaces the current one and a copy is returned.
func (c *Controller) ApplyFilters(criteria FilterCriteria) ([]Lot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoaded {
		return nil, ErrNotLoaded
	}
	c.filtered = Apply(c.lotsData, criteria)
	c.criteria = criteria
	return slices.Clone(c.filtered), nil
}

// Query derives a view for criteria without touching the current view, so
// concurrent callers each get their own result. It returns ErrNotLoaded
// before a successful Load.
func (c *Controller) Query(criteria FilterCriteria) ([]Lot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateLoaded {
		return nil, ErrNotLoaded
	}
	return Apply(c.lotsData, criteria), nil
}

// View returns a copy of the current view.
func (c *Controller) View() []Lot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.filtered)
}

// Criteria returns the criteria that produced the current view.
func (c *Controller) Criteria() FilterCriteria {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.criteria
}

// Lots returns a copy of the full loaded collection in source order.
func (c *Controller) Lots() []Lot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.lotsData)
}

// Options returns the distinct filter values of the loaded collection.
func (c *Controller) Options() FilterOptions {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return OptionsFor(c.lotsData)
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LoadErr returns the error from the last failed Load, or nil.
func (c *Controller) LoadErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

// Generation identifies the loaded collection. It is empty until Load
// succeeds and never changes afterwards.
func (c *Controller) Generation() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Language returns the tag used to format numbers in rendered rows.
func (c *Controller) Language() language.Tag { return c.lang }

// Len returns the size of the loaded collection.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lotsData)
}

// Render writes the table body for the current view. Before a successful
// Load it writes a single status row instead.
func (c *Controller) Render(ctx context.Context, w io.Writer) error {
	c.mu.RLock()
	state, loadErr, view := c.state, c.loadErr, c.filtered
	c.mu.RUnlock()

	switch {
	case loadErr != nil:
		return ErrorRow(MapError(loadErr).Message).Render(ctx, w)
	case state != StateLoaded:
		return MessageRow(LoadingMessage).Render(ctx, w)
	default:
		return TableBody(view, c.lang).Render(ctx, w)
	}
}

// ExportCSV writes the current view as CSV. It returns ErrNotLoaded before
// Load and ErrEmptyExport, writing nothing, when the view is empty.
func (c *Controller) ExportCSV(w io.Writer) error {
	c.mu.RLock()
	state, view := c.state, c.filtered
	c.mu.RUnlock()

	if state != StateLoaded {
		return ErrNotLoaded
	}
	return WriteCSV(w, view)
}
