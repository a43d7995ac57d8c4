// Package lots provides the lots table controller for the Pacific Sands site.
//
// The package has no HTTP dependencies. It owns the loaded lot collection and
// the current filtered view, and exposes the operations the page needs:
//
//   - [Controller.Load] reads the collection once from a [Source].
//   - [Controller.ApplyFilters] derives a new view from [FilterCriteria].
//   - [Controller.Render] writes the table body for the current view.
//   - [Controller.ExportCSV] writes the current view as CSV.
//
// Filtering and sorting are also available as pure functions ([Filter],
// [Sort], [Apply]) so callers can derive views without touching controller
// state.
//
// # Lifecycle
//
// A controller starts in [StateUnloaded]. A successful Load moves it to
// [StateLoaded]; the source collection is never replaced after that. A failed
// Load keeps it unloaded and records the error, which Render turns into a
// single error row.
package lots
