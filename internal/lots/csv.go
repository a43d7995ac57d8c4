package lots

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// ExportFilename is the name offered for downloaded exports.
const ExportFilename = "pacific-sands-lots.csv"

// CSVHeader is the fixed header row, in column order.
var CSVHeader = []string{"Lot Number", "Type", "Area (m²)", "Frontage (m)", "Status", "View", "Elevation (m)"}

// WriteCSV writes view as CSV: the header, then one line per lot, separated by
// "\n" with no trailing newline. An empty view writes nothing and returns
// ErrEmptyExport.
//
// Fields are quoted only when they contain a comma, quote, newline or leading
// space. Output is therefore a superset of a plain comma join: for values
// without those characters the bytes are identical, and values with them
// still parse back to the same fields instead of shifting columns.
func WriteCSV(w io.Writer, view []Lot) error {
	if len(view) == 0 {
		return ErrEmptyExport
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, l := range view {
		if err := cw.Write(Record(l)); err != nil {
			return fmt.Errorf("write csv row %s: %w", l.LotNumber, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Record returns the CSV fields of l in header order.
func Record(l Lot) []string {
	return []string{
		l.LotNumber,
		l.Type,
		FormatNumber(l.AreaM2),
		FormatNumber(l.FrontageM),
		l.Status,
		l.View,
		FormatNumber(l.ElevationM),
	}
}
