// Command lotsexport loads the lot collection once, applies the same filters
// and sort as the lots page, and writes the view as CSV.
//
//	lotsexport -path data/lots.json -status Available -sort area_desc -o lots.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/pacificsands/internal/config"
	"github.com/JonMunkholm/pacificsands/internal/logging"
	"github.com/JonMunkholm/pacificsands/internal/lots"
	"github.com/JonMunkholm/pacificsands/internal/lots/source"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if msg := lots.MapError(err); msg.Action != "" && msg.Code != "ERR000" {
			fmt.Fprintln(os.Stderr, msg.Action)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Unlike the server, the shell environment wins over .env here.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("lotsexport", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.Data.Source, "source", cfg.Data.Source, "data source (file, http, postgres, sqlite, shapefile)")
	fs.StringVar(&cfg.Data.Path, "path", cfg.Data.Path, "file, SQLite database or shapefile to read")
	fs.StringVar(&cfg.Data.URL, "url", cfg.Data.URL, "URL to fetch when -source=http")
	fs.StringVar(&cfg.Database.URL, "dsn", cfg.Database.URL, "PostgreSQL connection string when -source=postgres")

	filters := url.Values{}
	for _, f := range []struct{ name, param, usage string }{
		{"status", lots.ParamStatus, "only lots with this status"},
		{"view", lots.ParamView, "only lots with this view"},
		{"type", lots.ParamType, "only lots of this type"},
		{"min-area", lots.ParamMinArea, "minimum area in m² (inclusive)"},
		{"max-area", lots.ParamMaxArea, "maximum area in m² (inclusive, 0 = no limit)"},
		{"sort", lots.ParamSortBy, "sort key (lot_number, area_asc, area_desc, type)"},
	} {
		param := f.param
		fs.Func(f.name, f.usage, func(v string) error {
			filters.Set(param, v)
			return nil
		})
	}

	out := fs.String("o", "", "output file (default stdout)")
	verbose := fs.Bool("v", false, "log progress to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := logging.New(stderr, level, cfg.Logging.Format)

	src, err := source.New(cfg)
	if err != nil {
		return err
	}
	ctrl := lots.NewController(src, lots.WithLogger(logger), lots.WithLanguage(cfg.Data.LanguageTag()))

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Data.LoadTimeout)
	defer cancel()
	if err := ctrl.Load(loadCtx); err != nil {
		return err
	}

	criteria := lots.ParseCriteria(filters)
	view, err := ctrl.ApplyFilters(criteria)
	if err != nil {
		return err
	}
	logger.Debug("lots filtered", "query", criteria.Values().Encode(), "count", len(view), "total", ctrl.Len())

	return writeExport(ctrl, *out, stdout, logger)
}

// writeExport writes the controller's view to path, or to stdout when path
// is empty. An empty view creates no file.
func writeExport(ctrl *lots.Controller, path string, stdout io.Writer, logger *slog.Logger) error {
	if path == "" {
		if err := ctrl.ExportCSV(stdout); err != nil {
			return err
		}
		_, err := io.WriteString(stdout, "\n")
		return err
	}

	if len(ctrl.View()) == 0 {
		return lots.ErrEmptyExport
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := ctrl.ExportCSV(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logger.Info("export written", "path", path)
	return nil
}
