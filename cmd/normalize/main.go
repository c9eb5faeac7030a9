package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/2beens/sportanalytics/internal/gymstats/sheets"
	"github.com/2beens/sportanalytics/internal/gymstats/workouts"
	"github.com/2beens/sportanalytics/internal/logging"

	log "github.com/sirupsen/logrus"
)

// normalizes a workout log export and prints the entries as JSON

type output struct {
	Source  string                `json:"source"`
	Fetched int                   `json:"fetched"`
	Entries []workouts.Entry      `json:"entries,omitempty"`
	Dropped []workouts.DroppedRow `json:"dropped"`
	Summary *workouts.Summary     `json:"summary,omitempty"`
}

func main() {
	path := flag.String("path", "", "path of the CSV or XLSX export")
	worksheet := flag.String("worksheet", "DATA", "worksheet name (XLSX only)")
	headerRow := flag.Int("header-row", 2, "1-based row holding the column names")
	strict := flag.Bool("strict", false, "fail on malformed numeric values instead of dropping the row")
	summaryOnly := flag.Bool("summary", false, "print the summary and dropped rows only")
	logLevel := flag.String("log-level", "info", "log level")
	logsPath := flag.String("logs-path", "", "log file path, logs go to stderr when empty")
	flag.Parse()

	// stdout carries the JSON output
	if *logsPath != "" {
		logging.Setup(logging.LoggerSetupParams{
			Service:     "sportanalytics-normalize",
			LogFileName: *logsPath,
			LogLevel:    *logLevel,
		})
	} else {
		log.SetOutput(os.Stderr)
		log.SetLevel(logging.GetLevel(*logLevel))
	}

	if *path == "" {
		log.Fatalln("export path not specified, use -path")
	}

	source, err := newSource(*path, *worksheet, *headerRow)
	if err != nil {
		log.Fatalln(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, source, *strict, *summaryOnly, os.Stdout); err != nil {
		log.Fatalf("normalize %s: %s", *path, err)
	}
}

func newSource(path, worksheet string, headerRow int) (sheets.Source, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return sheets.NewCSVSource(path, headerRow), nil
	case ".xlsx", ".xlsm":
		return sheets.NewXLSXSource(path, worksheet, headerRow), nil
	default:
		return nil, fmt.Errorf("unsupported export type: %q", ext)
	}
}

func run(ctx context.Context, source sheets.Source, strict, summaryOnly bool, w io.Writer) error {
	records, err := source.Fetch(ctx)
	if err != nil {
		return err
	}

	result, err := workouts.NewNormalizer(workouts.Options{StrictCoercion: strict}).Normalize(records)
	if err != nil {
		return err
	}

	out := output{
		Source:  source.Name(),
		Fetched: len(records),
		Dropped: result.Dropped,
	}
	if out.Dropped == nil {
		out.Dropped = []workouts.DroppedRow{}
	}
	if summaryOnly {
		summary := workouts.Summarize(result.Entries)
		out.Summary = &summary
	} else {
		out.Entries = result.Entries
	}

	log.Debugf("%d records, %d entries kept, %d dropped", len(records), len(result.Entries), len(result.Dropped))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
