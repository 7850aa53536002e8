package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pevans/newscrawl/archive"
)

func handleRuns(runsPath string, args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("runs-db", runsPath, "Path to the run log database (default: $NEWSCRAWL_RUNS_DSN)")
	limit := fs.Int("limit", 20, "Maximum number of runs to display (0 for all)")
	format := fs.String("format", "table", "Output format: table, json")
	fs.Parse(args)

	if *dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --runs-db is required when NEWSCRAWL_RUNS_DSN is not set\n")
		fs.Usage()
		os.Exit(1)
	}

	store, err := archive.NewRunStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open run log: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.ListRuns(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list runs: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "table":
		printRunsTable(runs)
	case "json":
		printJSON(map[string]any{"runs": runs, "total": len(runs)})
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid format: %s (must be table or json)\n", *format)
		os.Exit(1)
	}
}
