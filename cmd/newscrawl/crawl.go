package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pevans/newscrawl"
	"github.com/pevans/newscrawl/config"
	"github.com/pevans/newscrawl/discovery"
	"github.com/pevans/newscrawl/scraper"
)

// crawlFlags holds the crawl command's flag values.
type crawlFlags struct {
	configPath string
	site       string
	keyword    string
	output     string
	startDate  string
	endDate    string
	cutoff     string
	delay      time.Duration
	timeout    time.Duration
	onMissing  string
	feedURL    string
	jsonDir    string
	runsDB     string
}

func handleCrawl(runsPath string, args []string) {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	var flags crawlFlags
	fs.StringVar(&flags.configPath, "config", "", "Path to a YAML run file (default: ~/.newscrawl/config.yaml)")
	fs.StringVar(&flags.site, "site", "", "Site to search: herald, times or feed")
	fs.StringVar(&flags.keyword, "keyword", "", "Search keyword")
	fs.StringVar(&flags.output, "output", "", "Output file (default: articles.csv)")
	fs.StringVar(&flags.startDate, "start", "", "Start of the search window, YYYYMMDD")
	fs.StringVar(&flags.endDate, "end", "", "End of the search window, YYYYMMDD")
	fs.StringVar(&flags.cutoff, "cutoff", "", "Stop at the first listing date containing this marker (empty disables)")
	fs.DurationVar(&flags.delay, "delay", 0, "Delay before each search page request")
	fs.DurationVar(&flags.timeout, "timeout", 0, "HTTP request timeout")
	fs.StringVar(&flags.onMissing, "on-missing", "", "What to do when expected markup is missing: skip or fail")
	fs.StringVar(&flags.feedURL, "feed-url", "", "RSS/Atom feed to read with --site feed")
	fs.StringVar(&flags.jsonDir, "json-dir", "", "Also archive each article as JSON in this directory")
	fs.StringVar(&flags.runsDB, "runs-db", "", "Record the run in this SQLite database (default: $NEWSCRAWL_RUNS_DSN)")
	fs.Parse(args)

	var file *config.RunFile
	var err error
	if flags.configPath != "" {
		file, err = config.Load(flags.configPath)
	} else {
		file, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := newscrawl.DefaultConfig()
	cfg.UserAgent = getEnv("NEWSCRAWL_USER_AGENT", cfg.UserAgent)
	cfg.RunsDB = runsPath
	applyRunFile(cfg, file)
	applyFlags(cfg, fs, &flags)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			log.Printf("INFO: received signal %v, stopping crawl", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Printf("Crawling %s for %q...\n", cfg.Site, cfg.Keyword)

	start := time.Now()
	result, err := newscrawl.Run(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: crawl failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Wrote %d articles to %s\n", len(result.Articles), result.Output)
	fmt.Printf("  Run: %s\n", result.RunID)
	fmt.Printf("  Duration: %s\n", time.Since(start).Round(time.Millisecond))
	if cfg.JSONDir != "" {
		fmt.Printf("  Archive: %s\n", cfg.JSONDir)
	}
}

// applyRunFile copies the values set in file onto cfg.
func applyRunFile(cfg *newscrawl.Config, file *config.RunFile) {
	if file == nil {
		return
	}

	setString(&cfg.Site, file.Site)
	setString(&cfg.Keyword, file.Keyword)
	setString(&cfg.Output, file.Output)
	setString(&cfg.StartDate, file.StartDate)
	setString(&cfg.EndDate, file.EndDate)
	setString(&cfg.OnMissing, file.OnMissing)
	setString(&cfg.UserAgent, file.UserAgent)
	setString(&cfg.FeedURL, file.FeedURL)
	setString(&cfg.JSONDir, file.Archive.JSONDir)
	setString(&cfg.RunsDB, file.Archive.RunsDB)
	if file.Cutoff != nil {
		cfg.Cutoff = *file.Cutoff
	}
	if file.Delay > 0 {
		cfg.PageDelay = file.Delay
	}
	if file.Timeout > 0 {
		cfg.Timeout = file.Timeout
	}
}

// applyFlags copies the flags given on the command line onto cfg.
func applyFlags(cfg *newscrawl.Config, fs *flag.FlagSet, flags *crawlFlags) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "site":
			cfg.Site = flags.site
		case "keyword":
			cfg.Keyword = flags.keyword
		case "output":
			cfg.Output = flags.output
		case "start":
			cfg.StartDate = flags.startDate
		case "end":
			cfg.EndDate = flags.endDate
		case "cutoff":
			cfg.Cutoff = flags.cutoff
		case "delay":
			cfg.PageDelay = flags.delay
		case "timeout":
			cfg.Timeout = flags.timeout
		case "on-missing":
			cfg.OnMissing = flags.onMissing
		case "feed-url":
			cfg.FeedURL = flags.feedURL
		case "json-dir":
			cfg.JSONDir = flags.jsonDir
		case "runs-db":
			cfg.RunsDB = flags.runsDB
		}
	})
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

var siteDescriptions = map[string]string{
	"herald": scraper.HeraldPublisher + " search, followed page by page",
	"times":  scraper.TimesPublisher + " search, paged by result count",
	"feed":   "any RSS or Atom feed given with --feed-url",
}

func handleSites() {
	for _, site := range discovery.Sites() {
		fmt.Printf("%-8s %s\n", site, siteDescriptions[site])
	}
}
