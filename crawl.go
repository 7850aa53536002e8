// Package newscrawl searches newspaper sites for a keyword and writes the
// matching articles to a ';'-delimited file.
package newscrawl

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/newscrawl/archive"
	"github.com/pevans/newscrawl/discovery"
	"github.com/pevans/newscrawl/export"
	"github.com/pevans/newscrawl/newsfeed"
)

var (
	// ErrEmptyKeyword is returned when no search keyword is configured.
	ErrEmptyKeyword = errors.New("keyword is required")
	// ErrNoOutput is returned when no output path is configured.
	ErrNoOutput = errors.New("output path is required")
)

// searchDateLayout is the YYYYMMDD form used by the date-range filter.
const searchDateLayout = "20060102"

// Config describes one crawl.
type Config struct {
	// Site is a registered source name (see discovery.Sites).
	Site    string
	Keyword string
	// Output is the path of the CSV file written at the end of the run.
	Output string

	StartDate string
	EndDate   string
	// Cutoff is the year marker that ends the crawl. Empty disables it.
	Cutoff string
	// OnMissing is "skip" or "fail".
	OnMissing string

	PageDelay time.Duration
	Timeout   time.Duration
	UserAgent string

	// FeedURL is read when Site is "feed".
	FeedURL string
	// BaseURL overrides the site's scheme and host.
	BaseURL string

	// JSONDir, when set, receives one JSON file per article.
	JSONDir string
	// RunsDB, when set, is the SQLite run log the crawl is recorded in.
	RunsDB string

	Logger *log.Logger
}

// DefaultConfig returns a config with every default filled in except the
// keyword.
func DefaultConfig() *Config {
	return &Config{
		Site:      "herald",
		Output:    "articles.csv",
		StartDate: discovery.DefaultStartDate,
		EndDate:   discovery.DefaultEndDate,
		Cutoff:    discovery.DefaultCutoff,
		OnMissing: string(discovery.SkipMissing),
		PageDelay: discovery.DefaultPageDelay,
		Timeout:   discovery.DefaultTimeout,
		UserAgent: discovery.DefaultUserAgent,
	}
}

// Validate reports the first problem with the config.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Keyword) == "" {
		return ErrEmptyKeyword
	}
	if c.Output == "" {
		return ErrNoOutput
	}
	if _, err := discovery.NewSource(c.Site, discovery.Options{}); err != nil {
		return err
	}
	if _, err := discovery.ParseMissingPolicy(c.OnMissing); err != nil {
		return err
	}

	var start, end time.Time
	var err error
	if c.StartDate != "" {
		if start, err = time.Parse(searchDateLayout, c.StartDate); err != nil {
			return fmt.Errorf("invalid start date %q: expected YYYYMMDD", c.StartDate)
		}
	}
	if c.EndDate != "" {
		if end, err = time.Parse(searchDateLayout, c.EndDate); err != nil {
			return fmt.Errorf("invalid end date %q: expected YYYYMMDD", c.EndDate)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", c.EndDate, c.StartDate)
	}

	if c.PageDelay < 0 {
		return fmt.Errorf("page delay must not be negative: %s", c.PageDelay)
	}

	return nil
}

func (c *Config) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

// RunResult summarizes a finished crawl.
type RunResult struct {
	// RunID identifies the run in the run log. It is set even when no run
	// log is configured.
	RunID    uuid.UUID
	Articles []newsfeed.Article
	Output   string
}

// Run crawls the configured site and writes every article found, in
// discovery order, to cfg.Output. Nothing is written if the crawl fails.
func Run(ctx context.Context, cfg *Config) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.logger()

	runID := uuid.New()
	var runs *archive.RunStore
	if cfg.RunsDB != "" {
		store, err := archive.NewRunStore(cfg.RunsDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open run log: %w", err)
		}
		defer store.Close()

		run, err := store.StartRun(cfg.Site, cfg.Keyword, cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		runs = store
		runID = run.RunID
	}

	articles, err := crawl(ctx, cfg)
	if err == nil {
		err = save(cfg, articles)
	}

	if runs != nil {
		if finishErr := runs.FinishRun(runID, len(articles), err); finishErr != nil {
			logger.Printf("ERROR: failed to finish run %s: %v", runID, finishErr)
		}
	}

	if err != nil {
		logger.Printf("ERROR: run %s failed after %d articles: %v", runID, len(articles), err)
		return nil, err
	}

	logger.Printf("INFO: run %s wrote %d articles to %s", runID, len(articles), cfg.Output)

	return &RunResult{
		RunID:    runID,
		Articles: articles,
		Output:   cfg.Output,
	}, nil
}

// crawl drains the configured source.
func crawl(ctx context.Context, cfg *Config) ([]newsfeed.Article, error) {
	policy, err := discovery.ParseMissingPolicy(cfg.OnMissing)
	if err != nil {
		return nil, err
	}

	client := discovery.NewClient(&discovery.ClientConfig{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		PageDelay: cfg.PageDelay,
	})

	source, err := discovery.NewSource(cfg.Site, discovery.Options{
		Client:    client,
		BaseURL:   cfg.BaseURL,
		Cutoff:    cfg.Cutoff,
		OnMissing: policy,
		StartDate: cfg.StartDate,
		EndDate:   cfg.EndDate,
		FeedURL:   cfg.FeedURL,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	var articles []newsfeed.Article
	for article, err := range source.Search(ctx, cfg.Keyword) {
		if err != nil {
			return articles, err
		}
		articles = append(articles, article)
	}

	return articles, nil
}

// save writes the output file and, if configured, the JSON archive.
func save(cfg *Config, articles []newsfeed.Article) error {
	if err := export.WriteFile(cfg.Output, articles); err != nil {
		return err
	}

	if cfg.JSONDir == "" {
		return nil
	}

	store, err := newsfeed.NewArchive(cfg.JSONDir)
	if err != nil {
		return fmt.Errorf("failed to open article archive: %w", err)
	}
	if err := store.AddAll(articles); err != nil {
		return fmt.Errorf("failed to archive articles: %w", err)
	}

	return nil
}
