package discovery

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"net/url"
	"slices"
	"strings"

	"github.com/pevans/newscrawl/newsfeed"
	"github.com/pevans/newscrawl/scraper"
)

var (
	// ErrMissingMarkup means an element the extractor depends on is absent
	// from the page.
	ErrMissingMarkup = errors.New("expected markup not found")
	ErrUnknownSite   = errors.New("unknown site")
	ErrUnknownPolicy = errors.New("on_missing must be skip or fail")
)

// DefaultCutoff is the year marker that ends a crawl.
const DefaultCutoff = "2019"

// ArticleSource is one newspaper's search interface.
type ArticleSource interface {
	Name() string
	// Search yields articles for keyword in listing order. A non-nil error
	// ends the sequence; stopping the iteration early stops the crawl.
	Search(ctx context.Context, keyword string) iter.Seq2[newsfeed.Article, error]
}

// MissingPolicy decides what happens when an entry or article page lacks
// expected markup.
type MissingPolicy string

const (
	// SkipMissing logs the problem and moves on to the next entry.
	SkipMissing MissingPolicy = "skip"
	// FailMissing ends the crawl with ErrMissingMarkup.
	FailMissing MissingPolicy = "fail"
)

// ParseMissingPolicy parses "skip" or "fail". An empty string is "skip".
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SkipMissing:
		return SkipMissing, nil
	case FailMissing:
		return FailMissing, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Options configures a source. Zero values fall back to the site defaults.
type Options struct {
	Client *Client
	// BaseURL overrides the site's scheme and host.
	BaseURL string
	// Cutoff is the year marker that ends the crawl. Empty disables it.
	Cutoff    string
	OnMissing MissingPolicy
	// StartDate and EndDate (YYYYMMDD) bound the search on sites that
	// support a date range.
	StartDate string
	EndDate   string
	// FeedURL is the RSS/Atom feed read by the feed source.
	FeedURL string
	Logger  *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

func (o Options) client() *Client {
	if o.Client == nil {
		return NewClient(nil)
	}
	return o.Client
}

// missing applies the policy to a markup error: nil means skip.
func (o Options) missing(err error) error {
	if o.OnMissing == FailMissing {
		return err
	}
	o.logger().Printf("WARN: skipping entry: %v", err)
	return nil
}

func (o Options) site(defaults scraper.SiteConfig) scraper.SiteConfig {
	if o.BaseURL != "" {
		defaults.BaseURL = strings.TrimRight(o.BaseURL, "/")
	}
	return defaults
}

var registry = map[string]func(Options) ArticleSource{
	"herald": func(o Options) ArticleSource { return NewHeraldSource(o) },
	"times":  func(o Options) ArticleSource { return NewTimesSource(o) },
	"feed":   func(o Options) ArticleSource { return NewFeedSource(o) },
}

// NewSource builds the source registered under site.
func NewSource(site string, opts Options) (ArticleSource, error) {
	factory, ok := registry[site]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownSite, site, strings.Join(Sites(), ", "))
	}
	return factory(opts), nil
}

// Sites returns the registered site names in sorted order.
func Sites() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func missingf(pageURL, selector string) error {
	return fmt.Errorf("%w: %q on %s", ErrMissingMarkup, selector, pageURL)
}

func isCutoff(date, marker string) bool {
	return marker != "" && strings.Contains(date, marker)
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func resolveURL(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// yieldExtracted hands an extracted article to the consumer, or applies the
// missing-markup policy when extraction failed. It reports whether the
// crawl should continue.
func yieldExtracted(
	yield func(newsfeed.Article, error) bool,
	opts Options,
	article newsfeed.Article,
	err error,
) bool {
	if err == nil {
		return yield(article, nil)
	}
	if errors.Is(err, ErrMissingMarkup) {
		err = opts.missing(err)
		if err == nil {
			return true
		}
	}
	yield(newsfeed.Article{}, err)
	return false
}
