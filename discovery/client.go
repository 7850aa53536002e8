package discovery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Client defaults.
const (
	DefaultUserAgent = "newscrawl/1.0 (newspaper search crawler)"
	DefaultTimeout   = 30 * time.Second
	DefaultPageDelay = 200 * time.Millisecond
)

// ClientConfig holds transport settings shared by every source.
type ClientConfig struct {
	// Timeout per HTTP request
	Timeout time.Duration
	// User-Agent header sent with every request
	UserAgent string
	// Fixed delay before each search-page fetch. Article pages are not
	// delayed.
	PageDelay time.Duration
}

// DefaultClientConfig returns the default transport settings.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		PageDelay: DefaultPageDelay,
	}
}

// Client performs serial GET requests and parses the responses. It never
// retries.
type Client struct {
	httpClient *http.Client
	userAgent  string
	pageDelay  time.Duration
}

// NewClient creates a client from config. A nil config uses the defaults.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		pageDelay:  config.PageDelay,
	}
}

// FetchHTML fetches url and parses the body as HTML.
func (c *Client) FetchHTML(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}

	return doc, nil
}

// FetchPage waits for the page delay and then fetches a search-result page.
func (c *Client) FetchPage(ctx context.Context, url string) (*goquery.Document, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.FetchHTML(ctx, url)
}

// FetchFeed waits for the page delay and then fetches and parses an RSS or
// Atom feed.
func (c *Client) FetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed from %s: %w", url, err)
	}

	return feed, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP error fetching %s: %s", url, resp.Status)
	}

	return resp, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.pageDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.pageDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
