package discovery

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/pevans/newscrawl/newsfeed"
	"github.com/stretchr/testify/require"
)

// fakeSite serves canned pages and records every requested URL.
type fakeSite struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
}

func newFakeSite(t *testing.T, handler http.HandlerFunc) *fakeSite {
	site := &fakeSite{}
	site.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.requests = append(site.requests, r.URL.RequestURI())
		site.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(site.Close)
	return site
}

func (s *fakeSite) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, body)
}

// Test helper: options pointing at a fake site with no page delay and a
// captured log
func testOptions(baseURL string) (Options, *bytes.Buffer) {
	var buf bytes.Buffer
	return Options{
		Client:    NewClient(&ClientConfig{PageDelay: 0}),
		BaseURL:   baseURL,
		Cutoff:    DefaultCutoff,
		OnMissing: SkipMissing,
		Logger:    log.New(&buf, "", 0),
	}, &buf
}

// collect drains a search, returning the articles and the error that ended
// it, if any.
func collect(t *testing.T, source ArticleSource, keyword string) ([]newsfeed.Article, error) {
	t.Helper()
	var articles []newsfeed.Article
	for article, err := range source.Search(t.Context(), keyword) {
		if err != nil {
			return articles, err
		}
		require.NotEmpty(t, article.Title)
		articles = append(articles, article)
	}
	return articles, nil
}
