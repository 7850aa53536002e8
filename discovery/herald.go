package discovery

import (
	"context"
	"iter"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/newscrawl/newsfeed"
	"github.com/pevans/newscrawl/scraper"
)

// HeraldSource crawls The Korea Herald search. Pages are followed through
// the paging controls until a listed date hits the cutoff or there is no
// next page.
type HeraldSource struct {
	opts   Options
	site   scraper.SiteConfig
	client *Client
}

// NewHeraldSource creates a Korea Herald source.
func NewHeraldSource(opts Options) *HeraldSource {
	return &HeraldSource{
		opts:   opts,
		site:   opts.site(scraper.HeraldConfig()),
		client: opts.client(),
	}
}

func (h *HeraldSource) Name() string {
	return "herald"
}

// searchBase is the URL listing links are resolved against.
func (h *HeraldSource) searchBase() string {
	return h.site.BaseURL + "/search/index.php"
}

func (h *HeraldSource) searchURL(keyword string) string {
	query := url.Values{}
	query.Set("q", keyword)
	query.Set("sort", "1")
	query.Set("mode", "list")
	query.Set("np", "1")
	query.Set("mp", "1")
	return h.searchBase() + "?" + query.Encode()
}

func (h *HeraldSource) Search(ctx context.Context, keyword string) iter.Seq2[newsfeed.Article, error] {
	return func(yield func(newsfeed.Article, error) bool) {
		logger := h.opts.logger()
		pageURL := h.searchURL(keyword)

		for page := 1; pageURL != ""; page++ {
			logger.Printf("INFO: %s page %d: %s", h.Name(), page, pageURL)

			doc, err := h.client.FetchPage(ctx, pageURL)
			if err != nil {
				yield(newsfeed.Article{}, err)
				return
			}

			entries := doc.Find(h.site.List.EntrySelector)
			for i := range entries.Length() {
				anchor := entries.Eq(i).Find("a").First()

				dateSel := anchor.Find(h.site.List.DateSelector).First()
				if dateSel.Length() == 0 {
					if err := h.opts.missing(missingf(pageURL, h.site.List.DateSelector)); err != nil {
						yield(newsfeed.Article{}, err)
						return
					}
					continue
				}

				date := strings.TrimSpace(dateSel.Text())
				if isCutoff(date, h.opts.Cutoff) {
					logger.Printf("INFO: %s reached cutoff %q at %q, stopping", h.Name(), h.opts.Cutoff, date)
					return
				}

				href, ok := anchor.Attr("href")
				if !ok {
					if err := h.opts.missing(missingf(pageURL, "a[href]")); err != nil {
						yield(newsfeed.Article{}, err)
						return
					}
					continue
				}
				articleURL, err := resolveURL(h.searchBase(), href)
				if err != nil {
					yield(newsfeed.Article{}, err)
					return
				}

				article, err := h.extract(ctx, articleURL, date)
				if !yieldExtracted(yield, h.opts, article, err) {
					return
				}
			}

			pageURL, err = h.nextPage(doc)
			if err != nil {
				yield(newsfeed.Article{}, err)
				return
			}
		}

		logger.Printf("INFO: %s has no further pages", h.Name())
	}
}

// nextPage returns the URL behind the paging control that follows the
// current-page marker, or "" when the listing is exhausted.
func (h *HeraldSource) nextPage(doc *goquery.Document) (string, error) {
	buttons := doc.Find(h.site.List.PaginationSelector)

	current := -1
	buttons.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if s.Find("a").First().HasClass("on") {
			current = i
			return false
		}
		return true
	})
	if current < 0 || current+1 >= buttons.Length() {
		return "", nil
	}

	href, ok := buttons.Eq(current + 1).Find("a").First().Attr("href")
	// The last page links to a javascript: alert instead of a page
	if !ok || strings.Contains(strings.ToLower(href), "javascript") {
		return "", nil
	}

	return resolveURL(h.searchBase(), href)
}

// extract reads title, author and body from an article page.
func (h *HeraldSource) extract(ctx context.Context, articleURL, date string) (newsfeed.Article, error) {
	doc, err := h.client.FetchHTML(ctx, articleURL)
	if err != nil {
		return newsfeed.Article{}, err
	}

	return extractHeraldArticle(doc, h.site, articleURL, date)
}

func extractHeraldArticle(doc *goquery.Document, site scraper.SiteConfig, articleURL, date string) (newsfeed.Article, error) {
	cfg := site.Article
	for _, sel := range cfg.StripSelectors {
		doc.Find(sel).Remove()
	}

	title := normalizeSpace(doc.Find(cfg.TitleSelector).First().Text())
	if title == "" {
		return newsfeed.Article{}, missingf(articleURL, cfg.TitleSelector)
	}

	author := normalizeSpace(doc.Find(cfg.AuthorSelector).First().Text())
	author = strings.TrimSpace(strings.TrimPrefix(author, bylinePrefix))

	var sections []string
	doc.Find(cfg.ContentSelector).Each(func(_ int, s *goquery.Selection) {
		sections = append(sections, s.Text())
	})
	content := normalizeSpace(strings.Join(sections, " "))

	return newsfeed.NewArticle(title, date, site.Publisher, author, content, articleURL), nil
}
