package discovery

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/newscrawl/newsfeed"
	"github.com/pevans/newscrawl/scraper"
)

// Default search window for the Korea Times date filter.
const (
	DefaultStartDate = "20200101"
	DefaultEndDate   = "20200531"
)

// reResultCount matches the "[1,234 articles]" result counter.
var reResultCount = regexp.MustCompile(`\[\s*([\d,]+)\s+articles?\s*\]`)

// TimesSource crawls the Korea Times search. The number of pages is derived
// from the result counter on the first page, and every page is requested by
// number.
type TimesSource struct {
	opts   Options
	site   scraper.SiteConfig
	client *Client
}

// NewTimesSource creates a Korea Times source.
func NewTimesSource(opts Options) *TimesSource {
	if opts.StartDate == "" {
		opts.StartDate = DefaultStartDate
	}
	if opts.EndDate == "" {
		opts.EndDate = DefaultEndDate
	}

	return &TimesSource{
		opts:   opts,
		site:   opts.site(scraper.TimesConfig()),
		client: opts.client(),
	}
}

func (t *TimesSource) Name() string {
	return "times"
}

func (t *TimesSource) searchURL(keyword string, page int) string {
	query := url.Values{}
	query.Set("kwd", keyword)
	query.Set("pageNum", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(t.pageSize()))
	query.Set("category", "TOTAL")
	query.Set("sort", "n")
	query.Set("startDate", t.opts.StartDate)
	query.Set("endDate", t.opts.EndDate)
	query.Set("date", "select")
	query.Set("srchFd", "")
	query.Set("range", "")
	query.Set("author", "all")
	query.Set("authorData", "")
	query.Set("mysrchFd", "/Date")
	return t.site.BaseURL + "/www2/common/search.asp?" + query.Encode()
}

func (t *TimesSource) pageSize() int {
	if t.site.List.PageSize <= 0 {
		return 10
	}
	return t.site.List.PageSize
}

// pageCount returns how many result pages hold total results.
func (t *TimesSource) pageCount(total int) int {
	size := t.pageSize()
	return (total + size - 1) / size
}

func (t *TimesSource) Search(ctx context.Context, keyword string) iter.Seq2[newsfeed.Article, error] {
	return func(yield func(newsfeed.Article, error) bool) {
		logger := t.opts.logger()

		total, err := t.resultCount(ctx, keyword)
		if err != nil {
			yield(newsfeed.Article{}, err)
			return
		}
		pages := t.pageCount(total)
		logger.Printf("INFO: %s found %d results on %d pages", t.Name(), total, pages)

		for page := 1; page <= pages; page++ {
			pageURL := t.searchURL(keyword, page)
			logger.Printf("INFO: %s page %d/%d: %s", t.Name(), page, pages, pageURL)

			doc, err := t.client.FetchPage(ctx, pageURL)
			if err != nil {
				yield(newsfeed.Article{}, err)
				return
			}

			anchors := doc.Find(t.site.List.EntrySelector)
			for i := range anchors.Length() {
				anchor := anchors.Eq(i)

				dateSel := anchor.NextAllFiltered("div").First().Find(t.site.List.DateSelector).First()
				if dateSel.Length() == 0 {
					if err := t.opts.missing(missingf(pageURL, "div "+t.site.List.DateSelector)); err != nil {
						yield(newsfeed.Article{}, err)
						return
					}
					continue
				}

				date := listedDate(dateSel.Text())
				if isCutoff(date, t.opts.Cutoff) {
					logger.Printf("INFO: %s reached cutoff %q at %q, stopping", t.Name(), t.opts.Cutoff, date)
					return
				}

				href, ok := anchor.Attr("href")
				if !ok {
					if err := t.opts.missing(missingf(pageURL, "a[href]")); err != nil {
						yield(newsfeed.Article{}, err)
						return
					}
					continue
				}
				articleURL, err := resolveURL(pageURL, href)
				if err != nil {
					yield(newsfeed.Article{}, err)
					return
				}

				article, err := t.extract(ctx, articleURL, date)
				if !yieldExtracted(yield, t.opts, article, err) {
					return
				}
			}
		}
	}
}

// resultCount reads the total number of search results from the first
// result page. The count is required to paginate, so its absence is always
// an error.
func (t *TimesSource) resultCount(ctx context.Context, keyword string) (int, error) {
	countURL := t.searchURL(keyword, 1)
	doc, err := t.client.FetchHTML(ctx, countURL)
	if err != nil {
		return 0, err
	}

	total, ok := parseResultCount(doc.Find(t.site.List.CountSelector))
	if !ok {
		return 0, fmt.Errorf("failed to read result count: %w", missingf(countURL, t.site.List.CountSelector))
	}
	return total, nil
}

func parseResultCount(candidates *goquery.Selection) (int, bool) {
	total, found := 0, false
	candidates.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := reResultCount.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			return true
		}
		total, found = n, true
		return false
	})
	return total, found
}

// listedDate returns the trailing date of a listing's date line, which
// carries other text before it.
func listedDate(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > 10 {
		r = r[len(r)-10:]
	}
	return string(r)
}

// extract reads title, author and body from an article page.
func (t *TimesSource) extract(ctx context.Context, articleURL, date string) (newsfeed.Article, error) {
	doc, err := t.client.FetchHTML(ctx, articleURL)
	if err != nil {
		return newsfeed.Article{}, err
	}

	return extractTimesArticle(doc, t.site, articleURL, date)
}

func extractTimesArticle(doc *goquery.Document, site scraper.SiteConfig, articleURL, date string) (newsfeed.Article, error) {
	cfg := site.Article

	// Pages without the standard headline use a different layout
	title := normalizeSpace(doc.Find(cfg.TitleSelector).First().Text())
	if title == "" {
		return newsfeed.Article{}, missingf(articleURL, cfg.TitleSelector)
	}

	author, content := extractBody(doc.Find(cfg.ContentSelector))

	return newsfeed.NewArticle(title, date, site.Publisher, author, content, articleURL), nil
}
