package discovery

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/pevans/newscrawl/newsfeed"
)

// ErrNoFeedURL is returned by the feed source when no feed URL is set.
var ErrNoFeedURL = errors.New("feed source requires a feed URL")

// FeedSource reads articles from an RSS or Atom feed, keeping the items that
// mention the keyword. Feeds list newest first, so the cutoff ends the crawl
// just as it does for the search sources.
type FeedSource struct {
	opts   Options
	client *Client
}

// NewFeedSource creates a feed source reading opts.FeedURL.
func NewFeedSource(opts Options) *FeedSource {
	return &FeedSource{
		opts:   opts,
		client: opts.client(),
	}
}

func (f *FeedSource) Name() string {
	return "feed"
}

func (f *FeedSource) Search(ctx context.Context, keyword string) iter.Seq2[newsfeed.Article, error] {
	return func(yield func(newsfeed.Article, error) bool) {
		if f.opts.FeedURL == "" {
			yield(newsfeed.Article{}, ErrNoFeedURL)
			return
		}

		logger := f.opts.logger()
		logger.Printf("INFO: %s reading %s", f.Name(), f.opts.FeedURL)

		feed, err := f.client.FetchFeed(ctx, f.opts.FeedURL)
		if err != nil {
			yield(newsfeed.Article{}, err)
			return
		}

		publisher := strings.TrimSpace(feed.Title)
		needle := strings.ToLower(keyword)

		for _, item := range feed.Items {
			if !strings.Contains(strings.ToLower(item.Title+" "+item.Description), needle) {
				continue
			}

			date := itemDate(item)
			if isCutoff(date, f.opts.Cutoff) {
				logger.Printf("INFO: %s reached cutoff %q at %q, stopping", f.Name(), f.opts.Cutoff, date)
				return
			}

			article, err := f.convert(item, publisher, date)
			if !yieldExtracted(yield, f.opts, article, err) {
				return
			}
		}
	}
}

// convert maps a feed item onto an article.
func (f *FeedSource) convert(item *gofeed.Item, publisher, date string) (newsfeed.Article, error) {
	title := normalizeSpace(item.Title)
	if title == "" {
		return newsfeed.Article{}, missingf(f.opts.FeedURL, "item title")
	}

	link, err := resolveURL(f.opts.FeedURL, item.Link)
	if err != nil {
		return newsfeed.Article{}, err
	}

	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}

	return newsfeed.NewArticle(title, date, publisher, itemAuthor(item), htmlText(body), link), nil
}

// itemDate renders the item's publication date the way the search listings
// do, falling back to the raw feed text.
func itemDate(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.Format("2006-01-02")
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.Format("2006-01-02")
	case item.Published != "":
		return strings.TrimSpace(item.Published)
	}
	return strings.TrimSpace(item.Updated)
}

func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return normalizeSpace(item.Author.Name)
	}
	for _, author := range item.Authors {
		if author != nil && author.Name != "" {
			return normalizeSpace(author.Name)
		}
	}
	if item.DublinCoreExt != nil {
		for _, creator := range item.DublinCoreExt.Creator {
			if creator != "" {
				return normalizeSpace(creator)
			}
		}
	}
	return ""
}

// htmlText returns the visible text of an HTML fragment.
func htmlText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return normalizeSpace(fragment)
	}
	return normalizeSpace(doc.Text())
}
