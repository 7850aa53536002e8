package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pevans/newscrawl/newsfeed"
)

func handleArticles(args []string) {
	fs := flag.NewFlagSet("articles", flag.ExitOnError)
	dir := fs.String("dir", "", "Archive directory written with crawl --json-dir")
	publisher := fs.String("publisher", "", "Filter by publisher")
	limit := fs.Int("limit", 20, "Maximum number of articles to display (0 for all)")
	format := fs.String("format", "table", "Output format: table, json, compact")
	fs.Parse(args)

	if *dir == "" {
		fmt.Fprintf(os.Stderr, "Error: --dir is required\n")
		fs.Usage()
		os.Exit(1)
	}

	store, err := newsfeed.NewArchive(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open archive: %v\n", err)
		os.Exit(1)
	}

	result, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list articles: %v\n", err)
		os.Exit(1)
	}

	// Report any partial failures after displaying results
	defer func() {
		if len(result.Errors) > 0 {
			fmt.Fprintf(os.Stderr, "\nWarning: %d article(s) could not be read:\n", len(result.Errors))
			for _, readErr := range result.Errors {
				fmt.Fprintf(os.Stderr, "  %s\n", readErr.Error())
			}
		}
	}()

	articles := filterArticles(result.Articles, *publisher)
	total := len(articles)
	if *limit > 0 && len(articles) > *limit {
		articles = articles[:*limit]
	}

	switch *format {
	case "table":
		printArticlesTable(articles, total)
	case "json":
		printJSON(map[string]any{"articles": articles, "total": total})
	case "compact":
		printArticlesCompact(articles)
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid format: %s (must be table, json, or compact)\n", *format)
		os.Exit(1)
	}
}

// filterArticles keeps the articles whose publisher contains publisher,
// ignoring case. An empty filter keeps everything.
func filterArticles(articles []newsfeed.Article, publisher string) []newsfeed.Article {
	if publisher == "" {
		return articles
	}

	needle := strings.ToLower(publisher)
	var filtered []newsfeed.Article
	for _, article := range articles {
		if strings.Contains(strings.ToLower(article.Publisher), needle) {
			filtered = append(filtered, article)
		}
	}
	return filtered
}
