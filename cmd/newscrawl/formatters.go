package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pevans/newscrawl/archive"
	"github.com/pevans/newscrawl/newsfeed"
)

// printArticlesTable prints articles in human-readable table format
func printArticlesTable(articles []newsfeed.Article, total int) {
	if len(articles) == 0 {
		fmt.Println("No articles to display.")
		return
	}

	fmt.Printf("Showing %d of %d articles\n\n", len(articles), total)

	for _, article := range articles {
		author := "Unknown"
		if article.Author != nil {
			author = *article.Author
		}

		fmt.Printf("%s\n", truncate(article.Title, 70))
		fmt.Printf("   %s | %s | %s\n", article.Publisher, article.Date, author)
		if article.Content != "" {
			fmt.Printf("   %s\n", truncate(article.Content, 150))
		}
		fmt.Printf("   URL: %s\n", article.URL)
		fmt.Printf("   ID: %s\n", article.ID.String())
		fmt.Println()
	}
}

// printArticlesCompact prints one line per article
func printArticlesCompact(articles []newsfeed.Article) {
	if len(articles) == 0 {
		fmt.Println("No articles to display.")
		return
	}

	for _, article := range articles {
		shortID := article.ID.String()[:8]
		fmt.Printf("%s %s %s (%s)\n", shortID, article.Date, article.Title, article.Publisher)
	}
}

// printRunsTable prints the run log
func printRunsTable(runs []archive.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	fmt.Printf("%-36s %-7s %-10s %-20s %-9s %s\n", "ID", "SITE", "STATUS", "STARTED", "ARTICLES", "KEYWORD")
	fmt.Println("----------------------------------------------------------------------------------------------------")

	for _, run := range runs {
		fmt.Printf("%-36s %-7s %-10s %-20s %-9d %s\n",
			run.RunID.String(),
			run.Site,
			run.Status,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.ArticleCount,
			truncate(run.Keyword, 30),
		)
		if run.Error != nil {
			fmt.Printf("  error: %s\n", truncate(*run.Error, 95))
		}
	}
}

// printJSON prints value as indented JSON
func printJSON(value any) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}
