// Package export writes crawled articles as ';'-delimited records.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pevans/newscrawl/newsfeed"
)

// Separator is the field delimiter of the output file.
const Separator = ';'

// Header is the first row of every output file.
var Header = []string{"DATE", "PUBLISHER", "TITLE", "AUTHOR", "URL", "CONTENT"}

// WriteCSV writes the header followed by one row per article, in order.
// Fields are quoted only when they contain the separator, a quote or a line
// break.
func WriteCSV(w io.Writer, articles []newsfeed.Article) error {
	cw := csv.NewWriter(w)
	cw.Comma = Separator

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, article := range articles {
		if err := cw.Write(Row(article)); err != nil {
			return fmt.Errorf("failed to write article %s: %w", article.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}

	return nil
}

// WriteFile creates or truncates path and writes articles to it.
func WriteFile(path string, articles []newsfeed.Article) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := WriteCSV(f, articles); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	return nil
}

// Row returns the fields of article in header order. An unknown author is
// an empty field.
func Row(article newsfeed.Article) []string {
	return []string{
		article.Date,
		article.Publisher,
		article.Title,
		article.AuthorOrEmpty(),
		article.URL,
		article.Content,
	}
}
