package newsfeed

import "github.com/google/uuid"

// Article is a single crawled news article. Date is the date string shown on
// the search listing, not a parsed timestamp, because cutoff decisions are
// made against the displayed text.
type Article struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Publisher string    `json:"publisher"`
	Author    *string   `json:"author,omitempty"`
	Content   string    `json:"content"`
	URL       string    `json:"url"`
}

// NewArticle creates an article with a fresh ID. An empty author is stored as
// nil so that "unknown" has exactly one representation.
func NewArticle(title, date, publisher, author, content, url string) Article {
	var a *string
	if author != "" {
		a = &author
	}

	return Article{
		ID:        uuid.New(),
		Title:     title,
		Date:      date,
		Publisher: publisher,
		Author:    a,
		Content:   content,
		URL:       url,
	}
}

// AuthorOrEmpty returns the author name, or "" when the author is unknown.
func (a Article) AuthorOrEmpty() string {
	if a.Author == nil {
		return ""
	}
	return *a.Author
}
