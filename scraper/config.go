package scraper

// SiteConfig describes where a newspaper's search interface lives and which
// selectors pull articles out of its markup.
type SiteConfig struct {
	BaseURL   string
	Publisher string
	List      ListConfig
	Article   ArticleConfig
}

// ListConfig holds the selectors for a search-result page.
type ListConfig struct {
	// EntrySelector matches one element per listed article.
	EntrySelector string
	// DateSelector is evaluated relative to the entry (or its date sibling).
	DateSelector string
	// PaginationSelector matches the paging controls, if the site has any.
	PaginationSelector string
	// CountSelector matches the elements that may hold the total result
	// count, for sites that are paged by count.
	CountSelector string
	PageSize      int
}

// ArticleConfig holds the selectors for an article page.
type ArticleConfig struct {
	TitleSelector   string
	AuthorSelector  string
	ContentSelector string
	// StripSelectors are removed from the document before any text is read.
	StripSelectors []string
}

// Publisher names as they appear in the output.
const (
	HeraldPublisher = "The Korea Herald"
	TimesPublisher  = "Korea Times"
)

// HeraldConfig returns the selectors for koreaherald.com search results.
func HeraldConfig() SiteConfig {
	return SiteConfig{
		BaseURL:   "http://www.koreaherald.com",
		Publisher: HeraldPublisher,
		List: ListConfig{
			EntrySelector:      ".main_sec_li li",
			DateSelector:       ".main_l_t1_bg .main_l_t2 span",
			PaginationSelector: ".paging li",
		},
		Article: ArticleConfig{
			TitleSelector:   ".view_tit",
			AuthorSelector:  ".view_tit_byline_l a",
			ContentSelector: "#articleText .view_con_t",
			StripSelectors:  []string{"br", "img"},
		},
	}
}

// TimesConfig returns the selectors for koreatimes.co.kr search results.
func TimesConfig() SiteConfig {
	return SiteConfig{
		BaseURL:   "https://www.koreatimes.co.kr",
		Publisher: TimesPublisher,
		List: ListConfig{
			EntrySelector: "td > a",
			DateSelector:  "font",
			CountSelector: "font",
			PageSize:      10,
		},
		Article: ArticleConfig{
			TitleSelector:   ".view_headline.HD",
			ContentSelector: "#startts > span",
		},
	}
}
