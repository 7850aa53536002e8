package discovery

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/newscrawl/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timesListing renders a search-result page with a result counter and the
// given entries (date line, href).
func timesListing(total int, entries [][2]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body><font>Search</font><font>[%s articles]</font><table>`, formatThousands(total))
	for _, e := range entries {
		fmt.Fprintf(&b, `<tr><td><a href="%s">headline</a><div><font>  Nation  %s </font></div></td></tr>`, e[1], e[0])
	}
	b.WriteString(`</table></body></html>`)
	return b.String()
}

func formatThousands(n int) string {
	s := strconv.Itoa(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func timesArticle(title string) string {
	return `<html><body>
		<div class="view_headline HD">` + title + `</div>
		<div id="startts">
			<span><span>By Jung Min-ho</span><span>SEOUL</span><span>Cases rose.</span></span>
			<span>Officials said more.</span>
		</div>
	</body></html>`
}

// TestTimesPageCount verifies pages are ceil(total / page size)
func TestTimesPageCount(t *testing.T) {
	source := NewTimesSource(Options{})

	tests := []struct {
		total int
		pages int
	}{
		{0, 0},
		{1, 1},
		{10, 1},
		{11, 2},
		{95, 10},
		{100, 10},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.total), func(t *testing.T) {
			assert.Equal(t, tt.pages, source.pageCount(tt.total))
		})
	}
}

// TestTimesSearch_VisitsEveryPage verifies every numbered page is requested
// exactly once after the count request
func TestTimesSearch_VisitsEveryPage(t *testing.T) {
	site := newFakeSite(t, func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, timesListing(95, nil))
	})
	opts, _ := testOptions(site.URL)

	articles, err := collect(t, NewTimesSource(opts), "covid-19")
	require.NoError(t, err)
	assert.Empty(t, articles)

	requests := site.Requests()
	require.Len(t, requests, 11, "one count request plus ten pages")

	visited := map[string]int{}
	for _, req := range requests[1:] {
		visited[pageNum(t, req)]++
	}
	assert.Len(t, visited, 10)
	for page := 1; page <= 10; page++ {
		assert.Equal(t, 1, visited[strconv.Itoa(page)], "page %d", page)
	}
}

func pageNum(t *testing.T, requestURI string) string {
	req, err := http.NewRequest(http.MethodGet, "http://example.com"+requestURI, nil)
	require.NoError(t, err)
	return req.URL.Query().Get("pageNum")
}

// TestTimesSearch_QueryParameters verifies the date range and encoding
func TestTimesSearch_QueryParameters(t *testing.T) {
	site := newFakeSite(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/www2/common/search.asp", r.URL.Path)
		assert.Equal(t, "covid 19/seoul", q.Get("kwd"))
		assert.Equal(t, "20200301", q.Get("startDate"))
		assert.Equal(t, "20200331", q.Get("endDate"))
		assert.Equal(t, "10", q.Get("pageSize"))
		writeHTML(w, timesListing(0, nil))
	})
	opts, _ := testOptions(site.URL)
	opts.StartDate = "20200301"
	opts.EndDate = "20200331"

	_, err := collect(t, NewTimesSource(opts), "covid 19/seoul")
	require.NoError(t, err)
}

// TestTimesSearch_CutoffStopsOuterLoop verifies later pages are not fetched
// once the cutoff is seen
func TestTimesSearch_CutoffStopsOuterLoop(t *testing.T) {
	site := newFakeSite(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/article" {
			writeHTML(w, timesArticle("Article "+r.URL.Query().Get("id")))
			return
		}
		switch r.URL.Query().Get("pageNum") {
		case "1":
			writeHTML(w, timesListing(30, [][2]string{{"2020-01-03", "/article?id=1"}}))
		case "2":
			writeHTML(w, timesListing(30, [][2]string{
				{"2020-01-02", "/article?id=2"},
				{"2019-12-31", "/article?id=3"},
				{"2020-01-01", "/article?id=4"},
			}))
		default:
			t.Errorf("unexpected page request: %s", r.URL)
		}
	})
	opts, _ := testOptions(site.URL)

	articles, err := collect(t, NewTimesSource(opts), "covid-19")
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "Article 1", articles[0].Title)
	assert.Equal(t, "Article 2", articles[1].Title)
	for _, a := range articles {
		assert.NotContains(t, a.Date, DefaultCutoff)
		assert.Equal(t, scraper.TimesPublisher, a.Publisher)
	}
}

// TestTimesSearch_MissingHeadlineSkipped verifies a non-standard article page
// is skipped and the crawl continues
func TestTimesSearch_MissingHeadlineSkipped(t *testing.T) {
	site := newFakeSite(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/article":
			if r.URL.Query().Get("id") == "1" {
				writeHTML(w, `<html><body><div class="photo_headline">Gallery</div></body></html>`)
				return
			}
			writeHTML(w, timesArticle("Article "+r.URL.Query().Get("id")))
		default:
			writeHTML(w, timesListing(2, [][2]string{
				{"2020-05-10", "/article?id=1"},
				{"2020-05-09", "/article?id=2"},
			}))
		}
	})
	opts, logBuf := testOptions(site.URL)

	articles, err := collect(t, NewTimesSource(opts), "covid-19")
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "Article 2", articles[0].Title)
	assert.Equal(t, "2020-05-09", articles[0].Date)
	assert.Equal(t, site.URL+"/article?id=2", articles[0].URL)
	assert.Contains(t, logBuf.String(), ".view_headline.HD")
}

// TestTimesSearch_MissingCountFails verifies the crawl cannot start without a
// result count
func TestTimesSearch_MissingCountFails(t *testing.T) {
	site := newFakeSite(t, func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, `<html><body><font>No results</font></body></html>`)
	})
	opts, _ := testOptions(site.URL)

	_, err := collect(t, NewTimesSource(opts), "covid-19")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingMarkup))
	assert.Len(t, site.Requests(), 1)
}

// TestParseResultCount verifies the counter is found among other font tags
func TestParseResultCount(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<font>Search results</font><font>[1,234 articles]</font>`))
	require.NoError(t, err)

	total, ok := parseResultCount(doc.Find("font"))
	require.True(t, ok)
	assert.Equal(t, 1234, total)
}

// TestListedDate verifies the trailing date is cut from the listing line
func TestListedDate(t *testing.T) {
	assert.Equal(t, "2020-05-10", listedDate("  Nation  2020-05-10 "))
	assert.Equal(t, "2020-05-10", listedDate("2020-05-10"))
	assert.Equal(t, "short", listedDate("short"))
}

// TestExtractTimesArticle verifies title, byline and paragraph text
func TestExtractTimesArticle(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(timesArticle("Cases rise")))
	require.NoError(t, err)

	article, err := extractTimesArticle(doc, scraper.TimesConfig(), "http://example.com/a", "2020-05-10")
	require.NoError(t, err)

	assert.Equal(t, "Cases rise", article.Title)
	require.NotNil(t, article.Author)
	assert.Equal(t, "Jung Min-ho", *article.Author)
	assert.Equal(t, "SEOUL Cases rose. Officials said more.", article.Content)
}
