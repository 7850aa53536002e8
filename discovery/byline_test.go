package discovery

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraphs(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="startts">` + html + `</div>`))
	require.NoError(t, err)
	return doc.Find("#startts > span")
}

// TestExtractBody_StructuredChildren verifies children text is preferred and
// the byline child is excluded
func TestExtractBody_StructuredChildren(t *testing.T) {
	author, content := extractBody(paragraphs(t,
		`<span><b>By Kim Bo-eun</b><i>The first</i><i>sentence.</i></span>`))

	assert.Equal(t, "Kim Bo-eun", author)
	assert.Equal(t, "The first sentence.", content)
}

// TestExtractBody_ChildTextPreferredOverGluedRaw verifies children are joined
// with spaces where the raw text would glue them
func TestExtractBody_ChildTextPreferredOverGluedRaw(t *testing.T) {
	author, content := extractBody(paragraphs(t,
		`<span><b>Seoul</b><b>Busan</b></span>`))

	assert.Empty(t, author)
	assert.Equal(t, "Seoul Busan", content)
}

// TestExtractBody_RawFallbackStripsByline verifies the byline is removed from
// raw text when the children carry nothing but the byline
func TestExtractBody_RawFallbackStripsByline(t *testing.T) {
	author, content := extractBody(paragraphs(t,
		`<span><strong>By Lee Hyo-jin</strong>The government announced new rules.</span>`))

	assert.Equal(t, "Lee Hyo-jin", author)
	assert.Equal(t, "The government announced new rules.", content)
}

// TestExtractBody_RawTextWithoutChildren verifies plain paragraphs are kept
func TestExtractBody_RawTextWithoutChildren(t *testing.T) {
	author, content := extractBody(paragraphs(t,
		`<span>  One   paragraph. </span><span>Another.</span>`))

	assert.Empty(t, author)
	assert.Equal(t, "One paragraph. Another.", content)
}

// TestExtractBody_BylineOnlyInLeadingChildren verifies a "By " fragment after
// the third child is body text
func TestExtractBody_BylineOnlyInLeadingChildren(t *testing.T) {
	author, content := extractBody(paragraphs(t,
		`<span><i>a</i><i>b</i><i>c</i><i>By the river</i></span>`))

	assert.Empty(t, author)
	assert.Equal(t, "a b c By the river", content)
}

// TestExtractBody_ThirdChildByline verifies the third child still counts
func TestExtractBody_ThirdChildByline(t *testing.T) {
	author, content := extractBody(paragraphs(t,
		`<span><i>SEOUL</i><i>-</i><i>By Park Si-soo</i><i>Body.</i></span>`))

	assert.Equal(t, "Park Si-soo", author)
	assert.Equal(t, "SEOUL - Body.", content)
}

// TestExtractBody_FirstBylineWins verifies later bylines stay in the body
func TestExtractBody_FirstBylineWins(t *testing.T) {
	author, content := extractBody(paragraphs(t,
		`<span><b>By Kim Rahn</b><i>Opening.</i></span><span><b>By the way</b><i>more.</i></span>`))

	assert.Equal(t, "Kim Rahn", author)
	assert.Equal(t, "Opening. By the way more.", content)
}

// TestStripByline verifies prefix and inner removal
func TestStripByline(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		author string
		want   string
	}{
		{"prefix", "By Kim Rahn Seoul said", "Kim Rahn", "Seoul said"},
		{"inner", "SEOUL By Kim Rahn said", "Kim Rahn", "SEOUL said"},
		{"absent", "Nothing to strip", "Kim Rahn", "Nothing to strip"},
		{"no author", "By Kim Rahn said", "", "By Kim Rahn said"},
		{"whitespace", "By  Kim\n Rahn   said", "Kim Rahn", "said"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripByline(tt.raw, tt.author))
		})
	}
}
