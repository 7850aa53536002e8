package discovery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const bylinePrefix = "By "

// bylineWindow is how many leading children of a paragraph may carry the
// byline.
const bylineWindow = 3

// extractBody reads the author and body text from article paragraphs whose
// byline, when present, is one of the first children of a paragraph.
//
// Each paragraph's text is taken in two tiers:
//
//  1. Structured: the trimmed texts of the paragraph's element children,
//     minus the byline child, joined by single spaces. The paragraph's own
//     text can glue child fragments together without whitespace, so this
//     tier wins whenever it is non-empty.
//  2. Raw: the paragraph's whitespace-normalized text. If an author is
//     known, the "By <author>" fragment is stripped from it.
//
// The author is "" when no byline is found.
func extractBody(paragraphs *goquery.Selection) (author, content string) {
	var parts []string

	paragraphs.Each(func(_ int, p *goquery.Selection) {
		text, found := paragraphText(p, author)
		if found != "" {
			author = found
		}
		if text != "" {
			parts = append(parts, text)
		}
	})

	return author, normalizeSpace(strings.Join(parts, " "))
}

// paragraphText returns the text of one paragraph and the author found in
// it, if no author was known yet.
func paragraphText(p *goquery.Selection, knownAuthor string) (text, found string) {
	var kept []string

	p.Children().Each(func(i int, child *goquery.Selection) {
		childText := child.Text()
		if knownAuthor == "" && found == "" && i < bylineWindow {
			if name := bylineName(childText); name != "" {
				found = name
				return
			}
		}
		if t := normalizeSpace(childText); t != "" {
			kept = append(kept, t)
		}
	})

	if len(kept) > 0 {
		return strings.Join(kept, " "), found
	}

	author := knownAuthor
	if found != "" {
		author = found
	}
	return stripByline(p.Text(), author), found
}

// bylineName returns the name following "By " in s, or "" if s carries no
// byline.
func bylineName(s string) string {
	idx := strings.Index(s, bylinePrefix)
	if idx < 0 {
		return ""
	}
	return normalizeSpace(s[idx+len(bylinePrefix):])
}

// stripByline removes "By <author>" from raw paragraph text. The byline is
// expected at the start; otherwise its first occurrence is removed. Text
// without the byline is returned normalized but otherwise unchanged.
func stripByline(raw, author string) string {
	raw = normalizeSpace(raw)
	if author == "" {
		return raw
	}

	byline := bylinePrefix + author
	if rest, ok := strings.CutPrefix(raw, byline); ok {
		return strings.TrimSpace(rest)
	}
	if before, after, ok := strings.Cut(raw, byline); ok {
		return normalizeSpace(before + " " + after)
	}
	return raw
}
