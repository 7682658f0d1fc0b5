package cms

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Excerpt extracts a plain-text excerpt of at most max runes from an HTML
// story body, cut on a word boundary. Script and style contents are
// skipped. Input that fails to parse is returned truncated as-is.
func Excerpt(story string, max int) string {
	if story == "" || max <= 0 {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(story))
	if err != nil {
		return truncate(strings.TrimSpace(story), max)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return truncate(b.String(), max)
}

// truncate cuts text to max runes on the last word boundary, appending an
// ellipsis when anything was removed
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := runes[:max]
	last := max
	for i := max - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) {
			last = i
			break
		}
	}
	if last == max {
		// Single unbroken token longer than max
		return string(cut) + "…"
	}

	return strings.TrimRightFunc(string(cut[:last]), unicode.IsSpace) + "…"
}
