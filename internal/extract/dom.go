package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text returns the trimmed text of the first element under scope matching selector.
// A selector group matches in document order. Missing elements yield "".
func Text(scope *goquery.Selection, selector string) string {
	if scope == nil {
		return ""
	}
	return strings.TrimSpace(scope.Find(selector).First().Text())
}

// Texts returns the trimmed text of every match in document order, dropping empty entries.
func Texts(scope *goquery.Selection, selector string) []string {
	result := []string{}
	if scope == nil {
		return result
	}
	scope.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			result = append(result, text)
		}
	})
	return result
}

// Attr returns the trimmed attribute value of the first match.
func Attr(scope *goquery.Selection, selector, attr string) string {
	if scope == nil {
		return ""
	}
	value, _ := scope.Find(selector).First().Attr(attr)
	return strings.TrimSpace(value)
}

// FirstText probes selectors in order and returns the first non-empty text.
func FirstText(scope *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if text := Text(scope, selector); text != "" {
			return text
		}
	}
	return ""
}

// Blocks joins the text of every matching block element with a blank line.
func Blocks(scope *goquery.Selection, selector string) string {
	return strings.Join(Texts(scope, selector), "\n\n")
}

// VisibleText approximates rendered text: scripts and styles are dropped, lines are trimmed,
// blank lines removed, and the result is cut to limit runes. limit <= 0 means no bound.
func VisibleText(scope *goquery.Selection, limit int) string {
	if scope == nil || scope.Length() == 0 {
		return ""
	}

	clone := scope.Clone()
	clone.Find("script, style, noscript, template").Remove()

	lines := strings.Split(clone.Text(), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}

	text := strings.Join(cleaned, "\n")
	if limit <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
