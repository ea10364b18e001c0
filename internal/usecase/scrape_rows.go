package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	rowMinRunes   = 16
	maxScrapeRows = 100
	rowSelector   = `tr, [role="row"], [class*="row"], [class*="Row"]`
)

// ExtractRows returns the de-duplicated text of row-like elements that look like table rows:
// more than 15 characters with at least one digit. It is a heuristic, not a parser.
func ExtractRows(html string) ([]string, error) {
	rows := make([]string, 0, 32)
	if strings.TrimSpace(html) == "" {
		return rows, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, 64)
	doc.Find(rowSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.Join(strings.Fields(spacedText(sel)), " ")
		if utf8.RuneCountInString(text) < rowMinRunes || !strings.ContainsFunc(text, unicode.IsDigit) {
			return true
		}
		if _, dup := seen[text]; dup {
			return true
		}
		seen[text] = struct{}{}
		rows = append(rows, text)
		return len(rows) < maxScrapeRows
	})

	return rows, nil
}

// spacedText joins descendant text nodes with spaces so adjacent cells stay apart.
func spacedText(sel *goquery.Selection) string {
	parts := make([]string, 0, 8)
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			parts = append(parts, child.Text())
		case "#comment", "script", "style":
		default:
			parts = append(parts, spacedText(child))
		}
	})
	return strings.Join(parts, " ")
}
