package services

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from a recipe body. Comments, the doctype and the
// content of head, style and script are dropped; the text of every other
// element is kept. Each line is trimmed.
func PlainText(html string) (string, error) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	document.Find("head, style, script").Remove()

	lines := strings.Split(strings.TrimSpace(document.Text()), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n"), nil
}
