package pagegen

import (
	"strings"

	"golang.org/x/net/html"
)

// LooksLikeDocument reports whether text plausibly is a complete HTML
// document: it tokenizes the input and accepts when a doctype or an <html>
// element appears before any other markup. This is a quality signal only —
// the output contract with the backend is assumed, never enforced, so
// callers log a warning and serve the text as-is either way.
func LooksLikeDocument(text string) bool {
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.DoctypeToken:
			return true
		case html.StartTagToken:
			name, _ := z.TagName()
			return strings.EqualFold(string(name), "html")
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return false
			}
		case html.CommentToken:
			// Leading comments are fine, keep scanning.
		default:
			return false
		}
	}
}
