package applications

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var blockTag = regexp.MustCompile(`(?i)<(p|div|br|ul|ol|li|h[1-6]|table|tr|td|section|article|html|body)\b[^>]*>`)

// NormalizeJobDescription trims the text and converts pasted HTML to Markdown.
// Only input that opens with a tag and contains block-level markup counts as
// HTML; anything else is returned unchanged apart from trimming.
func NormalizeJobDescription(text string) string {
	trimmed := strings.TrimSpace(text)
	if !looksLikeHTML(trimmed) {
		return trimmed
	}
	md, err := htmltomarkdown.ConvertString(trimmed)
	if err != nil || strings.TrimSpace(md) == "" {
		return trimmed
	}
	return strings.TrimSpace(md)
}

func looksLikeHTML(s string) bool {
	return strings.HasPrefix(s, "<") && blockTag.MatchString(s)
}
