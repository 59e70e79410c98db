package normalize

import (
	"regexp"
	"strings"
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{M}\p{N}_]+`)
	// letters, digits, underscore, whitespace and the Devanagari block survive
	symbolPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}\x{0900}-\x{097F}]`)
)

// Clean normalizes post text for lexicon matching. It lowercases, drops URLs
// and @mentions, keeps hashtag words without '#', strips punctuation and
// emoji, and collapses whitespace.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "#", "")
	text = symbolPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
