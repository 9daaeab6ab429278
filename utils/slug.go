package utils

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Slugify derives a URL-safe slug: lowercase, non-alphanumerics stripped,
// whitespace runs joined by single hyphens. The same rule is applied to
// post titles and category names so both slugs stay consistent.
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}

const excerptLength = 150

// MakeExcerpt returns the trimmed first 150 characters of content with a
// trailing ellipsis, used when no explicit excerpt is supplied.
func MakeExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return strings.TrimSpace(string(runes)) + "..."
}

// ParseTags normalizes the shapes tags arrive in. Priority order:
//  1. a single value that is a JSON array string (`["go","web"]`)
//  2. repeated form values (`tags[]=go&tags[]=web`)
//  3. a single plain value
// Empty and whitespace-only entries are dropped.
func ParseTags(values []string) []string {
	if len(values) == 1 {
		raw := strings.TrimSpace(values[0])
		if strings.HasPrefix(raw, "[") {
			var parsed []string
			if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
				values = parsed
			}
		}
	}

	tags := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
