package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Slugify lowercases s, keeps ASCII letters and digits, and collapses every
// other run of characters into a single hyphen. Leading and trailing hyphens
// are trimmed, so the result may be empty.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case !prevHyphen:
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// ArticleSlug derives the slug for a new article, falling back to a random
// one when the title has no usable characters.
func ArticleSlug(title string) string {
	if slug := Slugify(title); slug != "" {
		return slug
	}
	return "article-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
