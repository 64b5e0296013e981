package storefront

import (
	"strings"
	"unicode"
)

// Slugify lowers the input and collapses every run of non-alphanumeric
// characters into a single hyphen. An input with no usable characters
// yields an empty slug and callers fall back to the record ID.
func Slugify(input string) string {
	var b strings.Builder
	prevHyphen := true

	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
