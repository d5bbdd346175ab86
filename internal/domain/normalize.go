package domain

import (
	"strings"
	"unicode"
)

// NormalizeText prepares free text for comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses runs of whitespace into one space
//
// Used for keyword matching on event categories and for suggestion queries.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// TitleCase upper-cases the first letter of every word and leaves the rest
// as is. Underscores and digits count as word characters, so "green_bin"
// becomes "Green_bin".
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	inWord := false
	for i, c := range r {
		word := c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
		if word && !inWord {
			r[i] = unicode.ToUpper(c)
		}
		inWord = word
	}
	return string(r)
}

// Deref returns the value behind p, or "" for nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// FirstNonEmpty returns the first non-nil, non-blank value.
func FirstNonEmpty(vals ...*string) (string, bool) {
	for _, v := range vals {
		if v != nil && strings.TrimSpace(*v) != "" {
			return *v, true
		}
	}
	return "", false
}
