package search

import (
	"regexp"
	"strings"
)

var (
	isbnPrefix = regexp.MustCompile(`^ISBN(?:-1[03])?:?\s*`)
	isbnBody   = regexp.MustCompile(`^[0-9X][0-9X -]*$`)
	isbn10     = regexp.MustCompile(`^[0-9]{9}[0-9X]$`)
	isbn13     = regexp.MustCompile(`^97[89][0-9]{10}$`)
)

// LooksLikeISBN reports whether q is shaped like a 10 or 13 digit ISBN,
// with optional hyphen or space separators and an optional "ISBN:",
// "ISBN-10:" or "ISBN-13:" prefix. All catalog clients that support an
// isbn: scoped query share this single predicate.
func LooksLikeISBN(q string) bool {
	s := isbnPrefix.ReplaceAllString(strings.TrimSpace(q), "")
	if !isbnBody.MatchString(s) {
		return false
	}
	s = strings.NewReplacer("-", "", " ", "").Replace(s)
	switch len(s) {
	case 10:
		return isbn10.MatchString(s)
	case 13:
		return isbn13.MatchString(s)
	}
	return false
}
