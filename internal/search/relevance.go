package search

import "strings"

// Score rates how well a result matches the query text. Pure and
// deterministic; matching is case-insensitive and the signals are additive.
func Score(b Book, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	title := strings.ToLower(b.Title)
	author := strings.ToLower(b.Author)

	score := 0

	switch {
	case title == q:
		score += 100
	case strings.Contains(title, q):
		score += 50
	}

	switch {
	case author == q:
		score += 80
	case strings.Contains(author, q):
		score += 40
	}

	if LooksPortuguese(b) {
		score += 20
	}

	return score
}
