package search

import "strings"

// Publisher and imprint names tied to the Brazilian publishing industry.
var publisherKeywords = []string{
	"editora", "companhia", "records", "martins", "fontes", "ática", "saraiva",
	"moderna", "ftd", "scipione", "cobogó", "intrínseca", "planet", "rocco",
	"zahar", "34", "leya", "quadrante", "biruta", "perspectiva",
}

// Short Portuguese function words, each with a trailing space so they match
// as words rather than arbitrary fragments.
var functionWords = []string{
	"o ", "a ", "os ", "as ", "de ", "da ", "do ", "dos ", "das ", "em ",
	"para ", "com ", "sem ", "por ", "como ", "mais ", "muito ", "muita ",
}

// Common Brazilian surnames.
var surnames = []string{
	"silva", "santos", "souza", "costa", "ferreira",
	"alves", "pereira", "lima", "gomes", "ribeiro",
}

// LooksPortuguese is a heuristic guess at whether a result is a
// Portuguese-language book. It is directional, not a language detector:
// false positives and negatives are expected and fine.
func LooksPortuguese(b Book) bool {
	title := strings.ToLower(b.Title)
	author := strings.ToLower(b.Author)
	publisher := strings.ToLower(b.Publisher)

	for _, kw := range publisherKeywords {
		if strings.Contains(title, kw) || strings.Contains(author, kw) || strings.Contains(publisher, kw) {
			return true
		}
	}

	// The length guard keeps a word from matching only because it makes up
	// (almost) the whole title.
	for _, w := range functionWords {
		if strings.Contains(title, w) && len(title) > len(w)+2 {
			return true
		}
	}

	for _, s := range surnames {
		if strings.Contains(author, s) {
			return true
		}
	}

	return false
}
