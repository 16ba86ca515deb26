package insight

import (
	"strings"
	"unicode"
)

// stopwords are common Korean and English words excluded from keyword counts.
var stopwords = map[string]bool{
	// Korean particles and fillers
	"하는": true, "있는": true, "가장": true, "통해": true, "대한": true,
	"것이": true, "내가": true, "나의": true, "그리고": true, "하지만": true,
	"이를": true, "하며": true, "하여": true, "있다": true, "했다": true,
	// English
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "and": true, "or": true, "but": true,
	"of": true, "to": true, "in": true, "on": true, "for": true,
	"with": true, "that": true, "this": true, "it": true, "its": true,
	"my": true, "i": true, "we": true, "at": true, "by": true,
	"from": true, "as": true, "be": true, "have": true, "has": true,
	// placeholder noise seen in exported sheets
	"nan": true, "none": true,
}

// tokenize splits text into lowercase non-stopword tokens of length >= 2.
// Duplicates are kept so counts reflect frequency.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var tokens []string
	for _, w := range words {
		if len([]rune(w)) < 2 || stopwords[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}
