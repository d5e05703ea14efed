package cloud

import (
	"sort"
	"strings"
	"unicode"
)

// stopWords are dropped by CountWords.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true, "has": true,
	"have": true, "in": true, "is": true, "it": true, "its": true, "of": true,
	"on": true, "or": true, "that": true, "the": true, "this": true, "to": true,
	"was": true, "were": true, "will": true, "with": true,
}

// CountWords tokenizes text into lowercase words and returns them weighted by
// frequency, most frequent first. Ties keep first-appearance order. Stop words
// and single-rune tokens are dropped. max <= 0 means no limit.
func CountWords(text string, max int) []Word {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\'' && r != '-'
	})

	counts := make(map[string]int)
	var order []string
	for _, tok := range tokens {
		tok = strings.ToLower(strings.Trim(tok, "'-"))
		if len([]rune(tok)) < 2 || stopWords[tok] {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if max > 0 && len(order) > max {
		order = order[:max]
	}

	words := make([]Word, len(order))
	for i, tok := range order {
		words[i] = Word{Text: tok, Value: float64(counts[tok])}
	}
	return words
}
