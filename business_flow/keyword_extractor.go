package businessflow

import (
	"sort"
	"strings"
	"unicode"
)

// stopwords excluded from extracted keywords. English-biased on purpose:
// extraction is a fallback for targets without curated keywords.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "can": {}, "do": {}, "for": {}, "from": {},
	"get": {}, "has": {}, "have": {}, "how": {}, "if": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "more": {}, "not": {}, "of": {}, "on": {},
	"or": {}, "our": {}, "out": {}, "so": {}, "that": {}, "the": {}, "their": {},
	"them": {}, "then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"to": {}, "up": {}, "was": {}, "we": {}, "were": {}, "what": {}, "when": {},
	"which": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// ExtractKeywords derives up to max candidate keywords from free text by
// frequency. Tokens are lowercased, stopwords and tokens shorter than three
// runes are dropped, and ties break by first appearance so the output is
// deterministic for a given input.
func ExtractKeywords(text string, max int) []string {
	if max <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	pos := 0
	for _, tok := range tokenizeWords(text) {
		tok = strings.ToLower(tok)
		if len([]rune(tok)) < 3 {
			continue
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		if _, seen := counts[tok]; !seen {
			firstSeen[tok] = pos
			pos++
		}
		counts[tok]++
	}
	if len(counts) == 0 {
		return nil
	}

	ranked := make([]string, 0, len(counts))
	for tok := range counts {
		ranked = append(ranked, tok)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return firstSeen[ranked[i]] < firstSeen[ranked[j]]
	})
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// tokenizeWords splits text into word tokens, treating any rune that is not
// a letter, digit, apostrophe, or hyphen as a separator.
func tokenizeWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}

// countWords counts word tokens in free text
func countWords(text string) int {
	return len(tokenizeWords(text))
}
