// Package validate decides whether a candidate string is a plausible
// person name. Extraction strategies over-capture, and this gate is what
// keeps brand names, navigation text and job titles out of the emitted
// records.
package validate

import "strings"

// Token-count policy: exactly 2 or 3 tokens, applied uniformly across all
// strategies. Each token must be 2-12 characters after stripping internal
// punctuation, which rejects middle initials ("Jane A. Doe") as a side
// effect of the 2-character floor.
const (
	minTokens   = 2
	maxTokens   = 3
	minTokenLen = 2
	maxTokenLen = 12
)

// IsValidPersonName reports whether candidate passes every validation
// rule. It is a pure function: same input, same output, no state.
func IsValidPersonName(candidate string) bool {
	name := Normalize(candidate)
	if name == "" {
		return false
	}

	tokens := strings.Fields(name)
	if len(tokens) < minTokens || len(tokens) > maxTokens {
		return false
	}

	for _, tok := range tokens {
		stripped := stripPunct(tok)
		if len(stripped) < minTokenLen || len(stripped) > maxTokenLen {
			return false
		}
		if _, ok := genericTokens[stripped]; ok {
			return false
		}
	}

	if _, ok := deniedLeading[stripPunct(tokens[0])]; ok {
		return false
	}
	if _, ok := roleWords[stripPunct(tokens[len(tokens)-1])]; ok {
		return false
	}
	if _, ok := famousNames[name]; ok {
		return false
	}
	if _, ok := jobTitlePhrases[name]; ok {
		return false
	}

	return true
}

// Normalize lower-cases and whitespace-folds a name. The same form is
// used as the deduplication key, so validation and dedup agree on what
// counts as the same name.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

// stripPunct removes periods, commas, hyphens and apostrophes from a
// token so "O'Brien" and "Smith-Jones" measure by their letters.
func stripPunct(tok string) string {
	var b strings.Builder
	for _, r := range tok {
		switch r {
		case '.', ',', '-', '\'', '’':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
