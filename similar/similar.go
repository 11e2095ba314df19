// Package similar finds "did you mean" suggestions for mistyped identifiers
// such as subcommand names, flags and lint filter names.
package similar

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Distance returns the Levenshtein distance between a and b, counted in runes.
// Insertion, deletion and substitution each cost 1.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Threshold returns the largest distance at which candidate is still
// considered similar to query: a third of the longer length. Strings shorter
// than three runes only match exactly.
func Threshold(query, candidate string) int {
	return max(utf8.RuneCountInString(query), utf8.RuneCountInString(candidate)) / 3
}

// FindSimilarStr returns the candidate closest to query, if any is close
// enough. An exact match wins, then a case-insensitive one. Among candidates
// within their threshold the smallest distance wins, ties going to the
// earliest.
func FindSimilarStr(query string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	for _, c := range candidates {
		if query == c {
			return c, true
		}
	}

	// Levenshtein is case sensitive, so look for a case-only difference next
	for _, c := range candidates {
		if strings.EqualFold(query, c) {
			return c, true
		}
	}

	best, bestDist := "", -1
	for _, c := range candidates {
		d := Distance(query, c)
		if d > Threshold(query, c) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}

	return best, bestDist >= 0
}

// Suggestion renders a "did you mean" hint for query, or "" when nothing is
// similar.
func Suggestion(query string, candidates []string) string {
	if s, ok := FindSimilarStr(query, candidates); ok {
		return fmt.Sprintf("did you mean `%s`?", s)
	}
	return ""
}
