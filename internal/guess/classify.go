// Package guess classifies submitted guesses against the secret word.
package guess

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

type Verdict int

const (
	Wrong Verdict = iota
	Close
	Correct
)

func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Close:
		return "close"
	default:
		return "wrong"
	}
}

// Classify compares a guess to the secret word. Correct means equality
// after trimming and case folding. Close is a near miss: edit distance
// at most 2 on words longer than 3 runes, or a distance/length ratio
// under 0.3.
func Classify(guess, word string) Verdict {
	g := strings.ToLower(strings.TrimSpace(guess))
	w := strings.ToLower(strings.TrimSpace(word))

	if g == w {
		return Correct
	}
	if g == "" || w == "" {
		return Wrong
	}

	dist := levenshtein.ComputeDistance(g, w)
	maxLen := utf8.RuneCountInString(g)
	if n := utf8.RuneCountInString(w); n > maxLen {
		maxLen = n
	}

	if maxLen > 3 && dist <= 2 {
		return Close
	}
	if float64(dist)/float64(maxLen) < 0.3 {
		return Close
	}
	return Wrong
}
