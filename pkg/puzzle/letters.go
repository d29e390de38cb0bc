package puzzle

import (
	"slices"
)

// DeriveLetters computes the canonical letter set for a puzzle's words:
// the central letter (the smallest letter shared by every word) followed by
// the remaining letters in sorted order. It reports false when the words share
// no letter or the result is not exactly LetterCount letters.
func DeriveLetters(words []string) (string, bool) {
	if len(words) == 0 {
		return "", false
	}

	common := runeSet(words[0])
	union := runeSet(words[0])
	for _, w := range words[1:] {
		ws := runeSet(w)
		for r := range common {
			if _, ok := ws[r]; !ok {
				delete(common, r)
			}
		}
		for r := range ws {
			union[r] = struct{}{}
		}
	}
	if len(common) == 0 {
		return "", false
	}

	central := slices.Min(keys(common))
	delete(union, central)
	rest := keys(union)
	slices.Sort(rest)

	letters := string(central) + string(rest)
	if len(rest)+1 != LetterCount {
		return "", false
	}
	return letters, true
}

// ValidLetters reports whether s is LetterCount distinct characters.
func ValidLetters(s string) bool {
	set := runeSet(s)
	return len(set) == LetterCount && len([]rune(s)) == LetterCount
}

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

func keys(m map[rune]struct{}) []rune {
	out := make([]rune, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	return out
}

// IsSuperset reports whether every rune of sub occurs in s.
func IsSuperset(s, sub string) bool {
	set := runeSet(s)
	for _, r := range sub {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}

// SameLetters reports whether a and b use exactly the same set of runes.
func SameLetters(a, b string) bool {
	return IsSuperset(a, b) && IsSuperset(b, a)
}
