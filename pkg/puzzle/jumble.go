package puzzle

import "slices"

// jumbleAttempts is how many shuffles Jumble tries before falling back.
const jumbleAttempts = 10

// Jumble returns a scrambled display form of word that differs from it when
// possible. A word made of one repeated letter comes back unchanged.
func Jumble(word string, rng Rand) string {
	chars := []rune(word)
	if len(chars) < 2 {
		return word
	}
	for i := 0; i < jumbleAttempts; i++ {
		rng.Shuffle(len(chars), func(a, b int) { chars[a], chars[b] = chars[b], chars[a] })
		if s := string(chars); s != word {
			return s
		}
	}
	rev := []rune(word)
	slices.Reverse(rev)
	if s := string(rev); s != word {
		return s
	}
	return word
}
