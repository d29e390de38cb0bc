package enrich

import (
	"github.com/japaniel/beehive/pkg/puzzle"
)

// WordTally counts word attributes newly added during a pass.
type WordTally struct {
	Length         int
	First          int
	FirstTwo       int
	Jumbled        int
	Pangram        int
	PerfectPangram int
}

// Add accumulates o into t.
func (t *WordTally) Add(o WordTally) {
	t.Length += o.Length
	t.First += o.First
	t.FirstTwo += o.FirstTwo
	t.Jumbled += o.Jumbled
	t.Pangram += o.Pangram
	t.PerfectPangram += o.PerfectPangram
}

// PuzzleTally records which puzzle attributes a pass populated.
type PuzzleTally struct {
	ID              bool
	Count           bool
	Letters         bool
	LetterStats     bool
	Pangrams        bool
	PerfectPangrams bool
	Words           WordTally
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// AnnotateWord fills in any missing attributes of w. letters is the puzzle's
// letter set, or "" when it is not known yet.
func AnnotateWord(w *puzzle.Word, letters string, rng puzzle.Rand) WordTally {
	var added WordTally
	w.Text = puzzle.NormalizeWord(w.Text)
	text := w.Text
	if text == "" {
		return added
	}
	runes := []rune(text)

	added.Length = boolInt(w.Length.Set(len(runes)))
	added.First = boolInt(w.First.Set(string(runes[:1])))
	added.FirstTwo = boolInt(w.FirstTwo.Set(string(runes[:min(2, len(runes))])))
	if !w.Jumbled.IsSet() {
		added.Jumbled = boolInt(w.Jumbled.Set(puzzle.Jumble(text, rng)))
	}

	if letters == "" {
		return added
	}
	pangram := puzzle.IsSuperset(text, letters)
	added.Pangram = boolInt(w.Pangram.Set(pangram))
	// Decided from the stored pangram flag so an old record stays consistent.
	isPangram := w.Pangram.Value()
	perfect := isPangram && len(runes) == puzzle.LetterCount && puzzle.SameLetters(text, letters)
	added.PerfectPangram = boolInt(w.PerfectPangram.Set(perfect))
	return added
}

// AnnotatePuzzle fills in any missing attributes of p and its words. used holds
// every identifier already assigned in the store; new ids are reserved in it
// immediately.
func AnnotatePuzzle(p *puzzle.Puzzle, used *puzzle.IDSet, rng puzzle.Rand) (PuzzleTally, error) {
	var tally PuzzleTally

	if !p.ID.IsSet() {
		id, err := puzzle.NewID(p.Date, used, rng)
		if err != nil {
			return tally, err
		}
		tally.ID = p.ID.Set(id)
	}

	if !p.Letters.IsSet() {
		if letters, ok := puzzle.DeriveLetters(p.Texts()); ok {
			tally.Letters = p.Letters.Set(letters)
		}
	}
	letters := p.Letters.Value()
	if !puzzle.ValidLetters(letters) {
		// A hand-edited store may carry a malformed set; dependents wait for a migration.
		letters = ""
	}

	for _, w := range p.Words {
		tally.Words.Add(AnnotateWord(w, letters, rng))
	}

	tally.Count = p.Count.Set(len(p.Words))

	if letters == "" {
		return tally, nil
	}

	if !p.LetterStats.IsSet() {
		tally.LetterStats = p.LetterStats.Set(letterStats(p, letters))
	}

	if !p.Pangrams.IsSet() || !p.PerfectPangrams.IsSet() {
		var pangrams, perfect int
		for _, w := range p.Words {
			if w.Pangram.Value() {
				pangrams++
			}
			if w.PerfectPangram.Value() {
				perfect++
			}
		}
		tally.Pangrams = p.Pangrams.Set(pangrams)
		tally.PerfectPangrams = p.PerfectPangrams.Set(perfect)
	}
	return tally, nil
}

// letterStats counts words by first letter for each puzzle letter, in the
// order the letters appear.
func letterStats(p *puzzle.Puzzle, letters string) [puzzle.LetterCount]puzzle.LetterStat {
	var stats [puzzle.LetterCount]puzzle.LetterStat
	starts := make(map[string]int, puzzle.LetterCount)
	for _, w := range p.Words {
		if first, ok := w.First.Get(); ok {
			starts[first]++
		}
	}
	for i, r := range []rune(letters)[:puzzle.LetterCount] {
		ch := string(r)
		stats[i] = puzzle.LetterStat{Letter: ch, Count: starts[ch]}
	}
	return stats
}
