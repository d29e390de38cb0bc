package puzzle

import "strings"

// LetterCount is the number of letters in a well-formed puzzle.
const LetterCount = 7

// Word is a single answer word and its derived attributes.
type Word struct {
	Text           string
	Length         Opt[int]
	First          Opt[string]
	FirstTwo       Opt[string]
	Jumbled        Opt[string]
	Pangram        Opt[bool]
	PerfectPangram Opt[bool]
}

// NewWord returns an unannotated word with normalized text.
func NewWord(text string) *Word {
	return &Word{Text: NormalizeWord(text)}
}

// LetterStat pairs one puzzle letter with the number of words starting with it.
type LetterStat struct {
	Letter string
	Count  int
}

// Puzzle is one day's puzzle record in the enriched store.
type Puzzle struct {
	Date            string
	ID              Opt[string]
	Count           Opt[int]
	Letters         Opt[string]
	LetterStats     Opt[[LetterCount]LetterStat]
	Pangrams        Opt[int]
	PerfectPangrams Opt[int]
	Words           []*Word
}

// NewPuzzle returns an unannotated puzzle carrying only its date and words.
func NewPuzzle(date string, words []string) *Puzzle {
	p := &Puzzle{Date: strings.TrimSpace(date)}
	for _, w := range words {
		p.Words = append(p.Words, NewWord(w))
	}
	return p
}

// Texts returns the non-empty word texts in order.
func (p *Puzzle) Texts() []string {
	out := make([]string, 0, len(p.Words))
	for _, w := range p.Words {
		if w.Text != "" {
			out = append(out, w.Text)
		}
	}
	return out
}

// NormalizeWord trims and uppercases a raw answer.
func NormalizeWord(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Collection is the in-memory enriched store.
type Collection struct {
	Puzzles []*Puzzle
}

// Append adds p to the end of the collection.
func (c *Collection) Append(p *Puzzle) {
	c.Puzzles = append(c.Puzzles, p)
}

// ByDate returns the puzzle for date, if any.
func (c *Collection) ByDate(date string) (*Puzzle, bool) {
	for _, p := range c.Puzzles {
		if p.Date == date {
			return p, true
		}
	}
	return nil, false
}

// ByID returns the puzzle with the given identifier, if any.
func (c *Collection) ByID(id string) (*Puzzle, bool) {
	for _, p := range c.Puzzles {
		if v, ok := p.ID.Get(); ok && v == id {
			return p, true
		}
	}
	return nil, false
}

// Dates returns the set of dates present in the collection.
func (c *Collection) Dates() map[string]struct{} {
	out := make(map[string]struct{}, len(c.Puzzles))
	for _, p := range c.Puzzles {
		out[p.Date] = struct{}{}
	}
	return out
}

// IDs returns an IDSet seeded with every identifier already assigned.
func (c *Collection) IDs() *IDSet {
	ids := NewIDSet()
	for _, p := range c.Puzzles {
		if v, ok := p.ID.Get(); ok {
			ids.Add(v)
		}
	}
	return ids
}
