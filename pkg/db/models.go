package db

// PuzzleRow is a puzzle as mirrored in SQLite. Absent attributes are NULL and
// come back as nil pointers.
type PuzzleRow struct {
	Date            string
	PuzzleID        *string
	Letters         *string
	Count           *int
	Pangrams        *int
	PerfectPangrams *int
	LetterCounts    []LetterRow
}

// LetterRow is one letterN/letterNcount pair.
type LetterRow struct {
	Position   int
	Letter     string
	StartCount int
}

// WordRow is a word as mirrored in SQLite.
type WordRow struct {
	Position       int
	Text           string
	Length         *int
	First          *string
	FirstTwo       *string
	Jumbled        *string
	Pangram        *bool
	PerfectPangram *bool
}
