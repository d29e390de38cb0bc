package enrich

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/japaniel/beehive/pkg/puzzle"
)

func wordView(w *puzzle.Word) map[string]any {
	out := map[string]any{"text": w.Text}
	if v, ok := w.Length.Get(); ok {
		out["length"] = v
	}
	if v, ok := w.First.Get(); ok {
		out["first"] = v
	}
	if v, ok := w.FirstTwo.Get(); ok {
		out["firsttwo"] = v
	}
	if v, ok := w.Pangram.Get(); ok {
		out["pangram"] = v
	}
	if v, ok := w.PerfectPangram.Get(); ok {
		out["perfectpangram"] = v
	}
	return out
}

func TestAnnotateWord(t *testing.T) {
	rng := puzzle.NewSeededRand(7)
	tests := []struct {
		name    string
		text    string
		letters string
		want    map[string]any
		tally   WordTally
	}{
		{
			name:    "no letters known",
			text:    "fluffy",
			letters: "",
			want:    map[string]any{"text": "FLUFFY", "length": 6, "first": "F", "firsttwo": "FL"},
			tally:   WordTally{Length: 1, First: 1, FirstTwo: 1, Jumbled: 1},
		},
		{
			name:    "perfect pangram",
			text:    "LOCUSTA",
			letters: "CALOSTU",
			want: map[string]any{"text": "LOCUSTA", "length": 7, "first": "L", "firsttwo": "LO",
				"pangram": true, "perfectpangram": true},
			tally: WordTally{Length: 1, First: 1, FirstTwo: 1, Jumbled: 1, Pangram: 1, PerfectPangram: 1},
		},
		{
			name:    "pangram with repeats",
			text:    "CALLOUTS",
			letters: "CALOSTU",
			want: map[string]any{"text": "CALLOUTS", "length": 8, "first": "C", "firsttwo": "CA",
				"pangram": true, "perfectpangram": false},
			tally: WordTally{Length: 1, First: 1, FirstTwo: 1, Jumbled: 1, Pangram: 1, PerfectPangram: 1},
		},
		{
			name:    "not a pangram",
			text:    "CLOT",
			letters: "CALOSTU",
			want: map[string]any{"text": "CLOT", "length": 4, "first": "C", "firsttwo": "CL",
				"pangram": false, "perfectpangram": false},
			tally: WordTally{Length: 1, First: 1, FirstTwo: 1, Jumbled: 1, Pangram: 1, PerfectPangram: 1},
		},
		{
			name:  "single letter",
			text:  "a",
			want:  map[string]any{"text": "A", "length": 1, "first": "A", "firsttwo": "A"},
			tally: WordTally{Length: 1, First: 1, FirstTwo: 1, Jumbled: 1},
		},
		{
			name:  "empty text",
			text:  "  ",
			want:  map[string]any{"text": ""},
			tally: WordTally{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &puzzle.Word{Text: tt.text}
			got := AnnotateWord(w, tt.letters, rng)
			if diff := cmp.Diff(tt.tally, got); diff != "" {
				t.Fatalf("tally mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, wordView(w)); diff != "" {
				t.Fatalf("word mismatch (-want +got):\n%s", diff)
			}
			if w.Text != "" && !w.Jumbled.IsSet() {
				t.Fatal("jumbled not set")
			}

			// A second pass adds nothing and changes nothing.
			jumbled := w.Jumbled.Value()
			if again := AnnotateWord(w, tt.letters, rng); again != (WordTally{}) {
				t.Fatalf("second pass added %+v", again)
			}
			if w.Jumbled.Value() != jumbled {
				t.Fatal("jumbled was rewritten")
			}
		})
	}
}

func TestAnnotateWordKeepsExistingValues(t *testing.T) {
	w := &puzzle.Word{Text: "CACTUS"}
	w.Length.Set(99)
	w.Pangram.Set(true)
	w.Jumbled.Set("CACTUS")

	tally := AnnotateWord(w, "CALOSTU", puzzle.NewSeededRand(1))
	if tally.Length != 0 || tally.Pangram != 0 || tally.Jumbled != 0 {
		t.Fatalf("existing attributes counted as added: %+v", tally)
	}
	if w.Length.Value() != 99 || !w.Pangram.Value() || w.Jumbled.Value() != "CACTUS" {
		t.Fatal("existing attributes were overwritten")
	}
	// The stored pangram flag is trusted; six letters rule out a perfect pangram.
	if v, ok := w.PerfectPangram.Get(); !ok || v {
		t.Fatalf("perfectpangram = %v, %v", v, ok)
	}
}

func TestAnnotatePuzzle(t *testing.T) {
	p := puzzle.NewPuzzle("2025-04-17", []string{"cactus", "catcall", "clot", "callouts", "locusta"})
	used := puzzle.NewIDSet()

	tally, err := AnnotatePuzzle(p, used, puzzle.NewSeededRand(3))
	if err != nil {
		t.Fatalf("AnnotatePuzzle: %v", err)
	}
	want := PuzzleTally{
		ID: true, Count: true, Letters: true, LetterStats: true, Pangrams: true, PerfectPangrams: true,
		Words: WordTally{Length: 5, First: 5, FirstTwo: 5, Jumbled: 5, Pangram: 5, PerfectPangram: 5},
	}
	if diff := cmp.Diff(want, tally); diff != "" {
		t.Fatalf("tally mismatch (-want +got):\n%s", diff)
	}

	if p.Letters.Value() != "CALOSTU" {
		t.Fatalf("letters = %q", p.Letters.Value())
	}
	if p.Count.Value() != 5 {
		t.Fatalf("count = %d", p.Count.Value())
	}
	if !used.Has(p.ID.Value()) {
		t.Fatal("id not reserved")
	}
	if p.Pangrams.Value() != 2 || p.PerfectPangrams.Value() != 1 {
		t.Fatalf("pangrams = %d perfect = %d", p.Pangrams.Value(), p.PerfectPangrams.Value())
	}

	stats, ok := p.LetterStats.Get()
	if !ok {
		t.Fatal("letter stats missing")
	}
	wantStats := [puzzle.LetterCount]puzzle.LetterStat{
		{Letter: "C", Count: 4}, {Letter: "A"}, {Letter: "L", Count: 1}, {Letter: "O"},
		{Letter: "S"}, {Letter: "T"}, {Letter: "U"},
	}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}

	again, err := AnnotatePuzzle(p, used, puzzle.NewSeededRand(4))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(PuzzleTally{}, again); diff != "" {
		t.Fatalf("second pass added (-want +got):\n%s", diff)
	}
}

func TestAnnotatePuzzleUndeterminedLetters(t *testing.T) {
	p := puzzle.NewPuzzle("2025-04-18", []string{"FLUFFY"})
	tally, err := AnnotatePuzzle(p, puzzle.NewIDSet(), puzzle.NewSeededRand(5))
	if err != nil {
		t.Fatal(err)
	}
	if !tally.ID || !tally.Count || tally.Letters || tally.LetterStats || tally.Pangrams {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if p.Letters.IsSet() || p.LetterStats.IsSet() || p.Pangrams.IsSet() || p.PerfectPangrams.IsSet() {
		t.Fatal("letter dependents set without letters")
	}
	want := map[string]any{"text": "FLUFFY", "length": 6, "first": "F", "firsttwo": "FL"}
	if diff := cmp.Diff(want, wordView(p.Words[0])); diff != "" {
		t.Fatalf("word mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotatePuzzleNoWords(t *testing.T) {
	p := puzzle.NewPuzzle("2025-04-19", nil)
	tally, err := AnnotatePuzzle(p, puzzle.NewIDSet(), puzzle.NewSeededRand(6))
	if err != nil {
		t.Fatal(err)
	}
	if !tally.ID || !tally.Count || tally.Letters {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if p.Count.Value() != 0 {
		t.Fatalf("count = %d", p.Count.Value())
	}
}

func TestAnnotatePuzzleKeepsCountWhenWordsGrow(t *testing.T) {
	p := puzzle.NewPuzzle("2025-04-20", []string{"ONE"})
	used := puzzle.NewIDSet()
	if _, err := AnnotatePuzzle(p, used, puzzle.NewSeededRand(1)); err != nil {
		t.Fatal(err)
	}
	p.Words = append(p.Words, puzzle.NewWord("two"))
	tally, err := AnnotatePuzzle(p, used, puzzle.NewSeededRand(1))
	if err != nil {
		t.Fatal(err)
	}
	if tally.Count || p.Count.Value() != 1 {
		t.Fatalf("count rewritten: %d", p.Count.Value())
	}
	if tally.Words.Length != 1 {
		t.Fatalf("new word not annotated: %+v", tally.Words)
	}
}

func TestAnnotatePuzzleSkipsMalformedLetters(t *testing.T) {
	p := puzzle.NewPuzzle("2025-04-21", []string{"CACTUS"})
	p.Letters.Set("CAT")
	tally, err := AnnotatePuzzle(p, puzzle.NewIDSet(), puzzle.NewSeededRand(1))
	if err != nil {
		t.Fatal(err)
	}
	if tally.LetterStats || tally.Pangrams || p.Words[0].Pangram.IsSet() {
		t.Fatalf("dependents derived from malformed letters: %+v", tally)
	}
	if p.Letters.Value() != "CAT" {
		t.Fatal("letters rewritten")
	}
}
