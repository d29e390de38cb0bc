package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/japaniel/beehive/pkg/corpus"
	"github.com/japaniel/beehive/pkg/puzzle"
	"github.com/japaniel/beehive/pkg/store"
)

// ErrLocked is returned when another run holds the store lock.
var ErrLocked = errors.New("store is locked by another run")

// Summary aggregates what one pass added to the store.
type Summary struct {
	PuzzlesAdded    int
	IDs             int
	Counts          int
	Letters         int
	LetterStats     int
	Pangrams        int
	PerfectPangrams int
	Words           WordTally
}

func (s *Summary) addPuzzle(t PuzzleTally) {
	s.IDs += boolInt(t.ID)
	s.Counts += boolInt(t.Count)
	s.Letters += boolInt(t.Letters)
	s.LetterStats += boolInt(t.LetterStats)
	s.Pangrams += boolInt(t.Pangrams)
	s.PerfectPangrams += boolInt(t.PerfectPangrams)
	s.Words.Add(t.Words)
}

// Sync copies raw puzzles with unseen dates into coll and then annotates every
// puzzle in coll. Raw entries without a date are ignored.
func Sync(raw []corpus.Puzzle, coll *puzzle.Collection, rng puzzle.Rand) (Summary, error) {
	var sum Summary

	known := coll.Dates()
	for _, rp := range raw {
		if rp.Date == "" {
			continue
		}
		if _, ok := known[rp.Date]; ok {
			continue
		}
		known[rp.Date] = struct{}{}
		coll.Append(puzzle.NewPuzzle(rp.Date, rp.Words))
		sum.PuzzlesAdded++
	}

	used := coll.IDs()
	for _, p := range coll.Puzzles {
		tally, err := AnnotatePuzzle(p, used, rng)
		if err != nil {
			return sum, fmt.Errorf("annotate puzzle %s: %w", p.Date, err)
		}
		sum.addPuzzle(tally)
	}
	return sum, nil
}

// Syncer runs a full merge-and-annotate pass against a store.
type Syncer struct {
	Store      store.Store
	CorpusPath string
	// LockPath is an advisory lock file held for the whole run. Empty disables locking.
	LockPath string
	Rand     puzzle.Rand
	Logger   *zap.Logger
}

// NewSyncer creates a Syncer with the production random source and no logging.
func NewSyncer(st store.Store, corpusPath string) *Syncer {
	return &Syncer{
		Store:      st,
		CorpusPath: corpusPath,
		Rand:       puzzle.NewRand(),
		Logger:     zap.NewNop(),
	}
}

// Run loads the raw corpus and the store, syncs them, and saves the store once.
// Any error before the save leaves the stored document untouched.
func (s *Syncer) Run(ctx context.Context) (Summary, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := s.Rand
	if rng == nil {
		rng = puzzle.NewRand()
	}

	if s.LockPath != "" {
		lock := flock.New(s.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return Summary{}, fmt.Errorf("acquire lock %s: %w", s.LockPath, err)
		}
		if !locked {
			return Summary{}, fmt.Errorf("%s: %w", s.LockPath, ErrLocked)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Warn("failed to release store lock", zap.Error(err))
			}
		}()
	}

	raw, err := corpus.Load(s.CorpusPath)
	if err != nil {
		return Summary{}, fmt.Errorf("load raw corpus: %w", err)
	}
	logger.Debug("raw corpus loaded", zap.String("path", s.CorpusPath), zap.Int("puzzles", len(raw)))

	coll, err := s.Store.Load()
	if err != nil {
		return Summary{}, fmt.Errorf("load store: %w", err)
	}
	logger.Debug("store loaded", zap.Int("puzzles", len(coll.Puzzles)))

	sum, err := Sync(raw, coll, rng)
	if err != nil {
		return sum, err
	}

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	if err := s.Store.Save(coll); err != nil {
		return sum, fmt.Errorf("save store: %w", err)
	}
	logger.Info("store updated",
		zap.Int("puzzles", len(coll.Puzzles)),
		zap.Int("added", sum.PuzzlesAdded),
		zap.Int("ids", sum.IDs),
		zap.Int("letters", sum.Letters),
	)
	return sum, nil
}
