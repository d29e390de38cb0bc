package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/japaniel/beehive/pkg/puzzle"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// UpsertPuzzle mirrors p, its letter counts and its words. The store document is
// authoritative, so mirrored columns are replaced rather than merged.
func UpsertPuzzle(db DBExecutor, p *puzzle.Puzzle) error {
	date := strings.TrimSpace(p.Date)
	if date == "" {
		return fmt.Errorf("puzzle date must be non-empty")
	}

	_, err := db.Exec(`INSERT INTO puzzles (date, puzzle_id, letters, count, pangrams, perfect_pangrams)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
		  puzzle_id = excluded.puzzle_id,
		  letters = excluded.letters,
		  count = excluded.count,
		  pangrams = excluded.pangrams,
		  perfect_pangrams = excluded.perfect_pangrams,
		  exported_at = CURRENT_TIMESTAMP`,
		date, nullable(p.ID), nullable(p.Letters), nullable(p.Count), nullable(p.Pangrams), nullable(p.PerfectPangrams))
	if err != nil {
		return fmt.Errorf("upsert puzzle %s: %w", date, err)
	}

	if stats, ok := p.LetterStats.Get(); ok {
		for i, s := range stats {
			_, err := db.Exec(`INSERT INTO puzzle_letters (puzzle_date, position, letter, start_count)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(puzzle_date, position) DO UPDATE SET
				  letter = excluded.letter,
				  start_count = excluded.start_count`,
				date, i+1, s.Letter, s.Count)
			if err != nil {
				return fmt.Errorf("upsert letter %d of %s: %w", i+1, date, err)
			}
		}
	} else if _, err := db.Exec(`DELETE FROM puzzle_letters WHERE puzzle_date = ?`, date); err != nil {
		return fmt.Errorf("clear letters of %s: %w", date, err)
	}

	for i, w := range p.Words {
		_, err := db.Exec(`INSERT INTO words (puzzle_date, position, text, length, first, first_two, jumbled, pangram, perfect_pangram)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(puzzle_date, position) DO UPDATE SET
			  text = excluded.text,
			  length = excluded.length,
			  first = excluded.first,
			  first_two = excluded.first_two,
			  jumbled = excluded.jumbled,
			  pangram = excluded.pangram,
			  perfect_pangram = excluded.perfect_pangram`,
			date, i, w.Text, nullable(w.Length), nullable(w.First), nullable(w.FirstTwo), nullable(w.Jumbled),
			nullable(w.Pangram), nullable(w.PerfectPangram))
		if err != nil {
			return fmt.Errorf("upsert word %s of %s: %w", w.Text, date, err)
		}
	}
	if _, err := db.Exec(`DELETE FROM words WHERE puzzle_date = ? AND position >= ?`, date, len(p.Words)); err != nil {
		return fmt.Errorf("trim words of %s: %w", date, err)
	}
	return nil
}

// nullable returns nil for an absent value, else the value.
func nullable[T any](o puzzle.Opt[T]) interface{} {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return v
}

// GetPuzzle returns the mirrored puzzle for date, or sql.ErrNoRows.
func GetPuzzle(db DBExecutor, date string) (*PuzzleRow, error) {
	var row PuzzleRow
	var id, letters sql.NullString
	var count, pangrams, perfect sql.NullInt64
	err := db.QueryRow(`SELECT date, puzzle_id, letters, count, pangrams, perfect_pangrams FROM puzzles WHERE date = ?`, date).
		Scan(&row.Date, &id, &letters, &count, &pangrams, &perfect)
	if err != nil {
		return nil, err
	}
	row.PuzzleID = nullString(id)
	row.Letters = nullString(letters)
	row.Count = nullInt(count)
	row.Pangrams = nullInt(pangrams)
	row.PerfectPangrams = nullInt(perfect)

	rows, err := db.Query(`SELECT position, letter, start_count FROM puzzle_letters WHERE puzzle_date = ? ORDER BY position`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l LetterRow
		if err := rows.Scan(&l.Position, &l.Letter, &l.StartCount); err != nil {
			return nil, err
		}
		row.LetterCounts = append(row.LetterCounts, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetWords returns the mirrored words of a puzzle in order.
func GetWords(db DBExecutor, date string) ([]WordRow, error) {
	return queryWords(db, `WHERE puzzle_date = ? ORDER BY position`, date)
}

// WordsByLetter returns the words of a puzzle that start with letter.
func WordsByLetter(db DBExecutor, date, letter string) ([]WordRow, error) {
	return queryWords(db, `WHERE puzzle_date = ? AND first = ? ORDER BY position`, date, strings.ToUpper(letter))
}

// CountPuzzles returns the number of mirrored puzzles.
func CountPuzzles(db DBExecutor) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM puzzles`).Scan(&n)
	return n, err
}

func queryWords(db DBExecutor, where string, args ...interface{}) ([]WordRow, error) {
	rows, err := db.Query(`SELECT position, text, length, first, first_two, jumbled, pangram, perfect_pangram FROM words `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WordRow
	for rows.Next() {
		var w WordRow
		var length sql.NullInt64
		var first, firstTwo, jumbled sql.NullString
		var pangram, perfect sql.NullBool
		if err := rows.Scan(&w.Position, &w.Text, &length, &first, &firstTwo, &jumbled, &pangram, &perfect); err != nil {
			return nil, err
		}
		w.Length = nullInt(length)
		w.First = nullString(first)
		w.FirstTwo = nullString(firstTwo)
		w.Jumbled = nullString(jumbled)
		w.Pangram = nullBool(pangram)
		w.PerfectPangram = nullBool(perfect)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}
