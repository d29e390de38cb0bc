// Package corpus reads and appends the raw puzzle corpus: one entry per day
// with the date and the answer words, as fetched.
package corpus

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// ErrNotFound is returned by Load when the corpus document does not exist.
var ErrNotFound = errors.New("raw corpus not found")

// Puzzle is one raw corpus entry.
type Puzzle struct {
	Date  string
	Words []string
}

type document struct {
	XMLName xml.Name      `xml:"words"`
	Puzzles []puzzleEntry `xml:"puzzle"`
}

type puzzleEntry struct {
	Date  string   `xml:"date,attr"`
	Words []string `xml:"word"`
}

// Load reads every puzzle from the corpus at path.
func Load(path string) ([]Puzzle, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	out := make([]Puzzle, 0, len(doc.Puzzles))
	for _, p := range doc.Puzzles {
		out = append(out, Puzzle{Date: strings.TrimSpace(p.Date), Words: trimWords(p.Words)})
	}
	return out, nil
}

// Append adds p to the corpus at path, creating the document if needed. It
// reports false without writing when the date is already present or p has no
// words.
func Append(path string, p Puzzle) (bool, error) {
	date := strings.TrimSpace(p.Date)
	if date == "" {
		return false, fmt.Errorf("puzzle date must be non-empty")
	}
	words := trimWords(p.Words)
	if len(words) == 0 {
		return false, nil
	}

	doc, err := readDocument(path)
	if errors.Is(err, ErrNotFound) {
		doc = &document{}
	} else if err != nil {
		return false, err
	}
	for _, existing := range doc.Puzzles {
		if strings.TrimSpace(existing.Date) == date {
			return false, nil
		}
	}

	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	doc.Puzzles = append(doc.Puzzles, puzzleEntry{Date: date, Words: words})
	if err := writeDocument(path, doc); err != nil {
		return false, err
	}
	return true, nil
}

// Dates returns the set of dates in the corpus at path; a missing corpus is empty.
func Dates(path string) (map[string]struct{}, error) {
	puzzles, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(puzzles))
	for _, p := range puzzles {
		out[p.Date] = struct{}{}
	}
	return out, nil
}

func readDocument(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read raw corpus: %w", err)
	}
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse raw corpus %s: %w", path, err)
	}
	return &doc, nil
}

func writeDocument(path string, doc *document) error {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode raw corpus: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure corpus directory: %w", err)
		}
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write raw corpus: %w", err)
	}
	return nil
}

func trimWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
