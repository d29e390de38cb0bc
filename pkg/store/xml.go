package store

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/japaniel/beehive/pkg/puzzle"
)

// XMLStore keeps the collection in a single indented XML document.
type XMLStore struct {
	Path string
}

// NewXMLStore returns a store backed by the document at path.
func NewXMLStore(path string) *XMLStore {
	return &XMLStore{Path: path}
}

var _ Store = (*XMLStore)(nil)

type storeDocument struct {
	XMLName xml.Name    `xml:"puzzles"`
	Puzzles []puzzleXML `xml:"puzzle"`
}

type puzzleXML struct {
	Date            string    `xml:"date,attr"`
	ID              *string   `xml:"id,attr,omitempty"`
	Count           *int      `xml:"count,attr,omitempty"`
	Letters         *string   `xml:"letters,attr,omitempty"`
	Letter1         *string   `xml:"letter1,attr,omitempty"`
	Letter1Count    *int      `xml:"letter1count,attr,omitempty"`
	Letter2         *string   `xml:"letter2,attr,omitempty"`
	Letter2Count    *int      `xml:"letter2count,attr,omitempty"`
	Letter3         *string   `xml:"letter3,attr,omitempty"`
	Letter3Count    *int      `xml:"letter3count,attr,omitempty"`
	Letter4         *string   `xml:"letter4,attr,omitempty"`
	Letter4Count    *int      `xml:"letter4count,attr,omitempty"`
	Letter5         *string   `xml:"letter5,attr,omitempty"`
	Letter5Count    *int      `xml:"letter5count,attr,omitempty"`
	Letter6         *string   `xml:"letter6,attr,omitempty"`
	Letter6Count    *int      `xml:"letter6count,attr,omitempty"`
	Letter7         *string   `xml:"letter7,attr,omitempty"`
	Letter7Count    *int      `xml:"letter7count,attr,omitempty"`
	Pangrams        *int      `xml:"pangrams,attr,omitempty"`
	PerfectPangrams *int      `xml:"perfectpangrams,attr,omitempty"`
	Words           []wordXML `xml:"word"`
}

type wordXML struct {
	Length         *int    `xml:"length,attr,omitempty"`
	First          *string `xml:"first,attr,omitempty"`
	FirstTwo       *string `xml:"firsttwo,attr,omitempty"`
	Jumbled        *string `xml:"jumbled,attr,omitempty"`
	Pangram        *string `xml:"pangram,attr,omitempty"`
	PerfectPangram *string `xml:"perfectpangram,attr,omitempty"`
	Text           string  `xml:",chardata"`
}

// letterSlots exposes the seven letterN/letterNcount pairs by position.
func (p *puzzleXML) letterSlots() [puzzle.LetterCount]struct {
	letter **string
	count  **int
} {
	return [puzzle.LetterCount]struct {
		letter **string
		count  **int
	}{
		{&p.Letter1, &p.Letter1Count},
		{&p.Letter2, &p.Letter2Count},
		{&p.Letter3, &p.Letter3Count},
		{&p.Letter4, &p.Letter4Count},
		{&p.Letter5, &p.Letter5Count},
		{&p.Letter6, &p.Letter6Count},
		{&p.Letter7, &p.Letter7Count},
	}
}

// Load reads the document. A missing document yields an empty collection.
func (s *XMLStore) Load() (*puzzle.Collection, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return &puzzle.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	var doc storeDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", s.Path, err)
	}

	coll := &puzzle.Collection{Puzzles: make([]*puzzle.Puzzle, 0, len(doc.Puzzles))}
	for i := range doc.Puzzles {
		p, err := fromXML(&doc.Puzzles[i])
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", s.Path, err)
		}
		coll.Append(p)
	}
	return coll, nil
}

// Save writes the document atomically.
func (s *XMLStore) Save(coll *puzzle.Collection) error {
	data, err := Encode(coll)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure store directory: %w", err)
		}
	}
	if err := atomic.WriteFile(s.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

// Encode renders coll as the store document.
func Encode(coll *puzzle.Collection) ([]byte, error) {
	doc := storeDocument{Puzzles: make([]puzzleXML, 0, len(coll.Puzzles))}
	for _, p := range coll.Puzzles {
		doc.Puzzles = append(doc.Puzzles, toXML(p))
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode store: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func fromXML(x *puzzleXML) (*puzzle.Puzzle, error) {
	p := &puzzle.Puzzle{
		Date:            x.Date,
		ID:              puzzle.FromPtr(x.ID),
		Count:           puzzle.FromPtr(x.Count),
		Letters:         puzzle.FromPtr(x.Letters),
		Pangrams:        puzzle.FromPtr(x.Pangrams),
		PerfectPangrams: puzzle.FromPtr(x.PerfectPangrams),
	}

	var stats [puzzle.LetterCount]puzzle.LetterStat
	present := 0
	for i, slot := range x.letterSlots() {
		if *slot.letter != nil {
			present++
			stats[i].Letter = **slot.letter
		}
		if *slot.count != nil {
			present++
			stats[i].Count = **slot.count
		}
	}
	switch present {
	case 0:
	case 2 * puzzle.LetterCount:
		p.LetterStats.Set(stats)
	default:
		return nil, fmt.Errorf("puzzle %s: partial letter statistics (%d of %d attributes)", x.Date, present, 2*puzzle.LetterCount)
	}

	for _, wx := range x.Words {
		w := puzzle.NewWord(wx.Text)
		w.Length = puzzle.FromPtr(wx.Length)
		w.First = puzzle.FromPtr(wx.First)
		w.FirstTwo = puzzle.FromPtr(wx.FirstTwo)
		w.Jumbled = puzzle.FromPtr(wx.Jumbled)
		var err error
		if w.Pangram, err = parseFlag(wx.Pangram); err != nil {
			return nil, fmt.Errorf("puzzle %s word %s: pangram: %w", x.Date, w.Text, err)
		}
		if w.PerfectPangram, err = parseFlag(wx.PerfectPangram); err != nil {
			return nil, fmt.Errorf("puzzle %s word %s: perfectpangram: %w", x.Date, w.Text, err)
		}
		p.Words = append(p.Words, w)
	}
	return p, nil
}

func toXML(p *puzzle.Puzzle) puzzleXML {
	x := puzzleXML{
		Date:            p.Date,
		ID:              p.ID.Ptr(),
		Count:           p.Count.Ptr(),
		Letters:         p.Letters.Ptr(),
		Pangrams:        p.Pangrams.Ptr(),
		PerfectPangrams: p.PerfectPangrams.Ptr(),
	}
	if stats, ok := p.LetterStats.Get(); ok {
		for i, slot := range x.letterSlots() {
			letter, count := stats[i].Letter, stats[i].Count
			*slot.letter = &letter
			*slot.count = &count
		}
	}
	for _, w := range p.Words {
		x.Words = append(x.Words, wordXML{
			Length:         w.Length.Ptr(),
			First:          w.First.Ptr(),
			FirstTwo:       w.FirstTwo.Ptr(),
			Jumbled:        w.Jumbled.Ptr(),
			Pangram:        formatFlag(w.Pangram),
			PerfectPangram: formatFlag(w.PerfectPangram),
			Text:           w.Text,
		})
	}
	return x
}

func parseFlag(s *string) (puzzle.Opt[bool], error) {
	if s == nil {
		return puzzle.Opt[bool]{}, nil
	}
	switch *s {
	case "yes":
		return puzzle.Some(true), nil
	case "no":
		return puzzle.Some(false), nil
	default:
		return puzzle.Opt[bool]{}, fmt.Errorf("invalid flag %q", *s)
	}
}

func formatFlag(o puzzle.Opt[bool]) *string {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	s := "no"
	if v {
		s = "yes"
	}
	return &s
}
