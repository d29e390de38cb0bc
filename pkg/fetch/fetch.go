// Package fetch scrapes the daily puzzle page for its date and answer list.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-shiori/dom"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/japaniel/beehive/pkg/corpus"
)

const (
	// DefaultURL is the puzzle page scraped by default.
	DefaultURL = "https://www.nytimes.com/puzzles/spelling-bee"
	// DefaultUserAgent mimics a desktop browser to avoid being blocked.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// DefaultMaxBodySize limits how much HTML is read.
	DefaultMaxBodySize = 10 * 1024 * 1024

	gameDataMarker = "window.gameData"
)

// ErrNoGameData is returned when the page carries no embedded game data.
var ErrNoGameData = errors.New("cannot find gameData in page source")

// Fetcher downloads and parses the puzzle page.
type Fetcher struct {
	Client      *http.Client
	URL         string
	UserAgent   string
	MaxBodySize int64
	Logger      *zap.Logger
	// Now supplies the fallback date when the page has no print date.
	Now func() time.Time
}

// NewFetcher returns a Fetcher for url with defaults for everything else.
func NewFetcher(url string) *Fetcher {
	return &Fetcher{
		Client:      &http.Client{Timeout: 30 * time.Second},
		URL:         url,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Logger:      zap.NewNop(),
		Now:         time.Now,
	}
}

// Fetch downloads today's puzzle.
func (f *Fetcher) Fetch(ctx context.Context) (corpus.Puzzle, error) {
	body, err := f.download(ctx)
	if err != nil {
		return corpus.Puzzle{}, err
	}
	p, err := f.Parse(body)
	if err != nil {
		return corpus.Puzzle{}, err
	}
	f.logger().Info("puzzle fetched", zap.String("date", p.Date), zap.Int("words", len(p.Words)))
	return p, nil
}

func (f *Fetcher) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

func (f *Fetcher) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	f.logger().Debug("fetching puzzle page", zap.String("url", f.URL))
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: got status %s", f.URL, resp.Status)
	}

	limit := f.MaxBodySize
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, limit)
	}
	// Read one byte past the limit to tell a full body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("response body exceeded maximum size limit of %d bytes", limit)
	}
	return body, nil
}

type gameData struct {
	Today struct {
		PrintDate string   `json:"printDate"`
		Answers   []string `json:"answers"`
	} `json:"today"`
}

// Parse extracts the puzzle from the page HTML.
func (f *Fetcher) Parse(page []byte) (corpus.Puzzle, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return corpus.Puzzle{}, fmt.Errorf("parse html: %w", err)
	}

	var script string
	for _, node := range dom.GetElementsByTagName(doc, "script") {
		if text := dom.TextContent(node); strings.Contains(text, gameDataMarker) {
			script = text
			break
		}
	}
	if script == "" {
		return corpus.Puzzle{}, ErrNoGameData
	}

	raw, err := extractObject(script[strings.Index(script, gameDataMarker):])
	if err != nil {
		return corpus.Puzzle{}, err
	}
	var data gameData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return corpus.Puzzle{}, fmt.Errorf("decode gameData: %w", err)
	}

	date := strings.ReplaceAll(strings.TrimSpace(data.Today.PrintDate), "/", "-")
	if date == "" {
		now := time.Now
		if f.Now != nil {
			now = f.Now
		}
		date = now().Format(time.DateOnly)
		f.logger().Warn("page has no print date, using today", zap.String("date", date))
	}

	words := make([]string, 0, len(data.Today.Answers))
	for _, a := range data.Today.Answers {
		if a = strings.ToUpper(strings.TrimSpace(a)); a != "" {
			words = append(words, a)
		}
	}
	return corpus.Puzzle{Date: date, Words: words}, nil
}

// extractObject returns the first balanced JSON object in s. Braces inside
// string literals are ignored.
func extractObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", ErrNoGameData
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated gameData object")
}
