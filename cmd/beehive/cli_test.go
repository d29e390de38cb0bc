package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/japaniel/beehive/pkg/corpus"
	"github.com/japaniel/beehive/pkg/store"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := `[paths]
words = "` + filepath.ToSlash(filepath.Join(dir, "xml", "words.xml")) + `"
puzzles = "` + filepath.ToSlash(filepath.Join(dir, "xml", "puzzles.xml")) + `"
database = "` + filepath.ToSlash(filepath.Join(dir, "beehive.db")) + `"

[logging]
level = "error"
format = "json"
`
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_OfflineServer(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := writeConfig(t, tmp)

	body, err := os.ReadFile(filepath.Join("..", "..", "pkg", "fetch", "testdata", "spelling_bee.html"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	}))
	defer srv.Close()

	out, err := runCLI(t, "--config", cfgPath, "pull", "--url", srv.URL)
	if err != nil {
		t.Fatalf("pull failed: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "Added puzzle 2025-04-17") {
		t.Fatalf("unexpected pull output:\n%s", out)
	}

	// A second pull of the same day is a no-op.
	out, err = runCLI(t, "--config", cfgPath, "pull", "--url", srv.URL)
	if err != nil {
		t.Fatalf("second pull failed: %v", err)
	}
	if !strings.Contains(out, "already in") {
		t.Fatalf("expected duplicate notice, got:\n%s", out)
	}
	raw, err := corpus.Load(filepath.Join(tmp, "xml", "words.xml"))
	if err != nil {
		t.Fatalf("corpus.Load: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 raw puzzle, got %d", len(raw))
	}

	out, err = runCLI(t, "--config", cfgPath, "wax")
	if err != nil {
		t.Fatalf("wax failed: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "puzzles") || !strings.Contains(out, "word jumbled") {
		t.Fatalf("expected summary table, got:\n%s", out)
	}

	coll, err := store.NewXMLStore(filepath.Join(tmp, "xml", "puzzles.xml")).Load()
	if err != nil {
		t.Fatalf("store load: %v", err)
	}
	p, ok := coll.ByDate("2025-04-17")
	if !ok {
		t.Fatalf("puzzle missing from store")
	}
	if got := p.Letters.Value(); got != "CALOSTU" {
		t.Fatalf("letters = %q, want CALOSTU", got)
	}

	out, err = runCLI(t, "--config", cfgPath, "show", p.ID.Value())
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"CALOSTU", "CALLOUTS", "LOCUSTA"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "--config", cfgPath, "show", "1999-01-01"); err == nil {
		t.Fatalf("expected error for unknown puzzle")
	}

	out, err = runCLI(t, "--config", cfgPath, "export")
	if err != nil {
		t.Fatalf("export failed: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "Exported 1 puzzles") {
		t.Fatalf("unexpected export output:\n%s", out)
	}

	dbConn, err := sql.Open("sqlite3", filepath.Join(tmp, "beehive.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer dbConn.Close()
	var count int
	if err := dbConn.QueryRow("SELECT COUNT(*) FROM words WHERE puzzle_date = ?", "2025-04-17").Scan(&count); err != nil {
		t.Fatalf("query words: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 mirrored words, got %d", count)
	}
}

func TestCLI_WaxWithoutCorpus(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := writeConfig(t, tmp)

	_, err := runCLI(t, "--config", cfgPath, "wax")
	if !errors.Is(err, corpus.ErrNotFound) {
		t.Fatalf("expected corpus.ErrNotFound, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "xml", "puzzles.xml")); !os.IsNotExist(err) {
		t.Fatalf("store should not be written, stat err = %v", err)
	}
}

func TestCLI_Config(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := writeConfig(t, tmp)

	out, err := runCLI(t, "--config", cfgPath, "--log-level", "debug", "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(out, "debug") {
		t.Fatalf("expected log level override in output:\n%s", out)
	}
	if !strings.Contains(out, "beehive.db") {
		t.Fatalf("expected database path in output:\n%s", out)
	}

	if _, err := runCLI(t, "--config", filepath.Join(tmp, "missing.toml"), "config"); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
	if _, err := runCLI(t, "--config", cfgPath, "--log-level", "loud", "config"); err == nil {
		t.Fatalf("expected error for invalid log level")
	}
}
