package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipkeeper/internal/model"
)

// Separator splits ledger fields. It is multi-character on purpose so
// it cannot collide with path separators or ordinary file names.
const Separator = "<#>"

// ParseError reports a malformed ledger line. A single bad line aborts
// the whole load; silently dropping records would lose history.
type ParseError struct {
	Path string
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ledger %s: line %d is malformed: %q", e.Path, e.Line, e.Text)
}

// Store reads and writes the watchlist ledger. One line per entry:
//
//	<path><#><archived:0|1><#><uploaded:0|1><#><ignored:0|1>
//
// Order is significant and preserved, so Save(Load(f)) reproduces f
// byte for byte for well-formed files.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the ledger file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger. A missing file is a fresh install and yields
// an empty watchlist, not an error.
func (s *Store) Load() (*model.Watchlist, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewWatchlist(), nil
		}
		return nil, fmt.Errorf("open ledger %s: %w", s.path, err)
	}
	defer f.Close()

	list := model.NewWatchlist()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		entry, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Path: s.path, Line: lineNo, Text: line}
		}
		if err := list.Append(entry); err != nil {
			return nil, fmt.Errorf("ledger %s: line %d: %w", s.path, lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", s.path, err)
	}
	return list, nil
}

// Save writes the full watchlist back, replacing any prior content.
// The write goes through a temp file in the same directory followed by
// a rename, so a failure mid-write leaves either the old file or the
// new file intact, never a truncated mix.
func (s *Store) Save(list *model.Watchlist) error {
	var b strings.Builder
	for _, e := range list.Entries() {
		b.WriteString(e.Path)
		b.WriteString(Separator)
		b.WriteString(flag(e.Archived))
		b.WriteString(Separator)
		b.WriteString(flag(e.Uploaded))
		b.WriteString(Separator)
		b.WriteString(flag(e.Ignored))
		b.WriteByte('\n')
	}
	return writeAtomic(s.path, []byte(b.String()))
}

// Reset overwrites the ledger with an empty one.
func (s *Store) Reset() error {
	return s.Save(model.NewWatchlist())
}

func parseLine(line string) (*model.WatchEntry, error) {
	parts := strings.Split(line, Separator)
	if len(parts) != 4 {
		return nil, errors.New("wrong field count")
	}
	path := parts[0]
	if path == "" {
		return nil, errors.New("empty path")
	}
	archived, err := parseFlag(parts[1])
	if err != nil {
		return nil, err
	}
	uploaded, err := parseFlag(parts[2])
	if err != nil {
		return nil, err
	}
	ignored, err := parseFlag(parts[3])
	if err != nil {
		return nil, err
	}
	return &model.WatchEntry{
		Path:     path,
		Archived: archived,
		Uploaded: uploaded,
		Ignored:  ignored,
	}, nil
}

func parseFlag(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("flag %q is not 0 or 1", s)
	}
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".clipkeeper-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("atomic rename for %s: %w", path, err)
	}
	return nil
}
