package archive

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a file-backed set of video identifiers for items whose
// subtitles were fully downloaded. The file is plain UTF-8 text, one
// identifier per line, append-only. Duplicate lines are tolerated and
// deduped at read time.
//
// Every membership check re-reads the file, so external appends between
// checks are picked up. No in-memory cache is kept.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: strings.TrimSpace(path)}
}

func (s *Store) Path() string {
	return s.path
}

// Ensure creates an empty archive file (and its parent directory) when
// none exists yet.
func (s *Store) Ensure() error {
	if s.path == "" {
		return fmt.Errorf("archive path is required")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create archive parent for %s: %w", s.path, err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", s.path, err)
	}
	return f.Close()
}

// Load reads the full archive into a set. A missing file reads as an
// empty set.
func (s *Store) Load() (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, fmt.Errorf("read archive %s: %w", s.path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		id := strings.TrimSpace(sc.Text())
		if id == "" {
			continue
		}
		ids[id] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read archive %s: %w", s.path, err)
	}
	return ids, nil
}

func (s *Store) Contains(id string) (bool, error) {
	ids, err := s.Load()
	if err != nil {
		return false, err
	}
	_, ok := ids[strings.TrimSpace(id)]
	return ok, nil
}

// Record appends one identifier. It does not check for an existing
// entry; Load dedupes instead.
func (s *Store) Record(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("video id is required")
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", s.path, err)
	}
	if _, err := f.WriteString(id + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append to archive %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close archive %s: %w", s.path, err)
	}
	return nil
}

// Len reports the number of distinct recorded identifiers.
func (s *Store) Len() (int, error) {
	ids, err := s.Load()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
