package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoreMissingFileReadsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "archive.txt"))

	ok, err := s.Contains("abc123")
	if err != nil {
		t.Fatalf("contains on missing file: %v", err)
	}
	if ok {
		t.Fatal("missing file should contain nothing")
	}
	n, err := s.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected empty archive, got %d entries", n)
	}
}

func TestStoreRecordThenContains(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "archive.txt"))

	if err := s.Record("vid1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Record("vid2"); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"vid1", "vid2"} {
		ok, err := s.Contains(id)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("expected archive to contain %q", id)
		}
	}
	ok, err := s.Contains("vid3")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("archive should not contain vid3")
	}
}

func TestStoreDuplicateRecordTolerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.txt")
	s := NewStore(path)

	if err := s.Record("dup1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Record("dup1"); err != nil {
		t.Fatal(err)
	}

	ok, err := s.Contains("dup1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected archive to contain dup1")
	}
	n, err := s.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("duplicates should dedupe at read time, got %d", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "dup1\ndup1\n" {
		t.Fatalf("unexpected file contents: %q", string(data))
	}
}

func TestStoreTolerantOfBlankLinesAndExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.txt")
	s := NewStore(path)
	if err := s.Ensure(); err != nil {
		t.Fatal(err)
	}

	// Simulate a writer outside this process.
	if err := os.WriteFile(path, []byte("ext1\n\n  ext2  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	ok, err := s.Contains("ext2")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected trimmed external entry to be visible")
	}
}

func TestStoreRecordRejectsEmptyID(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "archive.txt"))
	if err := s.Record("  "); err == nil {
		t.Fatal("expected error for blank id")
	}
}

func TestStoreUnreadableDirSurfacesError(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "missing", "archive.txt"))
	if err := s.Record("vid1"); err == nil {
		t.Fatal("expected I/O error when parent directory is missing")
	} else if !strings.Contains(err.Error(), "archive") {
		t.Fatalf("error should name the archive: %v", err)
	}
}
