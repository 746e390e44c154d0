package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteBytesAtomicCreatesParent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	if err := WriteBytes(path, []byte("hello\n")); err != nil {
		t.Fatalf("write bytes: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("unexpected content %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %d entries", len(entries))
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	path := filepath.Join(t.TempDir(), "meta.json")

	if err := WriteJSON(path, payload{Name: "chan", Count: 3}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var got payload
	if err := ReadJSON(path, &got); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if got.Name != "chan" || got.Count != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	type payload struct {
		Name    string   `yaml:"name"`
		Proxies []string `yaml:"proxies"`
	}
	path := filepath.Join(t.TempDir(), "channels.yaml")

	if err := WriteYAML(path, payload{Name: "chan", Proxies: []string{"http://p1"}}); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	var got payload
	if err := ReadYAML(path, &got); err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	if got.Name != "chan" || len(got.Proxies) != 1 || got.Proxies[0] != "http://p1" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestListLogFiles(t *testing.T) {
	dir := t.TempDir()

	files, err := ListLogFiles(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}

	for _, name := range []string{"batch-20260102.log", "batch-20260101.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err = ListLogFiles(dir)
	if err != nil {
		t.Fatalf("list log files: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "batch-20260101.log" {
		t.Fatalf("unexpected order: %v", files)
	}
}
