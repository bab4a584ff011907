package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/rowlet/internal/apperr"
)

const sample = "<http://ex.org/a> <http://ex.org/p> <http://ex.org/b> .\n"

func tempDataset(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempDataset(t)
	if err := s.Write("stars.nt", []byte(sample)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("stars.nt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != sample {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempDataset(t)
	if err := s.Write("a/b/c.ttl", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("a/b/c.ttl")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteRejectsNonRDF(t *testing.T) {
	s := tempDataset(t)
	err := s.Write("notes.md", []byte("# hi"))
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDelete(t *testing.T) {
	s := tempDataset(t)
	_ = s.Write("del.ttl", []byte("bye"))
	if err := s.Delete("del.ttl"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.ttl"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Read deleted = %v, want ErrNotFound", err)
	}
	if err := s.Delete("del.ttl"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Delete twice = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	s := tempDataset(t)
	_ = s.Write("a.ttl", []byte("a"))
	_ = s.Write("sub/b.owl", []byte("b"))
	_ = os.WriteFile(filepath.Join(s.Root(), "readme.txt"), []byte("not rdf"), 0o644)
	_ = os.MkdirAll(filepath.Join(s.Root(), ".git"), 0o755)
	_ = os.WriteFile(filepath.Join(s.Root(), ".git", "x.ttl"), []byte("hidden"), 0o644)

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %+v, want 2", items)
	}
	if items[0].Path != "a.ttl" || items[1].Path != "sub/b.owl" {
		t.Errorf("paths = %q, %q", items[0].Path, items[1].Path)
	}
	if items[0].Checksum != Checksum([]byte("a")) {
		t.Errorf("checksum = %q", items[0].Checksum)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempDataset(t)

	cases := []string{
		"../../etc/passwd.ttl",
		"../outside.ttl",
		"/etc/shadow.ttl",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("write to %q: err = %v, want ErrInvalidInput", p, err)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempDataset(t)
	_ = s.Write("atomic.ttl", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic.ttl", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.ttl")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, tmpPrefix+"*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestRel(t *testing.T) {
	s := tempDataset(t)
	rel, err := s.Rel(filepath.Join(s.Root(), "sub", "x.ttl"))
	if err != nil || rel != "sub/x.ttl" {
		t.Errorf("Rel = %q, %v", rel, err)
	}
	if _, err := s.Rel(filepath.Dir(s.Root())); err == nil {
		t.Error("expected error for path outside root")
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp(t.TempDir(), "rowlet-test-*")
	_ = f.Close()
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
