package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRealFS_Exists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	file := filepath.Join(dir, "present.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	exists, err := fs.Exists(file)
	if err != nil {
		t.Fatalf("Exists() error: %v", err)
	}
	if !exists {
		t.Error("Exists() = false for existing file")
	}

	exists, err = fs.Exists(filepath.Join(dir, "absent.txt"))
	if err != nil {
		t.Fatalf("Exists() error: %v", err)
	}
	if exists {
		t.Error("Exists() = true for missing file")
	}
}

func TestRealFS_Copy(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte("hello"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Destination parent does not exist yet; Copy must create it.
	dst := filepath.Join(dir, "nested", "deeper", "dst.txt")
	if err := fs.Copy(src, dst); err != nil {
		t.Fatalf("Copy() error: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading copy: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("copied contents = %q, want %q", data, "hello")
	}
}

func TestRealFS_Copy_RejectsDirectory(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	if err := fs.Copy(dir, filepath.Join(dir, "out")); err == nil {
		t.Error("Copy() of a directory should fail")
	}
}

func TestRealFS_Rename(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := fs.Rename(src, dst); err != nil {
		t.Fatalf("Rename() error: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists after rename")
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("destination missing after rename: %v", err)
	}
}
