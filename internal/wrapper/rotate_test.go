package wrapper

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRotateNoopBelowThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("small"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Rotate(path, 64, 2); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "small" {
		t.Fatalf("expected file untouched, got %q", data)
	}
}

func TestRotateTruncatesWhenMaxFilesIsOne(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, make([]byte, 200), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Rotate(path, 64, 1); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected truncated file, size=%d", info.Size())
	}
}

func TestRotateShiftsArchives(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rotate.log")

	if err := os.WriteFile(path, make([]byte, 256), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Rotate(path, 64, 2); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected archive .1 to exist: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected active log renamed away, stat err=%v", err)
	}
}

func TestRotateShiftsMultipleArchives(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rotate.log")

	if err := os.WriteFile(path+".1", []byte("archive-1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, 256), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Rotate(path, 64, 3); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	data, err := os.ReadFile(path + ".2")
	if err != nil {
		t.Fatalf("expected .1 shifted to .2: %v", err)
	}
	if string(data) != "archive-1" {
		t.Fatalf("unexpected .2 content: %q", data)
	}
	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected new .1 from active log: %v", err)
	}
}
