package fetch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractResultScansScratchDir(t *testing.T) {
	scratch := t.TempDir()
	file := filepath.Join(scratch, "Shape_of_You.m4a")
	if err := os.WriteFile(file, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := extractResult(nil, scratch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Path != file {
		t.Fatalf("expected %q, got %q", file, got.Path)
	}
	if got.Title != "Shape_of_You" {
		t.Fatalf("expected title from filename, got %q", got.Title)
	}
	if got.Dir != scratch {
		t.Fatalf("expected scratch dir %q, got %q", scratch, got.Dir)
	}
}

func TestResultDiscardRemovesScratchDir(t *testing.T) {
	parent := t.TempDir()
	scratch := filepath.Join(parent, "job")
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(scratch, "track.m4a")
	if err := os.WriteFile(file, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}

	(Result{Path: file, Title: "track", Dir: scratch}).Discard()

	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Fatal("expected scratch dir to be removed")
	}
}

func TestResultDiscardFileOnly(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "track.m4a")
	if err := os.WriteFile(file, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}

	(Result{Path: file, Title: "track"}).Discard()

	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatal("expected file to be removed")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatal("parent dir must survive a file-only discard")
	}
}

func TestExtractResultEmptyScratchDir(t *testing.T) {
	_, err := extractResult(nil, t.TempDir())
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestIsNoResults(t *testing.T) {
	if !isNoResults(errors.New("ytsearch1: query did not return any data")) {
		t.Fatal("expected no-results classification")
	}
	if isNoResults(errors.New("connection reset by peer")) {
		t.Fatal("transport errors must not classify as no-results")
	}
}
