package fetch

import (
	"os"
	"testing"
)

func TestWriteCookiesEmptyBlob(t *testing.T) {
	path, cleanup, err := WriteCookies("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no file for empty blob, got %q", path)
	}
	cleanup()
}

func TestWriteCookiesRoundTrip(t *testing.T) {
	blob := "# Netscape HTTP Cookie File\n.example.com\tTRUE\t/\tFALSE\t0\tsid\tabc\n"
	path, cleanup, err := WriteCookies(blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path == "" {
		t.Fatal("expected a file path")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat cookies file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cookies file: %v", err)
	}
	if string(data) != blob {
		t.Fatalf("cookie content mismatch: got %q", string(data))
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected cookies file to be removed by cleanup")
	}
}
