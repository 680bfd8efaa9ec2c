package fetch

import (
	"fmt"
	"os"
)

// WriteCookies materialises an opaque cookie blob from configuration into a
// private temp file for yt-dlp to consume. The returned cleanup removes the
// file and must be called on shutdown. An empty blob yields no file and a
// no-op cleanup.
func WriteCookies(blob string) (path string, cleanup func(), err error) {
	if blob == "" {
		return "", func() {}, nil
	}

	f, err := os.CreateTemp("", "tunebot-cookies-*.txt")
	if err != nil {
		return "", nil, fmt.Errorf("fetch: create cookies file: %w", err)
	}
	defer f.Close()

	if err := f.Chmod(0o600); err != nil {
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("fetch: chmod cookies file: %w", err)
	}
	if _, err := f.WriteString(blob); err != nil {
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("fetch: write cookies file: %w", err)
	}

	name := f.Name()
	return name, func() { _ = os.Remove(name) }, nil
}
