// Package fetch wraps the external yt-dlp tool behind a small search-and-fetch
// interface: top-1 provider search for a free-text query, downloaded to a local
// scratch file in the requested media kind.
package fetch

import (
	"context"
	"errors"
	"os"
)

// Kind selects what the fetcher should produce.
type Kind string

const (
	// KindAudio requests an audio-only artifact.
	KindAudio Kind = "audio"
	// KindVideo requests a video artifact with its audio track.
	KindVideo Kind = "video"
)

// ErrNoResults indicates the provider-side search matched nothing.
var ErrNoResults = errors.New("fetch: no results found")

// Result describes one downloaded artifact. The file at Path and its scratch
// directory belong to the caller, who calls Discard after delivery.
type Result struct {
	Path  string
	Title string
	// Dir is the per-fetch scratch directory holding Path, when the
	// implementation uses one.
	Dir string
}

// Discard removes the artifact and its scratch directory.
func (r Result) Discard() {
	if r.Dir != "" {
		_ = os.RemoveAll(r.Dir)
		return
	}
	if r.Path != "" {
		_ = os.Remove(r.Path)
	}
}

// Fetcher turns a query and a kind into a local media file.
type Fetcher interface {
	Fetch(ctx context.Context, query string, kind Kind) (Result, error)
}
