package fetch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"

	"github.com/r0manch/tunebot/core/logger"
)

const (
	audioFormat = "bestaudio/best"
	videoFormat = "bestvideo+bestaudio/best"

	searchPrefix = "ytsearch1:"
)

// YTDLPOptions configures the yt-dlp backed fetcher.
type YTDLPOptions struct {
	// Dir is the root under which per-fetch scratch directories are created.
	Dir string
	// CookiesFile, when non-empty, is passed to yt-dlp for authenticated fetches.
	CookiesFile string
	// Timeout bounds a single fetch run. Zero disables the bound.
	Timeout time.Duration
}

// YTDLP runs the external yt-dlp binary for each fetch.
type YTDLP struct {
	opts YTDLPOptions
}

// NewYTDLP validates the environment and returns a yt-dlp backed fetcher.
func NewYTDLP(opts YTDLPOptions) (*YTDLP, error) {
	if opts.Dir == "" {
		opts.Dir = "downloads"
	}
	if _, err := exec.LookPath("yt-dlp"); err != nil {
		return nil, fmt.Errorf("fetch: yt-dlp binary not found in PATH: %w", err)
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("fetch: create download dir: %w", err)
	}
	return &YTDLP{opts: opts}, nil
}

// Fetch performs a top-1 search for the query and downloads the result in the
// requested kind. Each call gets its own scratch directory so concurrent
// fetches for identically titled tracks cannot collide.
func (y *YTDLP) Fetch(ctx context.Context, query string, kind Kind) (Result, error) {
	if y.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.opts.Timeout)
		defer cancel()
	}

	scratch := filepath.Join(y.opts.Dir, uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return Result{}, fmt.Errorf("fetch: create scratch dir: %w", err)
	}

	format := audioFormat
	if kind == KindVideo {
		format = videoFormat
	}

	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		Format(format).
		Output(filepath.Join(scratch, "%(title)s.%(ext)s"))
	if y.opts.CookiesFile != "" {
		dl = dl.Cookies(y.opts.CookiesFile)
	}

	start := time.Now()
	res, err := dl.Run(ctx, searchPrefix+query)
	if err != nil {
		_ = os.RemoveAll(scratch)
		logger.Error(ctx, "bot.fetch", "fetch.fail",
			slog.String("query", logger.SanitizeLimit(query, 128)),
			slog.String("format", string(kind)),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		)
		if isNoResults(err) {
			return Result{}, ErrNoResults
		}
		return Result{}, fmt.Errorf("fetch: yt-dlp run: %w", err)
	}

	out, err := extractResult(res, scratch)
	if err != nil {
		_ = os.RemoveAll(scratch)
		return Result{}, err
	}

	logger.Info(ctx, "bot.fetch", "fetch.success",
		slog.String("query", logger.SanitizeLimit(query, 128)),
		slog.String("format", string(kind)),
		slog.String("title", logger.SanitizeLimit(out.Title, 128)),
		slog.String("file", filepath.Base(out.Path)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return out, nil
}

func extractResult(res *ytdlp.Result, scratch string) (Result, error) {
	if res != nil {
		infos, err := res.GetExtractedInfo()
		if err == nil {
			for _, info := range infos {
				if info == nil {
					continue
				}
				out := Result{Dir: scratch}
				if info.Filename != nil {
					out.Path = *info.Filename
				}
				if info.Title != nil {
					out.Title = *info.Title
				}
				if out.Path != "" {
					return out, nil
				}
			}
		}
	}

	// Fall back to scanning the scratch dir when yt-dlp gave no usable
	// metadata. With ytsearch1 there is at most one artifact.
	entries, err := os.ReadDir(scratch)
	if err != nil || len(entries) == 0 {
		return Result{}, ErrNoResults
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(scratch, e.Name())
		title := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		return Result{Path: path, Title: title, Dir: scratch}, nil
	}
	return Result{}, ErrNoResults
}

func isNoResults(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no video results") ||
		strings.Contains(msg, "did not return any data") ||
		strings.Contains(msg, "unable to extract")
}
