// Package ytdlp wraps the yt-dlp binary as the media fetcher capability:
// resolving a source reference into an ordered item list, probing metadata,
// and opening fetch streams for the pipeline.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kburki/broadcast-youtube-downloader/internal/model"
)

// Resolution failures are fatal for a run: no item list means no run.
var ErrResolution = errors.New("source resolution failed")

// Height ceiling for fetched source media. Broadcast masters are 1080i, so
// anything above this is wasted transfer.
const maxSourceHeight = 1080

type Client struct {
	// Binary overrides the yt-dlp executable name, for tests.
	Binary string

	CookiesPath string
}

func (c Client) binary() string {
	if strings.TrimSpace(c.Binary) != "" {
		return c.Binary
	}
	return "yt-dlp"
}

type ResolveOptions struct {
	SourceRef string
	// OldestFirst reverses the upstream order; collection sources list
	// newest entries first.
	OldestFirst bool
}

type ResolveResult struct {
	SourceID    string
	SourceTitle string
	// Collection is true when the reference resolved to more than a single
	// item container (playlist, channel).
	Collection bool
	Items      []model.Item
}

type rawCollection struct {
	Type       string     `json:"_type"`
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	WebpageURL string     `json:"webpage_url"`
	Duration   float64    `json:"duration"`
	UploadDate string     `json:"upload_date"`
	Entries    []rawEntry `json:"entries"`
}

type rawEntry struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	WebpageURL string  `json:"webpage_url"`
	Duration   float64 `json:"duration"`
	UploadDate string  `json:"upload_date"`
}

// Resolve classifies the reference and returns the ordered item list.
func (c Client) Resolve(ctx context.Context, opts ResolveOptions) (ResolveResult, error) {
	if strings.TrimSpace(opts.SourceRef) == "" {
		return ResolveResult{}, fmt.Errorf("%w: source reference is required", ErrResolution)
	}

	args := []string{"--flat-playlist", "-J"}
	args = c.appendCookieArgs(args)
	args = append(args, opts.SourceRef)

	cmd := exec.CommandContext(ctx, c.binary(), args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return ResolveResult{}, fmt.Errorf("%w: %s: %s", ErrResolution, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return ResolveResult{}, fmt.Errorf("%w: empty resolver output", ErrResolution)
	}

	var raw rawCollection
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return ResolveResult{}, fmt.Errorf("%w: parse resolver output: %s", ErrResolution, err)
	}

	res := ResolveResult{
		SourceID:    raw.ID,
		SourceTitle: raw.Title,
	}
	if raw.Type == "playlist" || len(raw.Entries) > 0 {
		res.Collection = true
		for _, e := range raw.Entries {
			res.Items = append(res.Items, itemFromEntry(e))
		}
		if opts.OldestFirst {
			reverse(res.Items)
		}
		return res, nil
	}

	res.Items = []model.Item{itemFromEntry(rawEntry{
		ID:         raw.ID,
		Title:      raw.Title,
		WebpageURL: raw.WebpageURL,
		Duration:   raw.Duration,
		UploadDate: raw.UploadDate,
	})}
	return res, nil
}

func itemFromEntry(e rawEntry) model.Item {
	url := strings.TrimSpace(e.URL)
	if url == "" {
		url = strings.TrimSpace(e.WebpageURL)
	}
	if url == "" && e.ID != "" {
		url = "https://www.youtube.com/watch?v=" + e.ID
	}
	return model.Item{
		ID:              e.ID,
		SourceURL:       url,
		Title:           e.Title,
		DurationSeconds: int(e.Duration),
		UploadDate:      e.UploadDate,
	}
}

func reverse(items []model.Item) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

// ProbeDuration asks upstream for a single item's duration in seconds.
// Returns 0 when the duration is unavailable.
func (c Client) ProbeDuration(ctx context.Context, sourceURL string) (int, error) {
	out, err := c.print(ctx, sourceURL, "duration")
	if err != nil {
		return 0, err
	}
	var seconds float64
	if _, err := fmt.Sscanf(out, "%f", &seconds); err != nil {
		return 0, nil
	}
	return int(seconds), nil
}

// ProbeTitle asks upstream for a single item's title.
func (c Client) ProbeTitle(ctx context.Context, sourceURL string) (string, error) {
	return c.print(ctx, sourceURL, "title")
}

func (c Client) print(ctx context.Context, sourceURL, field string) (string, error) {
	args := []string{"--no-playlist", "--print", field}
	args = c.appendCookieArgs(args)
	args = append(args, sourceURL)

	cmd := exec.CommandContext(ctx, c.binary(), args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("probe %s: %s: %s", field, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// FetchStream is an open streaming fetch. The caller must drain Reader and
// then call Wait to reap the fetch process and learn its outcome.
type FetchStream struct {
	Reader io.ReadCloser
	Wait   func() error
}

// OpenStream starts a fetch of the best combined video+audio at or below the
// resolution ceiling, emitting the container to the returned reader. Nothing
// is persisted locally.
func (c Client) OpenStream(ctx context.Context, sourceURL string) (*FetchStream, error) {
	args := []string{"--no-playlist", "--quiet", "-f", formatSelector(), "-o", "-"}
	args = c.appendCookieArgs(args)
	args = append(args, sourceURL)

	cmd := exec.CommandContext(ctx, c.binary(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("setup fetch pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start fetch: %w", err)
	}
	return &FetchStream{
		Reader: stdout,
		Wait: func() error {
			if err := cmd.Wait(); err != nil {
				return fmt.Errorf("fetch stream: %s: %s", err, strings.TrimSpace(stderr.String()))
			}
			return nil
		},
	}, nil
}

// FetchToFile downloads the full source to destPath. A partially written
// file is removed on failure.
func (c Client) FetchToFile(ctx context.Context, sourceURL, destPath string) error {
	args := []string{"--no-playlist", "--quiet", "-f", formatSelector(), "-o", destPath}
	args = c.appendCookieArgs(args)
	args = append(args, sourceURL)

	cmd := exec.CommandContext(ctx, c.binary(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(destPath)
		return fmt.Errorf("fetch to file: %s: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (c Client) appendCookieArgs(args []string) []string {
	if strings.TrimSpace(c.CookiesPath) != "" {
		return append(args, "--cookies", c.CookiesPath)
	}
	return args
}

func formatSelector() string {
	return fmt.Sprintf("bv*[height<=%d]+ba/b[height<=%d]", maxSourceHeight, maxSourceHeight)
}

// DependencyReport lists the external binaries the pipeline shells out to.
type DependencyReport struct {
	YTDLPFound  bool   `json:"yt_dlp_found"`
	YTDLPPath   string `json:"yt_dlp_path,omitempty"`
	FFmpegFound bool   `json:"ffmpeg_found"`
	FFmpegPath  string `json:"ffmpeg_path,omitempty"`
	CurlFound   bool   `json:"curl_found"`
	CurlPath    string `json:"curl_path,omitempty"`
}

func DependencyStatus() DependencyReport {
	report := DependencyReport{}
	if path, err := exec.LookPath("yt-dlp"); err == nil {
		report.YTDLPFound = true
		report.YTDLPPath = path
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		report.FFmpegFound = true
		report.FFmpegPath = path
	}
	if path, err := exec.LookPath("curl"); err == nil {
		report.CurlFound = true
		report.CurlPath = path
	}
	return report
}

func CheckDependencies(remote bool) error {
	report := DependencyStatus()
	if !report.YTDLPFound {
		return fmt.Errorf("missing dependency: yt-dlp is not installed or not on PATH")
	}
	if !report.FFmpegFound {
		return fmt.Errorf("missing dependency: ffmpeg is required for transcoding and was not found on PATH")
	}
	if remote && !report.CurlFound {
		return fmt.Errorf("missing dependency: curl is required for remote upload and was not found on PATH")
	}
	return nil
}
