// Package pipeline turns one resolved item into a named, transcoded,
// delivered artifact. It tries a streaming path first (fetch -> transcode ->
// deliver with no local persistence) and falls back to a staged path through
// a temporary artifact when streaming fails.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kburki/broadcast-youtube-downloader/internal/model"
	"github.com/kburki/broadcast-youtube-downloader/internal/profile"
	"github.com/kburki/broadcast-youtube-downloader/internal/transfer"
	"github.com/kburki/broadcast-youtube-downloader/internal/trim"
	"github.com/kburki/broadcast-youtube-downloader/internal/ytdlp"
)

// FailureKind classifies a per-item failure for the run summary and ledger.
type FailureKind string

const (
	FailFetch               FailureKind = "fetch_error"
	FailTranscodeOrDelivery FailureKind = "transcode_or_delivery_error"
)

// Outcome is the per-item result. Tier records which strategy produced a
// success: 1 streaming, 2 staged.
type Outcome struct {
	Success bool
	Tier    int
	Kind    FailureKind
	Detail  string
}

// Fetcher is the consumed media-fetch capability.
type Fetcher interface {
	OpenStream(ctx context.Context, sourceURL string) (*ytdlp.FetchStream, error)
	FetchToFile(ctx context.Context, sourceURL, destPath string) error
}

// Transcoder is the consumed encode capability.
type Transcoder interface {
	TranscodeStream(ctx context.Context, in io.Reader, out io.Writer, tr trim.Resolved, p profile.Profile) error
	TranscodeFile(ctx context.Context, inputPath string, out io.Writer, tr trim.Resolved, p profile.Profile) error
}

// Recorder receives lifecycle events; the run ledger satisfies it.
type Recorder interface {
	Info(itemID, name, format string, args ...any)
	Warn(itemID, name, format string, args ...any)
	Error(itemID, name, format string, args ...any)
}

type Pipeline struct {
	Fetcher    Fetcher
	Transcoder Transcoder
	Recorder   Recorder

	// StagingDir holds the tier-2 temporary artifact. Empty means the OS
	// temp directory.
	StagingDir string
}

// Process runs the two-tier strategy for one item. The first tier to
// complete wins; tier 2 only starts after tier 1 has conclusively failed.
func (p *Pipeline) Process(ctx context.Context, item model.Item, name string, tr trim.Resolved, prof profile.Profile, sink transfer.Sink) Outcome {
	dest := sink.Destination(name)

	p.Recorder.Info(item.ID, name, "tier1 start: streaming to %s", dest)
	if err := p.streamingPass(ctx, item, tr, prof, sink, name); err != nil {
		p.Recorder.Warn(item.ID, name, "tier1 failed: %s; falling back to staged pipeline", err)
	} else {
		p.Recorder.Info(item.ID, name, "delivered to %s (streaming)", dest)
		return Outcome{Success: true, Tier: 1}
	}

	out := p.stagedPass(ctx, item, tr, prof, sink, name)
	if out.Success {
		p.Recorder.Info(item.ID, name, "delivered to %s (staged)", dest)
	} else {
		p.Recorder.Error(item.ID, name, "tier2 failed: %s", out.Detail)
	}
	return out
}

// streamingPass connects fetch stdout to the transcoder and the transcoder's
// output to the delivery sink. No bytes are persisted locally.
func (p *Pipeline) streamingPass(ctx context.Context, item model.Item, tr trim.Resolved, prof profile.Profile, sink transfer.Sink, name string) error {
	st, err := p.Fetcher.OpenStream(ctx, item.SourceURL)
	if err != nil {
		return fmt.Errorf("open fetch stream: %w", err)
	}

	pr, pw := io.Pipe()
	transcodeDone := make(chan error, 1)
	go func() {
		err := p.Transcoder.TranscodeStream(ctx, st.Reader, pw, tr, prof)
		pw.CloseWithError(err)
		transcodeDone <- err
	}()

	deliverErr := sink.Deliver(ctx, pr, name)
	// Unblock the transcoder if delivery died first.
	_ = pr.CloseWithError(deliverErr)
	transcodeErr := <-transcodeDone
	_ = st.Reader.Close()
	fetchErr := st.Wait()

	switch {
	case fetchErr != nil:
		return fetchErr
	case transcodeErr != nil:
		return transcodeErr
	case deliverErr != nil:
		return deliverErr
	default:
		return nil
	}
}

// stagedPass fetches the full source to a temporary artifact, transcodes
// from it, and delivers. The artifact is removed on every exit path.
func (p *Pipeline) stagedPass(ctx context.Context, item model.Item, tr trim.Resolved, prof profile.Profile, sink transfer.Sink, name string) Outcome {
	staging := p.stagingPath(name)
	defer func() {
		_ = os.Remove(staging)
	}()

	p.Recorder.Info(item.ID, name, "tier2 start: staging source to %s", staging)
	if err := p.Fetcher.FetchToFile(ctx, item.SourceURL, staging); err != nil {
		return Outcome{Kind: FailFetch, Detail: err.Error()}
	}

	p.Recorder.Info(item.ID, name, "tier2 transcode start")
	pr, pw := io.Pipe()
	transcodeDone := make(chan error, 1)
	go func() {
		err := p.Transcoder.TranscodeFile(ctx, staging, pw, tr, prof)
		pw.CloseWithError(err)
		transcodeDone <- err
	}()

	deliverErr := sink.Deliver(ctx, pr, name)
	_ = pr.CloseWithError(deliverErr)
	transcodeErr := <-transcodeDone

	if transcodeErr != nil {
		return Outcome{Kind: FailTranscodeOrDelivery, Detail: transcodeErr.Error()}
	}
	if deliverErr != nil {
		return Outcome{Kind: FailTranscodeOrDelivery, Detail: deliverErr.Error()}
	}
	return Outcome{Success: true, Tier: 2}
}

func (p *Pipeline) stagingPath(name string) string {
	dir := p.StagingDir
	if dir == "" {
		dir = os.TempDir()
	}
	// Derived from the output name so concurrent runs in one staging
	// directory cannot collide.
	return filepath.Join(dir, name+".source.tmp")
}
