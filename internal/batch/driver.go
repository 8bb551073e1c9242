// Package batch drives one run: resolve the source into items, window the
// list, and push each item through the fetch-transcode-deliver pipeline
// while accumulating the run result and the ledger.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kburki/broadcast-youtube-downloader/internal/ledger"
	"github.com/kburki/broadcast-youtube-downloader/internal/model"
	"github.com/kburki/broadcast-youtube-downloader/internal/naming"
	"github.com/kburki/broadcast-youtube-downloader/internal/pipeline"
	"github.com/kburki/broadcast-youtube-downloader/internal/profile"
	"github.com/kburki/broadcast-youtube-downloader/internal/transfer"
	"github.com/kburki/broadcast-youtube-downloader/internal/trim"
	"github.com/kburki/broadcast-youtube-downloader/internal/ytdlp"
)

const (
	PolicyForce   = "force"
	PolicyConfirm = "confirm"
)

var (
	// ErrValidation marks a bad request; nothing was processed.
	ErrValidation = errors.New("invalid run request")
	// ErrOutOfRange marks a start position beyond the resolved item count.
	ErrOutOfRange = errors.New("start position out of range")
)

// Request is the validated configuration for one batch invocation.
type Request struct {
	SourceRef   string
	OldestFirst bool

	Scheme naming.Scheme
	Trim   trim.Spec
	Target transfer.Target

	// Limit caps the number of items processed; zero means no limit.
	Limit int
	// StartPosition is 1-based; positions before it are dropped.
	StartPosition int

	Overwrite    string
	PauseSeconds int
}

// Resolver is the consumed source-resolution capability.
type Resolver interface {
	Resolve(ctx context.Context, opts ytdlp.ResolveOptions) (ytdlp.ResolveResult, error)
	ProbeDuration(ctx context.Context, sourceURL string) (int, error)
}

// Processor runs the two-tier pipeline for one item.
type Processor interface {
	Process(ctx context.Context, item model.Item, name string, tr trim.Resolved, prof profile.Profile, sink transfer.Sink) pipeline.Outcome
}

// ConfirmFunc decides whether an existing artifact at destination may be
// overwritten. Injected so the driver stays non-interactive and testable.
type ConfirmFunc func(name, destination string) bool

type Driver struct {
	Resolver  Resolver
	Processor Processor
	Ledger    *ledger.Ledger
	Confirm   ConfirmFunc

	// NewSink builds the delivery sink for the request's target; defaults
	// to transfer.NewSink.
	NewSink func(transfer.Target) (transfer.Sink, error)
	// Pause sleeps between items; defaults to time.Sleep.
	Pause func(time.Duration)
}

// Run executes the batch. Fatal conditions (validation, resolution, start
// position out of range) return an error and no RunResult; per-item failures
// are recorded and never abort the run.
func (d *Driver) Run(ctx context.Context, req Request) (model.RunResult, error) {
	if err := validate(req); err != nil {
		return model.RunResult{}, err
	}
	newSink := d.NewSink
	if newSink == nil {
		newSink = transfer.NewSink
	}
	sink, err := newSink(req.Target)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	pause := d.Pause
	if pause == nil {
		pause = time.Sleep
	}

	res, err := d.Resolver.Resolve(ctx, ytdlp.ResolveOptions{
		SourceRef:   req.SourceRef,
		OldestFirst: req.OldestFirst,
	})
	if err != nil {
		return model.RunResult{}, err
	}

	items := res.Items
	if req.StartPosition > 1 {
		if req.StartPosition > len(items) {
			return model.RunResult{}, fmt.Errorf("%w: position %d with %d item(s)", ErrOutOfRange, req.StartPosition, len(items))
		}
		items = items[req.StartPosition-1:]
	}
	if req.Limit > 0 && req.Limit < len(items) {
		items = items[:req.Limit]
	}

	// Derive every name up front so a scheme that overflows its padding
	// fails the run before any item is touched.
	names := make([]string, len(items))
	for i := range items {
		name, err := naming.DeriveName(req.Scheme, i)
		if err != nil {
			return model.RunResult{}, fmt.Errorf("%w: %s", ErrValidation, err)
		}
		names[i] = name
	}

	prof := req.Target.Profile()
	d.Ledger.Info("", "", "run start: %d item(s) from %q (source %q)", len(items), req.SourceRef, res.SourceTitle)

	result := model.RunResult{
		RunID:      d.Ledger.RunID(),
		LedgerDir:  d.Ledger.Dir(),
		TotalItems: len(items),
	}

	for i, item := range items {
		if i > 0 {
			pause(time.Duration(req.PauseSeconds) * time.Second)
		}
		if ctx.Err() != nil {
			d.Ledger.Warn("", "", "run interrupted before item %d of %d", i+1, len(items))
			return result, ctx.Err()
		}

		name := names[i]
		rec := model.ItemRecord{Item: item, DerivedName: name, Status: model.StatusPending}

		var skipped bool
		if req.Overwrite != PolicyForce {
			var err error
			skipped, err = d.shouldSkip(ctx, sink, name)
			if err != nil {
				d.Ledger.Warn(item.ID, name, "collision check failed: %s; proceeding", err)
			}
		}
		if skipped {
			_ = model.TransitionRecord(&rec, model.StatusSkipped, "existing artifact kept")
			d.Ledger.Info(item.ID, name, "skipped: %s already exists and overwrite was declined", sink.Destination(name))
			result.Skipped++
			d.finishRecord(&result, rec)
			continue
		}

		tr := d.resolveTrim(ctx, req.Trim, item, name)

		_ = model.TransitionRecord(&rec, model.StatusAttempting, "")
		d.Ledger.Info(item.ID, name, "fetch start: %s", item.SourceURL)
		out := d.Processor.Process(ctx, item, name, tr, prof, sink)
		if out.Success {
			_ = model.TransitionRecord(&rec, model.StatusSucceeded, fmt.Sprintf("delivered via tier %d", out.Tier))
			result.Succeeded++
		} else {
			_ = model.TransitionRecord(&rec, model.StatusFailed, fmt.Sprintf("%s: %s", out.Kind, out.Detail))
			result.Failed++
		}
		d.finishRecord(&result, rec)
	}

	d.Ledger.Info("", "", "run complete: %d succeeded, %d failed, %d skipped",
		result.Succeeded, result.Failed, result.Skipped)
	return result, nil
}

func (d *Driver) shouldSkip(ctx context.Context, sink transfer.Sink, name string) (bool, error) {
	exists, err := sink.Exists(ctx, name)
	if err != nil || !exists {
		return false, err
	}
	if d.Confirm == nil {
		// No decision function means non-interactive: keep the artifact.
		return true, nil
	}
	return !d.Confirm(name, sink.Destination(name)), nil
}

// resolveTrim resolves the run's trim spec against this item's duration,
// probing upstream when a tail trim needs a duration the resolver did not
// supply.
func (d *Driver) resolveTrim(ctx context.Context, spec trim.Spec, item model.Item, name string) trim.Resolved {
	duration := item.DurationSeconds
	if spec.Kind == trim.KindStartAndTail && !item.HasDuration() {
		probed, err := d.Resolver.ProbeDuration(ctx, item.SourceURL)
		if err != nil {
			d.Ledger.Warn(item.ID, name, "duration probe failed: %s", err)
		} else {
			duration = probed
		}
	}
	tr, warn := trim.Resolve(spec, duration)
	if warn != "" {
		d.Ledger.Warn(item.ID, name, "trim: %s", warn)
	}
	return tr
}

func (d *Driver) finishRecord(result *model.RunResult, rec model.ItemRecord) {
	result.Records = append(result.Records, rec)
	d.Ledger.AddRow(ledger.Row{
		OriginalName: rec.Item.Title,
		NewName:      rec.DerivedName,
		Description:  rec.Item.Title,
		SourceDate:   rec.Item.UploadDate,
		Status:       rec.Status,
	})
}

func validate(req Request) error {
	if req.SourceRef == "" {
		return fmt.Errorf("%w: source reference is required", ErrValidation)
	}
	if req.StartPosition < 1 {
		return fmt.Errorf("%w: start position %d (must be >= 1)", ErrValidation, req.StartPosition)
	}
	if req.Limit < 0 {
		return fmt.Errorf("%w: limit %d is negative", ErrValidation, req.Limit)
	}
	if req.PauseSeconds < 0 {
		return fmt.Errorf("%w: pause %ds is negative", ErrValidation, req.PauseSeconds)
	}
	switch req.Overwrite {
	case PolicyForce, PolicyConfirm:
	default:
		return fmt.Errorf("%w: unknown overwrite policy %q", ErrValidation, req.Overwrite)
	}
	if err := trim.Validate(req.Trim); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	// Probe the scheme with the first ordinal so an unusable scheme is
	// rejected even for an empty source.
	if _, err := naming.DeriveName(req.Scheme, 0); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	return nil
}
