package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/kburki/broadcast-youtube-downloader/internal/batch"
	"github.com/kburki/broadcast-youtube-downloader/internal/config"
	"github.com/kburki/broadcast-youtube-downloader/internal/ffmpeg"
	"github.com/kburki/broadcast-youtube-downloader/internal/ledger"
	"github.com/kburki/broadcast-youtube-downloader/internal/logs"
	"github.com/kburki/broadcast-youtube-downloader/internal/model"
	"github.com/kburki/broadcast-youtube-downloader/internal/naming"
	"github.com/kburki/broadcast-youtube-downloader/internal/pipeline"
	"github.com/kburki/broadcast-youtube-downloader/internal/transfer"
	"github.com/kburki/broadcast-youtube-downloader/internal/trim"
	"github.com/kburki/broadcast-youtube-downloader/internal/ytdlp"
)

var (
	summaryOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	summaryFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	summarySkipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func runBatch(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	outputName := fs.String("output-name", "", "explicit output name for a single-item source")
	prefix := fs.String("prefix", "", "numeric scheme prefix, e.g. JNU-")
	startNumber := fs.Int("start-number", 1, "first number for the numeric scheme")
	pad := fs.Int("pad", 0, "zero-pad width for the numeric scheme (0 = unpadded)")
	code := fs.String("code", "", "date-coded scheme program code, e.g. NN")
	year := fs.Int("year", 0, "two-digit year for the date-coded scheme")
	startEpisode := fs.Int("start-episode", 1, "first episode number for the date-coded scheme")
	outputDir := fs.String("output-dir", "", "deliver editing copies into this local directory")
	endpoint := fs.String("endpoint", "", "deliver broadcast masters to this ingest endpoint URL")
	remotePath := fs.String("path", "", "remote directory under the endpoint")
	trimStart := fs.Int("trim-start", 0, "seconds to drop from the beginning")
	trimEnd := fs.Int("trim-end", 0, "absolute out point in seconds (0 = none)")
	trimTail := fs.Int("trim-tail", 0, "seconds to drop from the end (0 = none)")
	limit := fs.Int("limit", 0, "maximum items to process (0 = all)")
	startPosition := fs.Int("start-position", 1, "1-based position of the first item to process")
	oldestFirst := fs.Bool("oldest-first", false, "process a collection oldest to newest")
	force := fs.Bool("force", false, "overwrite existing artifacts without confirmation")
	pause := fs.Int("pause", -1, "seconds to wait between items (-1 = configured default)")
	stagingDir := fs.String("staging-dir", "", "directory for fallback staging files (default system temp)")
	cookies := fs.String("cookies", "", "path to cookies.txt for the fetch capability")
	envFile := fs.String("env-file", "", "env file to load (default: .env when present)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	source := strings.TrimSpace(fs.Arg(0))
	if source == "" {
		return fmt.Errorf("%w: a source URL argument is required", batch.ErrValidation)
	}

	settings, err := config.Load(*envFile)
	if err != nil {
		return fmt.Errorf("%w: %s", errSetup, err)
	}
	logger := logs.Setup(settings.Logs)

	scheme, err := schemeFromFlags(*outputName, *prefix, *startNumber, *pad, *code, *year, *startEpisode)
	if err != nil {
		return err
	}
	trimSpec, err := trimFromFlags(*trimStart, *trimEnd, *trimTail)
	if err != nil {
		return err
	}
	target, err := targetFromFlags(*outputDir, *endpoint, *remotePath, settings.Upload)
	if err != nil {
		return err
	}

	if err := ytdlp.CheckDependencies(target.Kind == transfer.KindRemote); err != nil {
		return fmt.Errorf("%w: %s", errSetup, err)
	}

	led, err := ledger.Open(settings.LedgerDir, ledger.NewRunID(), logger)
	if err != nil {
		return fmt.Errorf("%w: %s", errSetup, err)
	}
	defer led.Close()

	client := &ytdlp.Client{CookiesPath: *cookies}
	driver := &batch.Driver{
		Resolver: client,
		Processor: &pipeline.Pipeline{
			Fetcher:    client,
			Transcoder: &ffmpeg.Transcoder{},
			Recorder:   led,
			StagingDir: *stagingDir,
		},
		Ledger:  led,
		Confirm: confirmOverwrite,
	}

	overwrite := batch.PolicyConfirm
	if *force {
		overwrite = batch.PolicyForce
	}
	pauseSeconds := settings.PauseSeconds
	if *pause >= 0 {
		pauseSeconds = *pause
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := driver.Run(ctx, batch.Request{
		SourceRef:     source,
		OldestFirst:   *oldestFirst,
		Scheme:        scheme,
		Trim:          trimSpec,
		Target:        target,
		Limit:         *limit,
		StartPosition: *startPosition,
		Overwrite:     overwrite,
		PauseSeconds:  pauseSeconds,
	})
	if err != nil {
		return err
	}

	if *jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printSummary(result)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%w: %d of %d item(s)", ErrPartialFailure, result.Failed, result.TotalItems)
	}
	return nil
}

func schemeFromFlags(outputName, prefix string, startNumber, pad int, code string, year, startEpisode int) (naming.Scheme, error) {
	set := 0
	for _, chosen := range []bool{outputName != "", prefix != "", code != ""} {
		if chosen {
			set++
		}
	}
	if set != 1 {
		return naming.Scheme{}, fmt.Errorf("%w: exactly one of --output-name, --prefix, or --code is required", batch.ErrValidation)
	}
	switch {
	case outputName != "":
		return naming.Scheme{Kind: naming.SchemeNumeric, Prefix: outputName, OmitNumber: true}, nil
	case code != "":
		return naming.Scheme{Kind: naming.SchemeDateCode, Code: code, Year: year, StartEpisode: startEpisode}, nil
	default:
		return naming.Scheme{Kind: naming.SchemeNumeric, Prefix: prefix, StartNumber: startNumber, PadDigits: pad}, nil
	}
}

func trimFromFlags(start, end, tail int) (trim.Spec, error) {
	if end > 0 && tail > 0 {
		return trim.Spec{}, fmt.Errorf("%w: --trim-end and --trim-tail are mutually exclusive", batch.ErrValidation)
	}
	switch {
	case end > 0:
		return trim.Spec{Kind: trim.KindStartAndOut, StartSeconds: start, OutPointSeconds: end}, nil
	case tail > 0:
		return trim.Spec{Kind: trim.KindStartAndTail, StartSeconds: start, TailSeconds: tail}, nil
	case start > 0:
		return trim.Spec{Kind: trim.KindStartOnly, StartSeconds: start}, nil
	default:
		return trim.Spec{Kind: trim.KindNone}, nil
	}
}

func targetFromFlags(outputDir, endpoint, remotePath string, creds config.Credentials) (transfer.Target, error) {
	if (outputDir != "") == (endpoint != "") {
		return transfer.Target{}, fmt.Errorf("%w: exactly one of --output-dir or --endpoint is required", batch.ErrValidation)
	}
	if endpoint != "" {
		return transfer.Target{
			Kind:     transfer.KindRemote,
			Endpoint: endpoint,
			Path:     remotePath,
			Creds:    creds,
		}, nil
	}
	return transfer.Target{Kind: transfer.KindLocal, Dir: outputDir}, nil
}

func printSummary(result model.RunResult) {
	fmt.Printf("run %s finished: %s, %s, %s (ledger: %s)\n",
		result.RunID,
		summaryOKStyle.Render(fmt.Sprintf("%d succeeded", result.Succeeded)),
		summaryFailStyle.Render(fmt.Sprintf("%d failed", result.Failed)),
		summarySkipStyle.Render(fmt.Sprintf("%d skipped", result.Skipped)),
		result.LedgerDir)
	for _, rec := range result.Records {
		line := fmt.Sprintf("  %-10s %s", rec.Status, rec.DerivedName)
		if rec.Detail != "" {
			line += "  " + rec.Detail
		}
		switch rec.Status {
		case model.StatusFailed:
			fmt.Println(summaryFailStyle.Render(line))
		case model.StatusSkipped:
			fmt.Println(summarySkipStyle.Render(line))
		default:
			fmt.Println(line)
		}
	}
}
