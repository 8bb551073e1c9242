// Package cli is the command surface of broadcast-youtube-downloader:
// subcommand dispatch, flag parsing, and exit-code mapping over the batch
// driver.
package cli

import (
	"errors"
	"fmt"

	"github.com/kburki/broadcast-youtube-downloader/internal/ytdlp"
)

// ErrPartialFailure marks a run that completed but left at least one item
// failed. The process exits 1 so scripts can detect incomplete batches.
var ErrPartialFailure = errors.New("run finished with failures")

// errSetup marks fatal pre-run conditions: unreadable config, a ledger that
// cannot be opened, missing external binaries.
var errSetup = errors.New("setup failed")

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "run":
		return runBatch(args[1:])
	case "resolve":
		return runResolve(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// ExitCode maps an error from Run to the process exit code: 0 success, 2
// fatal resolution or setup failure, 1 everything else (validation errors,
// partial failures).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ytdlp.ErrResolution) || errors.Is(err, errSetup) {
		return 2
	}
	return 1
}

func printRootUsage() {
	fmt.Println("byd: batch downloader for broadcast and editing copies of YouTube sources")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  byd run [flags] <source-url>      resolve, transcode, and deliver a video or playlist")
	fmt.Println("  byd resolve [flags] <source-url>  list the items a source resolves to, without downloading")
	fmt.Println("  byd doctor [flags]                check for yt-dlp, ffmpeg, and curl")
	fmt.Println()
	fmt.Println("Naming (one required for run):")
	fmt.Println("  --output-name <name>   explicit name for a single-item source")
	fmt.Println("  --prefix <p> [--start-number N --pad W]   numeric series, e.g. JNU-0101")
	fmt.Println("  --code <c> --year YY [--start-episode N]  date-coded series, e.g. NN2024-05")
	fmt.Println()
	fmt.Println("Delivery (one required for run):")
	fmt.Println("  --output-dir <dir>     editing copy into a local directory (h264 mp4)")
	fmt.Println("  --endpoint <url>       air-chain master to the ingest server (mpeg2 ts)")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - Remote upload credentials come from UPLOAD_HOST/UPLOAD_USER/UPLOAD_PASS")
	fmt.Println("    (or an env file passed with --env-file)")
}
