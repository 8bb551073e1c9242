package cli

import (
	"flag"
	"fmt"

	"github.com/kburki/broadcast-youtube-downloader/internal/ytdlp"
)

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	remote := fs.Bool("remote", false, "also require curl for remote upload")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	report := ytdlp.DependencyStatus()
	if *jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printCheck("yt-dlp", report.YTDLPFound, report.YTDLPPath)
		printCheck("ffmpeg", report.FFmpegFound, report.FFmpegPath)
		printCheck("curl", report.CurlFound, report.CurlPath)
	}
	if err := ytdlp.CheckDependencies(*remote); err != nil {
		return fmt.Errorf("%w: %s", errSetup, err)
	}
	if !*jsonOut {
		fmt.Println("doctor: all checks passed")
	}
	return nil
}

func printCheck(name string, found bool, path string) {
	if found {
		fmt.Printf("%s: ok (%s)\n", name, path)
		return
	}
	fmt.Printf("%s: missing\n", name)
}
