package main

import (
	"fmt"
	"os"

	"github.com/kburki/broadcast-youtube-downloader/internal/cli"
)

func main() {
	err := cli.Run(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(cli.ExitCode(err))
}
