package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/kburki/broadcast-youtube-downloader/internal/batch"
	"github.com/kburki/broadcast-youtube-downloader/internal/ytdlp"
)

var resolveTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

// runResolve lists what a source reference expands to, in processing order,
// without fetching anything. Useful for picking --start-position and --limit
// before a long run.
func runResolve(args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	oldestFirst := fs.Bool("oldest-first", false, "list a collection oldest to newest")
	cookies := fs.String("cookies", "", "path to cookies.txt for the fetch capability")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	source := strings.TrimSpace(fs.Arg(0))
	if source == "" {
		return fmt.Errorf("%w: a source URL argument is required", batch.ErrValidation)
	}

	client := &ytdlp.Client{CookiesPath: *cookies}
	res, err := client.Resolve(context.Background(), ytdlp.ResolveOptions{
		SourceRef:   source,
		OldestFirst: *oldestFirst,
	})
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(res)
	}

	kind := "single video"
	if res.Collection {
		kind = fmt.Sprintf("collection of %d item(s)", len(res.Items))
	}
	fmt.Printf("%s (%s)\n", resolveTitleStyle.Render(res.SourceTitle), kind)

	rows := make([]table.Row, len(res.Items))
	for i, item := range res.Items {
		duration := "?"
		if item.HasDuration() {
			duration = formatDuration(item.DurationSeconds)
		}
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			item.ID,
			duration,
			item.UploadDate,
			item.Title,
		}
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "ID", Width: 14},
			{Title: "Duration", Width: 9},
			{Title: "Date", Width: 10},
			{Title: "Title", Width: 48},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)),
	)
	styles := table.DefaultStyles()
	styles.Selected = styles.Cell
	t.SetStyles(styles)
	fmt.Println(t.View())
	return nil
}

func formatDuration(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
