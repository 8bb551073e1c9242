package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kburki/broadcast-youtube-downloader/internal/batch"
)

const playlistFixture = `{"_type":"playlist","id":"PL1","title":"Weekly Show","entries":[` +
	`{"id":"v1","title":"Pilot","url":"https://example.com/watch?v=v1","duration":1800,"upload_date":"20240105"},` +
	`{"id":"v2","title":"Second Episode","url":"https://example.com/watch?v=v2","duration":3720,"upload_date":"20240112"}]}`

func TestResolveCommandListsCollection(t *testing.T) {
	bin := fakeBinDir(t, map[string]string{"yt-dlp": fakeYTDLP})
	t.Setenv("PATH", bin+":"+os.Getenv("PATH"))
	writeFixture(t, playlistFixture)

	var err error
	output := captureStdout(t, func() {
		err = Run([]string{"resolve", "https://example.com/playlist?list=PL1"})
	})
	require.NoError(t, err)
	require.Contains(t, output, "Weekly Show")
	require.Contains(t, output, "collection of 2 item(s)")
	require.Contains(t, output, "Pilot")
	require.Contains(t, output, "30:00")
	require.Contains(t, output, "1:02:00")
}

func TestResolveCommandJSON(t *testing.T) {
	bin := fakeBinDir(t, map[string]string{"yt-dlp": fakeYTDLP})
	t.Setenv("PATH", bin+":"+os.Getenv("PATH"))
	writeFixture(t, singleVideoFixture)

	var err error
	output := captureStdout(t, func() {
		err = Run([]string{"resolve", "--json", "https://example.com/watch?v=v1"})
	})
	require.NoError(t, err)
	require.Contains(t, output, `"Video 1"`)
	require.NotContains(t, output, "collection of")
}

func TestResolveCommandRequiresSource(t *testing.T) {
	err := Run([]string{"resolve"})
	require.ErrorIs(t, err, batch.ErrValidation)
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "0:45", formatDuration(45))
	require.Equal(t, "30:00", formatDuration(1800))
	require.Equal(t, "1:02:00", formatDuration(3720))
}
