package ytdlp

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeBinary(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestResolve_Collection(t *testing.T) {
	fixture := `{"_type":"playlist","id":"PL1","title":"Gavel Archive","entries":[` +
		`{"id":"new1","title":"Newest","url":"https://example.org/new1","duration":120.5,"upload_date":"20240301"},` +
		`{"id":"old1","title":"Oldest","url":"https://example.org/old1","duration":60,"upload_date":"20240101"}]}`
	bin := writeFakeBinary(t, "#!/usr/bin/env bash\nset -euo pipefail\ncat <<'EOF'\n"+fixture+"\nEOF\n")
	c := Client{Binary: bin}

	res, err := c.Resolve(context.Background(), ResolveOptions{SourceRef: "https://example.org/playlist", OldestFirst: true})
	require.NoError(t, err)
	assert.True(t, res.Collection)
	assert.Equal(t, "PL1", res.SourceID)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "old1", res.Items[0].ID)
	assert.Equal(t, "new1", res.Items[1].ID)
	assert.Equal(t, 120, res.Items[1].DurationSeconds)
	assert.Equal(t, "20240101", res.Items[0].UploadDate)
}

func TestResolve_SingleItem(t *testing.T) {
	fixture := `{"id":"v1","title":"City Hall","webpage_url":"https://example.org/v1","duration":90,"upload_date":"20240212"}`
	bin := writeFakeBinary(t, "#!/usr/bin/env bash\nset -euo pipefail\ncat <<'EOF'\n"+fixture+"\nEOF\n")
	c := Client{Binary: bin}

	res, err := c.Resolve(context.Background(), ResolveOptions{SourceRef: "https://example.org/v1"})
	require.NoError(t, err)
	assert.False(t, res.Collection)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "https://example.org/v1", res.Items[0].SourceURL)
	assert.Equal(t, 90, res.Items[0].DurationSeconds)
}

func TestResolve_ItemURLFallsBackToWatchURL(t *testing.T) {
	fixture := `{"_type":"playlist","id":"PL1","title":"x","entries":[{"id":"abc123","title":"t"}]}`
	bin := writeFakeBinary(t, "#!/usr/bin/env bash\nset -euo pipefail\ncat <<'EOF'\n"+fixture+"\nEOF\n")
	c := Client{Binary: bin}

	res, err := c.Resolve(context.Background(), ResolveOptions{SourceRef: "ref"})
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", res.Items[0].SourceURL)
}

func TestResolve_FailureIsResolutionError(t *testing.T) {
	bin := writeFakeBinary(t, "#!/usr/bin/env bash\necho 'ERROR: not found' >&2\nexit 1\n")
	c := Client{Binary: bin}

	_, err := c.Resolve(context.Background(), ResolveOptions{SourceRef: "ref"})
	require.ErrorIs(t, err, ErrResolution)
	assert.Contains(t, err.Error(), "not found")

	_, err = c.Resolve(context.Background(), ResolveOptions{})
	assert.ErrorIs(t, err, ErrResolution)
}

func TestOpenStream_DeliversBytesAndWaitSucceeds(t *testing.T) {
	bin := writeFakeBinary(t, "#!/usr/bin/env bash\nset -euo pipefail\nprintf 'MEDIA-BYTES'\n")
	c := Client{Binary: bin}

	st, err := c.OpenStream(context.Background(), "https://example.org/v1")
	require.NoError(t, err)
	data, err := io.ReadAll(st.Reader)
	require.NoError(t, err)
	assert.Equal(t, "MEDIA-BYTES", string(data))
	assert.NoError(t, st.Wait())
}

func TestOpenStream_WaitSurfacesFailure(t *testing.T) {
	bin := writeFakeBinary(t, "#!/usr/bin/env bash\necho 'HTTP Error 403' >&2\nexit 1\n")
	c := Client{Binary: bin}

	st, err := c.OpenStream(context.Background(), "https://example.org/v1")
	require.NoError(t, err)
	_, _ = io.ReadAll(st.Reader)
	err = st.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchToFile_RemovesPartialOnFailure(t *testing.T) {
	script := `#!/usr/bin/env bash
dest=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then dest="$a"; fi
  prev="$a"
done
printf 'partial' > "$dest"
echo 'network reset' >&2
exit 1
`
	bin := writeFakeBinary(t, script)
	c := Client{Binary: bin}
	dest := filepath.Join(t.TempDir(), "staging.bin")

	err := c.FetchToFile(context.Background(), "https://example.org/v1", dest)
	require.Error(t, err)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "partial staging artifact should be removed")
}

func TestProbeDuration(t *testing.T) {
	bin := writeFakeBinary(t, "#!/usr/bin/env bash\necho '3600.0'\n")
	c := Client{Binary: bin}

	seconds, err := c.ProbeDuration(context.Background(), "https://example.org/v1")
	require.NoError(t, err)
	assert.Equal(t, 3600, seconds)
}

func TestProbeDuration_NonNumericIsUnknown(t *testing.T) {
	bin := writeFakeBinary(t, "#!/usr/bin/env bash\necho 'NA'\n")
	c := Client{Binary: bin}

	seconds, err := c.ProbeDuration(context.Background(), "https://example.org/v1")
	require.NoError(t, err)
	assert.Equal(t, 0, seconds)
}

func TestFormatSelector_CapsResolution(t *testing.T) {
	assert.Equal(t, "bv*[height<=1080]+ba/b[height<=1080]", formatSelector())
}
