package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

// fakeBinDir writes executable stand-ins for the external binaries and
// returns the directory to prepend to PATH.
func fakeBinDir(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range scripts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const fakeYTDLP = `#!/usr/bin/env bash
set -euo pipefail
if printf '%s ' "$@" | grep -q -- '--flat-playlist'; then
  cat "$YTDLP_FIXTURE"
  exit 0
fi
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
if [ "$out" = "-" ]; then
  printf 'source-bytes'
elif [ -n "$out" ]; then
  printf 'source-bytes' > "$out"
else
  echo "unexpected invocation: $*" >&2
  exit 1
fi
`

const fakeFFmpegPassthrough = `#!/usr/bin/env bash
exec cat
`

const fakeFFmpegBroken = `#!/usr/bin/env bash
echo "encode failed" >&2
exit 1
`

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func writeFixture(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("YTDLP_FIXTURE", path)
}
