package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoctorAllPresent(t *testing.T) {
	bin := fakeBinDir(t, map[string]string{
		"yt-dlp": "#!/usr/bin/env bash\n",
		"ffmpeg": "#!/usr/bin/env bash\n",
		"curl":   "#!/usr/bin/env bash\n",
	})
	t.Setenv("PATH", bin)

	var err error
	output := captureStdout(t, func() {
		err = Run([]string{"doctor", "--remote"})
	})
	require.NoError(t, err)
	require.Contains(t, output, "yt-dlp: ok")
	require.Contains(t, output, "all checks passed")
}

func TestDoctorMissingEncoderIsSetupFailure(t *testing.T) {
	bin := fakeBinDir(t, map[string]string{"yt-dlp": "#!/usr/bin/env bash\n"})
	t.Setenv("PATH", bin)

	var err error
	captureStdout(t, func() {
		err = Run([]string{"doctor"})
	})
	require.Error(t, err)
	require.Equal(t, 2, ExitCode(err))
	require.Contains(t, err.Error(), "ffmpeg")
}

func TestDoctorCurlOnlyRequiredForRemote(t *testing.T) {
	bin := fakeBinDir(t, map[string]string{
		"yt-dlp": "#!/usr/bin/env bash\n",
		"ffmpeg": "#!/usr/bin/env bash\n",
	})
	t.Setenv("PATH", bin)

	var err error
	captureStdout(t, func() {
		err = Run([]string{"doctor"})
	})
	require.NoError(t, err)

	captureStdout(t, func() {
		err = Run([]string{"doctor", "--remote"})
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "curl")
}
