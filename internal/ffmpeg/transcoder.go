// Package ffmpeg wraps the ffmpeg binary as the transcode capability. The
// command line is assembled from structured (trim, profile) parameters only;
// nothing here is caller-provided text.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kburki/broadcast-youtube-downloader/internal/profile"
	"github.com/kburki/broadcast-youtube-downloader/internal/trim"
)

type Transcoder struct {
	// Binary overrides the ffmpeg executable name, for tests.
	Binary string
}

func (t Transcoder) binary() string {
	if strings.TrimSpace(t.Binary) != "" {
		return t.Binary
	}
	return "ffmpeg"
}

// TranscodeStream reads a container from in and writes the encoded result to
// out. Used by the streaming tier; no bytes touch disk.
func (t Transcoder) TranscodeStream(ctx context.Context, in io.Reader, out io.Writer, tr trim.Resolved, p profile.Profile) error {
	return t.run(ctx, "pipe:0", in, out, tr, p)
}

// TranscodeFile reads the staged artifact at inputPath and writes the encoded
// result to out. Used by the staged tier.
func (t Transcoder) TranscodeFile(ctx context.Context, inputPath string, out io.Writer, tr trim.Resolved, p profile.Profile) error {
	return t.run(ctx, inputPath, nil, out, tr, p)
}

func (t Transcoder) run(ctx context.Context, input string, stdin io.Reader, stdout io.Writer, tr trim.Resolved, p profile.Profile) error {
	cmd := exec.CommandContext(ctx, t.binary(), buildArgs(input, tr, p)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("transcode: %s: %s", err, lastLine(stderr.String()))
	}
	return nil
}

func buildArgs(input string, tr trim.Resolved, p profile.Profile) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-nostdin"}

	if tr.StartSeconds > 0 {
		args = append(args, "-ss", strconv.Itoa(tr.StartSeconds))
	}
	args = append(args, "-i", input)
	if tr.HasClip {
		args = append(args, "-t", strconv.Itoa(tr.ClipSeconds))
	}

	args = append(args,
		"-c:v", p.VideoCodec,
		"-b:v", p.MaxBitrate,
		"-maxrate", p.MaxBitrate,
		"-bufsize", p.MaxBitrate,
		"-pix_fmt", p.PixelFormat,
		"-vf", fmt.Sprintf("scale=%d:%d", p.Width, p.Height),
		"-r", p.FrameRate,
	)
	if p.Interlaced {
		args = append(args, "-flags", "+ilme+ildct")
		if p.FieldOrder == "tff" {
			args = append(args, "-top", "1")
		}
	}

	args = append(args,
		"-c:a", p.AudioCodec,
		"-b:a", p.AudioBitrate,
		"-ar", strconv.Itoa(p.SampleRate),
		"-ac", strconv.Itoa(p.Channels),
		"-af", fmt.Sprintf("loudnorm=I=%g:TP=-2:LRA=11", p.LoudnessTarget),
	)

	if p.Container == "mp4" {
		args = append(args, "-movflags", "frag_keyframe+empty_moov")
	}
	return append(args, "-f", p.Container, "pipe:1")
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
