package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/kburki/broadcast-youtube-downloader/internal/config"
)

// RemoteSink streams artifacts to the ingest endpoint through curl, so the
// upload runs without staging bytes locally.
type RemoteSink struct {
	// Binary overrides the curl executable name, for tests.
	Binary string

	Endpoint string
	Path     string
	Creds    config.Credentials
	Ext      string
}

func (s *RemoteSink) binary() string {
	if strings.TrimSpace(s.Binary) != "" {
		return s.Binary
	}
	return "curl"
}

func (s *RemoteSink) Destination(name string) string {
	url := strings.TrimRight(s.Endpoint, "/")
	if p := strings.Trim(s.Path, "/"); p != "" {
		url += "/" + p
	}
	return url + "/" + name + s.Ext
}

// Exists probes the destination with a HEAD-style request. A refused or
// missing artifact both read as "absent"; collision detection on the remote
// side is best effort.
func (s *RemoteSink) Exists(ctx context.Context, name string) (bool, error) {
	cmd := exec.CommandContext(ctx, s.binary(),
		"--silent", "--head", "--fail",
		"--user", s.userArg(),
		s.Destination(name),
	)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *RemoteSink) Deliver(ctx context.Context, r io.Reader, name string) error {
	dest := s.Destination(name)
	cmd := exec.CommandContext(ctx, s.binary(),
		"--silent", "--show-error", "--fail",
		"--upload-file", "-",
		"--user", s.userArg(),
		dest,
	)
	cmd.Stdin = r
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("upload to %s (destination may hold an incomplete artifact): %s: %s",
			dest, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (s *RemoteSink) userArg() string {
	return s.Creds.Username + ":" + s.Creds.Password
}

func (s *RemoteSink) String() string { return "upload " + s.Endpoint }
