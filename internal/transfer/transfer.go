// Package transfer implements the delivery capability: a local-directory
// sink for editing copies and a curl-backed remote upload sink for the
// broadcast ingest server. The output target variant fixes the encoding
// profile and filename extension.
package transfer

import (
	"fmt"
	"strings"

	"github.com/kburki/broadcast-youtube-downloader/internal/config"
	"github.com/kburki/broadcast-youtube-downloader/internal/profile"
)

const (
	KindLocal  = "local"
	KindRemote = "remote"
)

// Target describes where artifacts go. Remote targets carry their
// credentials explicitly; nothing in the pipeline reads the environment.
type Target struct {
	Kind string

	// Local directory delivery.
	Dir string

	// Remote upload delivery.
	Endpoint string
	Path     string
	Creds    config.Credentials
}

// Profile returns the encoding profile fixed by this target variant: the
// ingest server takes air-chain masters, local directories take editing
// copies.
func (t Target) Profile() profile.Profile {
	if t.Kind == KindRemote {
		return profile.Broadcast()
	}
	return profile.Editing()
}

// NewSink validates the target and returns its delivery sink.
func NewSink(t Target) (Sink, error) {
	switch t.Kind {
	case KindLocal:
		if strings.TrimSpace(t.Dir) == "" {
			return nil, fmt.Errorf("local target requires an output directory")
		}
		return &LocalSink{Dir: t.Dir, Ext: t.Profile().Extension}, nil
	case KindRemote:
		if strings.TrimSpace(t.Endpoint) == "" {
			return nil, fmt.Errorf("remote target requires an endpoint")
		}
		if !t.Creds.Complete() {
			return nil, fmt.Errorf("remote target requires upload credentials")
		}
		return &RemoteSink{
			Endpoint: t.Endpoint,
			Path:     t.Path,
			Creds:    t.Creds,
			Ext:      t.Profile().Extension,
		}, nil
	default:
		return nil, fmt.Errorf("unknown target kind %q", t.Kind)
	}
}
