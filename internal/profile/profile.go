// Package profile defines the fixed encoding parameter bundles. A profile is
// selected wholly by the output target variant and is not user-mutable:
// remote broadcast delivery always gets the air-chain profile, local delivery
// always gets the editing profile.
package profile

import (
	"fmt"
	"strings"
)

const (
	FormatBroadcast = "broadcast"
	FormatEditing   = "editing"
)

// Profile is a fixed attribute bundle consumed by the transcode capability.
// Both tiers of the pipeline stream through pipes, so the container of every
// profile must be writable to a non-seekable output.
type Profile struct {
	Name string

	VideoCodec  string
	MaxBitrate  string
	PixelFormat string
	Width       int
	Height      int
	Interlaced  bool
	FieldOrder  string
	FrameRate   string

	AudioCodec   string
	AudioBitrate string
	SampleRate   int
	Channels     int

	// Integrated loudness target in LUFS.
	LoudnessTarget float64

	Container string
	Extension string
}

// Broadcast is the air-chain profile: MPEG-2 4:2:2 1080i, MP2 audio, ATSC
// A/85 loudness, in an MPEG transport stream.
func Broadcast() Profile {
	return Profile{
		Name:           FormatBroadcast,
		VideoCodec:     "mpeg2video",
		MaxBitrate:     "50M",
		PixelFormat:    "yuv422p",
		Width:          1920,
		Height:         1080,
		Interlaced:     true,
		FieldOrder:     "tff",
		FrameRate:      "30000/1001",
		AudioCodec:     "mp2",
		AudioBitrate:   "384k",
		SampleRate:     48000,
		Channels:       2,
		LoudnessTarget: -24,
		Container:      "mpegts",
		Extension:      ".ts",
	}
}

// Editing is the cutting-room profile: progressive H.264/AAC in a fragmented
// MP4 so the muxer never needs to seek back to the moov atom.
func Editing() Profile {
	return Profile{
		Name:           FormatEditing,
		VideoCodec:     "libx264",
		MaxBitrate:     "20M",
		PixelFormat:    "yuv420p",
		Width:          1920,
		Height:         1080,
		Interlaced:     false,
		FrameRate:      "30000/1001",
		AudioCodec:     "aac",
		AudioBitrate:   "256k",
		SampleRate:     48000,
		Channels:       2,
		LoudnessTarget: -16,
		Container:      "mp4",
		Extension:      ".mp4",
	}
}

// ForFormat maps an output-format selector to its profile.
func ForFormat(format string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatBroadcast:
		return Broadcast(), nil
	case FormatEditing:
		return Editing(), nil
	default:
		return Profile{}, fmt.Errorf("unknown output format %q (expected %s or %s)", format, FormatBroadcast, FormatEditing)
	}
}
