// Package trim converts user-supplied start/end markers plus an item's known
// duration into the concrete (start offset, clip duration) pair handed to the
// transcode step.
package trim

import (
	"errors"
	"fmt"
)

const (
	KindNone         = "none"
	KindStartOnly    = "start"
	KindStartAndOut  = "start_out"
	KindStartAndTail = "start_tail"
)

// Spec is one run's trim request, applied uniformly to every item. All
// durations are whole non-negative seconds.
type Spec struct {
	Kind            string `json:"kind"`
	StartSeconds    int    `json:"start_seconds,omitempty"`
	OutPointSeconds int    `json:"out_point_seconds,omitempty"`
	TailSeconds     int    `json:"tail_seconds,omitempty"`
}

// Resolved is ready for the transcode capability. HasClip false means "to end
// of source".
type Resolved struct {
	StartSeconds int
	ClipSeconds  int
	HasClip      bool
}

var ErrInvalidSpec = errors.New("invalid trim spec")

// Validate rejects specs a RunRequest must never carry. Range problems that
// depend on a particular item's duration are not validated here; Resolve
// recovers from those per item.
func Validate(s Spec) error {
	switch s.Kind {
	case KindNone, KindStartOnly, KindStartAndOut, KindStartAndTail:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, s.Kind)
	}
	if s.StartSeconds < 0 {
		return fmt.Errorf("%w: start offset %ds is negative", ErrInvalidSpec, s.StartSeconds)
	}
	if s.OutPointSeconds < 0 {
		return fmt.Errorf("%w: out point %ds is negative", ErrInvalidSpec, s.OutPointSeconds)
	}
	if s.TailSeconds < 0 {
		return fmt.Errorf("%w: tail trim %ds is negative", ErrInvalidSpec, s.TailSeconds)
	}
	return nil
}

// Resolve computes the concrete trim for one item. knownDurationSeconds <= 0
// means the duration is unknown.
//
// Resolve never fails: an inverted range or a missing duration degrades to
// "from start offset to end of source" and the condition is reported through
// the returned warning so the caller can log it.
func Resolve(s Spec, knownDurationSeconds int) (Resolved, string) {
	switch s.Kind {
	case KindStartOnly:
		return Resolved{StartSeconds: s.StartSeconds}, ""
	case KindStartAndOut:
		if s.OutPointSeconds <= s.StartSeconds {
			return Resolved{StartSeconds: s.StartSeconds},
				fmt.Sprintf("out point %ds is not after start %ds; keeping full remainder", s.OutPointSeconds, s.StartSeconds)
		}
		return Resolved{
			StartSeconds: s.StartSeconds,
			ClipSeconds:  s.OutPointSeconds - s.StartSeconds,
			HasClip:      true,
		}, ""
	case KindStartAndTail:
		if knownDurationSeconds <= 0 {
			return Resolved{StartSeconds: s.StartSeconds},
				fmt.Sprintf("source duration unknown; cannot drop last %ds, keeping full remainder", s.TailSeconds)
		}
		end := knownDurationSeconds - s.TailSeconds
		if end <= s.StartSeconds {
			return Resolved{StartSeconds: s.StartSeconds},
				fmt.Sprintf("tail trim %ds exceeds %ds source; keeping full remainder", s.TailSeconds, knownDurationSeconds)
		}
		return Resolved{
			StartSeconds: s.StartSeconds,
			ClipSeconds:  end - s.StartSeconds,
			HasClip:      true,
		}, ""
	default:
		return Resolved{}, ""
	}
}
