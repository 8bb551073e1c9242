// Package naming derives deterministic output names from a numbering scheme
// and an item's ordinal position within a run.
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	SchemeNumeric  = "numeric"
	SchemeDateCode = "datecode"
)

// ErrInvalidScheme is returned when a scheme cannot produce a valid name.
var ErrInvalidScheme = errors.New("invalid naming scheme")

// Scheme is the numbering scheme for one run. Kind selects which fields are
// read: numeric schemes use Prefix/StartNumber/PadDigits, date-coded schemes
// use Code/Year/StartEpisode.
type Scheme struct {
	Kind string `json:"kind"`

	Prefix      string `json:"prefix,omitempty"`
	StartNumber int    `json:"start_number,omitempty"`
	PadDigits   int    `json:"pad_digits,omitempty"`
	// OmitNumber drops the numeric suffix entirely. Only valid when the
	// caller guarantees a unique prefix per item, e.g. an explicit output
	// name for a single-item invocation.
	OmitNumber bool `json:"omit_number,omitempty"`

	Code         string `json:"code,omitempty"`
	Year         int    `json:"year,omitempty"`
	StartEpisode int    `json:"start_episode,omitempty"`
}

// Derived names double as path segments locally and remotely, so only this
// token alphabet is allowed.
var safeToken = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// DeriveName computes the output name for the item at the given 0-based
// ordinal. Pure: same (scheme, ordinal) always yields the same name.
//
// When PadDigits is zero the number is concatenated unpadded; callers that
// need uniqueness across items sharing a prefix must pick PadDigits > 0 or a
// unique prefix per item.
func DeriveName(s Scheme, ordinal int) (string, error) {
	if ordinal < 0 {
		return "", fmt.Errorf("%w: ordinal %d is negative", ErrInvalidScheme, ordinal)
	}

	switch s.Kind {
	case SchemeNumeric:
		return deriveNumeric(s, ordinal)
	case SchemeDateCode:
		return deriveDateCode(s, ordinal)
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidScheme, s.Kind)
	}
}

func deriveNumeric(s Scheme, ordinal int) (string, error) {
	if strings.TrimSpace(s.Prefix) == "" {
		return "", fmt.Errorf("%w: numeric scheme requires a prefix", ErrInvalidScheme)
	}
	if s.PadDigits < 0 {
		return "", fmt.Errorf("%w: pad digits %d is negative", ErrInvalidScheme, s.PadDigits)
	}
	if s.OmitNumber {
		return checkToken(s.Prefix)
	}
	number := s.StartNumber + ordinal
	if number < 0 {
		return "", fmt.Errorf("%w: derived number %d is negative", ErrInvalidScheme, number)
	}
	suffix, err := zeroPad(number, s.PadDigits)
	if err != nil {
		return "", err
	}
	return checkToken(s.Prefix + suffix)
}

func deriveDateCode(s Scheme, ordinal int) (string, error) {
	if strings.TrimSpace(s.Code) == "" {
		return "", fmt.Errorf("%w: date-coded scheme requires a code", ErrInvalidScheme)
	}
	if s.Year < 0 || s.Year > 99 {
		return "", fmt.Errorf("%w: year %d is not a two-digit year", ErrInvalidScheme, s.Year)
	}
	episode := s.StartEpisode + ordinal
	if episode < 0 {
		return "", fmt.Errorf("%w: derived episode %d is negative", ErrInvalidScheme, episode)
	}
	suffix, err := zeroPad(episode, 2)
	if err != nil {
		return "", err
	}
	return checkToken(fmt.Sprintf("%s%02d%s", s.Code, s.Year, suffix))
}

// zeroPad formats n to exactly width digits. Width zero means no padding.
// A value wider than the requested width is an error rather than a silent
// widening, so a run can never produce names that sort out of order.
func zeroPad(n, width int) (string, error) {
	plain := strconv.Itoa(n)
	if width == 0 {
		return plain, nil
	}
	if len(plain) > width {
		return "", fmt.Errorf("%w: number %d does not fit in %d digit(s)", ErrInvalidScheme, n, width)
	}
	return fmt.Sprintf("%0*d", width, n), nil
}

func checkToken(name string) (string, error) {
	if !safeToken.MatchString(name) {
		return "", fmt.Errorf("%w: derived name %q is not a path-safe token", ErrInvalidScheme, name)
	}
	return name, nil
}
