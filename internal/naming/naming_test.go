package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveName_NumericPadded(t *testing.T) {
	s := Scheme{Kind: SchemeNumeric, Prefix: "JNU-", StartNumber: 101, PadDigits: 4}

	name, err := DeriveName(s, 0)
	require.NoError(t, err)
	assert.Equal(t, "JNU-0101", name)

	name, err = DeriveName(s, 9)
	require.NoError(t, err)
	assert.Equal(t, "JNU-0110", name)
}

func TestDeriveName_NumericUnpadded(t *testing.T) {
	s := Scheme{Kind: SchemeNumeric, Prefix: "gavel", StartNumber: 7, PadDigits: 0}

	name, err := DeriveName(s, 3)
	require.NoError(t, err)
	assert.Equal(t, "gavel10", name)
}

func TestDeriveName_OmitNumber(t *testing.T) {
	s := Scheme{Kind: SchemeNumeric, Prefix: "CityHall_20240212", OmitNumber: true}

	name, err := DeriveName(s, 0)
	require.NoError(t, err)
	assert.Equal(t, "CityHall_20240212", name)
}

func TestDeriveName_Deterministic(t *testing.T) {
	s := Scheme{Kind: SchemeDateCode, Code: "GVL", Year: 24, StartEpisode: 1}

	first, err := DeriveName(s, 5)
	require.NoError(t, err)
	second, err := DeriveName(s, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeriveName_DateCode(t *testing.T) {
	s := Scheme{Kind: SchemeDateCode, Code: "GVL", Year: 6, StartEpisode: 8}

	name, err := DeriveName(s, 1)
	require.NoError(t, err)
	assert.Equal(t, "GVL0609", name)
}

func TestDeriveName_PadOverflow(t *testing.T) {
	s := Scheme{Kind: SchemeNumeric, Prefix: "EP", StartNumber: 99, PadDigits: 2}

	_, err := DeriveName(s, 0)
	require.NoError(t, err)

	_, err = DeriveName(s, 1)
	require.ErrorIs(t, err, ErrInvalidScheme)
}

func TestDeriveName_DateCodeEpisodeOverflow(t *testing.T) {
	s := Scheme{Kind: SchemeDateCode, Code: "GVL", Year: 24, StartEpisode: 99}

	_, err := DeriveName(s, 1)
	require.ErrorIs(t, err, ErrInvalidScheme)
}

func TestDeriveName_RejectsBadSchemes(t *testing.T) {
	cases := []struct {
		name   string
		scheme Scheme
		ord    int
	}{
		{"unknown kind", Scheme{Kind: "weekly"}, 0},
		{"negative ordinal", Scheme{Kind: SchemeNumeric, Prefix: "EP", PadDigits: 2}, -1},
		{"negative pad", Scheme{Kind: SchemeNumeric, Prefix: "EP", PadDigits: -3}, 0},
		{"empty prefix", Scheme{Kind: SchemeNumeric, PadDigits: 2}, 0},
		{"unsafe prefix", Scheme{Kind: SchemeNumeric, Prefix: "ep 01/", PadDigits: 2}, 0},
		{"three digit year", Scheme{Kind: SchemeDateCode, Code: "GVL", Year: 224}, 0},
		{"empty code", Scheme{Kind: SchemeDateCode, Year: 24}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DeriveName(tc.scheme, tc.ord)
			assert.ErrorIs(t, err, ErrInvalidScheme)
		})
	}
}
