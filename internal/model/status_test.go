package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition_AllowsExpectedPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{"", StatusPending},
		{StatusPending, StatusAttempting},
		{StatusPending, StatusSkipped},
		{StatusAttempting, StatusSucceeded},
		{StatusAttempting, StatusFailed},
	}

	for _, tc := range cases {
		assert.True(t, CanTransition(tc.from, tc.to), "expected %q -> %q to be allowed", tc.from, tc.to)
	}
}

func TestCanTransition_RejectsInvalidPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{StatusPending, StatusSucceeded},
		{StatusPending, StatusFailed},
		{StatusSkipped, StatusAttempting},
		{StatusSucceeded, StatusAttempting},
		{StatusFailed, StatusAttempting},
		{StatusFailed, StatusPending},
		{"not_a_state", StatusPending},
	}

	for _, tc := range cases {
		assert.False(t, CanTransition(tc.from, tc.to), "expected %q -> %q to be rejected", tc.from, tc.to)
	}
}

func TestTransitionRecord_BlocksIllegalTransition(t *testing.T) {
	rec := ItemRecord{
		Item:   Item{ID: "vid-1"},
		Status: StatusPending,
	}

	err := TransitionRecord(&rec, StatusSucceeded, "")
	require.Error(t, err)
	assert.Equal(t, StatusPending, rec.Status)
}

func TestTransitionRecord_KeepsDetailWhenEmpty(t *testing.T) {
	rec := ItemRecord{
		Item:   Item{ID: "vid-1"},
		Status: StatusAttempting,
		Detail: "tier1 fetch failed",
	}

	require.NoError(t, TransitionRecord(&rec, StatusFailed, ""))
	assert.Equal(t, "tier1 fetch failed", rec.Detail)
}
