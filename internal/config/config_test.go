package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvFileAndDefaults(t *testing.T) {
	tmp := t.TempDir()
	envPath := filepath.Join(tmp, "creds.env")
	content := "UPLOAD_HOST=ingest.example.org\nUPLOAD_USER=master-control\nUPLOAD_PASS=hunter2\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))
	for _, k := range []string{"UPLOAD_HOST", "UPLOAD_USER", "UPLOAD_PASS", "BYD_LEDGER_DIR", "BYD_ITEM_PAUSE_SECONDS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	s, err := Load(envPath)
	require.NoError(t, err)
	assert.Equal(t, "ingest.example.org", s.Upload.Host)
	assert.Equal(t, "master-control", s.Upload.Username)
	assert.True(t, s.Upload.Complete())
	assert.Equal(t, "runs", s.LedgerDir)
	assert.Equal(t, 5, s.PauseSeconds)
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("BYD_LEDGER_DIR", "/tmp/ledgers")
	t.Setenv("BYD_ITEM_PAUSE_SECONDS", "0")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ledgers", s.LedgerDir)
	assert.Equal(t, 0, s.PauseSeconds)
}

func TestCredentialsComplete(t *testing.T) {
	assert.False(t, Credentials{}.Complete())
	assert.False(t, Credentials{Host: "h"}.Complete())
	assert.True(t, Credentials{Host: "h", Username: "u"}.Complete())
}
