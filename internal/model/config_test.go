package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Display.PageSize)
	assert.Equal(t, 5, cfg.Display.BatchSize)
	assert.Equal(t, 90, cfg.Display.TruncateAt)
	assert.Equal(t, DefaultImportanceLevels(), cfg.ImportanceLevels)
	assert.Equal(t, DefaultCategories, cfg.DefaultCategories)
	assert.Empty(t, cfg.Sources)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("NOTIFY_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("NOTIFY_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_SourceDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `display:
  poll_interval_sec: 60
sources:
  - id: li
    type: page
    name: LinkedIn
  - id: mail
    type: email
    enabled: false
    poll_interval_sec: 30
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)

	li := cfg.Sources[0]
	assert.True(t, li.Enabled, "unset enabled defaults to true")
	assert.Equal(t, 60, li.PollIntervalSec)
	assert.NotNil(t, li.Config)

	mail := cfg.Sources[1]
	assert.False(t, mail.Enabled)
	assert.Equal(t, 30, mail.PollIntervalSec)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources: [\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.Database.Path = "/data/notify.db"
	cfg.Sources = append(cfg.Sources, SourceConfig{
		ID:              "mail",
		Type:            SourceTypeEmail,
		Name:            "Inbox",
		BaseURL:         "imap.example.com:993",
		Enabled:         false,
		PollIntervalSec: 45,
		Config:          map[string]string{"username": "me", "mailbox": "INBOX"},
	})

	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/notify.db", got.Database.Path)
	src, ok := got.FindSource("mail")
	require.True(t, ok)
	assert.Equal(t, "imap.example.com:993", src.BaseURL)
	assert.False(t, src.Enabled)
	assert.Equal(t, 45, src.PollIntervalSec)
	assert.Equal(t, "me", src.Config["username"])
	assert.Equal(t, "INBOX", src.Config["mailbox"])

	_, ok = got.FindSource("missing")
	assert.False(t, ok)
}
