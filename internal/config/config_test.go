package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv(configPathEnv, "")

	cfg := Load()
	assert.Equal(t, "https://www.supremecourt.gov", cfg.Source.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Source.Timeout)
	assert.Equal(t, BackendFile, cfg.SeenSet.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
	assert.False(t, cfg.Notifications.Telegram.Enabled())
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "docketwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
source:
  timeout: 5s
seenSet:
  backend: s3
  s3:
    bucket: court-state
scheduler:
  interval: 10m
  timezone: America/New_York
  categories: [orders]
`), 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv(telegramTokenEnv, "token")
	t.Setenv(telegramChatIDEnv, "42")
	t.Setenv(s3RegionEnv, "eu-west-1")

	cfg := Load()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "https://www.supremecourt.gov", cfg.Source.BaseURL)
	assert.Equal(t, BackendS3, cfg.SeenSet.Backend)
	assert.Equal(t, "court-state", cfg.SeenSet.S3.Bucket)
	assert.Equal(t, "docketwatch/seen.jsonl", cfg.SeenSet.S3.Key)
	assert.Equal(t, "eu-west-1", cfg.SeenSet.S3.Region)
	assert.Equal(t, 10*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, []string{"orders"}, cfg.Scheduler.Categories)
	assert.Equal(t, "America/New_York", cfg.Scheduler.Location().String())
	assert.True(t, cfg.Notifications.Telegram.Enabled())
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCKETWATCH_SEEN_PATH=/tmp/dotenv-seen.jsonl\n"), 0o644))
	t.Setenv(configPathEnv, "")
	t.Setenv(seenPathEnv, "")
	require.NoError(t, os.Unsetenv(seenPathEnv))

	cfg := Load()
	assert.Equal(t, "/tmp/dotenv-seen.jsonl", cfg.SeenSet.Path)
}

func TestLoadBadFileFallsBack(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unclosed"), 0o644))
	t.Setenv(configPathEnv, path)

	cfg := Load()
	assert.Equal(t, defaultConfig().Source, cfg.Source)
}
