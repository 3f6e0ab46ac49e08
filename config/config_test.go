package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, 50, c.Limits.MaxUsernameLength)
	assert.Equal(t, 2000, c.Limits.MaxContentBytes)
	assert.Equal(t, int64(10_000_000), c.Limits.MaxAttachmentBytes)
	assert.Equal(t, 100, c.Limits.MaxPageSize)
	assert.Equal(t, 24*time.Hour, c.Encryption.MessageTTL)
	assert.Equal(t, time.Hour, c.Encryption.CleanupInterval)
}

func TestLoadAndParseConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "config"), 0o755))
	yaml := []byte("server:\n  port: \"9000\"\nencryption:\n  messageTTL: 2h\nlimits:\n  maxPageSize: 20\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "test.yaml"), yaml, 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	v, err := LoadConfig("test")
	require.NoError(t, err)
	c, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "9000", c.Server.Port)
	assert.Equal(t, 2*time.Hour, c.Encryption.MessageTTL)
	assert.Equal(t, 20, c.Limits.MaxPageSize)
	assert.Equal(t, 50, c.Limits.DefaultPageSize)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig("does-not-exist")
	require.Error(t, err)
}
