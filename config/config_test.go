package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"AppPort": "9000", "JWTSecret": "s3cret", "AdminUsernames": ["root"]},
		"redis": {"Enabled": true, "RedisPort": 6380},
		"media": {"Backend": "s3", "S3Bucket": "nexus-media", "MaxSizeMB": 10}
	}`), 0o644))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))
	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.Equal(t, []string{"root"}, c.AdminUsernames)
	assert.True(t, c.RedisEnabled)
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, "s3", c.MediaBackend)
	assert.Equal(t, "nexus-media", c.S3Bucket)
	assert.Equal(t, 10, c.MediaMaxSizeMB)
}

func TestLoadJSONConfig_MissingFile(t *testing.T) {
	var c AppConfig
	assert.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "nope.json"), &c))
}

func TestDefaultsThenEnv(t *testing.T) {
	t.Setenv("MEDIA_BACKEND", "s3")
	t.Setenv("MEDIA_MAX_SIZE_MB", "5")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("ADMIN_USERNAMES", " alice , bob ,")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "s3", c.MediaBackend)
	assert.Equal(t, 5, c.MediaMaxSizeMB)
	assert.True(t, c.RedisEnabled)
	assert.Equal(t, []string{"alice", "bob"}, c.AdminUsernames)
	assert.Equal(t, "/static/uploads", c.MediaPublicPrefix)
}
