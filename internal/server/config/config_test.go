package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.NotEmpty(t, c.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 12*time.Hour, c.RetentionSweepInterval)
}

func TestParseJson_OverridesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.json")
	body := `{
		"endpoint_addr": ":9999",
		"database_dsn": "postgres://u:p@h:5432/d",
		"redis_addr": "redis:6379",
		"secret_key": "k",
		"access_token_validity_duration": "5m",
		"refresh_token_validity_duration": "48h",
		"retention_sweep_interval": "1h",
		"s3_bucket": "photos"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	oldArgs := os.Args
	os.Args = []string{"server", "-c", path}
	defer func() { os.Args = oldArgs }()

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, ":9999", c.EndpointAddr)
	assert.Equal(t, "redis:6379", c.RedisAddr)
	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 48*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, time.Hour, c.RetentionSweepInterval)
	assert.Equal(t, "photos", c.S3Bucket)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"server", "-a", ":7070", "-t", "30", "-b", "bucket2"}
	defer func() { os.Args = oldArgs }()

	c := &Config{}
	c.LoadDefaults()
	parseFlags(c)

	assert.Equal(t, ":7070", c.EndpointAddr)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "bucket2", c.S3Bucket)
}
