package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "hbdemo.yaml", `
endpoints:
  - jikehadoop01:9090
  - jikehadoop02:9090
transport: framed
protocol: compact
timeout: 3s
headers:
  X-Access-Key: ak
log_level: debug
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"jikehadoop01:9090", "jikehadoop02:9090"}, cfg.Endpoints)
	assert.Equal(t, "framed", cfg.Transport)
	assert.Equal(t, "compact", cfg.Protocol)
	assert.Equal(t, 3*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, "debug", cfg.LogLevel)

	opts := cfg.ClientOptions()
	require.Len(t, opts.Headers, 1)
	assert.Equal(t, "X-Access-Key", opts.Headers[0].Key)
	assert.Equal(t, 3*time.Second, opts.Timeout)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "hbdemo.toml", `
endpoints = ["http://jikehadoop01:9090"]
timeout = "5s"
metrics_file = "/tmp/hbdemo.prom"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"http://jikehadoop01:9090"}, cfg.Endpoints)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, "binary", cfg.Protocol)
	assert.Equal(t, 5*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, "/tmp/hbdemo.prom", cfg.MetricsFile)
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "hbdemo.yaml", "endpoints: [a:9090]\n")
	t.Setenv("HBDEMO_ENDPOINTS", "b:9090, c:9090,,")
	t.Setenv("HBDEMO_TIMEOUT", "250ms")
	t.Setenv("HBDEMO_HEADERS", "Authorization=Basic x; X-Tenant = t1")
	t.Setenv("HBDEMO_LOG_FILE", "/var/log/hbdemo.log")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b:9090", "c:9090"}, cfg.Endpoints)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout.Duration)
	assert.Equal(t, map[string]string{"Authorization": "Basic x", "X-Tenant": "t1"}, cfg.Headers)
	assert.Equal(t, "/var/log/hbdemo.log", cfg.LogFile)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "hbdemo.ini", "endpoints=a"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "bad.yaml", "timeout: soon\n"))
	assert.Error(t, err)

	t.Setenv("HBDEMO_TIMEOUT", "later")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.Endpoints = []string{"a:9090"}
	assert.NoError(t, cfg.Validate())

	cfg.Transport = "udp"
	assert.Error(t, cfg.Validate())
	cfg.Transport = "buffered"

	cfg.Protocol = "json"
	assert.Error(t, cfg.Validate())
	cfg.Protocol = "binary"

	cfg.Timeout.Duration = 0
	assert.Error(t, cfg.Validate())
}

func TestParseHeaders(t *testing.T) {
	_, err := ParseHeaders("novalue")
	assert.Error(t, err)
	h, err := ParseHeaders("a=1=2")
	require.NoError(t, err)
	assert.Equal(t, "1=2", h["a"])
}
