package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/challenai/hbdemo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"HBDEMO_ENDPOINTS", "HBDEMO_TRANSPORT", "HBDEMO_PROTOCOL", "HBDEMO_TIMEOUT",
		"HBDEMO_HEADERS", "HBDEMO_LOG_LEVEL", "HBDEMO_LOG_FILE", "HBDEMO_METRICS_FILE"} {
		t.Setenv(k, "")
	}
}

func TestMemoryBackend(t *testing.T) {
	clearEnv(t)
	var out bytes.Buffer
	metrics := filepath.Join(t.TempDir(), "hbdemo.prom")

	code := execute(context.Background(), []string{"--backend", "memory", "--metrics-file", metrics, "--delete"}, &out)
	require.Equal(t, exitOK, code, out.String())
	assert.Contains(t, out.String(), "namespace huangxiaodi created")
	assert.Contains(t, out.String(), "family info, column student_id, value G20210675010604")
	assert.Contains(t, out.String(), "deleted row huangxiaodi:student/G20210675010604")

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hbdemo_client_operations_total{op="read_row",result="ok"} 1`)
}

func TestUsageErrors(t *testing.T) {
	clearEnv(t)
	var out bytes.Buffer
	assert.Equal(t, exitUsage, execute(context.Background(), []string{"--no-such-flag"}, &out))
	assert.Equal(t, exitUsage, execute(context.Background(), []string{"extra-arg"}, &out))
	assert.Equal(t, exitUsage, execute(context.Background(), []string{}, &out), "no endpoints configured")
	assert.Equal(t, exitUsage, execute(context.Background(), []string{"--backend", "cassandra"}, &out))
	assert.Equal(t, exitUsage, execute(context.Background(), []string{"--backend", "memory", "--log-level", "loud"}, &out))
}

func TestUnreachableCluster(t *testing.T) {
	clearEnv(t)
	var out bytes.Buffer
	code := execute(context.Background(), []string{
		"--endpoints", "127.0.0.1:1",
		"--transport", "framed",
		"--timeout", "500ms",
	}, &out)
	assert.Equal(t, exitConnectivity, code, out.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitConnectivity, exitCode(&hbdemo.ConnectivityError{Err: hbdemo.ErrClosed}))
	assert.Equal(t, exitSchema, exitCode(&hbdemo.SchemaError{Err: hbdemo.ErrFamilyMismatch}))
	assert.Equal(t, exitData, exitCode(&hbdemo.DataOperationError{Err: hbdemo.ErrEmptyRowKey}))
	assert.Equal(t, exitUsage, exitCode(usageError{assert.AnError}))
	assert.Equal(t, exitFailure, exitCode(assert.AnError))
}
