package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../testdata/impala_profile_log_tpcds_compute_stats_extended.expected.pretty.json"

func TestRun(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--codec", "zlib,zstd", "-l", "1,3", fixture}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "codec=zlib")
	assert.Contains(t, out.String(), "codec=zstd")
	assert.Contains(t, out.String(), "count=4")
}

func TestRunAllCodecs(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--codec", "all", "-d", fixture}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "count=6")
	assert.Contains(t, out.String(), "codec=permessage-deflate")
}

func TestRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.toml")
	body := "fixtures = [\"" + fixture + "\"]\ncodecs = [\"gzip\"]\nlevels = [-1, 9]\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-c", path}, &out))
	assert.Contains(t, out.String(), "codec=gzip")
	assert.Contains(t, out.String(), "count=2")

	out.Reset()
	require.NoError(t, run([]string{"-c", path, "--level", "5"}, &out))
	assert.Contains(t, out.String(), "count=1")
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorContains(t, run([]string{"--codec", "brotli", fixture}, &out), "unknown codec")
	assert.ErrorContains(t, run([]string{"-l", "11", fixture}, &out), "invalid compression level")
	assert.ErrorIs(t, run([]string{filepath.Join(t.TempDir(), "missing.json")}, &out), os.ErrNotExist)
	assert.ErrorIs(t, run([]string{"--help"}, &out), pflag.ErrHelp)
}
