package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnfErrorf_WriteToDiagnosticsOutput(t *testing.T) {
	var buf bytes.Buffer
	SetDiagnosticsOutput(&buf)
	t.Cleanup(func() { SetDiagnosticsOutput(os.Stderr) })

	Warnf("could not extract filename from URL %q", "https://example.com/")
	Errorf("failed: %v", "boom")

	assert.Equal(t, "warning: could not extract filename from URL \"https://example.com/\"\nerror: failed: boom\n", buf.String())
}

func TestDiagnosticsLogger_RoutesThroughProcessOutput(t *testing.T) {
	var buf bytes.Buffer
	SetDiagnosticsOutput(&buf)
	t.Cleanup(func() { SetDiagnosticsOutput(os.Stderr) })

	p := Policy{}
	assert.Equal(t, "video.mp4", p.Extract("https://example.com/").Filename)
	assert.Contains(t, buf.String(), "warning: could not extract filename")

	buf.Reset()
	p.Logger = Discard
	p.Extract("https://example.com/")
	assert.Empty(t, buf.String())
}

func TestCleanupLogs_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"debug-20250101-000000.log",
		"debug-20250102-000000.log",
		"debug-20250103-000000.log",
		"unrelated.txt",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}

	ConfigureDebug(dir)
	t.Cleanup(func() { ConfigureDebug("") })
	CleanupLogs(1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	assert.ElementsMatch(t, []string{"debug-20250103-000000.log", "unrelated.txt"}, left)
}

func TestCleanupLogs_NegativeKeepsAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "debug-20250101-000000.log"), nil, 0o644))
	ConfigureDebug(dir)
	t.Cleanup(func() { ConfigureDebug("") })

	CleanupLogs(-1)

	_, err := os.Stat(filepath.Join(dir, "debug-20250101-000000.log"))
	assert.NoError(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "video.mp4", OutputPath("", "video.mp4"))

	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "video.mp4"), OutputPath(dir, "video.mp4"))
	assert.True(t, filepath.IsAbs(OutputPath("rel", "video.mp4")))
}
