package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockguard/internal/adapters/shell"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell scripts")
	}
}

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700)) //nolint:gosec // test executable
}

func TestRunner_Run(t *testing.T) {
	requireUnix(t)

	bin := t.TempDir()
	writeScript(t, bin, "fake-npm", `echo "$1 $2 $LOCKGUARD_TEST"`)

	r := shell.NewRunner(map[string]string{
		"PATH":           bin + string(os.PathListSeparator) + os.Getenv("PATH"),
		"LOCKGUARD_TEST": "set",
	})
	out, err := r.Run(context.Background(), "fake-npm", "config", "get")
	require.NoError(t, err)
	assert.Equal(t, "config get set\n", string(out))
}

func TestRunner_Failure(t *testing.T) {
	requireUnix(t)

	bin := t.TempDir()
	writeScript(t, bin, "broken", `echo "bad lockfile" >&2; exit 3`)

	r := shell.NewRunner(map[string]string{"PATH": bin})
	_, err := r.Run(context.Background(), "broken")
	require.Error(t, err)
	assert.ErrorContains(t, err, "command failed")
}

func TestRunner_NotFound(t *testing.T) {
	t.Parallel()

	r := shell.NewRunner(map[string]string{"PATH": t.TempDir()})
	_, err := r.Run(context.Background(), "definitely-not-installed")
	assert.ErrorContains(t, err, "executable not found")
}

func TestResolveEnvironment(t *testing.T) {
	t.Parallel()

	got := shell.ResolveEnvironment(
		[]string{"PATH=/usr/bin", "HOME=/home/u", "malformed"},
		map[string]string{"HOME": "/tmp", "NO_COLOR": "1"},
	)
	assert.Equal(t, []string{"PATH=/usr/bin", "HOME=/tmp", "NO_COLOR=1"}, got)
}

func TestLookPath(t *testing.T) {
	requireUnix(t)
	t.Parallel()

	bin := t.TempDir()
	writeScript(t, bin, "tool", "true")
	require.NoError(t, os.WriteFile(filepath.Join(bin, "plain"), nil, 0o600))

	path, err := shell.LookPath("tool", []string{"PATH=/nonexistent" + string(os.PathListSeparator) + bin})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(bin, "tool"), path)

	_, err = shell.LookPath("plain", []string{"PATH=" + bin})
	require.Error(t, err)

	_, err = shell.LookPath("tool", nil)
	require.Error(t, err)
}
