// Package shell runs external programs for adapters that delegate to a
// package manager CLI.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Runner)(nil)

// maxStderr caps the stderr tail attached to a failed command's error.
const maxStderr = 4 << 10

// errCommandFailed is returned when a command exits unsuccessfully.
var errCommandFailed = zerr.New("command failed")

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	env map[string]string
}

// NewRunner creates a Runner. env overrides variables of the current process
// environment for every command.
func NewRunner(env map[string]string) *Runner {
	return &Runner{env: env}
}

// Run executes name with args and returns its standard output.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmdEnv := resolveEnvironment(os.Environ(), r.env)

	executable := name
	if !filepath.IsAbs(name) {
		lp, err := lookPath(name, cmdEnv)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "executable not found"), "command", name)
		}
		executable = lp
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // commands are fixed by callers
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Env = cmdEnv

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, errCommandFailed.Error()), "command", name)
		wrapped = zerr.With(wrapped, "exit_code", exitCode)
		if tail := stderrTail(stderr.Bytes()); tail != "" {
			wrapped = zerr.With(wrapped, "stderr", tail)
		}
		return nil, wrapped
	}
	return stdout.Bytes(), nil
}

func stderrTail(b []byte) string {
	if len(b) > maxStderr {
		b = b[len(b)-maxStderr:]
	}
	return strings.TrimSpace(string(b))
}

// resolveEnvironment applies overrides on top of the system environment.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	order := make([]string, 0, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}
	for k, v := range overrides {
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the PATH of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: an empty element means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
