// Package local runs interpreters as child processes of the checker.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spachava753/check-load-module/internal/environment"
	"github.com/spachava753/check-load-module/internal/models"
)

// Provider implements the host process environment provider.
type Provider struct{}

// NewProvider creates a new local provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return string(models.EnvironmentLocal)
}

// Prepare is a no-op; interpreters are looked up when their group runs.
func (p *Provider) Prepare(ctx context.Context, opts []environment.CreateEnvironmentOptions) error {
	return nil
}

// CreateEnvironment returns an environment rooted at opts.WorkDir.
func (p *Provider) CreateEnvironment(ctx context.Context, opts environment.CreateEnvironmentOptions) (environment.Environment, error) {
	return &Environment{
		id:      fmt.Sprintf("local-%d", time.Now().UnixNano()),
		workDir: opts.WorkDir,
	}, nil
}

// Environment spawns processes on the host.
type Environment struct {
	id      string
	workDir string
}

// ID returns the environment identifier.
func (e *Environment) ID() string {
	return e.id
}

// ResolveInterpreter returns the first candidate that is an existing file
// (relative to the work dir) or an executable on PATH.
func (e *Environment) ResolveInterpreter(ctx context.Context, candidates []string) string {
	for _, c := range candidates {
		path := c
		if !filepath.IsAbs(path) && e.workDir != "" {
			path = filepath.Join(e.workDir, path)
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return c
		}
		if filepath.Base(c) == c {
			if _, err := exec.LookPath(c); err == nil {
				return c
			}
		}
	}
	return strings.Join(candidates, ", ")
}

// Exec runs argv as a child process inheriting the host environment.
func (e *Environment) Exec(ctx context.Context, argv []string, stdout, stderr io.Writer, opts environment.ExecOptions) (int, error) {
	if len(argv) == 0 || argv[0] == "" {
		return -1, fmt.Errorf("%w: empty command", models.ErrSpawn)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = e.workDir
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Inherit from host and add opts.Env
	cmd.Env = os.Environ()
	for k, v := range opts.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	slog.Debug("spawning interpreter", "argv", argv, "dir", cmd.Dir)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	if ctx.Err() != nil {
		return -1, fmt.Errorf("command interrupted: %w", ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Terminated by a signal.
			slog.Debug("interpreter terminated", "argv", argv, "state", exitErr.String())
			code = 1
		}
		return code, nil
	}

	return -1, fmt.Errorf("%w: %s: %w", models.ErrSpawn, argv[0], err)
}

// Destroy is a no-op for host processes.
func (e *Environment) Destroy(ctx context.Context) error {
	return nil
}
