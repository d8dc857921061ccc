// Package environment defines where a group's interpreter process runs.
package environment

import (
	"context"
	"io"
)

// Environment is a place that can run one interpreter process at a time.
type Environment interface {
	// ID returns the unique identifier for this environment.
	ID() string

	// ResolveInterpreter picks the first candidate that exists in the
	// environment. When none does, the candidates are returned joined as
	// configured so the spawn fails with a useful message.
	ResolveInterpreter(ctx context.Context, candidates []string) string

	// Exec runs argv and waits for it, streaming stdout and stderr to the
	// provided writers. A non-zero exit is returned as the code, not as an
	// error; an error means the process could not be run at all.
	Exec(ctx context.Context, argv []string, stdout, stderr io.Writer, opts ExecOptions) (int, error)

	// Destroy removes the environment and cleans up all resources.
	Destroy(ctx context.Context) error
}

// ExecOptions configures command execution.
type ExecOptions struct {
	// Env is added on top of the environment's inherited variables.
	Env     map[string]string
	WorkDir string
}

// Provider is a factory for creating environments.
type Provider interface {
	// Name returns the provider name (e.g., "local", "docker").
	Name() string

	// Prepare runs once per invocation before any group is checked, with
	// the options of every group that will use this provider.
	Prepare(ctx context.Context, opts []CreateEnvironmentOptions) error

	// CreateEnvironment creates and starts a new environment.
	CreateEnvironment(ctx context.Context, opts CreateEnvironmentOptions) (Environment, error)
}

// CreateEnvironmentOptions configures environment creation.
type CreateEnvironmentOptions struct {
	// Image is the container image; ignored by the local provider.
	Image string
	// WorkDir is where files are resolved from.
	WorkDir string
	// Mounts lists host directories that must be visible at the same path.
	Mounts []string
}
