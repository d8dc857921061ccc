// Package executor drives one invocation: it partitions the filenames and
// checks each group in turn, stopping at the first failure.
package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spachava753/check-load-module/internal/environment"
	"github.com/spachava753/check-load-module/internal/environment/docker"
	"github.com/spachava753/check-load-module/internal/environment/local"
	"github.com/spachava753/check-load-module/internal/grouper"
	"github.com/spachava753/check-load-module/internal/models"
)

// GroupExecutor checks a single group and returns the result.
type GroupExecutor interface {
	Execute(ctx context.Context, group models.Group, provider environment.Provider) (*models.GroupResult, error)
}

// Options configures a Runner.
type Options struct {
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
	// Providers replaces the built-in local and docker providers.
	Providers map[models.EnvironmentType]environment.Provider
	// Executor replaces the default group executor.
	Executor GroupExecutor
}

// Runner coordinates the checks of one invocation.
type Runner struct {
	providers map[models.EnvironmentType]environment.Provider
	executor  GroupExecutor
}

// NewRunner creates a runner. Unset writers default to the process's
// stdout and stderr.
func NewRunner(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	providers := opts.Providers
	if providers == nil {
		providers = map[models.EnvironmentType]environment.Provider{
			models.EnvironmentLocal:  local.NewProvider(),
			models.EnvironmentDocker: docker.NewProvider(),
		}
	}

	executor := opts.Executor
	if executor == nil {
		executor = NewGroupExecutor(opts.WorkDir, opts.Stdout, opts.Stderr)
	}

	return &Runner{
		providers: providers,
		executor:  executor,
	}
}

// Run checks the files of req against cfg. The returned result's ExitCode
// is 0 when every group loaded, otherwise the exit code of the first group
// that failed; later groups are not run. An error means a group could not
// be checked.
func (r *Runner) Run(ctx context.Context, cfg models.CheckConfig, req models.RunRequest) (*models.RunResult, error) {
	result := &models.RunResult{StartedAt: time.Now()}
	defer func() {
		result.EndedAt = time.Now()
		result.TotalDurationSec = result.EndedAt.Sub(result.StartedAt).Seconds()
	}()

	groups, skipped := grouper.Partition(cfg.Rules, req.Filenames)
	result.Skipped = skipped
	for _, f := range skipped {
		slog.Info("file does not match any prefix, ignored", "file", f)
	}

	result.Groups = make([]models.GroupResult, len(groups))
	for i, g := range groups {
		result.Groups[i] = models.GroupResult{Group: g}
	}

	if err := r.prepare(ctx, groups); err != nil {
		return nil, err
	}

	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run interrupted: %w", err)
		}

		provider, err := r.provider(g.Rule.Environment)
		if err != nil {
			return nil, err
		}

		slog.Info("checking files",
			"prefix", g.Rule.DisplayPrefix(),
			"files", len(g.Filenames),
			"environment", provider.Name(),
		)
		gr, err := r.executor.Execute(ctx, g, provider)
		if err != nil {
			return nil, fmt.Errorf("checking prefix %s: %w", g.Rule.DisplayPrefix(), err)
		}
		result.Groups[i] = *gr

		if gr.ExitCode != 0 {
			slog.Warn("load check failed",
				"prefix", g.Rule.DisplayPrefix(),
				"interpreter", gr.Interpreter,
				"exit_code", gr.ExitCode,
			)
			result.ExitCode = gr.ExitCode
			break
		}
		slog.Debug("load check passed", "prefix", g.Rule.DisplayPrefix(), "duration_sec", gr.DurationSec)
	}

	return result, nil
}

// prepare gives each provider the options of all groups that will use it,
// in first-seen order.
func (r *Runner) prepare(ctx context.Context, groups []models.Group) error {
	var order []models.EnvironmentType
	byType := make(map[models.EnvironmentType][]environment.CreateEnvironmentOptions)

	for _, g := range groups {
		t := environmentType(g.Rule.Environment)
		if _, err := r.provider(t); err != nil {
			return err
		}
		if _, ok := byType[t]; !ok {
			order = append(order, t)
		}
		byType[t] = append(byType[t], environment.CreateEnvironmentOptions{Image: g.Rule.Image})
	}

	for _, t := range order {
		if err := r.providers[t].Prepare(ctx, byType[t]); err != nil {
			return fmt.Errorf("preparing %s environment: %w", t, err)
		}
	}
	return nil
}

func (r *Runner) provider(t models.EnvironmentType) (environment.Provider, error) {
	p, ok := r.providers[environmentType(t)]
	if !ok {
		return nil, fmt.Errorf("%w: environment type %q", models.ErrUnsupported, t)
	}
	return p, nil
}

func environmentType(t models.EnvironmentType) models.EnvironmentType {
	if t == "" {
		return models.EnvironmentLocal
	}
	return t
}
