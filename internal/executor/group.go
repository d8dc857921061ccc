package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spachava753/check-load-module/internal/environment"
	"github.com/spachava753/check-load-module/internal/models"
	"github.com/spachava753/check-load-module/internal/script"
)

// DefaultGroupExecutor loads one group of files in a fresh interpreter.
type DefaultGroupExecutor struct {
	// WorkDir is where the interpreter runs and filenames are resolved.
	WorkDir string
	// TempDir holds the generated loader scripts, os.TempDir when empty.
	TempDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewGroupExecutor creates a new group executor.
func NewGroupExecutor(workDir string, stdout, stderr io.Writer) *DefaultGroupExecutor {
	return &DefaultGroupExecutor{
		WorkDir: workDir,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// Execute checks every file of group and returns the interpreter's exit code
// in the result. An error means the group could not be checked at all.
func (e *DefaultGroupExecutor) Execute(ctx context.Context, group models.Group, provider environment.Provider) (*models.GroupResult, error) {
	rule := group.Rule
	result := &models.GroupResult{
		Group:     group,
		StartedAt: time.Now(),
	}
	defer func() {
		result.EndedAt = time.Now()
		result.DurationSec = result.EndedAt.Sub(result.StartedAt).Seconds()
	}()

	gen, err := script.Lookup(rule.Language)
	if err != nil {
		return nil, err
	}

	scriptPath, err := e.writeScript(gen)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(scriptPath); err != nil {
			slog.Warn("removing loader script", "path", scriptPath, "error", err)
		}
	}()

	env, err := provider.CreateEnvironment(ctx, environment.CreateEnvironmentOptions{
		Image:   rule.Image,
		WorkDir: e.WorkDir,
		Mounts:  []string{filepath.Dir(scriptPath)},
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s environment: %w", provider.Name(), err)
	}
	defer func() {
		if err := env.Destroy(context.Background()); err != nil {
			slog.Warn("destroying environment", "environment_id", env.ID(), "error", err)
		}
	}()

	interpreter := env.ResolveInterpreter(ctx, rule.InterpreterCandidates())
	if interpreter == "" {
		return nil, fmt.Errorf("%w: no interpreter configured for prefix %s", models.ErrSpawn, rule.DisplayPrefix())
	}
	result.Interpreter = interpreter

	argv, err := gen.Command(interpreter, scriptPath, group.Filenames)
	if err != nil {
		return nil, err
	}

	opts := environment.ExecOptions{WorkDir: e.WorkDir}
	if rule.SearchPath != "" || !rule.InheritSearchPath {
		opts.Env = map[string]string{gen.SearchPathEnv: rule.SearchPath}
	}

	slog.Debug("running loader script",
		"interpreter", interpreter,
		"script", scriptPath,
		"environment_id", env.ID(),
		"search_path", rule.SearchPath,
	)
	code, err := env.Exec(ctx, argv, e.Stdout, e.Stderr, opts)
	if err != nil {
		return nil, err
	}

	result.Ran = true
	result.ExitCode = code
	return result, nil
}

// writeScript renders the loader program into a new temporary file and
// returns its absolute path.
func (e *DefaultGroupExecutor) writeScript(gen *script.Generator) (string, error) {
	f, err := os.CreateTemp(e.TempDir, "check_load_module-*"+gen.Ext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrScriptWrite, err)
	}

	path, err := filepath.Abs(f.Name())
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: %w", models.ErrScriptWrite, err)
	}

	if err := gen.Render(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: rendering %s: %w", models.ErrScriptWrite, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: %w", models.ErrScriptWrite, err)
	}
	return path, nil
}
