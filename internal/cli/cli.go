// Package cli implements the check-load-module command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spachava753/check-load-module/internal/config"
	"github.com/spachava753/check-load-module/internal/executor"
	"github.com/spachava753/check-load-module/internal/grouper"
	"github.com/spachava753/check-load-module/internal/logging"
	"github.com/spachava753/check-load-module/internal/models"
	"github.com/spachava753/check-load-module/internal/report"
)

// ExitCodeInternal is returned for usage errors and for runs that could not
// check a group at all.
const ExitCodeInternal = 2

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	configPath string
	workDir    string
	logLevel   string
	list       bool
	noSummary  bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "check-load-module [filenames...]",
		Short: "Check that source files load in a clean interpreter",
		Long: `check-load-module groups the given files by the first configured prefix
they start with and loads every file of a group in a fresh interpreter
process. It exits with the code of the first group that fails to load.

Files that match no prefix are ignored. Without a configuration file every
file is loaded with the default Python interpreter.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args, stdout, stderr)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", models.DefaultConfigFile, "configuration file, relative to the work dir")
	cmd.Flags().StringVarP(&opts.workDir, "workdir", "C", "", "directory to run in (default current directory)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.list, "list", false, "print how files are grouped and exit without loading them")
	cmd.Flags().BoolVar(&opts.noSummary, "no-summary", false, "do not print the summary table")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func run(ctx context.Context, opts *options, args []string, stdout, stderr io.Writer) error {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return &ExitError{Code: ExitCodeInternal, Message: err.Error()}
	}
	slog.SetDefault(logging.Bootstrap(stderr, level))

	workDir, err := resolveWorkDir(opts.workDir)
	if err != nil {
		return &ExitError{Code: ExitCodeInternal, Message: err.Error()}
	}
	slog.Info(fmt.Sprintf("running in %s", workDir), "argv", args)

	cfg := config.Load(resolvePath(workDir, opts.configPath))

	if cfg.LogFile != "" {
		logger, closer, err := logging.New(logging.Options{
			Level:   level,
			Stderr:  stderr,
			LogFile: resolvePath(workDir, cfg.LogFile),
		})
		if err != nil {
			slog.Warn("log file unavailable, logging to stderr only", "error", err)
		} else {
			defer closer.Close()
			slog.SetDefault(logger)
		}
	}

	if opts.list {
		groups, skipped := grouper.Partition(cfg.Rules, args)
		report.Groups(stdout, groups, skipped)
		return nil
	}

	runner := executor.NewRunner(executor.Options{
		WorkDir: workDir,
		Stdout:  stdout,
		Stderr:  stderr,
	})

	result, err := runner.Run(ctx, cfg, models.RunRequest{Filenames: args})
	if err != nil {
		slog.Error("check failed", "error", err)
		return &ExitError{Code: ExitCodeInternal, Message: err.Error()}
	}

	if !opts.noSummary {
		report.Summary(stderr, result)
	}

	if result.ExitCode != 0 {
		return &ExitError{Code: result.ExitCode}
	}
	return nil
}

func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving work dir %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("work dir: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("work dir %s is not a directory", abs)
	}
	return abs, nil
}

func resolvePath(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

// Execute runs the command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(stderr, "Error:", exitErr.Message)
		}
		return exitErr.Code
	}

	fmt.Fprintln(stderr, "Error:", err)
	return ExitCodeInternal
}
