// Package docker runs interpreters inside a throwaway Docker container.
package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spachava753/check-load-module/internal/environment"
	"github.com/spachava753/check-load-module/internal/models"
)

// maxParallelPulls bounds concurrent image pulls in Prepare.
const maxParallelPulls = 4

// Provider implements the Docker environment provider.
type Provider struct {
	// Binary is the container CLI, "docker" unless overridden.
	Binary string
}

// NewProvider creates a new Docker provider.
func NewProvider() *Provider {
	return &Provider{Binary: "docker"}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return string(models.EnvironmentDocker)
}

func (p *Provider) command(ctx context.Context, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, p.Binary, args...)
}

// Prepare pulls every distinct image that is not present locally.
func (p *Provider) Prepare(ctx context.Context, opts []environment.CreateEnvironmentOptions) error {
	images := distinctImages(opts)
	if len(images) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPulls)
	for _, image := range images {
		image := image
		g.Go(func() error {
			if p.hasImage(ctx, image) {
				slog.Debug("container image present", "image", image)
				return nil
			}
			return p.PullImage(ctx, image)
		})
	}
	return g.Wait()
}

func distinctImages(opts []environment.CreateEnvironmentOptions) []string {
	seen := make(map[string]struct{})
	var images []string
	for _, o := range opts {
		if o.Image == "" {
			continue
		}
		if _, ok := seen[o.Image]; ok {
			continue
		}
		seen[o.Image] = struct{}{}
		images = append(images, o.Image)
	}
	return images
}

func (p *Provider) hasImage(ctx context.Context, image string) bool {
	return p.command(ctx, "image", "inspect", image).Run() == nil
}

// PullImage pulls a pre-built image from a registry.
func (p *Provider) PullImage(ctx context.Context, imageRef string) error {
	slog.Info("pulling container image", "image", imageRef)

	cmd := p.command(ctx, "pull", "--quiet", imageRef)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: pulling docker image %s: %w: %s", models.ErrEnvironment, imageRef, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// CreateEnvironment starts a container that idles until Destroy. The work
// dir and every mount are bind mounted at the same path so relative
// filenames and the loader script resolve unchanged.
func (p *Provider) CreateEnvironment(ctx context.Context, opts environment.CreateEnvironmentOptions) (environment.Environment, error) {
	if opts.Image == "" {
		return nil, fmt.Errorf("%w: docker environment requires an image", models.ErrUnsupported)
	}

	containerID := fmt.Sprintf("check-load-module-%d", time.Now().UnixNano())
	args := createArgs(containerID, opts)

	cmd := p.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("creating docker container", "container_id", containerID, "image", opts.Image)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: creating docker container: %w: %s", models.ErrEnvironment, err, strings.TrimSpace(stderr.String()))
	}

	return &DockerEnvironment{
		provider:    p,
		containerID: containerID,
		workDir:     opts.WorkDir,
	}, nil
}

func createArgs(containerID string, opts environment.CreateEnvironmentOptions) []string {
	args := []string{
		"run",
		"-d",
		"--name", containerID,
	}

	mounted := make(map[string]struct{})
	for _, dir := range append([]string{opts.WorkDir}, opts.Mounts...) {
		if dir == "" {
			continue
		}
		if _, ok := mounted[dir]; ok {
			continue
		}
		mounted[dir] = struct{}{}
		args = append(args, "-v", fmt.Sprintf("%s:%s", dir, dir))
	}
	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}

	args = append(args, opts.Image)
	// Keep container running with sleep infinity
	args = append(args, "sleep", "infinity")
	return args
}

// DockerEnvironment represents a running Docker container.
type DockerEnvironment struct {
	provider    *Provider
	containerID string
	workDir     string
}

// ID returns the container ID.
func (e *DockerEnvironment) ID() string {
	return e.containerID
}

// ResolveInterpreter probes candidates with `command -v` inside the
// container.
func (e *DockerEnvironment) ResolveInterpreter(ctx context.Context, candidates []string) string {
	for _, c := range candidates {
		cmd := e.provider.command(ctx, "exec", e.containerID, "sh", "-c", `command -v "$1"`, "sh", c)
		if cmd.Run() == nil {
			return c
		}
	}
	return strings.Join(candidates, ", ")
}

// Exec executes argv in the container.
func (e *DockerEnvironment) Exec(ctx context.Context, argv []string, stdout, stderr io.Writer, opts environment.ExecOptions) (int, error) {
	if len(argv) == 0 || argv[0] == "" {
		return -1, fmt.Errorf("%w: empty command", models.ErrSpawn)
	}

	args := execArgs(e.containerID, e.workDir, argv, opts)

	execCmd := e.provider.command(ctx, args...)
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr

	err := execCmd.Run()
	if err == nil {
		return 0, nil
	}

	if ctx.Err() != nil {
		return -1, fmt.Errorf("command interrupted: %w", ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		// docker exec reports 126/127 when the interpreter cannot be run.
		if code == 126 || code == 127 {
			return -1, fmt.Errorf("%w: %s in container %s: exit status %d", models.ErrSpawn, argv[0], e.containerID, code)
		}
		if code < 0 {
			code = 1
		}
		return code, nil
	}
	return -1, fmt.Errorf("%w: %s: %w", models.ErrSpawn, e.provider.Binary, err)
}

func execArgs(containerID, workDir string, argv []string, opts environment.ExecOptions) []string {
	args := []string{"exec"}

	// Add environment variables
	for k, v := range opts.Env {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, v))
	}

	// Add working directory
	dir := workDir
	if opts.WorkDir != "" {
		dir = opts.WorkDir
	}
	if dir != "" {
		args = append(args, "-w", dir)
	}

	args = append(args, containerID)
	return append(args, argv...)
}

// Destroy removes the container and cleans up resources.
func (e *DockerEnvironment) Destroy(ctx context.Context) error {
	slog.Debug("destroying docker container", "container_id", e.containerID)

	// Force remove the container
	cmd := e.provider.command(ctx, "rm", "-f", e.containerID)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		// Ignore error if container already removed
		if !strings.Contains(stderr.String(), "No such container") {
			return fmt.Errorf("%w: removing container: %w", models.ErrEnvironment, err)
		}
	}
	return nil
}
