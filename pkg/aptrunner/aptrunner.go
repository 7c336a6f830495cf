package aptrunner

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/go-logr/logr"
)

// Runner shells out to apt-get on the host. It assumes the caller has
// sufficient privileges; a failed command is surfaced, never retried.
type Runner struct {
	// WorkDir is where apt-get source unpacks the fetched package.
	WorkDir string
}

func New(workDir string) *Runner {
	return &Runner{WorkDir: workDir}
}

// Update refreshes the package metadata. Run this after the source lists
// have been rewritten.
func (r *Runner) Update(ctx context.Context) error {
	return r.run(ctx, "", "update")
}

// BuildDep installs the build dependencies of the given package.
func (r *Runner) BuildDep(ctx context.Context, pkg string) error {
	return r.run(ctx, "", "build-dep", "-y", pkg)
}

// Source fetches and extracts the source package into the work directory.
func (r *Runner) Source(ctx context.Context, pkg string) error {
	return r.run(ctx, r.WorkDir, "source", pkg)
}

func (r *Runner) run(ctx context.Context, dir string, args ...string) error {
	log := logr.FromContextOrDiscard(ctx)
	log.Info("running apt-get", "args", args, "dir", dir)

	cmd := exec.CommandContext(ctx, "apt-get", args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	if err := cmd.Run(); err != nil {
		log.Error(err, "apt-get failed", "args", args)
		return fmt.Errorf("apt-get %s: %w", args[0], err)
	}
	return nil
}
