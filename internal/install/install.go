// Package install materializes the dependencies of a checked-out component by
// running a configured command in its root directory.
package install

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/bianoble/versync/internal/component"
)

// EnvDependencies carries the space separated dependency ids to the command.
const EnvDependencies = "VERSYNC_DEPENDENCIES"

// Request describes one installation.
type Request struct {
	ID           component.ID
	RootDir      string // relative to the project root
	Dependencies []component.ID
	Verbose      bool
}

// CommandInstaller runs Command for every request. An empty Command is a no-op.
type CommandInstaller struct {
	ProjectRoot string
	Command     []string

	// Output receives the command output when a request is verbose.
	Output io.Writer
	Log    *zap.Logger
}

// Install runs the install command for req.
func (c *CommandInstaller) Install(ctx context.Context, req Request) error {
	if len(c.Command) == 0 {
		return nil
	}
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	deps := make([]string, 0, len(req.Dependencies))
	for _, d := range req.Dependencies {
		deps = append(deps, d.String())
	}

	cmd := exec.CommandContext(ctx, c.Command[0], c.Command[1:]...)
	cmd.Dir = filepath.Join(c.ProjectRoot, req.RootDir)
	cmd.Env = append(cmd.Environ(), EnvDependencies+"="+strings.Join(deps, " "))

	var captured strings.Builder
	if req.Verbose && c.Output != nil {
		cmd.Stdout = c.Output
		cmd.Stderr = c.Output
	} else {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	}

	log.Debug("installing dependencies",
		zap.Stringer("component", req.ID),
		zap.Strings("command", c.Command),
		zap.Int("dependencies", len(deps)))

	if err := cmd.Run(); err != nil {
		if out := strings.TrimSpace(captured.String()); out != "" {
			return fmt.Errorf("installing dependencies of %s: %w\n%s", req.ID, err, out)
		}
		return fmt.Errorf("installing dependencies of %s: %w", req.ID, err)
	}
	return nil
}
