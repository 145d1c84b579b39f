package docker

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner executes one engine CLI invocation and captures its output.
// Tests substitute a fake; production uses CLIRunner.
type Runner interface {
	Run(ctx context.Context, args ...string) (stdout, stderr string, err error)
}

// CLIRunner invokes the engine binary on the host.
type CLIRunner struct {
	Binary string
}

// NewCLIRunner returns a runner for the docker binary.
func NewCLIRunner() *CLIRunner {
	return &CLIRunner{Binary: "docker"}
}

// Run executes the binary with the given arguments, waits for exit, and
// returns captured stdout and stderr. A non-zero exit is returned as an
// *exec.ExitError alongside whatever output was produced.
func (r *CLIRunner) Run(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, r.Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
