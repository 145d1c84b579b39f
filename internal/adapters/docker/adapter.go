package docker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ozgur/shipmate/internal/core/domain"
)

// How long a lifecycle action may run before we give up. A stop with a
// stubborn entrypoint can legitimately take over a minute.
const actionTimeout = 120 * time.Second

// listFormat matches the engine's ps template syntax: one container per
// line, tab separated.
const listFormat = "{{.ID}}\t{{.Names}}\t{{.State}}\t{{.Status}}"

// inspectFormat renders one container's inspection data as KEY=value
// lines for the parser. Ports come out in the engine's own
// "hostIP:hostPort->containerPort/proto" shape.
const inspectFormat = `ID={{.Id}}
NAME={{.Name}}
IMAGE={{.Config.Image}}
STATE={{.State.Status}}
CREATED={{.Created}}
STARTED={{.State.StartedAt}}
RESTART={{with .HostConfig.RestartPolicy}}{{.Name}}{{end}}
HEALTH={{with .State.Health}}{{.Status}}{{end}}
{{range $port, $bindings := .NetworkSettings.Ports}}{{if $bindings}}{{range $bindings}}PORT={{.HostIp}}:{{.HostPort}}->{{$port}}
{{end}}{{else}}PORT={{$port}}
{{end}}{{end}}{{range .Mounts}}MOUNT={{.Source}}:{{.Destination}}{{with .Mode}}:{{.}}{{end}}
{{end}}{{range $name, $net := .NetworkSettings.Networks}}NETWORK={{$name}}
{{end}}{{range .Config.Env}}ENV={{.}}
{{end}}`

// actionMessages maps each action to the message returned on success.
var actionMessages = map[domain.Action]string{
	domain.ActionStart:   "container started",
	domain.ActionStop:    "container stopped",
	domain.ActionRestart: "container restarted",
}

// Adapter implements ports.ContainerService by invoking the engine CLI
// and parsing its output. It holds no state between requests.
type Adapter struct {
	runner Runner
	logger *zap.Logger
}

// NewAdapter creates a container adapter backed by the docker binary.
func NewAdapter(logger *zap.Logger) *Adapter {
	return &Adapter{runner: NewCLIRunner(), logger: logger}
}

// NewAdapterWithRunner creates an adapter with a custom runner.
func NewAdapterWithRunner(runner Runner, logger *zap.Logger) *Adapter {
	return &Adapter{runner: runner, logger: logger}
}

// ListContainers returns every container the engine knows about,
// running or not. The list is rebuilt from the engine on every call.
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.Container, error) {
	stdout, stderr, err := a.runner.Run(ctx, "ps", "-a", "--format", listFormat)
	if err != nil {
		return nil, a.commandError("ps", "", stderr, err)
	}

	var containers []domain.Container
	for _, line := range strings.Split(stdout, "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 4 {
			continue
		}
		containers = append(containers, domain.Container{
			ID:     parts[0],
			Name:   parts[1],
			State:  parts[2],
			Status: parts[3],
		})
	}

	a.logger.Debug("listed containers", zap.Int("count", len(containers)))
	return containers, nil
}

// ContainerDetails inspects one container and parses the output into a
// details record.
func (a *Adapter) ContainerDetails(ctx context.Context, id string) (domain.ContainerDetails, error) {
	stdout, stderr, err := a.runner.Run(ctx, "inspect", "--format", inspectFormat, id)
	if err != nil {
		if isNoSuchContainer(stderr) {
			return domain.ContainerDetails{}, fmt.Errorf("%s: %w", id, domain.ErrNoSuchContainer)
		}
		return domain.ContainerDetails{}, a.commandError("inspect", id, stderr, err)
	}

	details, err := parseDetails(stdout, a.logger)
	if err != nil {
		a.logger.Error("inspect output unparseable",
			zap.String("container", id), zap.Error(err))
		return domain.ContainerDetails{}, err
	}
	return details, nil
}

// ExecuteAction runs a lifecycle action against a container and waits
// for the engine to finish. The action is deliberately detached from the
// caller's context: once the engine has been told to stop a container, a
// dropped HTTP connection should not kill the operation halfway. The
// fixed timeout is the only bound.
func (a *Adapter) ExecuteAction(_ context.Context, action domain.Action, id string) (string, error) {
	message, ok := actionMessages[action]
	if !ok {
		return "", fmt.Errorf("unsupported action %v", action)
	}
	verb := action.String()

	a.logger.Info("executing container action",
		zap.String("action", verb), zap.String("container", id))

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	_, stderr, err := a.runner.Run(ctx, verb, id)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			stderr = fmt.Sprintf("timed out after %s", actionTimeout)
		}
		cmdErr := a.commandError(verb, id, stderr, err)
		a.logger.Error("container action failed",
			zap.String("action", verb), zap.String("container", id), zap.Error(cmdErr))
		return "", cmdErr
	}

	a.logger.Info("container action completed",
		zap.String("action", verb), zap.String("container", id))
	return message, nil
}

// commandError normalizes a CLI failure. A non-zero exit carries the
// engine's stderr verbatim; a spawn failure carries the OS error.
func (a *Adapter) commandError(verb, id, stderr string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) || stderr != "" {
		return &domain.CommandError{Verb: verb, ID: id, Stderr: strings.TrimSpace(stderr)}
	}
	return fmt.Errorf("docker %s: %w", verb, err)
}

func isNoSuchContainer(stderr string) bool {
	return strings.Contains(stderr, "No such container") ||
		strings.Contains(stderr, "No such object")
}
