package ports

import (
	"context"

	"github.com/ozgur/shipmate/internal/core/domain"
)

// ContainerService defines the core operations for inspecting and
// controlling containers. This interface allows us to switch between
// Docker, Podman, or another engine without changing the handlers.
type ContainerService interface {
	ListContainers(ctx context.Context) ([]domain.Container, error)
	ContainerDetails(ctx context.Context, id string) (domain.ContainerDetails, error)
	// ExecuteAction runs a lifecycle action and returns a human-readable
	// success message. A non-zero engine exit surfaces as *domain.CommandError.
	ExecuteAction(ctx context.Context, action domain.Action, id string) (string, error)
}
