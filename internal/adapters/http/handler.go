package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ozgur/shipmate/internal/core/domain"
	"github.com/ozgur/shipmate/internal/core/ports"
	"github.com/ozgur/shipmate/internal/metrics"
)

type ContainerHandler struct {
	service ports.ContainerService
	metrics *metrics.Metrics
}

func NewContainerHandler(service ports.ContainerService, m *metrics.Metrics) *ContainerHandler {
	return &ContainerHandler{service: service, metrics: m}
}

type ContainerListResponse struct {
	Containers []domain.Container `json:"containers"`
}

type ContainerDetailsResponse struct {
	Details domain.ContainerDetails `json:"details"`
}

type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ContainerHandler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.service.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if containers == nil {
		containers = []domain.Container{}
	}
	return c.JSON(ContainerListResponse{Containers: containers})
}

func (h *ContainerHandler) ContainerDetails(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	details, err := h.service.ContainerDetails(c.Context(), id)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrNoSuchContainer) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(ContainerDetailsResponse{Details: details})
}

// ExecuteAction handles the three lifecycle routes. The action name is
// baked into the route, so anything reaching here maps to a known verb.
func (h *ContainerHandler) ExecuteAction(action domain.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Container ID is required",
			})
		}

		message, err := h.service.ExecuteAction(c.Context(), action, id)
		if err != nil {
			h.metrics.ContainerActions.WithLabelValues(action.String(), "failure").Inc()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		h.metrics.ContainerActions.WithLabelValues(action.String(), "success").Inc()
		return c.JSON(ActionResponse{Success: true, Message: message})
	}
}
