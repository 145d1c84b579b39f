package http

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/ozgur/shipmate/internal/core/domain"
	"github.com/ozgur/shipmate/internal/core/ports"
	"github.com/ozgur/shipmate/internal/metrics"
)

type ConfigHandler struct {
	service ports.ConfigService
	metrics *metrics.Metrics
}

func NewConfigHandler(service ports.ConfigService, m *metrics.Metrics) *ConfigHandler {
	return &ConfigHandler{service: service, metrics: m}
}

type FileInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Readonly    bool   `json:"readonly"`
	Category    string `json:"category,omitempty"`
}

type FileListResponse struct {
	Files []FileInfo `json:"files"`
}

type FileContentResponse struct {
	Content string `json:"content"`
}

type WriteRequest struct {
	Content string `json:"content"`
}

type WriteResponse struct {
	Success bool `json:"success"`
}

func (h *ConfigHandler) ListFiles(c *fiber.Ctx) error {
	entries := h.service.ListFiles(c.Context())

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		files = append(files, FileInfo{
			Name:        e.Name,
			Description: e.Description,
			Readonly:    e.Readonly,
			Category:    e.Category,
		})
	}
	return c.JSON(FileListResponse{Files: files})
}

func (h *ConfigHandler) ReadFile(c *fiber.Ctx) error {
	name, ok := logicalName(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid file name",
		})
	}

	content, err := h.service.ReadFile(c.Context(), name)
	if err != nil {
		return configError(c, err)
	}
	return c.JSON(FileContentResponse{Content: content})
}

func (h *ConfigHandler) WriteFile(c *fiber.Ctx) error {
	name, ok := logicalName(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid file name",
		})
	}

	var req WriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.service.WriteFile(c.Context(), name, req.Content); err != nil {
		return configError(c, err)
	}

	h.metrics.ConfigWrites.Inc()
	return c.JSON(WriteResponse{Success: true})
}

// logicalName extracts the wildcard path segment. Scanned entries carry
// slashes in their names, which is why these routes use a wildcard.
func logicalName(c *fiber.Ctx) (string, bool) {
	raw := c.Params("*")
	if raw == "" {
		return "", false
	}
	name, err := url.PathUnescape(raw)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// configError maps the error taxonomy onto HTTP statuses: validation
// failures are the client's fault, I/O failures are ours.
func configError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidExtension), errors.Is(err, domain.ErrReadonly):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
