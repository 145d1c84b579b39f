package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/ozgur/shipmate/internal/config"
	"github.com/ozgur/shipmate/internal/core/domain"
	"github.com/ozgur/shipmate/internal/core/ports"
	"github.com/ozgur/shipmate/internal/metrics"
)

// NewApp assembles the fiber application: middleware, API routes,
// metrics and the optional static frontend bundle.
func NewApp(cfg config.ServerConfig, configs ports.ConfigService, containers ports.ContainerService, m *metrics.Metrics, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(RequestLogger(logger, m))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// promhttp speaks net/http; the adaptor bridges it into fiber.
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	configHandler := NewConfigHandler(configs, m)
	containerHandler := NewContainerHandler(containers, m)

	api := app.Group("/api")

	api.Get("/configs", configHandler.ListFiles)
	api.Get("/configs/*", configHandler.ReadFile)
	api.Post("/configs/*", configHandler.WriteFile)

	api.Get("/containers", containerHandler.ListContainers)
	api.Get("/containers/:id/details", containerHandler.ContainerDetails)
	api.Post("/containers/:id/start", containerHandler.ExecuteAction(domain.ActionStart))
	api.Post("/containers/:id/stop", containerHandler.ExecuteAction(domain.ActionStop))
	api.Post("/containers/:id/restart", containerHandler.ExecuteAction(domain.ActionRestart))

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	return app
}
