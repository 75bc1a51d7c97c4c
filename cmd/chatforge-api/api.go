// Package main provides the ChatForge flow builder API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/chatforge/chatforge/pkg/catalog"
	"github.com/chatforge/chatforge/pkg/eventbus"
	"github.com/chatforge/chatforge/pkg/persistence"
	"github.com/chatforge/chatforge/pkg/services"
	"github.com/chatforge/chatforge/pkg/templates"
	"github.com/chatforge/chatforge/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	nodeCatalog := catalog.New()
	flowService := services.NewFlow(a.persistence, nodeCatalog, a.eventBus, a.logger)
	library := templates.NewLibrary()

	handlers := web.NewAPIHandlers(flowService, library, nodeCatalog, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("ChatForge API")
	})

	flows := app.Group("/flows")
	flows.Get("/", handlers.GetFlows)
	flows.Post("/", handlers.CreateFlow)
	flows.Get("/:id", handlers.GetFlow)
	flows.Patch("/:id", handlers.UpdateFlow)
	flows.Delete("/:id", handlers.DeleteFlow)
	flows.Post("/:id/clone", handlers.CloneFlow)

	tpls := app.Group("/templates")
	tpls.Get("/", handlers.GetTemplates)
	tpls.Get("/:id", handlers.GetTemplate)

	app.Get("/catalog", handlers.GetCatalog)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
