package workflow

import (
	"go-desk/internal/common/api"
	"go-desk/internal/config"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowApi struct {
	controller *WorkflowController
	config     *config.Config
}

func NewWorkflowApi(controller *WorkflowController, config *config.Config) api.Route {
	return &WorkflowApi{
		controller: controller,
		config:     config,
	}
}

func (h *WorkflowApi) Setup(app *fiber.App) {
	group := app.Group("/api/workflows", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListWorkflows)
	group.Post("/", h.controller.CreateWorkflow)

	group.Get("/events", h.controller.ListEventWorkflows)
	group.Post("/events", h.controller.CreateEventWorkflow)
	group.Put("/events/:id", h.controller.UpdateEventWorkflow)
	group.Delete("/events/:id", h.controller.DeleteEventWorkflow)

	group.Post("/actions", h.controller.SaveActions)
	group.Put("/actions/:id", h.controller.UpdateAction)
	group.Delete("/actions/:id", h.controller.DeleteAction)

	group.Get("/:id", h.controller.GetWorkflow)
	group.Put("/:id", h.controller.UpdateWorkflow)
	group.Delete("/:id", h.controller.DeleteWorkflow)
}
