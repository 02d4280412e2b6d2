package trigger

import (
	"go-desk/internal/common/api"
	"go-desk/internal/config"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TriggerApi struct {
	controller *TriggerController
	config     *config.Config
}

func NewTriggerApi(controller *TriggerController, config *config.Config) api.Route {
	return &TriggerApi{
		controller: controller,
		config:     config,
	}
}

func (h *TriggerApi) Setup(app *fiber.App) {
	group := app.Group("/api/triggers", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListTriggers)
	group.Get("/categories", h.controller.ListCategories)
	group.Get("/:id", h.controller.GetTrigger)
}
