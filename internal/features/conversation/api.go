package conversation

import (
	"go-desk/internal/common/api"
	"go-desk/internal/config"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ConversationApi struct {
	controller *ConversationController
	config     *config.Config
}

func NewConversationApi(controller *ConversationController, config *config.Config) api.Route {
	return &ConversationApi{
		controller: controller,
		config:     config,
	}
}

func (h *ConversationApi) Setup(app *fiber.App) {
	group := app.Group("/api/tickets/:ticket_id/messages", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListMessages)
	group.Post("/", h.controller.AddMessage)
	group.Delete("/:id", h.controller.DeleteMessage)
}
