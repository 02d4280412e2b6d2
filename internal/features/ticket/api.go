package ticket

import (
	"go-desk/internal/common/api"
	"go-desk/internal/config"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TicketApi struct {
	controller *TicketController
	config     *config.Config
}

func NewTicketApi(controller *TicketController, config *config.Config) api.Route {
	return &TicketApi{
		controller: controller,
		config:     config,
	}
}

func (h *TicketApi) Setup(app *fiber.App) {
	group := app.Group("/api/tickets", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListTickets)
	group.Post("/", h.controller.CreateTicket)
	group.Get("/:id", h.controller.GetTicket)
	group.Put("/:id", h.controller.UpdateTicket)
	group.Delete("/:id", h.controller.DeleteTicket)
}
