package customer

import (
	"go-desk/internal/common/api"
	"go-desk/internal/config"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CustomerApi struct {
	controller *CustomerController
	config     *config.Config
}

func NewCustomerApi(controller *CustomerController, config *config.Config) api.Route {
	return &CustomerApi{
		controller: controller,
		config:     config,
	}
}

func (h *CustomerApi) Setup(app *fiber.App) {
	group := app.Group("/api/customers", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListCustomers)
	group.Post("/", h.controller.CreateCustomer)
	group.Get("/:id", h.controller.GetCustomer)
	group.Put("/:id", h.controller.UpdateCustomer)
	group.Delete("/:id", h.controller.DeleteCustomer)
}
