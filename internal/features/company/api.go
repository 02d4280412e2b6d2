package company

import (
	"go-desk/internal/common/api"
	"go-desk/internal/config"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CompanyApi struct {
	controller *CompanyController
	config     *config.Config
}

func NewCompanyApi(controller *CompanyController, config *config.Config) api.Route {
	return &CompanyApi{
		controller: controller,
		config:     config,
	}
}

func (h *CompanyApi) Setup(app *fiber.App) {
	group := app.Group("/api/companies", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListCompanies)
	group.Post("/", h.controller.CreateCompany)
	group.Get("/:id", h.controller.GetCompany)
	group.Put("/:id", h.controller.UpdateCompany)
	group.Delete("/:id", h.controller.DeleteCompany)
}
