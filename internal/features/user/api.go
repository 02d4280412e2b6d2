package user

import (
	"go-desk/internal/common/api"
	"go-desk/internal/config"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) api.Route {
	return &UserApi{
		controller: controller,
		config:     config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	group := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListUsers)
	group.Post("/", h.controller.CreateUser)
	group.Get("/teams", h.controller.ListTeams)
	group.Post("/teams", h.controller.CreateTeam)
	group.Get("/:id", h.controller.GetUser)
}
