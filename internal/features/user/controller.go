package user

import (
	"errors"

	"go-desk/internal/common/errs"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{
		Service: service,
	}
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body User true "User"
// @Success 201 {object} User
// @Failure 400 {object} map[string]interface{}
// @Router /api/users [post]
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var u User
	if err := c.BodyParser(&u); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scope := middleware.ScopeFromCtx(c)
	u.WorkspaceID = scope.WorkspaceID
	u.ClientID = scope.ClientID

	if err := ctrl.Service.CreateUser(c.UserContext(), &u); err != nil {
		var vErr *errs.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": vErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(u)
}

// GetUser godoc
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} User
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{id} [get]
func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	u, err := ctrl.Service.GetUser(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(u)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} User
// @Failure 500 {object} map[string]interface{}
// @Router /api/users [get]
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	users, err := ctrl.Service.ListUsers(c.UserContext(), middleware.ScopeFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(users)
}

// CreateTeam godoc
// @Summary Create team
// @Tags users
// @Accept json
// @Produce json
// @Param team body Team true "Team"
// @Success 201 {object} Team
// @Failure 400 {object} map[string]interface{}
// @Router /api/users/teams [post]
func (ctrl *UserController) CreateTeam(c *fiber.Ctx) error {
	var t Team
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scope := middleware.ScopeFromCtx(c)
	t.WorkspaceID = scope.WorkspaceID
	t.ClientID = scope.ClientID

	if err := ctrl.Service.CreateTeam(c.UserContext(), &t); err != nil {
		var vErr *errs.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": vErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(t)
}

// ListTeams godoc
// @Summary List teams
// @Tags users
// @Produce json
// @Success 200 {array} Team
// @Failure 500 {object} map[string]interface{}
// @Router /api/users/teams [get]
func (ctrl *UserController) ListTeams(c *fiber.Ctx) error {
	teams, err := ctrl.Service.ListTeams(c.UserContext(), middleware.ScopeFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(teams)
}
