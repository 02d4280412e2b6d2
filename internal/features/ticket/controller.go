package ticket

import (
	"errors"

	"go-desk/internal/common/errs"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TicketController struct {
	Service TicketService
}

func NewTicketController(service TicketService) *TicketController {
	return &TicketController{
		Service: service,
	}
}

// CreateTicket godoc
// @Summary Create ticket
// @Description Create a new support ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param ticket body Ticket true "Ticket"
// @Success 201 {object} Ticket
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/tickets [post]
func (ctrl *TicketController) CreateTicket(c *fiber.Ctx) error {
	var t Ticket
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scope := middleware.ScopeFromCtx(c)
	t.WorkspaceID = scope.WorkspaceID
	t.ClientID = scope.ClientID
	if claims := middleware.ClaimsFromCtx(c); claims != nil {
		t.CreatedBy = claims.UserID
		t.TicketCreatedBy = "user"
	}

	if err := ctrl.Service.CreateTicket(c.UserContext(), &t); err != nil {
		var vErr *errs.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": vErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(t)
}

// GetTicket godoc
// @Summary Get ticket
// @Tags tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} Ticket
// @Failure 404 {object} map[string]interface{}
// @Router /api/tickets/{id} [get]
func (ctrl *TicketController) GetTicket(c *fiber.Ctx) error {
	t, err := ctrl.Service.GetTicket(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(t)
}

// ListTickets godoc
// @Summary List tickets
// @Tags tickets
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {array} Ticket
// @Failure 500 {object} map[string]interface{}
// @Router /api/tickets [get]
func (ctrl *TicketController) ListTickets(c *fiber.Ctx) error {
	tickets, err := ctrl.Service.ListTickets(c.UserContext(), middleware.ScopeFromCtx(c), c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tickets)
}

// UpdateTicket godoc
// @Summary Update ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param ticket body Ticket true "Ticket"
// @Success 200 {object} Ticket
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/tickets/{id} [put]
func (ctrl *TicketController) UpdateTicket(c *fiber.Ctx) error {
	var t Ticket
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ticket ID"})
	}
	t.ID = oid

	scope := middleware.ScopeFromCtx(c)
	t.WorkspaceID = scope.WorkspaceID
	t.ClientID = scope.ClientID

	if err := ctrl.Service.UpdateTicket(c.UserContext(), &t); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(t)
}

// DeleteTicket godoc
// @Summary Delete ticket
// @Tags tickets
// @Param id path string true "Ticket ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Router /api/tickets/{id} [delete]
func (ctrl *TicketController) DeleteTicket(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteTicket(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
