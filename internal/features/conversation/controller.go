package conversation

import (
	"errors"

	"go-desk/internal/common/errs"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConversationController struct {
	Service ConversationService
}

func NewConversationController(service ConversationService) *ConversationController {
	return &ConversationController{
		Service: service,
	}
}

// AddMessage godoc
// @Summary Add message to ticket
// @Description Append a reply or internal note to a ticket thread
// @Tags conversations
// @Accept json
// @Produce json
// @Param ticket_id path string true "Ticket ID"
// @Param message body ConversationMessage true "Message"
// @Success 201 {object} ConversationMessage
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/tickets/{ticket_id}/messages [post]
func (ctrl *ConversationController) AddMessage(c *fiber.Ctx) error {
	var m ConversationMessage
	if err := c.BodyParser(&m); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ticketOID, err := primitive.ObjectIDFromHex(c.Params("ticket_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ticket ID"})
	}
	m.TicketID = ticketOID

	scope := middleware.ScopeFromCtx(c)
	m.WorkspaceID = scope.WorkspaceID
	m.ClientID = scope.ClientID
	if claims := middleware.ClaimsFromCtx(c); claims != nil {
		m.AuthorID = claims.UserID
		if m.UserType == "" {
			m.UserType = UserTypeAgent
		}
	}

	if err := ctrl.Service.AddMessage(c.UserContext(), &m); err != nil {
		var vErr *errs.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": vErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(m)
}

// ListMessages godoc
// @Summary List ticket messages
// @Tags conversations
// @Produce json
// @Param ticket_id path string true "Ticket ID"
// @Success 200 {array} ConversationMessage
// @Failure 500 {object} map[string]interface{}
// @Router /api/tickets/{ticket_id}/messages [get]
func (ctrl *ConversationController) ListMessages(c *fiber.Ctx) error {
	messages, err := ctrl.Service.ListMessages(c.UserContext(), c.Params("ticket_id"), middleware.ScopeFromCtx(c))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(messages)
}

// DeleteMessage godoc
// @Summary Delete message
// @Tags conversations
// @Param ticket_id path string true "Ticket ID"
// @Param id path string true "Message ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Router /api/tickets/{ticket_id}/messages/{id} [delete]
func (ctrl *ConversationController) DeleteMessage(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteMessage(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Message not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
