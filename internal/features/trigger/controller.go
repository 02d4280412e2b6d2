package trigger

import (
	"github.com/gofiber/fiber/v2"
)

type TriggerController struct {
}

func NewTriggerController() *TriggerController {
	return &TriggerController{}
}

// ListTriggers godoc
// @Summary List trigger catalog
// @Description List all triggers grouped by category for the workflow builder
// @Tags triggers
// @Produce json
// @Success 200 {array} CategoryGroup
// @Router /api/triggers [get]
func (ctrl *TriggerController) ListTriggers(c *fiber.Ctx) error {
	return c.JSON(CatalogByCategory())
}

// GetTrigger godoc
// @Summary Get trigger
// @Description Get a single trigger definition by id
// @Tags triggers
// @Produce json
// @Param id path string true "Trigger ID"
// @Success 200 {object} Trigger
// @Failure 404 {object} map[string]interface{}
// @Router /api/triggers/{id} [get]
func (ctrl *TriggerController) GetTrigger(c *fiber.Ctx) error {
	t := GetTriggerByID(c.Params("id"))
	if t == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trigger not found"})
	}
	return c.JSON(t)
}

// ListCategories godoc
// @Summary List trigger categories
// @Tags triggers
// @Produce json
// @Success 200 {array} string
// @Router /api/triggers/categories [get]
func (ctrl *TriggerController) ListCategories(c *fiber.Ctx) error {
	return c.JSON(ListTriggerCategories())
}
