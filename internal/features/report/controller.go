package report

import (
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{
		Service: service,
	}
}

// ExportTickets godoc
// @Summary Export tickets
// @Description Download the scoped ticket list as an xlsx workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Filter by status"
// @Success 200 {file} binary
// @Failure 500 {object} map[string]interface{}
// @Router /api/reports/tickets/export [get]
func (ctrl *ReportController) ExportTickets(c *fiber.Ctx) error {
	buffer, err := ctrl.Service.ExportTickets(c.UserContext(), middleware.ScopeFromCtx(c), c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="tickets.xlsx"`)
	return c.Send(buffer.Bytes())
}
