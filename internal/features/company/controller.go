package company

import (
	"errors"

	"go-desk/internal/common/errs"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CompanyController struct {
	Service CompanyService
}

func NewCompanyController(service CompanyService) *CompanyController {
	return &CompanyController{
		Service: service,
	}
}

// CreateCompany godoc
// @Summary Create company
// @Tags companies
// @Accept json
// @Produce json
// @Param company body Company true "Company"
// @Success 201 {object} Company
// @Failure 400 {object} map[string]interface{}
// @Router /api/companies [post]
func (ctrl *CompanyController) CreateCompany(c *fiber.Ctx) error {
	var comp Company
	if err := c.BodyParser(&comp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scope := middleware.ScopeFromCtx(c)
	comp.WorkspaceID = scope.WorkspaceID
	comp.ClientID = scope.ClientID

	if err := ctrl.Service.CreateCompany(c.UserContext(), &comp); err != nil {
		var vErr *errs.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": vErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(comp)
}

// GetCompany godoc
// @Summary Get company
// @Tags companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} Company
// @Failure 404 {object} map[string]interface{}
// @Router /api/companies/{id} [get]
func (ctrl *CompanyController) GetCompany(c *fiber.Ctx) error {
	comp, err := ctrl.Service.GetCompany(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Company not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(comp)
}

// ListCompanies godoc
// @Summary List companies
// @Tags companies
// @Produce json
// @Success 200 {array} Company
// @Failure 500 {object} map[string]interface{}
// @Router /api/companies [get]
func (ctrl *CompanyController) ListCompanies(c *fiber.Ctx) error {
	companies, err := ctrl.Service.ListCompanies(c.UserContext(), middleware.ScopeFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(companies)
}

// UpdateCompany godoc
// @Summary Update company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param company body Company true "Company"
// @Success 200 {object} Company
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/companies/{id} [put]
func (ctrl *CompanyController) UpdateCompany(c *fiber.Ctx) error {
	var comp Company
	if err := c.BodyParser(&comp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid company ID"})
	}
	comp.ID = oid

	scope := middleware.ScopeFromCtx(c)
	comp.WorkspaceID = scope.WorkspaceID
	comp.ClientID = scope.ClientID

	if err := ctrl.Service.UpdateCompany(c.UserContext(), &comp); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Company not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(comp)
}

// DeleteCompany godoc
// @Summary Delete company
// @Tags companies
// @Param id path string true "Company ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Router /api/companies/{id} [delete]
func (ctrl *CompanyController) DeleteCompany(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteCompany(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Company not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
