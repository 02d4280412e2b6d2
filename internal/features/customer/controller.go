package customer

import (
	"errors"

	"go-desk/internal/common/errs"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CustomerController struct {
	Service CustomerService
}

func NewCustomerController(service CustomerService) *CustomerController {
	return &CustomerController{
		Service: service,
	}
}

// CreateCustomer godoc
// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body Customer true "Customer"
// @Success 201 {object} Customer
// @Failure 400 {object} map[string]interface{}
// @Router /api/customers [post]
func (ctrl *CustomerController) CreateCustomer(c *fiber.Ctx) error {
	var cust Customer
	if err := c.BodyParser(&cust); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scope := middleware.ScopeFromCtx(c)
	cust.WorkspaceID = scope.WorkspaceID
	cust.ClientID = scope.ClientID

	if err := ctrl.Service.CreateCustomer(c.UserContext(), &cust); err != nil {
		var vErr *errs.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": vErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(cust)
}

// GetCustomer godoc
// @Summary Get customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} Customer
// @Failure 404 {object} map[string]interface{}
// @Router /api/customers/{id} [get]
func (ctrl *CustomerController) GetCustomer(c *fiber.Ctx) error {
	cust, err := ctrl.Service.GetCustomer(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cust)
}

// ListCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Success 200 {array} Customer
// @Failure 500 {object} map[string]interface{}
// @Router /api/customers [get]
func (ctrl *CustomerController) ListCustomers(c *fiber.Ctx) error {
	customers, err := ctrl.Service.ListCustomers(c.UserContext(), middleware.ScopeFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(customers)
}

// UpdateCustomer godoc
// @Summary Update customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param customer body Customer true "Customer"
// @Success 200 {object} Customer
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/customers/{id} [put]
func (ctrl *CustomerController) UpdateCustomer(c *fiber.Ctx) error {
	var cust Customer
	if err := c.BodyParser(&cust); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	cust.ID = oid

	scope := middleware.ScopeFromCtx(c)
	cust.WorkspaceID = scope.WorkspaceID
	cust.ClientID = scope.ClientID

	if err := ctrl.Service.UpdateCustomer(c.UserContext(), &cust); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(cust)
}

// DeleteCustomer godoc
// @Summary Delete customer
// @Tags customers
// @Param id path string true "Customer ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Router /api/customers/{id} [delete]
func (ctrl *CustomerController) DeleteCustomer(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteCustomer(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
