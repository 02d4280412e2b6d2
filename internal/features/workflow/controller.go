package workflow

import (
	"errors"

	"go-desk/internal/common/errs"
	"go-desk/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkflowController struct {
	Service WorkflowService
}

func NewWorkflowController(service WorkflowService) *WorkflowController {
	return &WorkflowController{
		Service: service,
	}
}

// CreateWorkflow godoc
// @Summary Create workflow
// @Description Create a new automation workflow
// @Tags workflows
// @Accept json
// @Produce json
// @Param workflow body Workflow true "Workflow"
// @Success 201 {object} Workflow
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/workflows [post]
func (ctrl *WorkflowController) CreateWorkflow(c *fiber.Ctx) error {
	var wf Workflow
	if err := c.BodyParser(&wf); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scope := middleware.ScopeFromCtx(c)
	wf.WorkspaceID = scope.WorkspaceID
	wf.ClientID = scope.ClientID

	if err := ctrl.Service.CreateWorkflow(c.UserContext(), &wf); err != nil {
		var vErr *errs.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": vErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(wf)
}

// GetWorkflow godoc
// @Summary Get workflow
// @Description Get a workflow by ID with its actions populated
// @Tags workflows
// @Produce json
// @Param id path string true "Workflow ID"
// @Success 200 {object} Workflow
// @Failure 404 {object} map[string]interface{}
// @Router /api/workflows/{id} [get]
func (ctrl *WorkflowController) GetWorkflow(c *fiber.Ctx) error {
	wf, err := ctrl.Service.GetWorkflow(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workflow not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(wf)
}

// ListWorkflows godoc
// @Summary List workflows
// @Description List workflows for the current workspace and client
// @Tags workflows
// @Produce json
// @Success 200 {array} Workflow
// @Failure 500 {object} map[string]interface{}
// @Router /api/workflows [get]
func (ctrl *WorkflowController) ListWorkflows(c *fiber.Ctx) error {
	workflows, err := ctrl.Service.ListWorkflows(c.UserContext(), middleware.ScopeFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(workflows)
}

// UpdateWorkflow godoc
// @Summary Update workflow
// @Description Update an existing workflow
// @Tags workflows
// @Accept json
// @Produce json
// @Param id path string true "Workflow ID"
// @Param workflow body Workflow true "Workflow"
// @Success 200 {object} Workflow
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/workflows/{id} [put]
func (ctrl *WorkflowController) UpdateWorkflow(c *fiber.Ctx) error {
	var wf Workflow
	if err := c.BodyParser(&wf); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid workflow ID"})
	}
	wf.ID = oid

	scope := middleware.ScopeFromCtx(c)
	wf.WorkspaceID = scope.WorkspaceID
	wf.ClientID = scope.ClientID

	if err := ctrl.Service.UpdateWorkflow(c.UserContext(), &wf); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workflow not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(wf)
}

// DeleteWorkflow godoc
// @Summary Delete workflow
// @Description Soft delete a workflow by ID
// @Tags workflows
// @Param id path string true "Workflow ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Router /api/workflows/{id} [delete]
func (ctrl *WorkflowController) DeleteWorkflow(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteWorkflow(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workflow not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateEventWorkflow godoc
// @Summary Link trigger to workflow
// @Description Subscribe a workflow to a catalog trigger
// @Tags workflows
// @Accept json
// @Produce json
// @Param link body EventWorkflow true "Event workflow link"
// @Success 201 {object} EventWorkflow
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/workflows/events [post]
func (ctrl *WorkflowController) CreateEventWorkflow(c *fiber.Ctx) error {
	var ew EventWorkflow
	if err := c.BodyParser(&ew); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scope := middleware.ScopeFromCtx(c)
	ew.WorkspaceID = scope.WorkspaceID
	ew.ClientID = scope.ClientID

	if err := ctrl.Service.CreateEventWorkflow(c.UserContext(), &ew); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Workflow is already linked to this event"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(ew)
}

// ListEventWorkflows godoc
// @Summary List trigger links
// @Description List workflow subscriptions for a trigger
// @Tags workflows
// @Produce json
// @Param event_id query string true "Trigger ID"
// @Success 200 {array} EventWorkflow
// @Failure 500 {object} map[string]interface{}
// @Router /api/workflows/events [get]
func (ctrl *WorkflowController) ListEventWorkflows(c *fiber.Ctx) error {
	links, err := ctrl.Service.ListEventWorkflows(c.UserContext(), c.Query("event_id"), middleware.ScopeFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(links)
}

// UpdateEventWorkflow godoc
// @Summary Re-point a trigger link
// @Description Move an existing subscription to a different trigger or workflow
// @Tags workflows
// @Accept json
// @Produce json
// @Param id path string true "Link ID"
// @Param link body EventWorkflow true "Event workflow link"
// @Success 200 {object} EventWorkflow
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/workflows/events/{id} [put]
func (ctrl *WorkflowController) UpdateEventWorkflow(c *fiber.Ctx) error {
	var ew EventWorkflow
	if err := c.BodyParser(&ew); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid link ID"})
	}
	ew.ID = oid

	scope := middleware.ScopeFromCtx(c)
	ew.WorkspaceID = scope.WorkspaceID
	ew.ClientID = scope.ClientID

	if err := ctrl.Service.UpdateEventWorkflow(c.UserContext(), &ew); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Workflow is already linked to this event"})
		}
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Link not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(ew)
}

// DeleteEventWorkflow godoc
// @Summary Unlink trigger from workflow
// @Tags workflows
// @Param id path string true "Link ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Router /api/workflows/events/{id} [delete]
func (ctrl *WorkflowController) DeleteEventWorkflow(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteEventWorkflow(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Link not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SaveActions godoc
// @Summary Create or update workflow actions
// @Description Upsert a batch of workflow actions; the batch is all-or-nothing
// @Tags workflows
// @Accept json
// @Produce json
// @Param actions body []WorkflowAction true "Actions"
// @Success 200 {object} ActionBatchResult
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} ActionBatchResult
// @Router /api/workflows/actions [post]
func (ctrl *WorkflowController) SaveActions(c *fiber.Ctx) error {
	var actions []WorkflowAction
	if err := c.BodyParser(&actions); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	createdBy := ""
	if claims := middleware.ClaimsFromCtx(c); claims != nil {
		createdBy = claims.UserID
	}

	result, err := ctrl.Service.CreateOrUpdateActions(c.UserContext(), actions, createdBy, middleware.ScopeFromCtx(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(result.Errors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}
	return c.JSON(result)
}

// UpdateAction godoc
// @Summary Update workflow action
// @Tags workflows
// @Accept json
// @Produce json
// @Param id path string true "Action ID"
// @Param action body WorkflowAction true "Action"
// @Success 200 {object} WorkflowAction
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/workflows/actions/{id} [put]
func (ctrl *WorkflowController) UpdateAction(c *fiber.Ctx) error {
	var action WorkflowAction
	if err := c.BodyParser(&action); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid action ID"})
	}
	action.ID = oid

	scope := middleware.ScopeFromCtx(c)
	action.WorkspaceID = scope.WorkspaceID
	action.ClientID = scope.ClientID

	if err := ctrl.Service.UpdateWorkflowAction(c.UserContext(), &action); err != nil {
		var vErr *errs.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": vErr.Message})
		}
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Action not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(action)
}

// DeleteAction godoc
// @Summary Delete workflow action
// @Tags workflows
// @Param id path string true "Action ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Router /api/workflows/actions/{id} [delete]
func (ctrl *WorkflowController) DeleteAction(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteWorkflowAction(c.UserContext(), c.Params("id"), middleware.ScopeFromCtx(c)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Action not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
