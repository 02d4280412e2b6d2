package customer

import (
	"context"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"
	"go-desk/internal/features/event"
	"go-desk/internal/features/trigger"

	"go.uber.org/zap"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id string, scope common_models.Scope) (*Customer, error)
	ListCustomers(ctx context.Context, scope common_models.Scope) ([]Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id string, scope common_models.Scope) error
}

type CustomerServiceImpl struct {
	Repo      CustomerRepository
	Publisher *event.Publisher
	Log       *zap.Logger
}

func NewCustomerService(repo CustomerRepository, publisher *event.Publisher, log *zap.Logger) CustomerService {
	return &CustomerServiceImpl{
		Repo:      repo,
		Publisher: publisher,
		Log:       log,
	}
}

func eventData(c *Customer) map[string]interface{} {
	data := c.Payload()
	data["workspace_id"] = c.WorkspaceID
	data["client_id"] = c.ClientID
	return data
}

func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, c *Customer) error {
	if c.Email == "" {
		return &errs.ValidationError{Message: "customer email is required"}
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return err
	}
	s.Publisher.Publish(ctx, trigger.CustomerCreated, eventData(c))
	return nil
}

func (s *CustomerServiceImpl) GetCustomer(ctx context.Context, id string, scope common_models.Scope) (*Customer, error) {
	return s.Repo.GetByID(ctx, id, scope)
}

func (s *CustomerServiceImpl) ListCustomers(ctx context.Context, scope common_models.Scope) ([]Customer, error) {
	return s.Repo.List(ctx, scope)
}

func (s *CustomerServiceImpl) UpdateCustomer(ctx context.Context, c *Customer) error {
	if err := s.Repo.Update(ctx, c); err != nil {
		return err
	}
	s.Publisher.Publish(ctx, trigger.CustomerUpdated, eventData(c))
	return nil
}

func (s *CustomerServiceImpl) DeleteCustomer(ctx context.Context, id string, scope common_models.Scope) error {
	return s.Repo.SoftDelete(ctx, id, scope)
}
