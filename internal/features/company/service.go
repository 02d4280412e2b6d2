package company

import (
	"context"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"
	"go-desk/internal/features/event"
	"go-desk/internal/features/trigger"

	"go.uber.org/zap"
)

type CompanyService interface {
	CreateCompany(ctx context.Context, c *Company) error
	GetCompany(ctx context.Context, id string, scope common_models.Scope) (*Company, error)
	ListCompanies(ctx context.Context, scope common_models.Scope) ([]Company, error)
	UpdateCompany(ctx context.Context, c *Company) error
	DeleteCompany(ctx context.Context, id string, scope common_models.Scope) error
}

type CompanyServiceImpl struct {
	Repo      CompanyRepository
	Publisher *event.Publisher
	Log       *zap.Logger
}

func NewCompanyService(repo CompanyRepository, publisher *event.Publisher, log *zap.Logger) CompanyService {
	return &CompanyServiceImpl{
		Repo:      repo,
		Publisher: publisher,
		Log:       log,
	}
}

func eventData(c *Company) map[string]interface{} {
	data := c.Payload()
	data["workspace_id"] = c.WorkspaceID
	data["client_id"] = c.ClientID
	return data
}

func (s *CompanyServiceImpl) CreateCompany(ctx context.Context, c *Company) error {
	if c.Name == "" {
		return &errs.ValidationError{Message: "company name is required"}
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return err
	}
	s.Publisher.Publish(ctx, trigger.CompanyCreated, eventData(c))
	return nil
}

func (s *CompanyServiceImpl) GetCompany(ctx context.Context, id string, scope common_models.Scope) (*Company, error) {
	return s.Repo.GetByID(ctx, id, scope)
}

func (s *CompanyServiceImpl) ListCompanies(ctx context.Context, scope common_models.Scope) ([]Company, error) {
	return s.Repo.List(ctx, scope)
}

func (s *CompanyServiceImpl) UpdateCompany(ctx context.Context, c *Company) error {
	if err := s.Repo.Update(ctx, c); err != nil {
		return err
	}
	s.Publisher.Publish(ctx, trigger.CompanyUpdated, eventData(c))
	return nil
}

func (s *CompanyServiceImpl) DeleteCompany(ctx context.Context, id string, scope common_models.Scope) error {
	return s.Repo.SoftDelete(ctx, id, scope)
}
