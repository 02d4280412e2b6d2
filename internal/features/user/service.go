package user

import (
	"context"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"
)

type UserService interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string, scope common_models.Scope) (*User, error)
	ListUsers(ctx context.Context, scope common_models.Scope) ([]User, error)

	CreateTeam(ctx context.Context, t *Team) error
	ListTeams(ctx context.Context, scope common_models.Scope) ([]Team, error)

	// EmailsFor resolves notification recipients: the assignee's email, the
	// team members' emails, or both, deduplicated.
	EmailsFor(ctx context.Context, scope common_models.Scope, assigneeID, teamID string) ([]string, error)
}

type UserServiceImpl struct {
	Repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{
		Repo: repo,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, u *User) error {
	if u.Email == "" {
		return &errs.ValidationError{Message: "user email is required"}
	}
	return s.Repo.Create(ctx, u)
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string, scope common_models.Scope) (*User, error) {
	return s.Repo.GetByID(ctx, id, scope)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, scope common_models.Scope) ([]User, error) {
	return s.Repo.List(ctx, scope)
}

func (s *UserServiceImpl) CreateTeam(ctx context.Context, t *Team) error {
	if t.Name == "" {
		return &errs.ValidationError{Message: "team name is required"}
	}
	return s.Repo.CreateTeam(ctx, t)
}

func (s *UserServiceImpl) ListTeams(ctx context.Context, scope common_models.Scope) ([]Team, error) {
	return s.Repo.ListTeams(ctx, scope)
}

func (s *UserServiceImpl) EmailsFor(ctx context.Context, scope common_models.Scope, assigneeID, teamID string) ([]string, error) {
	seen := make(map[string]bool)
	var emails []string

	add := func(email string) {
		if email != "" && !seen[email] {
			seen[email] = true
			emails = append(emails, email)
		}
	}

	if assigneeID != "" {
		u, err := s.Repo.GetByID(ctx, assigneeID, scope)
		if err != nil {
			return nil, err
		}
		if u.Active {
			add(u.Email)
		}
	}

	if teamID != "" {
		team, err := s.Repo.GetTeam(ctx, teamID, scope)
		if err != nil {
			return nil, err
		}
		members, err := s.Repo.GetByIDs(ctx, team.MemberIDs, scope)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m.Active {
				add(m.Email)
			}
		}
	}

	return emails, nil
}
