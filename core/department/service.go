package department

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
)

var ErrCodeExists = errors.New("a department with this code already exists")

type (
	Repository interface {
		query.DataAccess[Department]
		query.DetailFetcher[Department]
		CheckCodeUniqueness(ctx context.Context, code string) error
		CreateDepartment(ctx context.Context, dept Department) (Department, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create expects nd to be validated already.
func (svc *Service) Create(ctx context.Context, nd NewDepartment) (Department, error) {
	if err := svc.repo.CheckCodeUniqueness(ctx, nd.Code); err != nil {
		if errors.Cause(err) == ErrCodeExists {
			return Department{}, core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return Department{}, errors.Wrap(err, "checking code uniqueness")
	}

	dept, err := svc.repo.CreateDepartment(ctx, Department{
		Code:        nd.Code,
		Name:        nd.Name,
		Description: nd.Description,
		CreatedAt:   time.Now().UTC(),
	})
	return dept, errors.Wrap(err, "creating department")
}

func (svc *Service) Get(ctx context.Context, id string) (Department, error) {
	return svc.repo.FetchOne(ctx, ResourceName, id)
}

func (svc *Service) Data() query.DataAccess[Department] { return svc.repo }
