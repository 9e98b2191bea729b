package subject

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/query"
)

var (
	ErrCodeExists        = errors.New("a subject with this code already exists")
	errUnknownDepartment = errors.New("department does not exist")
)

type (
	Repository interface {
		query.DataAccess[Subject]
		query.DetailFetcher[Subject]
		CheckCodeUniqueness(ctx context.Context, code string) error
		CreateSubject(ctx context.Context, subj Subject) (Subject, error)
	}

	Service struct {
		repo  Repository
		depts query.DetailFetcher[department.Department]
	}
)

func NewService(repo Repository, depts department.Repository) *Service {
	return &Service{repo: repo, depts: depts}
}

// Create expects ns to be validated already.
func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	if err := svc.repo.CheckCodeUniqueness(ctx, ns.Code); err != nil {
		if errors.Cause(err) == ErrCodeExists {
			return Subject{}, core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return Subject{}, errors.Wrap(err, "checking code uniqueness")
	}

	subj := Subject{
		Code:        ns.Code,
		Name:        ns.Name,
		Description: ns.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if ns.DepartmentID > 0 {
		dept, err := svc.depts.FetchOne(ctx, department.ResourceName, strconv.Itoa(ns.DepartmentID))
		if err != nil {
			if core.IsNotFound(err) {
				return Subject{}, core.NewValidationError(
					errUnknownDepartment,
					core.FieldError{Field: "department_id", Error: errUnknownDepartment.Error()},
				)
			}
			return Subject{}, errors.Wrap(err, "fetching department")
		}
		subj.Department = &dept
	}

	subj, err := svc.repo.CreateSubject(ctx, subj)
	return subj, errors.Wrap(err, "creating subject")
}

func (svc *Service) Data() query.DataAccess[Subject] { return svc.repo }
