package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/query"
)

var departments = table{
	resource: department.ResourceName,
	from:     func(b sq.SelectBuilder) sq.SelectBuilder { return b.From("departments d") },
	columns:  []string{"d.id", "d.code", "d.name", "d.description", "d.created_at"},
	fields: map[string]string{
		"id":          "d.id",
		"code":        "d.code",
		"name":        "d.name",
		"description": "d.description",
		"created_at":  "d.created_at",
	},
}

type departmentRepository struct {
	db core.DB
}

var _ department.Repository = (*departmentRepository)(nil)

func NewDepartmentRepository(db core.DB) department.Repository {
	return &departmentRepository{db: db}
}

func (repo *departmentRepository) Execute(ctx context.Context, res string, q query.CanonicalQuery) (query.ResultPage[department.Department], error) {
	rows, total, err := execute[department.Department](ctx, repo.db, departments, res, q)
	if err != nil {
		return query.ResultPage[department.Department]{}, err
	}
	return query.ResultPage[department.Department]{Rows: rows, Total: total}, nil
}

func (repo *departmentRepository) FetchOne(ctx context.Context, _, id string) (department.Department, error) {
	return fetchOne[department.Department](ctx, repo.db, departments, "d.id", id)
}

func (repo *departmentRepository) CheckCodeUniqueness(ctx context.Context, code string) error {
	found, err := exists(ctx, repo.db, "departments", "code", code)
	if err != nil {
		return errors.Wrap(err, "checking department code")
	}
	if found {
		return department.ErrCodeExists
	}
	return nil
}

func (repo *departmentRepository) CreateDepartment(ctx context.Context, dept department.Department) (department.Department, error) {
	id, err := insert(ctx, repo.db, psql.Insert("departments").
		Columns("code", "name", "description", "created_at").
		Values(dept.Code, dept.Name, dept.Description, dept.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return department.Department{}, department.ErrCodeExists
		}
		return department.Department{}, errors.Wrap(err, "inserting department")
	}
	dept.ID = id
	return dept, nil
}
