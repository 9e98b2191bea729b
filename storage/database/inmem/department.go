package inmemdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/query"
)

var departmentFields = fields[department.Department]{
	"id":          func(d department.Department) interface{} { return d.ID },
	"code":        func(d department.Department) interface{} { return d.Code },
	"name":        func(d department.Department) interface{} { return d.Name },
	"description": func(d department.Department) interface{} { return d.Description },
	"created_at":  func(d department.Department) interface{} { return d.CreatedAt },
}

type departmentRepository struct {
	db *table[department.Department]
}

var _ department.Repository = (*departmentRepository)(nil)

func NewDepartmentRepository(db *DB) department.Repository {
	return &departmentRepository{db: db.department}
}

func (repo *departmentRepository) Execute(_ context.Context, res string, q query.CanonicalQuery) (query.ResultPage[department.Department], error) {
	if res != department.ResourceName {
		return query.ResultPage[department.Department]{}, errors.Wrap(errUnknownResource, res)
	}
	return execute(repo.db.snapshot(), departmentFields, q)
}

func (repo *departmentRepository) FetchOne(_ context.Context, _, id string) (department.Department, error) {
	return repo.db.get(id)
}

func (repo *departmentRepository) CheckCodeUniqueness(_ context.Context, code string) error {
	if _, ok := repo.db.find(func(d department.Department) bool { return d.Code == code }); ok {
		return department.ErrCodeExists
	}
	return nil
}

func (repo *departmentRepository) CreateDepartment(_ context.Context, dept department.Department) (department.Department, error) {
	return repo.db.insert(dept), nil
}
