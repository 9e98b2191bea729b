package inmemdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core/class"
	"github.com/trezcool/masomo-admin/core/query"
)

var classFields = fields[class.Class]{
	"id":          func(c class.Class) interface{} { return c.ID },
	"name":        func(c class.Class) interface{} { return c.Name },
	"status":      func(c class.Class) interface{} { return c.Status },
	"capacity":    func(c class.Class) interface{} { return c.Capacity },
	"course_code": func(c class.Class) interface{} { return c.CourseCode },
	"created_at":  func(c class.Class) interface{} { return c.CreatedAt },
	"subject": func(c class.Class) interface{} {
		if c.Subject == nil {
			return nil
		}
		return c.Subject.Name
	},
	"teacher": func(c class.Class) interface{} {
		if c.Teacher == nil {
			return nil
		}
		return c.Teacher.Name
	},
	"department": func(c class.Class) interface{} {
		if c.Department == nil {
			return nil
		}
		return c.Department.Name
	},
}

type classRepository struct {
	db *table[class.Class]
}

var _ class.Repository = (*classRepository)(nil)

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db.class}
}

func (repo *classRepository) Execute(_ context.Context, res string, q query.CanonicalQuery) (query.ResultPage[class.Class], error) {
	if res != class.ResourceName {
		return query.ResultPage[class.Class]{}, errors.Wrap(errUnknownResource, res)
	}
	return execute(repo.db.snapshot(), classFields, q)
}

func (repo *classRepository) FetchOne(_ context.Context, _, id string) (class.Class, error) {
	return repo.db.get(id)
}

func (repo *classRepository) CreateClass(_ context.Context, cls class.Class) (class.Class, error) {
	if cls.Teacher != nil {
		teacher := *cls.Teacher
		teacher.PasswordHash = nil
		cls.Teacher = &teacher
	}
	return repo.db.insert(cls), nil
}
