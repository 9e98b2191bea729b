package inmemdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/subject"
)

var subjectFields = fields[subject.Subject]{
	"id":          func(s subject.Subject) interface{} { return s.ID },
	"code":        func(s subject.Subject) interface{} { return s.Code },
	"name":        func(s subject.Subject) interface{} { return s.Name },
	"description": func(s subject.Subject) interface{} { return s.Description },
	"created_at":  func(s subject.Subject) interface{} { return s.CreatedAt },
	"department": func(s subject.Subject) interface{} {
		if s.Department == nil {
			return nil
		}
		return s.Department.Name
	},
}

type subjectRepository struct {
	db *table[subject.Subject]
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db.subject}
}

func (repo *subjectRepository) Execute(_ context.Context, res string, q query.CanonicalQuery) (query.ResultPage[subject.Subject], error) {
	if res != subject.ResourceName {
		return query.ResultPage[subject.Subject]{}, errors.Wrap(errUnknownResource, res)
	}
	return execute(repo.db.snapshot(), subjectFields, q)
}

func (repo *subjectRepository) FetchOne(_ context.Context, _, id string) (subject.Subject, error) {
	return repo.db.get(id)
}

func (repo *subjectRepository) CheckCodeUniqueness(_ context.Context, code string) error {
	if _, ok := repo.db.find(func(s subject.Subject) bool { return s.Code == code }); ok {
		return subject.ErrCodeExists
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(_ context.Context, subj subject.Subject) (subject.Subject, error) {
	return repo.db.insert(subj), nil
}
