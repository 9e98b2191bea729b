package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/subject"
)

var subjects = table{
	resource: subject.ResourceName,
	from: func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.From("subjects s").LeftJoin("departments d ON d.id = s.department_id")
	},
	columns: []string{
		"s.id", "s.code", "s.name", "s.description", "s.created_at",
		"d.id AS department_id", "d.code AS department_code", "d.name AS department_name",
	},
	fields: map[string]string{
		"id":          "s.id",
		"code":        "s.code",
		"name":        "s.name",
		"description": "s.description",
		"department":  "d.name",
		"created_at":  "s.created_at",
	},
}

type subjectRow struct {
	ID             int         `db:"id"`
	Code           string      `db:"code"`
	Name           string      `db:"name"`
	Description    string      `db:"description"`
	CreatedAt      time.Time   `db:"created_at"`
	DepartmentID   null.Int    `db:"department_id"`
	DepartmentCode null.String `db:"department_code"`
	DepartmentName null.String `db:"department_name"`
}

func (r subjectRow) toSubject() subject.Subject {
	return subject.Subject{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Department:  joinedDepartment(r.DepartmentID, r.DepartmentCode, r.DepartmentName),
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func joinedDepartment(id null.Int, code, name null.String) *department.Department {
	if !id.Valid {
		return nil
	}
	return &department.Department{ID: id.Int, Code: code.String, Name: name.String}
}

type subjectRepository struct {
	db core.DB
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db core.DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) Execute(ctx context.Context, res string, q query.CanonicalQuery) (query.ResultPage[subject.Subject], error) {
	rows, total, err := execute[subjectRow](ctx, repo.db, subjects, res, q)
	if err != nil {
		return query.ResultPage[subject.Subject]{}, err
	}
	page := query.ResultPage[subject.Subject]{Rows: make([]subject.Subject, 0, len(rows)), Total: total}
	for _, r := range rows {
		page.Rows = append(page.Rows, r.toSubject())
	}
	return page, nil
}

func (repo *subjectRepository) FetchOne(ctx context.Context, _, id string) (subject.Subject, error) {
	row, err := fetchOne[subjectRow](ctx, repo.db, subjects, "s.id", id)
	if err != nil {
		return subject.Subject{}, err
	}
	return row.toSubject(), nil
}

func (repo *subjectRepository) CheckCodeUniqueness(ctx context.Context, code string) error {
	found, err := exists(ctx, repo.db, "subjects", "code", code)
	if err != nil {
		return errors.Wrap(err, "checking subject code")
	}
	if found {
		return subject.ErrCodeExists
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, subj subject.Subject) (subject.Subject, error) {
	var deptID null.Int
	if subj.Department != nil {
		deptID = null.IntFrom(subj.Department.ID)
	}
	id, err := insert(ctx, repo.db, psql.Insert("subjects").
		Columns("code", "name", "description", "department_id", "created_at").
		Values(subj.Code, subj.Name, subj.Description, deptID, subj.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return subject.Subject{}, subject.ErrCodeExists
		}
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	subj.ID = id
	return subj, nil
}
