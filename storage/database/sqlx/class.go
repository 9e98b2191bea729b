package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/class"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/user"
)

var errDuplicateInviteCode = errors.New("duplicate invite code")

var classes = table{
	resource: class.ResourceName,
	from: func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.From("classes c").
			LeftJoin("subjects s ON s.id = c.subject_id").
			LeftJoin("users t ON t.id = c.teacher_id").
			LeftJoin("departments d ON d.id = c.department_id")
	},
	columns: []string{
		"c.id", "c.name", "c.description", "c.status", "c.capacity", "c.course_code", "c.course_name",
		"c.banner_url", "c.banner_cld_pub_id", "c.invite_code", "c.schedules", "c.created_at",
		"s.id AS subject_id", "s.code AS subject_code", "s.name AS subject_name",
		"t.id AS teacher_id", "t.name AS teacher_name", "t.email AS teacher_email", "t.image AS teacher_image",
		"d.id AS department_id", "d.code AS department_code", "d.name AS department_name",
	},
	fields: map[string]string{
		"id":          "c.id",
		"name":        "c.name",
		"status":      "c.status",
		"capacity":    "c.capacity",
		"course_code": "c.course_code",
		"created_at":  "c.created_at",
		"subject":     "s.name",
		"teacher":     "t.name",
		"department":  "d.name",
	},
}

type classRow struct {
	ID             int         `db:"id"`
	Name           string      `db:"name"`
	Description    string      `db:"description"`
	Status         string      `db:"status"`
	Capacity       int         `db:"capacity"`
	CourseCode     string      `db:"course_code"`
	CourseName     string      `db:"course_name"`
	BannerURL      string      `db:"banner_url"`
	BannerCldPubID string      `db:"banner_cld_pub_id"`
	InviteCode     string      `db:"invite_code"`
	Schedules      null.JSON   `db:"schedules"`
	CreatedAt      time.Time   `db:"created_at"`
	SubjectID      null.Int    `db:"subject_id"`
	SubjectCode    null.String `db:"subject_code"`
	SubjectName    null.String `db:"subject_name"`
	TeacherID      null.Int    `db:"teacher_id"`
	TeacherName    null.String `db:"teacher_name"`
	TeacherEmail   null.String `db:"teacher_email"`
	TeacherImage   null.String `db:"teacher_image"`
	DepartmentID   null.Int    `db:"department_id"`
	DepartmentCode null.String `db:"department_code"`
	DepartmentName null.String `db:"department_name"`
}

func (r classRow) toClass() (class.Class, error) {
	cls := class.Class{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Status:         r.Status,
		Capacity:       r.Capacity,
		CourseCode:     r.CourseCode,
		CourseName:     r.CourseName,
		BannerURL:      r.BannerURL,
		BannerCldPubID: r.BannerCldPubID,
		InviteCode:     r.InviteCode,
		Department:     joinedDepartment(r.DepartmentID, r.DepartmentCode, r.DepartmentName),
		Schedules:      make([]class.Schedule, 0),
		CreatedAt:      r.CreatedAt.UTC(),
	}
	if r.SubjectID.Valid {
		cls.Subject = &subject.Subject{ID: r.SubjectID.Int, Code: r.SubjectCode.String, Name: r.SubjectName.String}
	}
	if r.TeacherID.Valid {
		cls.Teacher = &user.User{
			ID:    r.TeacherID.Int,
			Name:  r.TeacherName.String,
			Email: r.TeacherEmail.String,
			Role:  user.RoleTeacher,
			Image: r.TeacherImage.String,
		}
	}
	if r.Schedules.Valid && len(r.Schedules.JSON) > 0 {
		if err := r.Schedules.Unmarshal(&cls.Schedules); err != nil {
			return class.Class{}, errors.Wrapf(err, "decoding schedules of class %d", r.ID)
		}
	}
	return cls, nil
}

type classRepository struct {
	db core.DB
}

var _ class.Repository = (*classRepository)(nil)

func NewClassRepository(db core.DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) Execute(ctx context.Context, res string, q query.CanonicalQuery) (query.ResultPage[class.Class], error) {
	rows, total, err := execute[classRow](ctx, repo.db, classes, res, q)
	if err != nil {
		return query.ResultPage[class.Class]{}, err
	}
	page := query.ResultPage[class.Class]{Rows: make([]class.Class, 0, len(rows)), Total: total}
	for _, r := range rows {
		cls, err := r.toClass()
		if err != nil {
			return query.ResultPage[class.Class]{}, err
		}
		page.Rows = append(page.Rows, cls)
	}
	return page, nil
}

func (repo *classRepository) FetchOne(ctx context.Context, _, id string) (class.Class, error) {
	row, err := fetchOne[classRow](ctx, repo.db, classes, "c.id", id)
	if err != nil {
		return class.Class{}, err
	}
	return row.toClass()
}

func (repo *classRepository) CreateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	schedules := cls.Schedules
	if schedules == nil {
		schedules = make([]class.Schedule, 0)
	}
	data, err := json.Marshal(schedules)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "encoding schedules")
	}

	var subjectID, teacherID, deptID null.Int
	if cls.Subject != nil {
		subjectID = null.IntFrom(cls.Subject.ID)
	}
	if cls.Teacher != nil {
		teacherID = null.IntFrom(cls.Teacher.ID)
	}
	if cls.Department != nil {
		deptID = null.IntFrom(cls.Department.ID)
	}

	id, err := insert(ctx, repo.db, psql.Insert("classes").
		Columns(
			"name", "description", "status", "capacity", "course_code", "course_name", "banner_url",
			"banner_cld_pub_id", "invite_code", "subject_id", "teacher_id", "department_id", "schedules", "created_at",
		).
		Values(
			cls.Name, cls.Description, cls.Status, cls.Capacity, cls.CourseCode, cls.CourseName, cls.BannerURL,
			cls.BannerCldPubID, cls.InviteCode, subjectID, teacherID, deptID, null.JSONFrom(data), cls.CreatedAt,
		))
	if err != nil {
		if isUniqueViolation(err) {
			return class.Class{}, errors.Wrap(errDuplicateInviteCode, cls.InviteCode)
		}
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	cls.ID = id
	return cls, nil
}
