package class

import (
	"context"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/resource"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/user"
)

var (
	errUnknownSubject    = errors.New("subject does not exist")
	errUnknownTeacher    = errors.New("teacher does not exist")
	errUnknownDepartment = errors.New("department does not exist")

	newInviteCode = defaultInviteCode // mockable
)

type (
	Repository interface {
		query.DataAccess[Class]
		query.DetailFetcher[Class]
		CreateClass(ctx context.Context, cls Class) (Class, error)
	}

	Service struct {
		repo     Repository
		subjects query.DetailFetcher[subject.Subject]
		users    query.DetailFetcher[user.User]
		depts    query.DetailFetcher[department.Department]
		mailSvc  core.EmailService
		routes   *resource.Table
		conf     *core.Config
	}
)

func NewService(
	repo Repository,
	subjects subject.Repository,
	users user.Repository,
	depts department.Repository,
	mailSvc core.EmailService,
	routes *resource.Table,
	conf *core.Config,
) *Service {
	return &Service{
		repo:     repo,
		subjects: subjects,
		users:    users,
		depts:    depts,
		mailSvc:  mailSvc,
		routes:   routes,
		conf:     conf,
	}
}

// Create expects nc to be validated already. The teacher is notified by email.
func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	subj, err := svc.subjects.FetchOne(ctx, subject.ResourceName, strconv.Itoa(nc.SubjectID))
	if err != nil {
		return Class{}, relationError(err, "subject_id", errUnknownSubject)
	}
	teacher, err := svc.users.FetchOne(ctx, user.ResourceName, strconv.Itoa(nc.TeacherID))
	if err == nil && !teacher.IsTeacher() {
		err = core.ErrNotFound
	}
	if err != nil {
		return Class{}, relationError(err, "teacher_id", errUnknownTeacher)
	}

	cls := Class{
		Name:           nc.Name,
		Description:    nc.Description,
		Status:         nc.Status,
		Capacity:       nc.Capacity,
		CourseCode:     nc.CourseCode,
		CourseName:     nc.CourseName,
		BannerURL:      nc.BannerURL,
		BannerCldPubID: nc.BannerCldPubID,
		InviteCode:     newInviteCode(),
		Subject:        &subj,
		Teacher:        &teacher,
		Schedules:      append([]Schedule{}, nc.Schedules...),
		CreatedAt:      time.Now().UTC(),
	}
	if nc.DepartmentID > 0 {
		dept, err := svc.depts.FetchOne(ctx, department.ResourceName, strconv.Itoa(nc.DepartmentID))
		if err != nil {
			return Class{}, relationError(err, "department_id", errUnknownDepartment)
		}
		cls.Department = &dept
	} else if subj.Department != nil {
		cls.Department = subj.Department
	}

	cls, err = svc.repo.CreateClass(ctx, cls)
	if err != nil {
		return Class{}, errors.Wrap(err, "creating class")
	}

	svc.mailSvc.SendMessages(svc.teacherNotification(cls))
	return cls, nil
}

// defaultInviteCode returns 8 upper-case hex characters of a random UUID.
func defaultInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func relationError(err error, field string, unknown error) error {
	if core.IsNotFound(err) {
		return core.NewValidationError(unknown, core.FieldError{Field: field, Error: unknown.Error()})
	}
	return errors.Wrapf(err, "fetching %s", strings.TrimSuffix(field, "_id"))
}

// assignedEmail feeds the class_assigned email templates.
type assignedEmail struct {
	TeacherName string
	ClassName   string
	SubjectName string
	InviteCode  string
	Link        string
}

func (svc *Service) teacherNotification(cls Class) *core.EmailMessage {
	link := svc.conf.FrontendBaseURL
	if path, err := svc.routes.Resolve(resource.ShowIntent(ResourceName, strconv.Itoa(cls.ID))); err == nil {
		link += path
	}

	data := assignedEmail{
		TeacherName: cls.Teacher.Name,
		ClassName:   cls.Name,
		InviteCode:  cls.InviteCode,
		Link:        link,
	}
	if cls.Subject != nil {
		data.SubjectName = cls.Subject.Name
	}

	return &core.EmailMessage{
		To:           []mail.Address{{Name: cls.Teacher.Name, Address: cls.Teacher.Email}},
		Subject:      "New class: " + cls.Name,
		TemplateName: "class_assigned",
		TemplateData: data,
	}
}

// Detail fetches one class and wraps the outcome in its detail view.
func (svc *Service) Detail(ctx context.Context, id string) Detail {
	cls, err := svc.repo.FetchOne(ctx, ResourceName, id)
	return NewDetail(cls, err)
}

func (svc *Service) Data() query.DataAccess[Class] { return svc.repo }
