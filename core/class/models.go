package class

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/user"
)

const ResourceName = "classes"

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var AllStatuses = []string{StatusActive, StatusInactive}

type Schedule struct {
	Day       string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

type Class struct {
	ID             int                    `json:"id"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Status         string                 `json:"status"`
	Capacity       int                    `json:"capacity"`
	CourseCode     string                 `json:"course_code"`
	CourseName     string                 `json:"course_name"`
	BannerURL      string                 `json:"banner_url,omitempty"`
	BannerCldPubID string                 `json:"banner_cld_pub_id,omitempty"`
	InviteCode     string                 `json:"invite_code"`
	Subject        *subject.Subject       `json:"subject"`
	Teacher        *user.User             `json:"teacher"`
	Department     *department.Department `json:"department"`
	Schedules      []Schedule             `json:"schedules"`
	CreatedAt      time.Time              `json:"created_at"` // UTC
}

func (c Class) IsActive() bool { return c.Status == StatusActive }

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name           string     `json:"name" validate:"required,max=100"`
	Description    string     `json:"description" validate:"max=1000"`
	Status         string     `json:"status" validate:"required,classstatus"`
	Capacity       int        `json:"capacity" validate:"required,gt=0,lte=500"`
	CourseCode     string     `json:"course_code" validate:"max=20"`
	CourseName     string     `json:"course_name" validate:"max=100"`
	BannerURL      string     `json:"banner_url" validate:"omitempty,url"`
	BannerCldPubID string     `json:"banner_cld_pub_id" validate:"max=255"`
	SubjectID      int        `json:"subject_id" validate:"required,gt=0"`
	TeacherID      int        `json:"teacher_id" validate:"required,gt=0"`
	DepartmentID   int        `json:"department_id" validate:"omitempty,gt=0"`
	Schedules      []Schedule `json:"schedules" validate:"dive"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	nc.Status = core.CleanString(nc.Status, true /* lower */)
	nc.CourseCode = core.CleanString(nc.CourseCode)
	nc.CourseName = core.CleanString(nc.CourseName)
	nc.BannerURL = core.CleanString(nc.BannerURL)
	for i := range nc.Schedules {
		nc.Schedules[i].Day = core.CleanString(nc.Schedules[i].Day, true /* lower */)
	}
	if nc.Status == "" {
		nc.Status = StatusActive
	}
	return validate.Struct(nc)
}
