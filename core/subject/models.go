package subject

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/department"
)

const ResourceName = "subjects"

type Subject struct {
	ID          int                    `json:"id"`
	Code        string                 `json:"code"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Department  *department.Department `json:"department"`
	CreatedAt   time.Time              `json:"created_at"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Code         string `json:"code" validate:"required,max=10,alphanum_"`
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=1000"`
	DepartmentID int    `json:"department_id" validate:"omitempty,gt=0"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Code = strings.ToUpper(core.CleanString(ns.Code))
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)
	return validate.Struct(ns)
}
