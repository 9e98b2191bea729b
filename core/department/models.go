package department

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-admin/core"
)

const ResourceName = "departments"

type Department struct {
	ID          int       `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewDepartment contains information needed to create a new Department.
type NewDepartment struct {
	Code        string `json:"code" validate:"required,max=10,alphanum_"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (nd *NewDepartment) Validate(validate *validator.Validate) error {
	nd.Code = strings.ToUpper(core.CleanString(nd.Code))
	nd.Name = core.CleanString(nd.Name)
	nd.Description = core.CleanString(nd.Description)
	return validate.Struct(nd)
}
