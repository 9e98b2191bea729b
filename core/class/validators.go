package class

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-admin/core"
)

var (
	classStatusTag  = "classstatus"
	classStatusText = "status must be one of: active, inactive"

	scheduleOrderTag  = "schedorder"
	scheduleOrderText = "end time must be after start time"
)

// InitValidators registers the class validations on validate. Call core.InitValidators first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(classStatusTag, classStatusValidation)
	core.RegisterCustomTranslation(validate, translator, classStatusTag, classStatusText)

	validate.RegisterStructValidation(scheduleStructValidation, Schedule{})
	core.RegisterCustomTranslation(validate, translator, scheduleOrderTag, scheduleOrderText)
}

func classStatusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// scheduleStructValidation checks that a slot ends after it starts; "HH:MM" strings compare lexically.
func scheduleStructValidation(sl validator.StructLevel) {
	sched, ok := sl.Current().Interface().(Schedule)
	if !ok || sched.StartTime == "" || sched.EndTime == "" {
		return
	}
	if sched.EndTime <= sched.StartTime {
		sl.ReportError(sched.EndTime, "end_time", "EndTime", scheduleOrderTag, "")
	}
}
