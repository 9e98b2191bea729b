package class

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
)

// DetailState is the lifecycle of a class detail screen.
type DetailState string

const (
	DetailLoading  DetailState = "loading"
	DetailFailed   DetailState = "failed"
	DetailNotFound DetailState = "not_found"
	DetailReady    DetailState = "ready"
)

const (
	msgLoading  = "Loading class details..."
	msgFailed   = "Failed to load class details..."
	msgNotFound = "Class details not found"

	unknownTeacher     = "unknown"
	noInitials         = "NA"
	placeholderURLBase = "https://placeholder.co/600x400?text?="
)

type Instructor struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Initials string `json:"initials"`
	Image    string `json:"image"` // the teacher's image or a placeholder built from the initials
}

// Detail is the view model of the class detail screen.
type Detail struct {
	State         DetailState `json:"state"`
	Message       string      `json:"message,omitempty"`
	Class         *Class      `json:"class,omitempty"`
	Instructor    *Instructor `json:"instructor,omitempty"`
	StatusLabel   string      `json:"status_label,omitempty"`
	StatusVariant string      `json:"status_variant,omitempty"`
	CapacityLabel string      `json:"capacity_label,omitempty"`
	HasBanner     bool        `json:"has_banner"`
}

func loadingDetail() Detail {
	return Detail{State: DetailLoading, Message: msgLoading}
}

// NewDetail builds the detail view from the outcome of a fetch.
// A fetch cut short by its context never settled, so the screen is still loading.
func NewDetail(cls Class, err error) Detail {
	switch {
	case core.IsNotFound(err):
		return Detail{State: DetailNotFound, Message: msgNotFound}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return loadingDetail()
	case err != nil:
		return Detail{State: DetailFailed, Message: msgFailed}
	}

	name := unknownTeacher
	var email, image string
	if cls.Teacher != nil {
		name = cls.Teacher.Name
		email = cls.Teacher.Email
		image = cls.Teacher.Image
	}
	initials := TeacherInitials(name)
	if image == "" {
		image = PlaceholderURL(initials)
	}

	return Detail{
		State:         DetailReady,
		Class:         &cls,
		Instructor:    &Instructor{Name: name, Email: email, Initials: initials, Image: image},
		StatusLabel:   strings.ToUpper(cls.Status),
		StatusVariant: StatusVariant(cls.Status),
		CapacityLabel: fmt.Sprintf("%d spots", cls.Capacity),
		HasBanner:     cls.BannerURL != "",
	}
}

// TeacherInitials upper-cases the first letter of the first two words of name.
func TeacherInitials(name string) string {
	parts := strings.Fields(name)
	if len(parts) > 2 {
		parts = parts[:2]
	}

	var b strings.Builder
	for _, part := range parts {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// PlaceholderURL returns the placeholder image URL for initials, "NA" when there are none.
func PlaceholderURL(initials string) string {
	if initials == "" {
		initials = noInitials
	}
	return placeholderURLBase + url.QueryEscape(initials)
}

// StatusVariant picks the badge variant of a class status.
func StatusVariant(status string) string {
	if status == StatusActive {
		return "default"
	}
	return "secondary"
}
