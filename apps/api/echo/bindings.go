package echoapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/table"
)

const (
	searchParam   = "search"
	pageParam     = "page"
	pageSizeParam = "page_size"
	orderingParam = "ordering"

	maxPageSize = 100
)

// bindListEvents turns the list query params into table events. Only the given dimensions are
// read as categorical params; "all" (or an empty value) lifts a dimension's constraint.
func bindListEvents(ctx echo.Context, dimensions []string) ([]table.Event, error) {
	params := ctx.QueryParams()
	events := []table.Event{table.SearchChanged{Text: core.CleanString(params.Get(searchParam))}}

	for _, dim := range dimensions {
		if _, ok := params[dim]; ok {
			events = append(events, table.CategoricalChanged{
				Field:      dim,
				Constraint: query.ParseConstraint(params.Get(dim), query.AllSentinel),
			})
		}
	}
	if raw := params.Get(orderingParam); raw != "" {
		events = append(events, table.SortChanged{Sort: query.ParseOrdering(raw)})
	}
	if raw := params.Get(pageSizeParam); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 || size > maxPageSize {
			return nil, core.NewValidationError(
				errors.Errorf("invalid page size %q", raw),
				core.FieldError{Field: pageSizeParam, Error: "must be a number between 1 and " + strconv.Itoa(maxPageSize)},
			)
		}
		events = append(events, table.PageSizeChanged{Size: size})
	}
	if raw := params.Get(pageParam); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil || index < 0 {
			return nil, core.NewValidationError(
				errors.Errorf("invalid page %q", raw),
				core.FieldError{Field: pageParam, Error: "must be a positive number"},
			)
		}
		events = append(events, table.PageChanged{Index: index})
	}
	return append(events, table.RefreshRequested{}), nil
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	NavigateResponse struct {
		Path string `json:"path"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

// bindJSON binds the request body into v, reporting malformed bodies as validation errors.
func bindJSON(ctx echo.Context, v interface{}) error {
	if err := ctx.Bind(v); err != nil {
		var herr *echo.HTTPError
		if errors.As(err, &herr) {
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "binding request body")
	}
	return nil
}
