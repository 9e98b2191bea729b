package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/table"
)

// listHandler serves a list screen. Each request drives a fresh controller through the events
// bound from its query params, so the response is the view the screen would show after them.
func listHandler[R any](newTable func() *table.Controller[R], dimensions []string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		events, err := bindListEvents(ctx, dimensions)
		if err != nil {
			return err
		}

		ctrl := newTable()
		if err = ctrl.Batch(ctx.Request().Context(), events...); err != nil {
			if errors.Is(err, query.ErrUnknownSortField) {
				return core.NewValidationError(err, core.FieldError{
					Field: orderingParam,
					Error: fmt.Sprintf("cannot order by %q", ctx.QueryParam(orderingParam)),
				})
			}
			if core.IsFetchFailure(err) {
				return ctx.JSON(http.StatusBadGateway, ctrl.View())
			}
			return errors.Wrap(err, "refreshing table")
		}
		return ctx.JSON(http.StatusOK, ctrl.View())
	}
}
