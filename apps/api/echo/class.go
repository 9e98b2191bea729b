package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/class"
	"github.com/trezcool/masomo-admin/core/refdata"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/table"
	"github.com/trezcool/masomo-admin/core/user"
)

type classApi struct {
	svc         *class.Service
	validate    *validator.Validate
	logger      core.Logger
	subjects    *refdata.Fetcher[subject.Subject]
	teachers    *refdata.Fetcher[user.User]
	pageSize    int
	optPageSize int
}

func registerClassAPI(g *echo.Group, opts *Options) {
	api := classApi{
		svc:         opts.ClassSvc,
		validate:    opts.Validate,
		logger:      opts.Logger,
		subjects:    opts.Subjects,
		teachers:    opts.Teachers,
		pageSize:    opts.ListPageSize,
		optPageSize: opts.OptionsPageSize,
	}

	cg := g.Group("/classes")
	cg.GET("", listHandler(api.newTable, class.Dimensions))
	cg.POST("", api.create)
	cg.GET("/options", api.filterOptions)
	cg.GET("/:id", api.retrieve)
}

func (api *classApi) newTable() *table.Controller[class.Class] {
	return class.NewTable(api.svc.Data(), api.pageSize, api.logger)
}

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) filterOptions(ctx echo.Context) error {
	opts := class.LoadFilterOptions(ctx.Request().Context(), api.subjects, api.teachers, api.optPageSize)
	return ctx.JSON(http.StatusOK, opts)
}

// retrieve always answers with the detail view; its state picks the status code.
func (api *classApi) retrieve(ctx echo.Context) error {
	detail := api.svc.Detail(ctx.Request().Context(), ctx.Param("id"))

	code := http.StatusOK
	switch detail.State {
	case class.DetailNotFound:
		code = http.StatusNotFound
	case class.DetailFailed:
		code = http.StatusBadGateway
	case class.DetailLoading:
		code = http.StatusGatewayTimeout
	}
	return ctx.JSON(code, detail)
}
