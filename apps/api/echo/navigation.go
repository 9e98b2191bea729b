package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/dashboard"
	"github.com/trezcool/masomo-admin/core/resource"
)

type navigationApi struct {
	routes    *resource.Table
	dashboard *dashboard.Service
}

func registerNavigationAPI(g *echo.Group, routes *resource.Table, dash *dashboard.Service) {
	api := navigationApi{routes: routes, dashboard: dash}

	g.GET("/resources", api.resources)
	g.POST("/navigate", api.navigate)
	g.GET("/dashboard", api.totals)
}

func (api *navigationApi) resources(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.routes.Resources())
}

// navigate resolves a screen intent into the path the frontend should open.
func (api *navigationApi) navigate(ctx echo.Context) error {
	var in resource.Intent
	if err := bindJSON(ctx, &in); err != nil {
		return err
	}
	path, err := api.routes.Resolve(in)
	if err != nil {
		return core.NewValidationError(err)
	}
	return ctx.JSON(http.StatusOK, NavigateResponse{Path: path})
}

func (api *navigationApi) totals(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.dashboard.Totals(ctx.Request().Context()))
}
