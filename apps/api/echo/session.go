package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/user"
)

func (s *Server) login(ctx echo.Context) error {
	var data LoginRequest
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(s.opts.Validate); err != nil {
		return err
	}

	usr, err := s.opts.UserSvc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrInvalidCredentials:
			return core.NewValidationError(err)
		case user.ErrAccountDeactivated:
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return errors.Wrap(err, "authenticating user")
	}

	token, err := s.opts.Auth.GenerateToken(s.opts.Auth.UserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}
