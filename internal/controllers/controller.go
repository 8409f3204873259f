package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gearguard/internal/authz"
	"gearguard/internal/services"
	apperrors "gearguard/pkg/errors"
)

// actorFrom resolves the authenticated actor (identity plus role) for the
// current request. Every protected handler calls this before its service.
func actorFrom(ctx echo.Context, roleService services.RoleServiceInterface) (authz.Actor, error) {
	return roleService.ActorFromContext(ctx.Request().Context())
}

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"invalid "+name+" parameter",
			err,
			map[string]interface{}{"param": ctx.Param(name)},
		)
	}
	return id, nil
}

func bindAndValidate(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil)
	}
	return ctx.Validate(payload)
}
