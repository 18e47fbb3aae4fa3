package echoapi

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
)

var errObjNotFoundInCtx = errors.New("object not found in echo.Context")

// secretariaMiddleware restricts the route to secretaria usuarios.
func secretariaMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsSecretaria() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// objectMiddleware loads the `:id` record into the context.
// Records the bearer may not access respond 404, as missing ones do.
func objectMiddleware[T any](
	get func(ctx context.Context, id string) (T, error),
	canAccess func(ctx echo.Context, claims Claims, obj T) (bool, error),
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}

			obj, err := get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if core.IsNotFound(err) {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding object by ID")
			}
			if canAccess != nil {
				ok, err := canAccess(ctx, claims, obj)
				if err != nil {
					return errors.Wrap(err, "checking object access")
				}
				if !ok {
					return errHttpNotFound
				}
			}
			ctx.Set(contextObjectKey, obj)
			return next(ctx)
		}
	}
}

func getContextObject[T any](ctx echo.Context) (T, error) {
	obj, ok := ctx.Get(contextObjectKey).(T)
	if !ok {
		return obj, errors.Wrap(errObjNotFoundInCtx, "retrieving object from context")
	}
	return obj, nil
}
