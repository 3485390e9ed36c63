package echoapi

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/access"
)

// capabilityMiddleware re-resolves the bearer's capability set on every
// request and rejects the call when the required capability is missing.
// It shares the resolution tables with the navigation filter, so a route
// hidden from the menu is denied here too.
func capabilityMiddleware(resolver *access.Resolver, cap access.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			p, err := getContextPrincipal(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context principal")
			}
			if resolver.Has(p, cap) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// timeoutMiddleware bounds each request's context. Timed-out requests
// surface as 504, distinct from permission failures.
func timeoutMiddleware(delta time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if delta <= 0 {
				return next(ctx)
			}
			c, cancel := context.WithTimeout(ctx.Request().Context(), delta)
			defer cancel()
			ctx.SetRequest(ctx.Request().WithContext(c))
			return next(ctx)
		}
	}
}
