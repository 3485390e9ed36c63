package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/access"
	"github.com/darasahq/darasa/core/org"
)

type navApi struct {
	orgSvc   *org.Service
	registry access.Registry
	resolver *access.Resolver
}

func registerNavAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	orgSvc *org.Service,
	registry access.Registry,
	resolver *access.Resolver,
) {
	api := navApi{
		orgSvc:   orgSvc,
		registry: registry,
		resolver: resolver,
	}

	g.GET("/nav", api.nav, jwt)
	g.GET("/session", api.session, jwt)
}

// Handlers

// nav returns the route tree the bearer may see, filtered by the same
// capability and feature tables the route guard enforces with.
func (api *navApi) nav(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context principal")
	}

	o, err := api.orgSvc.Get(ctx.Request().Context(), p.OrgID)
	if err != nil {
		return errors.Wrap(err, "finding organization")
	}

	routes := access.VisibleRoutes(api.registry, api.resolver.Resolve(p), o.FeatureSet())
	if routes == nil {
		routes = []access.RouteItem{}
	}
	return ctx.JSON(http.StatusOK, PageResponse{Data: routes, Count: len(routes)})
}

// session echoes the resolved identity back to the client: who the
// server thinks the bearer is and what they can do.
func (api *navApi) session(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	p := claims.Principal()
	caps := api.resolver.Resolve(p).List()

	return ctx.JSON(http.StatusOK, SessionResponse{
		UserID:       p.ID,
		Username:     claims.Username,
		OrgID:        p.OrgID,
		Role:         string(p.Role),
		Tier:         string(p.Entitlement),
		Capabilities: caps,
	})
}

type SessionResponse struct {
	UserID       string              `json:"user_id"`
	Username     string              `json:"username"`
	OrgID        string              `json:"org_id"`
	Role         string              `json:"role"`
	Tier         string              `json:"tier"`
	Capabilities []access.Capability `json:"capabilities"`
}
