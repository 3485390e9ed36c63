package access

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type recordedRedirect struct {
	Target string
	From   string
}

type recordingNavigator struct {
	redirects []recordedRedirect
}

func (n *recordingNavigator) Replace(target, from string) {
	n.redirects = append(n.redirects, recordedRedirect{Target: target, From: from})
}

func newTestGuard() (*Guard, *recordingNavigator) {
	nav := &recordingNavigator{}
	return NewGuard(NewResolver(nil), nav, "/sign-in", "/forbidden"), nav
}

func TestGuard_Evaluate(t *testing.T) {
	admissions, _ := DefaultRegistry.Find("/admissions")
	dashboard, _ := DefaultRegistry.Find("/dashboard")
	sso, _ := DefaultRegistry.Find("/settings/sso")

	t.Run("loading renders placeholder and does not navigate", func(t *testing.T) {
		g, nav := newTestGuard()
		assert.Equal(t, VerdictLoading, g.Evaluate(Loading(), dashboard))
		assert.Empty(t, nav.redirects)
	})

	t.Run("unauthenticated redirects to sign-in carrying from", func(t *testing.T) {
		g, nav := newTestGuard()
		assert.Equal(t, VerdictRedirect, g.Evaluate(Unauthenticated(), dashboard))
		assert.Equal(t, []recordedRedirect{{Target: "/sign-in", From: "/dashboard"}}, nav.redirects)
	})

	t.Run("loading then unauthenticated", func(t *testing.T) {
		g, nav := newTestGuard()
		assert.Equal(t, VerdictLoading, g.Evaluate(Loading(), dashboard))
		assert.Equal(t, VerdictRedirect, g.Evaluate(Unauthenticated(), dashboard))
		assert.Equal(t, []recordedRedirect{{Target: "/sign-in", From: "/dashboard"}}, nav.redirects)
	})

	t.Run("redirect is idempotent", func(t *testing.T) {
		g, nav := newTestGuard()
		g.Evaluate(Unauthenticated(), dashboard)
		g.Evaluate(Unauthenticated(), dashboard)
		assert.Len(t, nav.redirects, 1)
	})

	t.Run("authenticated without capability goes to forbidden, not sign-in", func(t *testing.T) {
		g, nav := newTestGuard()
		state := Authenticated(Principal{ID: "s1", Role: RoleStudent, Entitlement: TierCore})
		assert.Equal(t, VerdictRedirect, g.Evaluate(state, admissions))
		assert.Equal(t, []recordedRedirect{{Target: "/forbidden", From: "/admissions"}}, nav.redirects)
	})

	t.Run("authenticated with capability renders", func(t *testing.T) {
		g, nav := newTestGuard()
		state := Authenticated(Principal{ID: "a1", Role: RoleAdmin, Entitlement: TierEnterprise})
		assert.Equal(t, VerdictRender, g.Evaluate(state, sso))
		assert.Empty(t, nav.redirects)
	})

	t.Run("uncapped route renders for any authenticated principal", func(t *testing.T) {
		g, _ := newTestGuard()
		state := Authenticated(Principal{ID: "x", Role: Role("auditor"), Entitlement: TierCore})
		assert.Equal(t, VerdictRender, g.Evaluate(state, dashboard))
	})

	t.Run("sign-out after sign-in redirects again", func(t *testing.T) {
		g, nav := newTestGuard()
		state := Authenticated(Principal{ID: "a1", Role: RoleAdmin, Entitlement: TierEnterprise})
		g.Evaluate(Unauthenticated(), dashboard)
		assert.Equal(t, VerdictRender, g.Evaluate(state, dashboard))
		g.Evaluate(Unauthenticated(), dashboard)
		assert.Len(t, nav.redirects, 2)
	})

	t.Run("authenticated state without principal fails closed", func(t *testing.T) {
		g, nav := newTestGuard()
		assert.Equal(t, VerdictRedirect, g.Evaluate(AuthState{Status: StatusAuthenticated}, dashboard))
		assert.Equal(t, "/sign-in", nav.redirects[0].Target)
	})

	t.Run("guarded content never renders without the capability", func(t *testing.T) {
		// property over the registry × role/tier matrix
		for _, role := range append(Roles, Role("auditor")) {
			for _, tier := range Tiers {
				caps := Resolve(role, tier)
				state := Authenticated(Principal{ID: "p", Role: role, Entitlement: tier})
				for _, item := range DefaultRegistry {
					routes := append([]RouteItem{item}, item.Children...)
					for _, route := range routes {
						g, _ := newTestGuard()
						verdict := g.Evaluate(state, route)
						if route.Cap != "" && !caps.Has(route.Cap) {
							assert.NotEqual(t, VerdictRender, verdict,
								"role %s tier %s rendered %q", role, tier, route.Path)
						}
					}
				}
			}
		}
	})
}

type staticProvider struct {
	state AuthState
	err   error
}

func (p staticProvider) State() (AuthState, error) { return p.state, p.err }

func TestGuard_EvaluateFrom(t *testing.T) {
	dashboard, _ := DefaultRegistry.Find("/dashboard")

	t.Run("provider error fails closed into unauthenticated", func(t *testing.T) {
		g, nav := newTestGuard()
		provider := staticProvider{
			state: Authenticated(Principal{ID: "a1", Role: RoleAdmin, Entitlement: TierEnterprise}),
			err:   errors.New("session backend unavailable"),
		}
		assert.Equal(t, VerdictRedirect, g.EvaluateFrom(provider, dashboard))
		assert.Equal(t, "/sign-in", nav.redirects[0].Target)
	})

	t.Run("healthy provider passes through", func(t *testing.T) {
		g, _ := newTestGuard()
		provider := staticProvider{state: Authenticated(Principal{ID: "a1", Role: RoleAdmin, Entitlement: TierEnterprise})}
		assert.Equal(t, VerdictRender, g.EvaluateFrom(provider, dashboard))
	})
}
