package access

// Verdict is the guard's synchronous decision for one AuthState value.
type Verdict int

const (
	// VerdictLoading: render a neutral loading placeholder, take no action.
	VerdictLoading Verdict = iota
	// VerdictRender: the wrapped content may be shown.
	VerdictRender
	// VerdictRedirect: a redirect was issued via the Navigator.
	VerdictRedirect
)

// Navigator performs history navigation. Redirects issued by the guard
// always replace the current entry so back-navigation cannot loop onto
// the guarded page.
type Navigator interface {
	// Replace navigates to target, carrying the originally requested
	// location so a successful sign-in can return the user there.
	Replace(target, from string)
}

// Guard gates rendering of protected content on the resolved AuthState.
// Evaluation is synchronous; the only asynchronous wait is the loading
// state itself. Guard is not safe for concurrent use: it mirrors a
// single-threaded, event-driven client.
type Guard struct {
	resolver  *Resolver
	nav       Navigator
	signIn    string
	forbidden string

	lastTarget string // dedups consecutive identical redirects
}

func NewGuard(resolver *Resolver, nav Navigator, signInPath, forbiddenPath string) *Guard {
	return &Guard{
		resolver:  resolver,
		nav:       nav,
		signIn:    signInPath,
		forbidden: forbiddenPath,
	}
}

// Evaluate decides, for one delivered AuthState, whether route's content
// may render. Unauthenticated principals are redirected to sign-in;
// authenticated principals lacking the route's capability are redirected
// to the forbidden fallback. The two destinations are distinct: one
// failure is "who are you", the other "you may not do this".
func (g *Guard) Evaluate(state AuthState, route RouteItem) Verdict {
	switch state.Status {
	case StatusLoading:
		g.lastTarget = ""
		return VerdictLoading

	case StatusAuthenticated:
		p := state.Principal
		if p == nil {
			// a malformed authenticated state never renders protected content
			g.redirect(g.signIn, route.Path)
			return VerdictRedirect
		}
		if route.Cap == "" || g.resolver.Resolve(*p).Has(route.Cap) {
			g.lastTarget = ""
			return VerdictRender
		}
		g.redirect(g.forbidden, route.Path)
		return VerdictRedirect

	default:
		g.redirect(g.signIn, route.Path)
		return VerdictRedirect
	}
}

// EvaluateFrom pulls the current AuthState from the provider, failing
// closed into unauthenticated behavior when the provider errors.
func (g *Guard) EvaluateFrom(provider AuthStateProvider, route RouteItem) Verdict {
	state, err := provider.State()
	if err != nil {
		state = Unauthenticated()
	}
	return g.Evaluate(state, route)
}

// redirect issues at most one navigation per distinct target: a repeat
// evaluation in the same state is a no-op, not a redirect loop.
func (g *Guard) redirect(target, from string) {
	if g.lastTarget == target {
		return
	}
	g.lastTarget = target
	g.nav.Replace(target, from)
}
