package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func paths(items []RouteItem) []string {
	ps := make([]string, 0, len(items))
	for _, item := range items {
		ps = append(ps, item.Path)
	}
	return ps
}

func TestVisibleRoutes(t *testing.T) {
	allFeatures := NewFeatureSet("attendance")

	t.Run("student core excludes entitled-only entries", func(t *testing.T) {
		caps := Resolve(RoleStudent, TierCore)
		visible := VisibleRoutes(DefaultRegistry, caps, allFeatures)

		got := paths(visible)
		assert.NotContains(t, got, "/admissions")
		assert.NotContains(t, got, "/students")
		assert.NotContains(t, got, "/settings")
		assert.Contains(t, got, "/dashboard")
		assert.Contains(t, got, "/profile")
		assert.Contains(t, got, "/courses")
	})

	t.Run("admin enterprise sees the full tree", func(t *testing.T) {
		caps := Resolve(RoleAdmin, TierEnterprise)
		visible := VisibleRoutes(DefaultRegistry, caps, allFeatures)

		got := paths(visible)
		assert.Equal(t, paths(DefaultRegistry), got)
		for _, item := range visible {
			if item.Path == "/settings" {
				assert.Equal(t, []string{"/settings/school", "/settings/users", "/settings/sso"}, paths(item.Children))
			}
		}
	})

	t.Run("admin core loses the sso child but keeps settings", func(t *testing.T) {
		caps := Resolve(RoleAdmin, TierCore)
		visible := VisibleRoutes(DefaultRegistry, caps, allFeatures)

		for _, item := range visible {
			if item.Path == "/settings" {
				assert.Equal(t, []string{"/settings/school", "/settings/users"}, paths(item.Children))
				return
			}
		}
		t.Fatal("/settings not visible")
	})

	t.Run("disabled feature hides the entry", func(t *testing.T) {
		caps := Resolve(RoleInstructor, TierGrowth)

		visible := VisibleRoutes(DefaultRegistry, caps, NewFeatureSet("attendance"))
		assert.Contains(t, paths(visible), "/attendance")

		visible = VisibleRoutes(DefaultRegistry, caps, NewFeatureSet())
		assert.NotContains(t, paths(visible), "/attendance")
	})

	t.Run("unknown role sees only uncapped entries", func(t *testing.T) {
		caps := Resolve(Role("auditor"), TierEnterprise)
		visible := VisibleRoutes(DefaultRegistry, caps, allFeatures)
		assert.Equal(t, []string{"/dashboard", "/profile"}, paths(visible))
	})

	t.Run("parent with no visible children is omitted", func(t *testing.T) {
		reg := NewRegistry(
			RouteItem{Path: "/open", LabelKey: "nav.open", Module: TierCore},
			RouteItem{
				Path: "/group", LabelKey: "nav.group", Module: TierCore,
				Children: []RouteItem{
					{Path: "/group/a", LabelKey: "nav.group.a", Cap: CapAuthSSO, Module: TierEnterprise},
				},
			},
		)
		visible := VisibleRoutes(reg, Resolve(RoleStudent, TierCore), NewFeatureSet())
		assert.Equal(t, []string{"/open"}, paths(visible))
	})

	t.Run("capability gating holds over the whole matrix", func(t *testing.T) {
		// no route with a cap the principal lacks is ever visible
		for _, role := range append(Roles, Role("auditor")) {
			for _, tier := range Tiers {
				caps := Resolve(role, tier)
				for _, item := range VisibleRoutes(DefaultRegistry, caps, allFeatures) {
					if item.Cap != "" {
						assert.True(t, caps.Has(item.Cap), "role %s tier %s leaked %q", role, tier, item.Path)
					}
					for _, child := range item.Children {
						if child.Cap != "" {
							assert.True(t, caps.Has(child.Cap), "role %s tier %s leaked %q", role, tier, child.Path)
						}
					}
				}
			}
		}
	})
}

func TestNewRegistry_defects(t *testing.T) {
	assert.Panics(t, func() {
		NewRegistry(
			RouteItem{Path: "/a", LabelKey: "a", Module: TierCore},
			RouteItem{Path: "/a", LabelKey: "b", Module: TierCore},
		)
	})
	assert.Panics(t, func() {
		NewRegistry(RouteItem{
			Path: "/a", LabelKey: "a", Module: TierCore,
			Children: []RouteItem{{
				Path: "/a/b", LabelKey: "b", Module: TierCore,
				Children: []RouteItem{{Path: "/a/b/c", LabelKey: "c", Module: TierCore}},
			}},
		})
	})
	// same path on different levels is allowed, same level is not
	assert.Panics(t, func() {
		NewRegistry(RouteItem{
			Path: "/a", LabelKey: "a", Module: TierCore,
			Children: []RouteItem{
				{Path: "/a/b", LabelKey: "b", Module: TierCore},
				{Path: "/a/b", LabelKey: "c", Module: TierCore},
			},
		})
	})
}

func TestRegistry_Find(t *testing.T) {
	item, ok := DefaultRegistry.Find("/settings/sso")
	assert.True(t, ok)
	assert.Equal(t, CapAuthSSO, item.Cap)

	_, ok = DefaultRegistry.Find("/nope")
	assert.False(t, ok)
}
