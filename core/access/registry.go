package access

import "fmt"

// RouteItem is a navigation/content unit. The shape is part of the API
// contract with the frontend and must stay stable.
type RouteItem struct {
	Path     string      `json:"path"`
	LabelKey string      `json:"labelKey"`
	Icon     string      `json:"icon,omitempty"`
	Feature  string      `json:"feature,omitempty"`
	Cap      Capability  `json:"cap,omitempty"`
	Module   Tier        `json:"module"`
	Children []RouteItem `json:"children,omitempty"`
}

// Registry is the ordered, static declaration of every navigable
// destination and the entitlement each requires. Entries without a Cap
// are public once authenticated.
type Registry []RouteItem

// NewRegistry validates the declared items: paths unique per nesting
// level, nesting limited to two levels. A defect panics; the registry
// is static data and a bad declaration is a programming error.
func NewRegistry(items ...RouteItem) Registry {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.Path]; dup {
			panic(fmt.Sprintf("access: duplicate route path %q", item.Path))
		}
		seen[item.Path] = struct{}{}

		childSeen := make(map[string]struct{}, len(item.Children))
		for _, child := range item.Children {
			if _, dup := childSeen[child.Path]; dup {
				panic(fmt.Sprintf("access: duplicate route path %q under %q", child.Path, item.Path))
			}
			childSeen[child.Path] = struct{}{}
			if len(child.Children) > 0 {
				panic(fmt.Sprintf("access: route %q nests deeper than two levels", child.Path))
			}
		}
	}
	return Registry(items)
}

// Find walks the registry (both levels) for the item at path.
func (r Registry) Find(path string) (RouteItem, bool) {
	for _, item := range r {
		if item.Path == path {
			return item, true
		}
		for _, child := range item.Children {
			if child.Path == path {
				return child, true
			}
		}
	}
	return RouteItem{}, false
}

// DefaultRegistry is the dashboard's navigation tree.
var DefaultRegistry = NewRegistry(
	RouteItem{Path: "/dashboard", LabelKey: "nav.dashboard", Icon: "home", Module: TierCore},
	RouteItem{Path: "/students", LabelKey: "nav.students", Icon: "users", Cap: CapStudentsView, Module: TierCore},
	RouteItem{
		Path: "/courses", LabelKey: "nav.courses", Icon: "book", Cap: CapCoursesView, Module: TierCore,
		Children: []RouteItem{
			{Path: "/courses/catalog", LabelKey: "nav.courses.catalog", Cap: CapCoursesView, Module: TierCore},
			{Path: "/courses/manage", LabelKey: "nav.courses.manage", Cap: CapCoursesManage, Module: TierCore},
		},
	},
	RouteItem{Path: "/attendance", LabelKey: "nav.attendance", Icon: "calendar-check", Feature: "attendance", Cap: CapAttendanceView, Module: TierGrowth},
	RouteItem{Path: "/reports", LabelKey: "nav.reports", Icon: "bar-chart", Cap: CapReportsView, Module: TierGrowth},
	RouteItem{Path: "/admissions", LabelKey: "nav.admissions", Icon: "inbox", Cap: CapAdmissionsView, Module: TierEnterprise},
	RouteItem{
		Path: "/settings", LabelKey: "nav.settings", Icon: "settings", Cap: CapSettingsManage, Module: TierCore,
		Children: []RouteItem{
			{Path: "/settings/school", LabelKey: "nav.settings.school", Cap: CapSettingsManage, Module: TierCore},
			{Path: "/settings/users", LabelKey: "nav.settings.users", Cap: CapUsersManage, Module: TierCore},
			{Path: "/settings/sso", LabelKey: "nav.settings.sso", Cap: CapAuthSSO, Module: TierEnterprise},
		},
	},
	RouteItem{Path: "/profile", LabelKey: "nav.profile", Icon: "user", Module: TierCore},
)
