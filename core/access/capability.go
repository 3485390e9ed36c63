package access

import (
	"sort"

	"github.com/darasahq/darasa/core"
)

// Capability is an opaque token naming a permission.
type Capability string

const (
	CapDashboardView  Capability = "dashboard.view"
	CapProfileView    Capability = "profile.view"
	CapStudentsView   Capability = "students.view"
	CapStudentsManage Capability = "students.manage"
	CapCoursesView    Capability = "courses.view"
	CapCoursesManage  Capability = "courses.manage"
	CapUsersManage    Capability = "users.manage"
	CapSettingsManage Capability = "settings.manage"

	CapAttendanceView Capability = "attendance.view"
	CapReportsView    Capability = "reports.view"
	CapMessagingSend  Capability = "messaging.send"

	CapAdmissionsView Capability = "admissions.view"
	CapAuthSSO        Capability = "auth.sso"
)

// capabilityTiers tags every capability with the plan tier that
// introduces it. The mapping is total: a capability missing here would
// resolve for no one.
var capabilityTiers = map[Capability]Tier{
	CapDashboardView:  TierCore,
	CapProfileView:    TierCore,
	CapStudentsView:   TierCore,
	CapStudentsManage: TierCore,
	CapCoursesView:    TierCore,
	CapCoursesManage:  TierCore,
	CapUsersManage:    TierCore,
	CapSettingsManage: TierCore,

	CapAttendanceView: TierGrowth,
	CapReportsView:    TierGrowth,
	CapMessagingSend:  TierGrowth,

	CapAdmissionsView: TierEnterprise,
	CapAuthSSO:        TierEnterprise,
}

// roleCapabilities is every role's base capability list, before the
// plan tier is applied.
var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapDashboardView, CapProfileView,
		CapStudentsView, CapStudentsManage,
		CapCoursesView, CapCoursesManage,
		CapUsersManage, CapSettingsManage,
		CapAttendanceView, CapReportsView, CapMessagingSend,
		CapAdmissionsView, CapAuthSSO,
	},
	RoleInstructor: {
		CapDashboardView, CapProfileView,
		CapStudentsView,
		CapCoursesView, CapCoursesManage,
		CapAttendanceView, CapReportsView, CapMessagingSend,
	},
	RoleStudent: {
		CapDashboardView, CapProfileView,
		CapCoursesView,
		CapAttendanceView,
	},
	RoleParent: {
		CapDashboardView, CapProfileView,
		CapAttendanceView, CapMessagingSend,
	},
}

// CapabilitySet is the effective capability set of a principal.
type CapabilitySet map[Capability]struct{}

// Has is an exact membership test; no partial matching.
func (s CapabilitySet) Has(cap Capability) bool {
	_, ok := s[cap]
	return ok
}

// List returns the set's members sorted, for stable serialization.
func (s CapabilitySet) List() []Capability {
	caps := make([]Capability, 0, len(s))
	for cap := range s {
		caps = append(caps, cap)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// Resolve maps (role, tier) to the effective capability set: the role's
// base list intersected with the capabilities the tier covers.
// It is a pure function; unknown roles and unknown tiers resolve to the
// empty set.
func Resolve(role Role, tier Tier) CapabilitySet {
	set := make(CapabilitySet)
	for _, cap := range roleCapabilities[role] {
		if tier.Includes(capabilityTiers[cap]) {
			set[cap] = struct{}{}
		}
	}
	return set
}

// Resolver wraps Resolve with defect reporting: an unknown role is a
// configuration defect worth logging, never a user-facing crash.
type Resolver struct {
	log core.Logger
}

func NewResolver(log core.Logger) *Resolver {
	return &Resolver{log: log}
}

func (r *Resolver) Resolve(p Principal) CapabilitySet {
	if !p.Role.Known() && r.log != nil {
		r.log.Error("role missing from capability table; resolving to empty set", string(p.Role))
	}
	return Resolve(p.Role, p.Entitlement)
}

func (r *Resolver) Has(p Principal, cap Capability) bool {
	return r.Resolve(p).Has(cap)
}
