// Package access implements the capability and route-gating engine:
// one role/tier capability table consumed identically by the client-side
// navigation filter and route guard and by the server-side data endpoints,
// so the two enforcement points cannot silently diverge.
package access

// Role is the closed enumeration of principal roles.
// A principal always has exactly one role; it is immutable for the session.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
	RoleParent     Role = "parent"
)

var Roles = []Role{RoleAdmin, RoleInstructor, RoleStudent, RoleParent}

// Known reports whether r is part of the closed enumeration.
// Unknown roles resolve to the empty capability set (fail closed).
func (r Role) Known() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Tier is a purchased-plan level. Each tier strictly includes all
// capabilities of the tiers before it: core < growth < enterprise.
type Tier string

const (
	TierCore       Tier = "core"
	TierGrowth     Tier = "growth"
	TierEnterprise Tier = "enterprise"
)

var Tiers = []Tier{TierCore, TierGrowth, TierEnterprise}

var tierRanks = map[Tier]int{
	TierCore:       1,
	TierGrowth:     2,
	TierEnterprise: 3,
}

// Includes reports whether t's plan covers capabilities introduced at
// tier other. An unknown tier covers nothing.
func (t Tier) Includes(other Tier) bool {
	rank, ok := tierRanks[t]
	if !ok {
		return false
	}
	return rank >= tierRanks[other]
}

// ParseTier maps a stored plan value to a Tier, defaulting to the empty
// (covers-nothing) tier for unknown values.
func ParseTier(s string) Tier {
	t := Tier(s)
	if _, ok := tierRanks[t]; ok {
		return t
	}
	return ""
}

// Principal is the authenticated actor as seen by the gating engine:
// identity, role and the org plan's module entitlement.
type Principal struct {
	ID          string
	OrgID       string
	Role        Role
	Entitlement Tier
}
