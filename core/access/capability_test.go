package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		tier     Tier
		wantHas  []Capability
		wantMiss []Capability
	}{
		{
			name:    "admin enterprise gets everything",
			role:    RoleAdmin,
			tier:    TierEnterprise,
			wantHas: []Capability{CapStudentsView, CapReportsView, CapAdmissionsView, CapAuthSSO},
		},
		{
			name:     "admin core is clamped by plan",
			role:     RoleAdmin,
			tier:     TierCore,
			wantHas:  []Capability{CapStudentsView, CapUsersManage, CapSettingsManage},
			wantMiss: []Capability{CapReportsView, CapAdmissionsView, CapAuthSSO},
		},
		{
			name:     "instructor growth",
			role:     RoleInstructor,
			tier:     TierGrowth,
			wantHas:  []Capability{CapStudentsView, CapCoursesManage, CapReportsView, CapAttendanceView},
			wantMiss: []Capability{CapUsersManage, CapStudentsManage, CapAdmissionsView},
		},
		{
			name:     "student core",
			role:     RoleStudent,
			tier:     TierCore,
			wantHas:  []Capability{CapDashboardView, CapProfileView, CapCoursesView},
			wantMiss: []Capability{CapStudentsView, CapCoursesManage, CapAttendanceView, CapAdmissionsView},
		},
		{
			name:     "parent growth",
			role:     RoleParent,
			tier:     TierGrowth,
			wantHas:  []Capability{CapAttendanceView, CapMessagingSend},
			wantMiss: []Capability{CapStudentsView, CapCoursesManage},
		},
		{
			name:     "unknown role fails closed",
			role:     Role("auditor"),
			tier:     TierEnterprise,
			wantMiss: []Capability{CapDashboardView, CapStudentsView},
		},
		{
			name:     "unknown tier fails closed",
			role:     RoleAdmin,
			tier:     Tier("platinum"),
			wantMiss: []Capability{CapDashboardView, CapStudentsView},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Resolve(tt.role, tt.tier)
			for _, cap := range tt.wantHas {
				assert.True(t, set.Has(cap), "expected %q", cap)
			}
			for _, cap := range tt.wantMiss {
				assert.False(t, set.Has(cap), "did not expect %q", cap)
			}
		})
	}
}

func TestResolve_deterministic(t *testing.T) {
	for _, role := range append(Roles, Role("auditor")) {
		for _, tier := range Tiers {
			first := Resolve(role, tier)
			for i := 0; i < 3; i++ {
				assert.Equal(t, first, Resolve(role, tier))
			}
		}
	}
}

func TestResolve_totalOverRoleTierMatrix(t *testing.T) {
	// every role has a defined set for every tier, and tiers are
	// strictly inclusive
	for _, role := range Roles {
		var prev CapabilitySet
		for _, tier := range Tiers {
			set := Resolve(role, tier)
			assert.NotNil(t, set)
			for cap := range prev {
				assert.True(t, set.Has(cap), "tier %s must include %q from the tier below for role %s", tier, cap, role)
			}
			prev = set
		}
	}
}

func TestCapabilityTiers_total(t *testing.T) {
	for role, caps := range roleCapabilities {
		for _, cap := range caps {
			if _, ok := capabilityTiers[cap]; !ok {
				t.Errorf("capability %q of role %s has no tier tag", cap, role)
			}
		}
	}
}

func TestResolver_unknownRoleLogged(t *testing.T) {
	log := &capturingLogger{}
	r := NewResolver(log)

	set := r.Resolve(Principal{ID: "u1", Role: Role("auditor"), Entitlement: TierEnterprise})
	assert.Empty(t, set)
	assert.NotEmpty(t, log.errors)

	log.errors = nil
	set = r.Resolve(Principal{ID: "u1", Role: RoleStudent, Entitlement: TierCore})
	assert.True(t, set.Has(CapDashboardView))
	assert.Empty(t, log.errors)
}

type capturingLogger struct {
	errors []string
}

func (l *capturingLogger) Debug(msg string, args ...interface{}) {}
func (l *capturingLogger) Info(msg string, args ...interface{})  {}
func (l *capturingLogger) Warn(msg string, args ...interface{})  {}
func (l *capturingLogger) Error(msg string, args ...interface{}) { l.errors = append(l.errors, msg) }
func (l *capturingLogger) Fatal(msg string, args ...interface{}) { l.errors = append(l.errors, msg) }
