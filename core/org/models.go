package org

import (
	"time"

	"github.com/darasahq/darasa/core/access"
)

// Organization is the tenant: its purchased plan bounds every member's
// capability set, and its feature flags gate optional navigation entries.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"` // core | growth | enterprise
	Features  []string  `json:"features"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Entitlement maps the stored plan to a Tier; unknown plans entitle nothing.
func (o Organization) Entitlement() access.Tier {
	return access.ParseTier(o.Plan)
}

func (o Organization) FeatureSet() access.FeatureSet {
	return access.NewFeatureSet(o.Features...)
}
