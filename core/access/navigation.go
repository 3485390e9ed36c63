package access

// FeatureSet is the organization's enabled feature flags.
type FeatureSet map[string]struct{}

func NewFeatureSet(features ...string) FeatureSet {
	set := make(FeatureSet, len(features))
	for _, f := range features {
		set[f] = struct{}{}
	}
	return set
}

func (s FeatureSet) Enabled(feature string) bool {
	_, ok := s[feature]
	return ok
}

// VisibleRoutes projects the registry through a capability set and the
// org's feature flags, preserving order and hierarchy. A parent whose
// children were all filtered out is omitted entirely; an empty disabled
// group would only advertise modules the org did not purchase.
// The projection is recomputed on every call; nothing is cached.
func VisibleRoutes(reg Registry, caps CapabilitySet, features FeatureSet) []RouteItem {
	visible := make([]RouteItem, 0, len(reg))
	for _, item := range reg {
		if !routeVisible(item, caps, features) {
			continue
		}
		if len(item.Children) > 0 {
			children := make([]RouteItem, 0, len(item.Children))
			for _, child := range item.Children {
				if routeVisible(child, caps, features) {
					children = append(children, child)
				}
			}
			if len(children) == 0 {
				continue
			}
			item.Children = children
		}
		visible = append(visible, item)
	}
	return visible
}

func routeVisible(item RouteItem, caps CapabilitySet, features FeatureSet) bool {
	if item.Cap != "" && !caps.Has(item.Cap) {
		return false
	}
	if item.Feature != "" && !features.Enabled(item.Feature) {
		return false
	}
	return true
}
