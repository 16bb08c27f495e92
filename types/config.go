package types

// ConfigurationSnapshot carries optionally-present tunables for the platform
// location manager. A nil field means "leave the platform's current value
// unchanged", so applying a snapshot is always a partial update.
type ConfigurationSnapshot struct {
	ActivityType                       *ActivityType `json:"activityType,omitempty"`
	AllowsBackgroundLocationUpdates    *bool         `json:"allowsBackgroundLocationUpdates,omitempty"`
	DesiredAccuracy                    *float64      `json:"desiredAccuracy,omitempty"`
	DistanceFilter                     *float64      `json:"distanceFilter,omitempty"`
	HeadingFilter                      *float64      `json:"headingFilter,omitempty"`
	HeadingOrientation                 *int          `json:"headingOrientation,omitempty"`
	PausesLocationUpdatesAutomatically *bool         `json:"pausesLocationUpdatesAutomatically,omitempty"`
	ShowsBackgroundLocationIndicator   *bool         `json:"showsBackgroundLocationIndicator,omitempty"`
}

// ApplicableOn returns a copy of the snapshot with every field that is
// meaningless on env cleared. Applying the result is what the live adapter
// actually forwards to the platform.
func (s ConfigurationSnapshot) ApplicableOn(env Environment) ConfigurationSnapshot {
	caps := Capabilities(env)
	out := s
	if !caps.Supports(OpActivityType) {
		out.ActivityType = nil
	}
	if !caps.Supports(OpBackgroundUpdates) {
		out.AllowsBackgroundLocationUpdates = nil
	}
	if !caps.Supports(OpHeadingFilter) {
		out.HeadingFilter = nil
	}
	if !caps.Supports(OpHeadingUpdates) {
		out.HeadingOrientation = nil
	}
	if !caps.Supports(OpPausesAutomatically) {
		out.PausesLocationUpdatesAutomatically = nil
	}
	if !caps.Supports(OpBackgroundIndicator) {
		out.ShowsBackgroundLocationIndicator = nil
	}
	return out
}

// EquivalentOn reports whether two snapshots agree on every field that is
// meaningful on env. Fields the environment cannot express never count
// against equality.
func (s ConfigurationSnapshot) EquivalentOn(other ConfigurationSnapshot, env Environment) bool {
	a := s.ApplicableOn(env)
	b := other.ApplicableOn(env)
	return ptrEq(a.ActivityType, b.ActivityType) &&
		ptrEq(a.AllowsBackgroundLocationUpdates, b.AllowsBackgroundLocationUpdates) &&
		ptrEq(a.DesiredAccuracy, b.DesiredAccuracy) &&
		ptrEq(a.DistanceFilter, b.DistanceFilter) &&
		ptrEq(a.HeadingFilter, b.HeadingFilter) &&
		ptrEq(a.HeadingOrientation, b.HeadingOrientation) &&
		ptrEq(a.PausesLocationUpdatesAutomatically, b.PausesLocationUpdatesAutomatically) &&
		ptrEq(a.ShowsBackgroundLocationIndicator, b.ShowsBackgroundLocationIndicator)
}

// Merge overlays the present fields of update onto s and returns the result.
// This is the observable effect of the partial-update operation: applying the
// same update twice is the same as applying it once.
func (s ConfigurationSnapshot) Merge(update ConfigurationSnapshot) ConfigurationSnapshot {
	out := s
	if update.ActivityType != nil {
		out.ActivityType = update.ActivityType
	}
	if update.AllowsBackgroundLocationUpdates != nil {
		out.AllowsBackgroundLocationUpdates = update.AllowsBackgroundLocationUpdates
	}
	if update.DesiredAccuracy != nil {
		out.DesiredAccuracy = update.DesiredAccuracy
	}
	if update.DistanceFilter != nil {
		out.DistanceFilter = update.DistanceFilter
	}
	if update.HeadingFilter != nil {
		out.HeadingFilter = update.HeadingFilter
	}
	if update.HeadingOrientation != nil {
		out.HeadingOrientation = update.HeadingOrientation
	}
	if update.PausesLocationUpdatesAutomatically != nil {
		out.PausesLocationUpdatesAutomatically = update.PausesLocationUpdatesAutomatically
	}
	if update.ShowsBackgroundLocationIndicator != nil {
		out.ShowsBackgroundLocationIndicator = update.ShowsBackgroundLocationIndicator
	}
	return out
}

func ptrEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Ptr is a convenience for building snapshots literal-style.
func Ptr[T any](v T) *T { return &v }
