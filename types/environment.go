package types

// Environment identifies the operating environment the adapter runs on.
// Which operations are forwardable is policy data keyed on this value, not
// build configuration: every Event variant exists on every environment, but an
// adapter only ever produces the ones its environment supports.
type Environment string

const (
	EnvPhone    Environment = "phone"
	EnvDesktop  Environment = "desktop"
	EnvTV       Environment = "tv"
	EnvWearable Environment = "wearable"
)

// Operation names a single capability-interface operation or configuration
// concern that may be gated by environment.
type Operation string

const (
	OpLocationUpdates           Operation = "locationUpdates"
	OpHeadingUpdates            Operation = "headingUpdates"
	OpRegionMonitoring          Operation = "regionMonitoring"
	OpBeaconRanging             Operation = "beaconRanging"
	OpVisitMonitoring           Operation = "visitMonitoring"
	OpSignificantChanges        Operation = "significantLocationChanges"
	OpAlwaysAuthorization       Operation = "alwaysAuthorization"
	OpWhenInUseAuthorization    Operation = "whenInUseAuthorization"
	OpBackgroundUpdates         Operation = "allowsBackgroundUpdates"
	OpActivityType              Operation = "activityType"
	OpPausesAutomatically       Operation = "pausesLocationUpdatesAutomatically"
	OpBackgroundIndicator       Operation = "showsBackgroundLocationIndicator"
	OpHeadingFilter             Operation = "headingFilter"
	OpTemporaryFullAccuracy     Operation = "temporaryFullAccuracy"
	OpDismissHeadingCalibration Operation = "dismissHeadingCalibration"
)

// CapabilitySet is the set of operations supported on one environment.
type CapabilitySet map[Operation]bool

// Supports reports whether op is available. Unknown operations are treated as
// unavailable, which keeps unsupported calls safe no-ops.
func (c CapabilitySet) Supports(op Operation) bool {
	return c[op]
}

// Clone returns an independent copy of the set.
func (c CapabilitySet) Clone() CapabilitySet {
	out := make(CapabilitySet, len(c))
	for op, ok := range c {
		out[op] = ok
	}
	return out
}

// defaultCapabilities mirrors the platform vendor's availability matrix.
var defaultCapabilities = map[Environment]CapabilitySet{
	EnvPhone: {
		OpLocationUpdates:           true,
		OpHeadingUpdates:            true,
		OpRegionMonitoring:          true,
		OpBeaconRanging:             true,
		OpVisitMonitoring:           true,
		OpSignificantChanges:        true,
		OpAlwaysAuthorization:       true,
		OpWhenInUseAuthorization:    true,
		OpBackgroundUpdates:         true,
		OpActivityType:              true,
		OpPausesAutomatically:       true,
		OpBackgroundIndicator:       true,
		OpHeadingFilter:             true,
		OpTemporaryFullAccuracy:     true,
		OpDismissHeadingCalibration: true,
	},
	EnvDesktop: {
		OpLocationUpdates:        true,
		OpRegionMonitoring:       true,
		OpSignificantChanges:     true,
		OpAlwaysAuthorization:    true,
		OpWhenInUseAuthorization: true,
		OpTemporaryFullAccuracy:  true,
	},
	EnvTV: {
		OpLocationUpdates:        true,
		OpWhenInUseAuthorization: true,
		OpTemporaryFullAccuracy:  true,
	},
	EnvWearable: {
		OpLocationUpdates:        true,
		OpHeadingUpdates:         true,
		OpAlwaysAuthorization:    true,
		OpWhenInUseAuthorization: true,
		OpBackgroundUpdates:      true,
		OpActivityType:           true,
		OpHeadingFilter:          true,
		OpTemporaryFullAccuracy:  true,
	},
}

// Capabilities returns the capability set for env. Unknown environments get an
// empty set, so every gated operation degrades to its no-op default.
func Capabilities(env Environment) CapabilitySet {
	caps, ok := defaultCapabilities[env]
	if !ok {
		return CapabilitySet{}
	}
	return caps.Clone()
}
