// Package platform defines the boundary to the underlying location service.
// The service itself is an opaque collaborator: this module only constructs
// it, registers a notification target, and forwards calls. Everything behind
// the Manager interface is owned by the platform, including retries, sensor
// fusion, and region bookkeeping.
package platform

import (
	"github.com/WayfinderHQ/location-kit/types"
)

// Delegate receives push-style notifications from the platform. Callbacks
// arrive on the platform's delivery context; implementations must not block.
type Delegate interface {
	DidChangeAuthorization(status types.AuthorizationStatus, accuracy types.AccuracyAuthorization)
	DidUpdateLocations(locations []types.Location)
	DidFailWithError(err error)
	DidUpdateHeading(heading types.Heading)
	DidEnterRegion(region types.Region)
	DidExitRegion(region types.Region)
	MonitoringDidFail(region *types.Region, err error)
	DidRangeBeacons(beacons []types.Beacon, region types.BeaconRegion)
	RangingDidFail(region types.BeaconRegion, err error)
	DidVisit(visit types.Visit)
}

// Manager is the platform resource handle. It must be constructed on, and
// only ever touched from, a single designated goroutine; the live adapter
// enforces that by funneling every call through its run loop.
type Manager interface {
	SetDelegate(d Delegate)

	// Queries
	AuthorizationStatus() types.AuthorizationStatus
	AccuracyAuthorization() types.AccuracyAuthorization
	LocationServicesEnabled() bool
	Location() *types.Location
	Heading() *types.Heading
	MaximumRegionMonitoringDistance() float64
	MonitoredRegions() []types.Region
	RangedBeaconRegions() []types.BeaconRegion

	// Authorization
	RequestWhenInUseAuthorization()
	RequestAlwaysAuthorization()
	// RequestTemporaryFullAccuracy resolves asynchronously via completion,
	// exactly once, with nil on grant and the platform's rejection otherwise.
	RequestTemporaryFullAccuracy(purposeKey string, completion func(error))

	// Location and heading
	RequestLocation()
	StartUpdatingLocation()
	StopUpdatingLocation()
	StartUpdatingHeading()
	StopUpdatingHeading()
	DismissHeadingCalibrationDisplay()

	// Monitoring
	StartMonitoringSignificantLocationChanges()
	StopMonitoringSignificantLocationChanges()
	StartMonitoringVisits()
	StopMonitoringVisits()
	StartMonitoring(region types.Region)
	StopMonitoring(region types.Region)
	StartRangingBeacons(region types.BeaconRegion)
	StopRangingBeacons(region types.BeaconRegion)

	// Configure applies the present fields of cfg. The caller has already
	// stripped fields the current environment cannot express.
	Configure(cfg types.ConfigurationSnapshot)
}
