// Package client defines the capability surface consumers depend on: a plain
// struct of named function slots, one per location-services operation. The
// struct is data, not an object — each adapter constructs a fresh value and
// assigns its own implementations to the slots, and tests override individual
// slots with ordinary field assignment. The slot set is fixed; adapters only
// differ in the functions bound to each name.
package client

import (
	"context"

	"github.com/WayfinderHQ/location-kit/types"
)

// Client is the location-services capability interface.
//
// Queries return the requested value or a documented zero value; they never
// fail. Commands are fire-and-forget: they return once the bound
// implementation has accepted the request, not once any resulting event has
// been observed. RequestTemporaryFullAccuracy is the single fallible
// operation. Events yields a fresh, independent subscription each call; the
// channel closes when ctx is cancelled.
//
// All slots are safe to invoke from any goroutine. What each call guarantees
// beyond that is the bound adapter's contract.
type Client struct {
	// Queries
	AuthorizationStatus             func(ctx context.Context) types.AuthorizationStatus
	AccuracyAuthorization           func(ctx context.Context) types.AccuracyAuthorization
	LocationServicesEnabled         func(ctx context.Context) bool
	Location                        func(ctx context.Context) *types.Location
	Heading                         func(ctx context.Context) *types.Heading
	MaximumRegionMonitoringDistance func(ctx context.Context) float64
	MonitoredRegions                func(ctx context.Context) []types.Region
	RangedBeaconRegions             func(ctx context.Context) []types.BeaconRegion

	// Availability queries, answered from the environment capability table.
	HeadingAvailable                             func(ctx context.Context) bool
	SignificantLocationChangeMonitoringAvailable func(ctx context.Context) bool
	RegionMonitoringAvailable                    func(ctx context.Context) bool
	RangingAvailable                             func(ctx context.Context) bool

	// Authorization
	RequestWhenInUseAuthorization func(ctx context.Context)
	RequestAlwaysAuthorization    func(ctx context.Context)
	RequestTemporaryFullAccuracy  func(ctx context.Context, purposeKey string) error

	// Location and heading commands
	RequestLocation                  func(ctx context.Context)
	StartUpdatingLocation            func(ctx context.Context)
	StopUpdatingLocation             func(ctx context.Context)
	StartUpdatingHeading             func(ctx context.Context)
	StopUpdatingHeading              func(ctx context.Context)
	DismissHeadingCalibrationDisplay func(ctx context.Context)

	// Monitoring commands
	StartMonitoringSignificantLocationChanges func(ctx context.Context)
	StopMonitoringSignificantLocationChanges  func(ctx context.Context)
	StartMonitoringVisits                     func(ctx context.Context)
	StopMonitoringVisits                      func(ctx context.Context)
	StartMonitoring                           func(ctx context.Context, region types.Region)
	StopMonitoring                            func(ctx context.Context, region types.Region)
	StartRangingBeacons                       func(ctx context.Context, region types.BeaconRegion)
	StopRangingBeacons                        func(ctx context.Context, region types.BeaconRegion)

	// Set applies the present fields of cfg; fields the current environment
	// cannot express are skipped silently.
	Set func(ctx context.Context, cfg types.ConfigurationSnapshot)

	// Events returns a fresh view of the adapter's event broadcast. Two
	// calls yield two independently-driven subscriptions over the same
	// occurrences. The channel closes when ctx is cancelled.
	Events func(ctx context.Context) <-chan types.Event
}
