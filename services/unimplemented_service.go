package services

import (
	"context"

	"github.com/WayfinderHQ/location-kit/client"
	apperrors "github.com/WayfinderHQ/location-kit/errors"
	"github.com/WayfinderHQ/location-kit/logger"
	"github.com/WayfinderHQ/location-kit/types"
)

// TrapReporter receives the name of an operation that was invoked on the
// failing adapter without a test-provided override. Tests install their own
// reporter (typically wrapping t.Errorf) to make unexpected platform
// dependencies fail loudly and attributably.
type TrapReporter func(operation string)

// defaultTrapReporter logs the gap. The call still returns a harmless zero
// value so invoking an unconfigured operation in a non-fatal context does not
// crash the caller.
func defaultTrapReporter(operation string) {
	logger.GetLogger().Named("unimplemented_client").Errorw(
		"Unconfigured operation invoked on failing adapter",
		"operation", operation,
	)
}

// NewUnimplementedClient returns a capability client whose every slot traps:
// it reports the exact operation name and returns a zero value. Replacing one
// slot by field assignment leaves every other slot at its trap behavior, so a
// test only ever stubs the operations it means to exercise.
func NewUnimplementedClient(report ...TrapReporter) *client.Client {
	trap := defaultTrapReporter
	if len(report) > 0 && report[0] != nil {
		trap = report[0]
	}

	failing := func(op string) func(ctx context.Context) {
		return func(ctx context.Context) { trap(op) }
	}

	return &client.Client{
		AuthorizationStatus: func(ctx context.Context) types.AuthorizationStatus {
			trap("AuthorizationStatus")
			return types.AuthorizationNotDetermined
		},
		AccuracyAuthorization: func(ctx context.Context) types.AccuracyAuthorization {
			trap("AccuracyAuthorization")
			return types.AccuracyReduced
		},
		LocationServicesEnabled: func(ctx context.Context) bool {
			trap("LocationServicesEnabled")
			return false
		},
		Location: func(ctx context.Context) *types.Location {
			trap("Location")
			return nil
		},
		Heading: func(ctx context.Context) *types.Heading {
			trap("Heading")
			return nil
		},
		MaximumRegionMonitoringDistance: func(ctx context.Context) float64 {
			trap("MaximumRegionMonitoringDistance")
			return 0
		},
		MonitoredRegions: func(ctx context.Context) []types.Region {
			trap("MonitoredRegions")
			return []types.Region{}
		},
		RangedBeaconRegions: func(ctx context.Context) []types.BeaconRegion {
			trap("RangedBeaconRegions")
			return []types.BeaconRegion{}
		},

		HeadingAvailable: func(ctx context.Context) bool {
			trap("HeadingAvailable")
			return false
		},
		SignificantLocationChangeMonitoringAvailable: func(ctx context.Context) bool {
			trap("SignificantLocationChangeMonitoringAvailable")
			return false
		},
		RegionMonitoringAvailable: func(ctx context.Context) bool {
			trap("RegionMonitoringAvailable")
			return false
		},
		RangingAvailable: func(ctx context.Context) bool {
			trap("RangingAvailable")
			return false
		},

		RequestWhenInUseAuthorization: failing("RequestWhenInUseAuthorization"),
		RequestAlwaysAuthorization:    failing("RequestAlwaysAuthorization"),
		RequestTemporaryFullAccuracy: func(ctx context.Context, purposeKey string) error {
			trap("RequestTemporaryFullAccuracy")
			return apperrors.Unconfigured("RequestTemporaryFullAccuracy")
		},

		RequestLocation:                  failing("RequestLocation"),
		StartUpdatingLocation:            failing("StartUpdatingLocation"),
		StopUpdatingLocation:             failing("StopUpdatingLocation"),
		StartUpdatingHeading:             failing("StartUpdatingHeading"),
		StopUpdatingHeading:              failing("StopUpdatingHeading"),
		DismissHeadingCalibrationDisplay: failing("DismissHeadingCalibrationDisplay"),

		StartMonitoringSignificantLocationChanges: failing("StartMonitoringSignificantLocationChanges"),
		StopMonitoringSignificantLocationChanges:  failing("StopMonitoringSignificantLocationChanges"),
		StartMonitoringVisits:                     failing("StartMonitoringVisits"),
		StopMonitoringVisits:                      failing("StopMonitoringVisits"),
		StartMonitoring: func(ctx context.Context, region types.Region) {
			trap("StartMonitoring")
		},
		StopMonitoring: func(ctx context.Context, region types.Region) {
			trap("StopMonitoring")
		},
		StartRangingBeacons: func(ctx context.Context, region types.BeaconRegion) {
			trap("StartRangingBeacons")
		},
		StopRangingBeacons: func(ctx context.Context, region types.BeaconRegion) {
			trap("StopRangingBeacons")
		},

		Set: func(ctx context.Context, cfg types.ConfigurationSnapshot) {
			trap("Set")
		},
		Events: func(ctx context.Context) <-chan types.Event {
			trap("Events")
			ch := make(chan types.Event)
			close(ch)
			return ch
		},
	}
}
