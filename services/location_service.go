// Package services provides the adapter implementations behind the capability
// interface: the live adapter bound to a platform manager, the failing adapter
// used under test, and the selector that resolves which one a consumer gets.
package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/WayfinderHQ/location-kit/client"
	"github.com/WayfinderHQ/location-kit/config"
	apperrors "github.com/WayfinderHQ/location-kit/errors"
	"github.com/WayfinderHQ/location-kit/internal/events"
	"github.com/WayfinderHQ/location-kit/internal/platform"
	"github.com/WayfinderHQ/location-kit/logger"
	"github.com/WayfinderHQ/location-kit/types"
)

// LocationService is the live adapter. It owns exactly one platform manager,
// created lazily by its run loop, and implements every capability operation by
// forwarding onto that manager from the loop goroutine. The platform forbids
// cross-context access to its resource, so the loop is the designated context:
// callers from any goroutine marshal through it and wait for the hop to
// complete.
type LocationService struct {
	log    *zap.SugaredLogger
	env    types.Environment
	caps   types.CapabilitySet
	bridge *events.Broadcaster

	newManager func() platform.Manager
	calls      chan func(platform.Manager)
	quit       chan struct{}
	startOnce  sync.Once
	stopOnce   sync.Once
}

// NewLocationService creates the live adapter for env. newManager constructs
// the platform resource; it is invoked at most once, from the run loop, on
// first use.
func NewLocationService(env types.Environment, newManager func() platform.Manager, cfg ...events.Config) *LocationService {
	return &LocationService{
		log:        logger.GetLogger().Named("location_service"),
		env:        env,
		caps:       types.Capabilities(env),
		bridge:     events.NewBroadcaster(cfg...),
		newManager: newManager,
		calls:      make(chan func(platform.Manager)),
		quit:       make(chan struct{}),
	}
}

// NewLocationServiceFromConfig builds the live adapter from loaded
// configuration, including any capability-table overrides.
func NewLocationServiceFromConfig(cfg *config.Config, newManager func() platform.Manager) (*LocationService, error) {
	caps, err := cfg.Capabilities()
	if err != nil {
		return nil, err
	}
	s := NewLocationService(cfg.TargetEnvironment(), newManager, events.Config{
		SubscriberBufferSize: cfg.EventBufferSize,
	})
	s.caps = caps
	return s, nil
}

// run is the designated context. The manager handle never escapes it.
func (s *LocationService) run() {
	var mgr platform.Manager
	for {
		select {
		case call := <-s.calls:
			if mgr == nil {
				mgr = s.newManager()
				mgr.SetDelegate(&bridgeDelegate{bridge: s.bridge, log: s.log})
				s.log.Infow("Platform manager created", "environment", s.env)
			}
			call(mgr)
		case <-s.quit:
			return
		}
	}
}

// dispatch marshals fn onto the run loop and waits for it to finish. If ctx
// expires first the caller stops waiting, but a call already accepted by the
// loop still runs — cancellation is never propagated to the platform. An
// abandoned fn must therefore hand any result back over a buffered channel,
// never through a variable the caller also reads; see query.
func (s *LocationService) dispatch(ctx context.Context, fn func(platform.Manager)) {
	s.startOnce.Do(func() { go s.run() })

	done := make(chan struct{})
	wrapped := func(m platform.Manager) {
		fn(m)
		close(done)
	}

	select {
	case s.calls <- wrapped:
	case <-ctx.Done():
		return
	case <-s.quit:
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (s *LocationService) supports(op types.Operation) bool {
	if s.caps.Supports(op) {
		return true
	}
	s.log.Debugw("Operation unsupported on environment, degrading to no-op",
		"operation", op,
		"environment", s.env,
	)
	return false
}

// Shutdown stops the run loop and closes every event subscription.
func (s *LocationService) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.quit) })
	return s.bridge.Shutdown(ctx)
}

// Client binds every capability slot to this adapter.
func (s *LocationService) Client() *client.Client {
	return &client.Client{
		AuthorizationStatus:             s.authorizationStatus,
		AccuracyAuthorization:           s.accuracyAuthorization,
		LocationServicesEnabled:         s.locationServicesEnabled,
		Location:                        s.location,
		Heading:                         s.heading,
		MaximumRegionMonitoringDistance: s.maximumRegionMonitoringDistance,
		MonitoredRegions:                s.monitoredRegions,
		RangedBeaconRegions:             s.rangedBeaconRegions,

		HeadingAvailable:                             s.available(types.OpHeadingUpdates),
		SignificantLocationChangeMonitoringAvailable: s.available(types.OpSignificantChanges),
		RegionMonitoringAvailable:                    s.available(types.OpRegionMonitoring),
		RangingAvailable:                             s.available(types.OpBeaconRanging),

		RequestWhenInUseAuthorization: s.command(types.OpWhenInUseAuthorization, platform.Manager.RequestWhenInUseAuthorization),
		RequestAlwaysAuthorization:    s.command(types.OpAlwaysAuthorization, platform.Manager.RequestAlwaysAuthorization),
		RequestTemporaryFullAccuracy:  s.requestTemporaryFullAccuracy,

		RequestLocation:                  s.command(types.OpLocationUpdates, platform.Manager.RequestLocation),
		StartUpdatingLocation:            s.command(types.OpLocationUpdates, platform.Manager.StartUpdatingLocation),
		StopUpdatingLocation:             s.command(types.OpLocationUpdates, platform.Manager.StopUpdatingLocation),
		StartUpdatingHeading:             s.command(types.OpHeadingUpdates, platform.Manager.StartUpdatingHeading),
		StopUpdatingHeading:              s.command(types.OpHeadingUpdates, platform.Manager.StopUpdatingHeading),
		DismissHeadingCalibrationDisplay: s.command(types.OpDismissHeadingCalibration, platform.Manager.DismissHeadingCalibrationDisplay),

		StartMonitoringSignificantLocationChanges: s.command(types.OpSignificantChanges, platform.Manager.StartMonitoringSignificantLocationChanges),
		StopMonitoringSignificantLocationChanges:  s.command(types.OpSignificantChanges, platform.Manager.StopMonitoringSignificantLocationChanges),
		StartMonitoringVisits:                     s.command(types.OpVisitMonitoring, platform.Manager.StartMonitoringVisits),
		StopMonitoringVisits:                      s.command(types.OpVisitMonitoring, platform.Manager.StopMonitoringVisits),
		StartMonitoring:                           s.regionCommand(platform.Manager.StartMonitoring),
		StopMonitoring:                            s.regionCommand(platform.Manager.StopMonitoring),
		StartRangingBeacons:                       s.beaconCommand(platform.Manager.StartRangingBeacons),
		StopRangingBeacons:                        s.beaconCommand(platform.Manager.StopRangingBeacons),

		Set:    s.set,
		Events: s.events,
	}
}

// available answers an availability query from the capability table. Static
// environment policy, no platform hop.
func (s *LocationService) available(op types.Operation) func(ctx context.Context) bool {
	return func(ctx context.Context) bool {
		return s.caps.Supports(op)
	}
}

// command builds a gated fire-and-forget forward of a parameterless manager
// call.
func (s *LocationService) command(op types.Operation, call func(platform.Manager)) func(ctx context.Context) {
	return func(ctx context.Context) {
		if !s.supports(op) {
			return
		}
		s.dispatch(ctx, call)
	}
}

func (s *LocationService) regionCommand(call func(platform.Manager, types.Region)) func(ctx context.Context, region types.Region) {
	return func(ctx context.Context, region types.Region) {
		if !s.supports(types.OpRegionMonitoring) {
			return
		}
		s.dispatch(ctx, func(m platform.Manager) { call(m, region) })
	}
}

func (s *LocationService) beaconCommand(call func(platform.Manager, types.BeaconRegion)) func(ctx context.Context, region types.BeaconRegion) {
	return func(ctx context.Context, region types.BeaconRegion) {
		if !s.supports(types.OpBeaconRanging) {
			return
		}
		s.dispatch(ctx, func(m platform.Manager) { call(m, region) })
	}
}

// query runs fn on the loop and returns its result, or fallback when ctx
// expires first. The buffered channel keeps an abandoned hop from racing the
// caller: the loop's send lands in the buffer and is simply never read.
func query[T any](s *LocationService, ctx context.Context, fallback T, fn func(platform.Manager) T) T {
	results := make(chan T, 1)
	s.dispatch(ctx, func(m platform.Manager) { results <- fn(m) })

	select {
	case v := <-results:
		return v
	case <-ctx.Done():
		return fallback
	}
}

func (s *LocationService) authorizationStatus(ctx context.Context) types.AuthorizationStatus {
	return query(s, ctx, types.AuthorizationNotDetermined, platform.Manager.AuthorizationStatus)
}

func (s *LocationService) accuracyAuthorization(ctx context.Context) types.AccuracyAuthorization {
	return query(s, ctx, types.AccuracyReduced, platform.Manager.AccuracyAuthorization)
}

func (s *LocationService) locationServicesEnabled(ctx context.Context) bool {
	return query(s, ctx, false, platform.Manager.LocationServicesEnabled)
}

func (s *LocationService) location(ctx context.Context) *types.Location {
	return query(s, ctx, nil, platform.Manager.Location)
}

func (s *LocationService) heading(ctx context.Context) *types.Heading {
	if !s.supports(types.OpHeadingUpdates) {
		return nil
	}
	return query(s, ctx, nil, platform.Manager.Heading)
}

func (s *LocationService) maximumRegionMonitoringDistance(ctx context.Context) float64 {
	if !s.supports(types.OpRegionMonitoring) {
		return 0
	}
	return query(s, ctx, 0, platform.Manager.MaximumRegionMonitoringDistance)
}

func (s *LocationService) monitoredRegions(ctx context.Context) []types.Region {
	if !s.supports(types.OpRegionMonitoring) {
		return []types.Region{}
	}
	return query(s, ctx, []types.Region{}, platform.Manager.MonitoredRegions)
}

func (s *LocationService) rangedBeaconRegions(ctx context.Context) []types.BeaconRegion {
	if !s.supports(types.OpBeaconRanging) {
		return []types.BeaconRegion{}
	}
	return query(s, ctx, []types.BeaconRegion{}, platform.Manager.RangedBeaconRegions)
}

// requestTemporaryFullAccuracy is the one operation that surfaces a platform
// rejection as a typed error. It bridges the platform's callback-style
// completion into an ordinary blocking call.
func (s *LocationService) requestTemporaryFullAccuracy(ctx context.Context, purposeKey string) error {
	if purposeKey == "" {
		return apperrors.ValidationFailed("invalid full-accuracy request", "purpose key is required")
	}
	if !s.supports(types.OpTemporaryFullAccuracy) {
		return nil
	}

	errCh := make(chan error, 1)
	s.dispatch(ctx, func(m platform.Manager) {
		m.RequestTemporaryFullAccuracy(purposeKey, func(err error) {
			errCh <- err
		})
	})

	select {
	case err := <-errCh:
		if err != nil {
			s.log.Warnw("Temporary full-accuracy request denied",
				"purposeKey", purposeKey,
				"error", err,
			)
			return apperrors.PermissionDenied(purposeKey, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// set forwards the applicable subset of cfg. Fields the environment cannot
// express are stripped first, so the platform only ever sees meaningful ones.
func (s *LocationService) set(ctx context.Context, cfg types.ConfigurationSnapshot) {
	applicable := cfg.ApplicableOn(s.env)
	s.dispatch(ctx, func(m platform.Manager) { m.Configure(applicable) })
}

func (s *LocationService) events(ctx context.Context) <-chan types.Event {
	return s.bridge.Subscribe(ctx)
}

// bridgeDelegate is the platform's sole notification target: each callback
// becomes exactly one published event.
type bridgeDelegate struct {
	bridge *events.Broadcaster
	log    *zap.SugaredLogger
}

func (d *bridgeDelegate) DidChangeAuthorization(status types.AuthorizationStatus, accuracy types.AccuracyAuthorization) {
	d.bridge.Publish(types.NewAuthorizationChangedEvent(status, accuracy))
}

func (d *bridgeDelegate) DidUpdateLocations(locations []types.Location) {
	d.bridge.Publish(types.NewLocationsUpdatedEvent(locations))
}

func (d *bridgeDelegate) DidFailWithError(err error) {
	d.bridge.Publish(types.NewLocationUpdatesFailedEvent(apperrors.NewPlatformError(err)))
}

func (d *bridgeDelegate) DidUpdateHeading(heading types.Heading) {
	d.bridge.Publish(types.NewHeadingUpdatedEvent(heading))
}

func (d *bridgeDelegate) DidEnterRegion(region types.Region) {
	d.bridge.Publish(types.NewRegionEnteredEvent(region))
}

func (d *bridgeDelegate) DidExitRegion(region types.Region) {
	d.bridge.Publish(types.NewRegionExitedEvent(region))
}

func (d *bridgeDelegate) MonitoringDidFail(region *types.Region, err error) {
	d.bridge.Publish(types.NewRegionMonitoringFailedEvent(region, apperrors.NewPlatformError(err)))
}

func (d *bridgeDelegate) DidRangeBeacons(beacons []types.Beacon, region types.BeaconRegion) {
	d.bridge.Publish(types.NewBeaconsRangedEvent(beacons, region))
}

func (d *bridgeDelegate) RangingDidFail(region types.BeaconRegion, err error) {
	d.bridge.Publish(types.NewBeaconRangingFailedEvent(region, apperrors.NewPlatformError(err)))
}

func (d *bridgeDelegate) DidVisit(visit types.Visit) {
	d.bridge.Publish(types.NewVisitReceivedEvent(visit))
}
