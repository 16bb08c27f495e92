package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/WayfinderHQ/location-kit/errors"
	"github.com/WayfinderHQ/location-kit/internal/platform"
	"github.com/WayfinderHQ/location-kit/logger"
	"github.com/WayfinderHQ/location-kit/types"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	m.Run()
}

func newTestService(t *testing.T, env types.Environment) (*LocationService, *platform.Simulator) {
	t.Helper()
	sim := platform.NewSimulator()
	svc := NewLocationService(env, func() platform.Manager { return sim })
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})
	return svc, sim
}

func receiveEvent(t *testing.T, ch <-chan types.Event) types.Event {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "event channel closed unexpectedly")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
		return types.Event{}
	}
}

func assertNoEvent(t *testing.T, ch <-chan types.Event) {
	t.Helper()
	select {
	case event := <-ch:
		t.Fatalf("expected no event, got %s", event.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLocationService_SubscribeThenLocationsUpdated(t *testing.T) {
	svc, sim := newTestService(t, types.EnvPhone)
	c := svc.Client()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := c.Events(ctx)

	// Touching the adapter creates the platform resource and registers the
	// bridge as its notification target.
	c.StartUpdatingLocation(ctx)
	require.True(t, sim.IsUpdatingLocation())

	fix := types.Location{
		Coordinate: types.Coordinate{Latitude: 52.52, Longitude: 13.405},
		Timestamp:  time.Now(),
	}
	sim.SimulateLocations(fix)

	event := receiveEvent(t, events)
	assert.Equal(t, types.EventTypeLocationsUpdated, event.Type)
	require.Len(t, event.Locations, 1)
	assert.Equal(t, fix.Coordinate, event.Locations[0].Coordinate)

	// Bridge goes idle until the next occurrence.
	assertNoEvent(t, events)
}

func TestLocationService_TwoSubscriptionsAreIndependent(t *testing.T) {
	svc, sim := newTestService(t, types.EnvPhone)
	c := svc.Client()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	first := c.Events(firstCtx)
	second := c.Events(ctx)

	c.StartUpdatingLocation(ctx)
	sim.SimulateLocations(types.Location{Coordinate: types.Coordinate{Latitude: 1}})

	e := receiveEvent(t, first)
	assert.Equal(t, e.ID, receiveEvent(t, second).ID)

	cancelFirst()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-first:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	sim.SimulateLocations(types.Location{Coordinate: types.Coordinate{Latitude: 2}})
	got := receiveEvent(t, second)
	assert.Equal(t, types.EventTypeLocationsUpdated, got.Type)
	assert.Equal(t, 2.0, got.Locations[0].Coordinate.Latitude)
}

func TestLocationService_AuthorizationFlow(t *testing.T) {
	svc, sim := newTestService(t, types.EnvPhone)
	sim.GrantOnRequest = types.AuthorizationWhenInUse
	c := svc.Client()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := c.Events(ctx)

	assert.Equal(t, types.AuthorizationNotDetermined, c.AuthorizationStatus(ctx))

	c.RequestWhenInUseAuthorization(ctx)

	event := receiveEvent(t, events)
	assert.Equal(t, types.EventTypeAuthorizationChanged, event.Type)
	require.NotNil(t, event.Status)
	assert.Equal(t, types.AuthorizationWhenInUse, event.Status.Status)

	assert.Equal(t, types.AuthorizationWhenInUse, c.AuthorizationStatus(ctx))
}

func TestLocationService_FullAccuracyDenied(t *testing.T) {
	svc, sim := newTestService(t, types.EnvPhone)
	sim.FullAccuracyHandler = func(purposeKey string) error {
		return fmt.Errorf("purpose %q rejected by platform", purposeKey)
	}
	c := svc.Client()

	ctx := context.Background()
	err := c.RequestTemporaryFullAccuracy(ctx, "precise-nav")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.PermissionDeniedError))
	assert.Contains(t, err.Error(), "precise-nav")
	assert.Contains(t, err.Error(), "rejected by platform")
}

func TestLocationService_FullAccuracyGranted(t *testing.T) {
	svc, _ := newTestService(t, types.EnvPhone)
	c := svc.Client()

	ctx := context.Background()
	require.NoError(t, c.RequestTemporaryFullAccuracy(ctx, "precise-nav"))
	assert.Equal(t, types.AccuracyFull, c.AccuracyAuthorization(ctx))
}

func TestLocationService_EmptyPurposeKeyRejected(t *testing.T) {
	svc, _ := newTestService(t, types.EnvPhone)
	c := svc.Client()

	err := c.RequestTemporaryFullAccuracy(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
}

func TestLocationService_UnsupportedRegionMonitoringIsNoOp(t *testing.T) {
	svc, sim := newTestService(t, types.EnvTV)
	c := svc.Client()

	ctx := context.Background()
	region := types.Region{
		Identifier: "office",
		Center:     types.Coordinate{Latitude: 48.2, Longitude: 16.37},
		Radius:     100,
	}

	assert.False(t, c.RegionMonitoringAvailable(ctx))

	// Completes with no effect and no error.
	c.StartMonitoring(ctx, region)
	assert.Empty(t, sim.MonitoredRegions(), "platform must never see the call")
	assert.Empty(t, c.MonitoredRegions(ctx))
}

func TestLocationService_RegionMonitoringOnSupportedEnvironment(t *testing.T) {
	svc, sim := newTestService(t, types.EnvPhone)
	c := svc.Client()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := c.Events(ctx)

	region := types.Region{Identifier: "office", Radius: 100, NotifyOnEntry: true}
	c.StartMonitoring(ctx, region)

	monitored := c.MonitoredRegions(ctx)
	require.Len(t, monitored, 1)
	assert.Equal(t, "office", monitored[0].Identifier)

	sim.SimulateRegionEvent(region, true)
	event := receiveEvent(t, events)
	assert.Equal(t, types.EventTypeRegionEntered, event.Type)
	require.NotNil(t, event.Region)
	assert.Equal(t, "office", event.Region.Identifier)

	c.StopMonitoring(ctx, region)
	assert.Empty(t, c.MonitoredRegions(ctx))
}

func TestLocationService_PlatformFailureRelayedAsEvent(t *testing.T) {
	svc, sim := newTestService(t, types.EnvPhone)
	c := svc.Client()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := c.Events(ctx)
	c.StartUpdatingLocation(ctx)

	sim.SimulateError(fmt.Errorf("gps unavailable"))

	event := receiveEvent(t, events)
	assert.Equal(t, types.EventTypeLocationUpdatesFailed, event.Type)
	require.Error(t, event.Err)
	assert.True(t, apperrors.IsType(event.Err, apperrors.PlatformError))
	assert.Contains(t, event.Err.Error(), "gps unavailable")
}

func TestLocationService_SetAppliesPartialUpdates(t *testing.T) {
	svc, sim := newTestService(t, types.EnvPhone)
	c := svc.Client()
	ctx := context.Background()

	c.Set(ctx, types.ConfigurationSnapshot{DesiredAccuracy: types.Ptr(10.0)})
	c.Set(ctx, types.ConfigurationSnapshot{DistanceFilter: types.Ptr(50.0)})

	cfg := sim.Configuration()
	require.NotNil(t, cfg.DesiredAccuracy)
	assert.Equal(t, 10.0, *cfg.DesiredAccuracy, "earlier fields survive later partial updates")
	require.NotNil(t, cfg.DistanceFilter)
	assert.Equal(t, 50.0, *cfg.DistanceFilter)

	// Applying the same partial snapshot twice changes nothing.
	c.Set(ctx, types.ConfigurationSnapshot{DistanceFilter: types.Ptr(50.0)})
	assert.True(t, cfg.EquivalentOn(sim.Configuration(), types.EnvPhone))
}

func TestLocationService_SetStripsInapplicableFields(t *testing.T) {
	svc, sim := newTestService(t, types.EnvDesktop)
	c := svc.Client()
	ctx := context.Background()

	c.Set(ctx, types.ConfigurationSnapshot{
		DesiredAccuracy: types.Ptr(10.0),
		ActivityType:    types.Ptr(types.ActivityFitness),
	})

	cfg := sim.Configuration()
	require.NotNil(t, cfg.DesiredAccuracy)
	assert.Nil(t, cfg.ActivityType, "inapplicable fields are silently ignored")
}

func TestLocationService_ManagerCreatedLazilyAndOnce(t *testing.T) {
	var constructions atomic.Int32
	sim := platform.NewSimulator()
	svc := NewLocationService(types.EnvPhone, func() platform.Manager {
		constructions.Add(1)
		return sim
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	}()
	c := svc.Client()

	assert.Equal(t, int32(0), constructions.Load(), "construction is deferred to first access")

	ctx := context.Background()
	c.AuthorizationStatus(ctx)
	c.LocationServicesEnabled(ctx)
	c.StartUpdatingLocation(ctx)

	assert.Equal(t, int32(1), constructions.Load(), "the handle is retained, never recreated")
}

func TestLocationService_ConcurrentCallersSerializeOnTheLoop(t *testing.T) {
	svc, sim := newTestService(t, types.EnvPhone)
	c := svc.Client()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.StartUpdatingLocation(ctx)
			_ = c.AuthorizationStatus(ctx)
			_ = c.LocationServicesEnabled(ctx)
		}()
	}
	wg.Wait()

	assert.True(t, sim.IsUpdatingLocation())
}

// stallingManager blocks its status query until release closes, pinning the
// run loop mid-call so tests can abandon a hop in flight.
type stallingManager struct {
	platform.Manager
	release chan struct{}
}

func (m *stallingManager) AuthorizationStatus() types.AuthorizationStatus {
	<-m.release
	return m.Manager.AuthorizationStatus()
}

func TestLocationService_QueryAbandonedMidHopReturnsDefault(t *testing.T) {
	release := make(chan struct{})
	sim := platform.NewSimulator()
	sim.SetAuthorization(types.AuthorizationAlways, types.AccuracyFull)
	mgr := &stallingManager{Manager: sim, release: release}

	svc := NewLocationService(types.EnvPhone, func() platform.Manager { return mgr })
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})
	c := svc.Client()

	// The deadline fires while the run loop is still inside the platform
	// call; the caller gets the documented default, not a torn read of the
	// in-flight result.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Equal(t, types.AuthorizationNotDetermined, c.AuthorizationStatus(ctx))

	// Once the stalled call finishes, the loop is healthy again and a fresh
	// caller observes the real state.
	close(release)
	assert.Equal(t, types.AuthorizationAlways, c.AuthorizationStatus(context.Background()))
}

func TestLocationService_HeadingVisitAndBeaconEvents(t *testing.T) {
	svc, sim := newTestService(t, types.EnvPhone)
	c := svc.Client()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := c.Events(ctx)

	c.StartUpdatingHeading(ctx)
	require.True(t, sim.IsUpdatingHeading())
	sim.SimulateHeading(types.Heading{TrueHeading: 270, Timestamp: time.Now()})

	event := receiveEvent(t, events)
	assert.Equal(t, types.EventTypeHeadingUpdated, event.Type)
	require.NotNil(t, event.Heading)
	assert.Equal(t, 270.0, event.Heading.TrueHeading)

	sim.SimulateVisit(types.Visit{Coordinate: types.Coordinate{Latitude: 40.4}})
	event = receiveEvent(t, events)
	assert.Equal(t, types.EventTypeVisitReceived, event.Type)
	require.NotNil(t, event.Visit)

	beaconRegion := types.BeaconRegion{Identifier: "museum", UUID: "f7826da6"}
	c.StartRangingBeacons(ctx, beaconRegion)
	ranged := c.RangedBeaconRegions(ctx)
	require.Len(t, ranged, 1)
	assert.Equal(t, "museum", ranged[0].Identifier)

	sim.SimulateBeacons(beaconRegion, types.Beacon{Major: 1, Minor: 2, Proximity: types.ProximityNear})
	event = receiveEvent(t, events)
	assert.Equal(t, types.EventTypeBeaconsRanged, event.Type)
	require.Len(t, event.Beacons, 1)
	assert.Equal(t, types.ProximityNear, event.Beacons[0].Proximity)
}

func TestLocationService_ShutdownClosesSubscriptions(t *testing.T) {
	sim := platform.NewSimulator()
	svc := NewLocationService(types.EnvPhone, func() platform.Manager { return sim })
	c := svc.Client()

	ctx := context.Background()
	events := c.Events(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(shutdownCtx))

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
