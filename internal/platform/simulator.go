package platform

import (
	"sync"

	"go.uber.org/zap"

	"github.com/WayfinderHQ/location-kit/logger"
	"github.com/WayfinderHQ/location-kit/types"
)

// Simulator is a deterministic, in-memory Manager. It backs preview runs and
// every test that drives the live adapter: scripts decide authorization
// outcomes, tests inject delegate callbacks, and all state is inspectable.
//
// Unlike a real platform handle it is safe to touch from any goroutine, so
// tests can script it while the adapter's run loop drives it.
type Simulator struct {
	log *zap.SugaredLogger

	mu       sync.Mutex
	delegate Delegate

	authStatus      types.AuthorizationStatus
	accuracy        types.AccuracyAuthorization
	servicesEnabled bool
	lastLocation    *types.Location
	lastHeading     *types.Heading
	maxRegionDist   float64

	monitored map[string]types.Region
	ranged    map[string]types.BeaconRegion
	config    types.ConfigurationSnapshot

	updatingLocation    bool
	updatingHeading     bool
	monitoringSigChange bool
	monitoringVisits    bool

	// GrantOnRequest is the status installed (and reported through the
	// delegate) when an authorization request arrives.
	GrantOnRequest types.AuthorizationStatus

	// FullAccuracyHandler decides temporary full-accuracy requests. The
	// default grants every purpose key.
	FullAccuracyHandler func(purposeKey string) error
}

// NewSimulator creates a simulator with services enabled and authorization
// not yet determined.
func NewSimulator() *Simulator {
	return &Simulator{
		log:             logger.GetLogger().Named("platform_simulator"),
		authStatus:      types.AuthorizationNotDetermined,
		accuracy:        types.AccuracyFull,
		servicesEnabled: true,
		maxRegionDist:   1000,
		monitored:       make(map[string]types.Region),
		ranged:          make(map[string]types.BeaconRegion),
		GrantOnRequest:  types.AuthorizationWhenInUse,
	}
}

func (s *Simulator) SetDelegate(d Delegate) {
	s.mu.Lock()
	s.delegate = d
	s.mu.Unlock()
}

func (s *Simulator) AuthorizationStatus() types.AuthorizationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authStatus
}

func (s *Simulator) AccuracyAuthorization() types.AccuracyAuthorization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accuracy
}

func (s *Simulator) LocationServicesEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servicesEnabled
}

func (s *Simulator) Location() *types.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLocation
}

func (s *Simulator) Heading() *types.Heading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHeading
}

func (s *Simulator) MaximumRegionMonitoringDistance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxRegionDist
}

func (s *Simulator) MonitoredRegions() []types.Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	regions := make([]types.Region, 0, len(s.monitored))
	for _, r := range s.monitored {
		regions = append(regions, r)
	}
	return regions
}

func (s *Simulator) RangedBeaconRegions() []types.BeaconRegion {
	s.mu.Lock()
	defer s.mu.Unlock()
	regions := make([]types.BeaconRegion, 0, len(s.ranged))
	for _, r := range s.ranged {
		regions = append(regions, r)
	}
	return regions
}

func (s *Simulator) RequestWhenInUseAuthorization() {
	s.grantAuthorization()
}

func (s *Simulator) RequestAlwaysAuthorization() {
	s.grantAuthorization()
}

func (s *Simulator) grantAuthorization() {
	s.mu.Lock()
	if s.authStatus != types.AuthorizationNotDetermined {
		s.mu.Unlock()
		return
	}
	s.authStatus = s.GrantOnRequest
	status, accuracy, delegate := s.authStatus, s.accuracy, s.delegate
	s.mu.Unlock()

	if delegate != nil {
		delegate.DidChangeAuthorization(status, accuracy)
	}
}

func (s *Simulator) RequestTemporaryFullAccuracy(purposeKey string, completion func(error)) {
	s.mu.Lock()
	handler := s.FullAccuracyHandler
	s.mu.Unlock()

	if handler == nil {
		s.mu.Lock()
		s.accuracy = types.AccuracyFull
		s.mu.Unlock()
		completion(nil)
		return
	}

	err := handler(purposeKey)
	if err == nil {
		s.mu.Lock()
		s.accuracy = types.AccuracyFull
		s.mu.Unlock()
	}
	completion(err)
}

func (s *Simulator) RequestLocation() {
	s.mu.Lock()
	loc, delegate := s.lastLocation, s.delegate
	s.mu.Unlock()

	if delegate != nil && loc != nil {
		delegate.DidUpdateLocations([]types.Location{*loc})
	}
}

func (s *Simulator) StartUpdatingLocation() { s.setFlag(&s.updatingLocation, true) }
func (s *Simulator) StopUpdatingLocation()  { s.setFlag(&s.updatingLocation, false) }
func (s *Simulator) StartUpdatingHeading()  { s.setFlag(&s.updatingHeading, true) }
func (s *Simulator) StopUpdatingHeading()   { s.setFlag(&s.updatingHeading, false) }

func (s *Simulator) DismissHeadingCalibrationDisplay() {}

func (s *Simulator) StartMonitoringSignificantLocationChanges() {
	s.setFlag(&s.monitoringSigChange, true)
}

func (s *Simulator) StopMonitoringSignificantLocationChanges() {
	s.setFlag(&s.monitoringSigChange, false)
}

func (s *Simulator) StartMonitoringVisits() { s.setFlag(&s.monitoringVisits, true) }
func (s *Simulator) StopMonitoringVisits()  { s.setFlag(&s.monitoringVisits, false) }

func (s *Simulator) setFlag(flag *bool, v bool) {
	s.mu.Lock()
	*flag = v
	s.mu.Unlock()
}

func (s *Simulator) StartMonitoring(region types.Region) {
	s.mu.Lock()
	s.monitored[region.Identifier] = region
	s.mu.Unlock()
}

func (s *Simulator) StopMonitoring(region types.Region) {
	s.mu.Lock()
	delete(s.monitored, region.Identifier)
	s.mu.Unlock()
}

func (s *Simulator) StartRangingBeacons(region types.BeaconRegion) {
	s.mu.Lock()
	s.ranged[region.Identifier] = region
	s.mu.Unlock()
}

func (s *Simulator) StopRangingBeacons(region types.BeaconRegion) {
	s.mu.Lock()
	delete(s.ranged, region.Identifier)
	s.mu.Unlock()
}

func (s *Simulator) Configure(cfg types.ConfigurationSnapshot) {
	s.mu.Lock()
	s.config = s.config.Merge(cfg)
	s.mu.Unlock()
	s.log.Debugw("Applied configuration", "config", cfg)
}

// Configuration returns the accumulated effect of every Configure call.
func (s *Simulator) Configuration() types.ConfigurationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// IsUpdatingLocation reports whether location updates are running.
func (s *Simulator) IsUpdatingLocation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatingLocation
}

// IsUpdatingHeading reports whether heading updates are running.
func (s *Simulator) IsUpdatingHeading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatingHeading
}

// SetAuthorization scripts the current authorization state without going
// through a request, firing the delegate like a Settings-app change would.
func (s *Simulator) SetAuthorization(status types.AuthorizationStatus, accuracy types.AccuracyAuthorization) {
	s.mu.Lock()
	s.authStatus = status
	s.accuracy = accuracy
	delegate := s.delegate
	s.mu.Unlock()

	if delegate != nil {
		delegate.DidChangeAuthorization(status, accuracy)
	}
}

// SetLocationServicesEnabled scripts the global services toggle.
func (s *Simulator) SetLocationServicesEnabled(enabled bool) {
	s.mu.Lock()
	s.servicesEnabled = enabled
	s.mu.Unlock()
}

// SimulateLocations delivers fixes through the delegate and records the most
// recent one as the last known location.
func (s *Simulator) SimulateLocations(locations ...types.Location) {
	s.mu.Lock()
	if len(locations) > 0 {
		last := locations[len(locations)-1]
		s.lastLocation = &last
	}
	delegate := s.delegate
	s.mu.Unlock()

	if delegate != nil {
		delegate.DidUpdateLocations(locations)
	}
}

// SimulateHeading delivers a compass reading through the delegate.
func (s *Simulator) SimulateHeading(heading types.Heading) {
	s.mu.Lock()
	s.lastHeading = &heading
	delegate := s.delegate
	s.mu.Unlock()

	if delegate != nil {
		delegate.DidUpdateHeading(heading)
	}
}

// SimulateError delivers an ambient platform failure through the delegate.
func (s *Simulator) SimulateError(err error) {
	s.mu.Lock()
	delegate := s.delegate
	s.mu.Unlock()

	if delegate != nil {
		delegate.DidFailWithError(err)
	}
}

// SimulateRegionEvent delivers a region crossing through the delegate.
func (s *Simulator) SimulateRegionEvent(region types.Region, entered bool) {
	s.mu.Lock()
	delegate := s.delegate
	s.mu.Unlock()

	if delegate == nil {
		return
	}
	if entered {
		delegate.DidEnterRegion(region)
	} else {
		delegate.DidExitRegion(region)
	}
}

// SimulateVisit delivers a visit through the delegate.
func (s *Simulator) SimulateVisit(visit types.Visit) {
	s.mu.Lock()
	delegate := s.delegate
	s.mu.Unlock()

	if delegate != nil {
		delegate.DidVisit(visit)
	}
}

// SimulateBeacons delivers a batch of beacon readings through the delegate.
func (s *Simulator) SimulateBeacons(region types.BeaconRegion, beacons ...types.Beacon) {
	s.mu.Lock()
	delegate := s.delegate
	s.mu.Unlock()

	if delegate != nil {
		delegate.DidRangeBeacons(beacons, region)
	}
}
