package types

import (
	"time"

	"github.com/google/uuid"
)

// EventType tags one kind of platform occurrence.
type EventType string

const (
	CategoryAuthorization = "AUTHORIZATION"
	CategoryLocation      = "LOCATION"
	CategoryHeading       = "HEADING"
	CategoryRegion        = "REGION"
	CategoryBeacon        = "BEACON"
	CategoryVisit         = "VISIT"
)

const (
	// Authorization events
	EventTypeAuthorizationChanged EventType = CategoryAuthorization + "_CHANGED"

	// Location events
	EventTypeLocationsUpdated      EventType = CategoryLocation + "_UPDATED"
	EventTypeLocationUpdatesFailed EventType = CategoryLocation + "_UPDATE_FAILED"

	// Heading events
	EventTypeHeadingUpdated EventType = CategoryHeading + "_UPDATED"

	// Region events
	EventTypeRegionEntered          EventType = CategoryRegion + "_ENTERED"
	EventTypeRegionExited           EventType = CategoryRegion + "_EXITED"
	EventTypeRegionMonitoringFailed EventType = CategoryRegion + "_MONITORING_FAILED"

	// Beacon events
	EventTypeBeaconsRanged       EventType = CategoryBeacon + "_RANGED"
	EventTypeBeaconRangingFailed EventType = CategoryBeacon + "_RANGING_FAILED"

	// Visit events
	EventTypeVisitReceived EventType = CategoryVisit + "_RECEIVED"
)

// Event is one occurrence reported by the platform. The union is closed: every
// variant is always present in the type, and only the payload fields relevant
// to Type are populated. Events are immutable once constructed and carry no
// history — a subscriber only ever sees events published after it subscribed.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	Status       *AuthorizationChange `json:"status,omitempty"`
	Locations    []Location           `json:"locations,omitempty"`
	Heading      *Heading             `json:"heading,omitempty"`
	Region       *Region              `json:"region,omitempty"`
	BeaconRegion *BeaconRegion        `json:"beaconRegion,omitempty"`
	Beacons      []Beacon             `json:"beacons,omitempty"`
	Visit        *Visit               `json:"visit,omitempty"`
	Err          error                `json:"-"`
}

// AuthorizationChange is the payload of an authorization-changed event.
type AuthorizationChange struct {
	Status   AuthorizationStatus   `json:"status"`
	Accuracy AccuracyAuthorization `json:"accuracy"`
}

func newEvent(t EventType) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now(),
	}
}

// NewAuthorizationChangedEvent reports a change in what the user has granted.
func NewAuthorizationChangedEvent(status AuthorizationStatus, accuracy AccuracyAuthorization) Event {
	e := newEvent(EventTypeAuthorizationChanged)
	e.Status = &AuthorizationChange{Status: status, Accuracy: accuracy}
	return e
}

// NewLocationsUpdatedEvent reports one or more fresh fixes, oldest first.
func NewLocationsUpdatedEvent(locations []Location) Event {
	e := newEvent(EventTypeLocationsUpdated)
	e.Locations = locations
	return e
}

// NewLocationUpdatesFailedEvent relays a platform-reported fetch failure.
func NewLocationUpdatesFailedEvent(err error) Event {
	e := newEvent(EventTypeLocationUpdatesFailed)
	e.Err = err
	return e
}

// NewHeadingUpdatedEvent reports a fresh compass reading.
func NewHeadingUpdatedEvent(heading Heading) Event {
	e := newEvent(EventTypeHeadingUpdated)
	e.Heading = &heading
	return e
}

// NewRegionEnteredEvent reports entry into a monitored region.
func NewRegionEnteredEvent(region Region) Event {
	e := newEvent(EventTypeRegionEntered)
	e.Region = &region
	return e
}

// NewRegionExitedEvent reports exit from a monitored region.
func NewRegionExitedEvent(region Region) Event {
	e := newEvent(EventTypeRegionExited)
	e.Region = &region
	return e
}

// NewRegionMonitoringFailedEvent relays a monitoring failure. The region is
// nil when the platform could not attribute the failure to one.
func NewRegionMonitoringFailedEvent(region *Region, err error) Event {
	e := newEvent(EventTypeRegionMonitoringFailed)
	e.Region = region
	e.Err = err
	return e
}

// NewBeaconsRangedEvent reports a batch of beacon readings for one region.
func NewBeaconsRangedEvent(beacons []Beacon, region BeaconRegion) Event {
	e := newEvent(EventTypeBeaconsRanged)
	e.Beacons = beacons
	e.BeaconRegion = &region
	return e
}

// NewBeaconRangingFailedEvent relays a ranging failure for one region.
func NewBeaconRangingFailedEvent(region BeaconRegion, err error) Event {
	e := newEvent(EventTypeBeaconRangingFailed)
	e.BeaconRegion = &region
	e.Err = err
	return e
}

// NewVisitReceivedEvent reports a platform-detected visit.
func NewVisitReceivedEvent(visit Visit) Event {
	e := newEvent(EventTypeVisitReceived)
	e.Visit = &visit
	return e
}
