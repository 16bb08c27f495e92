package types

import (
	"time"
)

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a single fix reported by the platform location service.
// Values are immutable snapshots; the platform owns all filtering and smoothing.
type Location struct {
	Coordinate         Coordinate `json:"coordinate"`
	Altitude           float64    `json:"altitude"`
	HorizontalAccuracy float64    `json:"horizontalAccuracy"`
	VerticalAccuracy   float64    `json:"verticalAccuracy"`
	Speed              float64    `json:"speed"`
	Course             float64    `json:"course"`
	Timestamp          time.Time  `json:"timestamp"`
}

// Heading is a single compass reading.
type Heading struct {
	MagneticHeading float64   `json:"magneticHeading"`
	TrueHeading     float64   `json:"trueHeading"`
	Accuracy        float64   `json:"accuracy"`
	X               float64   `json:"x"`
	Y               float64   `json:"y"`
	Z               float64   `json:"z"`
	Timestamp       time.Time `json:"timestamp"`
}

// Region describes a circular geographic region for monitoring.
type Region struct {
	Identifier    string     `json:"identifier"`
	Center        Coordinate `json:"center"`
	Radius        float64    `json:"radius"`
	NotifyOnEntry bool       `json:"notifyOnEntry"`
	NotifyOnExit  bool       `json:"notifyOnExit"`
}

// BeaconRegion constrains beacon ranging to a proximity UUID, optionally
// narrowed by major/minor values.
type BeaconRegion struct {
	Identifier string  `json:"identifier"`
	UUID       string  `json:"uuid"`
	Major      *uint16 `json:"major,omitempty"`
	Minor      *uint16 `json:"minor,omitempty"`
}

// BeaconProximity classifies the rough distance to a ranged beacon.
type BeaconProximity string

const (
	ProximityUnknown   BeaconProximity = "unknown"
	ProximityImmediate BeaconProximity = "immediate"
	ProximityNear      BeaconProximity = "near"
	ProximityFar       BeaconProximity = "far"
)

// Beacon is a single ranged beacon reading.
type Beacon struct {
	UUID      string          `json:"uuid"`
	Major     uint16          `json:"major"`
	Minor     uint16          `json:"minor"`
	Proximity BeaconProximity `json:"proximity"`
	Accuracy  float64         `json:"accuracy"`
	RSSI      int             `json:"rssi"`
	Timestamp time.Time       `json:"timestamp"`
}

// Visit records an arrival/departure pair at a place the platform judged
// noteworthy.
type Visit struct {
	Coordinate         Coordinate `json:"coordinate"`
	HorizontalAccuracy float64    `json:"horizontalAccuracy"`
	ArrivalDate        time.Time  `json:"arrivalDate"`
	DepartureDate      time.Time  `json:"departureDate"`
}

// AuthorizationStatus reflects what the user has granted the app.
type AuthorizationStatus string

const (
	AuthorizationNotDetermined AuthorizationStatus = "notDetermined"
	AuthorizationRestricted    AuthorizationStatus = "restricted"
	AuthorizationDenied        AuthorizationStatus = "denied"
	AuthorizationWhenInUse     AuthorizationStatus = "authorizedWhenInUse"
	AuthorizationAlways        AuthorizationStatus = "authorizedAlways"
)

// AccuracyAuthorization reflects whether fixes arrive at full or reduced
// precision.
type AccuracyAuthorization string

const (
	AccuracyFull    AccuracyAuthorization = "fullAccuracy"
	AccuracyReduced AccuracyAuthorization = "reducedAccuracy"
)

// ActivityType hints the platform about the motion profile driving updates.
type ActivityType string

const (
	ActivityOther           ActivityType = "other"
	ActivityAutomotive      ActivityType = "automotiveNavigation"
	ActivityFitness         ActivityType = "fitness"
	ActivityOtherNavigation ActivityType = "otherNavigation"
	ActivityAirborne        ActivityType = "airborne"
)
