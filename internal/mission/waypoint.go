// Package mission assembles per-battery waypoint sequences from the spiral
// geometry, assigns smoothing curves and terrain-following altitudes,
// estimates flight time, and sizes the spiral to a battery-duration budget.
package mission

import (
	"fmt"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
)

// Class distinguishes smoothing-curve treatment: wide curves at sweep
// midpoints favour smooth flight, tight curves at direction-change vertices
// favour positional accuracy.
type Class int

const (
	// ClassVertex covers starts, bounce apexes, and hold/inbound endpoints.
	ClassVertex Class = iota
	// ClassMidpoint covers the mid-sweep smoothing points.
	ClassMidpoint
)

// Waypoint is one commanded position in a battery's flight sequence.
// Immutable once the builder has finished the slice.
type Waypoint struct {
	Local            geo.PointXY `json:"local"`
	RadiusFromCenter float64     `json:"radiusFromCenter"`
	Angle            float64     `json:"angle"` // curve parameter t, radians
	Phase            string      `json:"phase"`
	Class            Class       `json:"-"`
	AltitudeAGL      float64     `json:"altitudeAGL"`
	AbsoluteAltitude float64     `json:"absoluteAltitude"`
	CurveRadius      float64     `json:"curveRadius"`
	SliceIndex       int         `json:"sliceIndex"`
	SequenceIndex    int         `json:"sequenceIndex"`
}

// BatteryPlan is the ordered waypoint sequence flown on one battery, together
// with its independent flight-time estimate. Battery estimates are never
// summed across a mission: each battery must fit the budget on its own.
type BatteryPlan struct {
	SliceIndex       int        `json:"sliceIndex"`
	Waypoints        []Waypoint `json:"waypoints"`
	EstimatedMinutes float64    `json:"estimatedMinutes"`
}

// Phase label constructors. Labels are stable identifiers carried through to
// exports and logs.
const (
	PhaseOutboundStart = "outbound_start"
	PhaseHoldMid       = "hold_mid"
	PhaseHoldEnd       = "hold_end"
)

func phaseOutboundMid(bounce int) string    { return fmt.Sprintf("outbound_mid_%d", bounce) }
func phaseOutboundBounce(bounce int) string { return fmt.Sprintf("outbound_bounce_%d", bounce) }
func phaseInboundMid(bounce int) string     { return fmt.Sprintf("inbound_mid_%d", bounce) }
func phaseInboundBounce(bounce int) string  { return fmt.Sprintf("inbound_bounce_%d", bounce) }
