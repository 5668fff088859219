package mission

import (
	"math"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
)

// Estimator computes the flight-time estimate for one battery's waypoint
// sequence. Each segment arrival pays horizontal travel, vertical travel,
// a hover settle, and an acceleration penalty; the mission adds fixed ascent
// and descent legs plus the return to the launch point.
type Estimator struct {
	tuning Tuning
}

// NewEstimator returns an Estimator using the given tuning.
func NewEstimator(t Tuning) Estimator {
	return Estimator{tuning: t}
}

// MissionSeconds estimates the total flight time of one battery's ordered
// waypoint sequence, in seconds. Sequences shorter than two waypoints cost
// only the fixed ascent and descent.
func (e Estimator) MissionSeconds(wps []Waypoint) float64 {
	t := e.tuning
	total := t.AscentSec

	for i := 1; i < len(wps); i++ {
		total += e.segmentSeconds(wps[i-1], wps[i])
	}

	if len(wps) > 1 {
		// Return to the launch point from wherever the sequence ended.
		launch := wps[0]
		last := wps[len(wps)-1]
		total += geo.Distance(last.Local, launch.Local) / t.HorizontalSpeedFtS
	}

	total += t.DescentSec
	return total
}

// MissionMinutes is MissionSeconds in minutes.
func (e Estimator) MissionMinutes(wps []Waypoint) float64 {
	return e.MissionSeconds(wps) / 60
}

func (e Estimator) segmentSeconds(from, to Waypoint) float64 {
	t := e.tuning
	horizontal := geo.Distance(from.Local, to.Local) / t.HorizontalSpeedFtS
	vertical := math.Abs(to.AbsoluteAltitude-from.AbsoluteAltitude) / t.VerticalSpeedFtS
	return horizontal + vertical + t.HoverSecPerArrival + t.AccelSecPerArrival
}
