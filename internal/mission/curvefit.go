package mission

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
)

// Smoothing-curve policy. Midpoints sit on the wide sweep arcs and get
// generous curves; vertices mark direction changes and get tight ones.
// Coefficients are empirically chosen and flagged for domain validation.
const (
	midpointCurveBase  = 50.0
	midpointCurveSlope = 1.2
	midpointCurveMax   = 1500.0

	vertexCurveBase  = 20.0
	vertexCurveSlope = 0.05
	vertexCurveMax   = 80.0
)

// PolicyCurveRadius returns the smoothing-curve radius for a waypoint of the
// given class at the given distance from the mission center, in feet,
// rounded to one decimal.
func PolicyCurveRadius(class Class, radiusFromCenter float64) float64 {
	var r float64
	switch class {
	case ClassMidpoint:
		r = math.Min(midpointCurveMax, midpointCurveBase+midpointCurveSlope*radiusFromCenter)
	default:
		r = math.Min(vertexCurveMax, vertexCurveBase+vertexCurveSlope*radiusFromCenter)
	}
	return math.Round(r*10) / 10
}

// FitRadius computes the radius of the circle through three local points by
// solving the circumcenter system. Collinear (or coincident) points admit no
// smoothing circle; ok is false and callers omit or clamp the curve rather
// than aborting the build.
func FitRadius(a, b, c geo.PointXY) (radius float64, ok bool) {
	// 2(bx-ax)cx + 2(by-ay)cy = |b|² - |a|²
	// 2(cx-ax)cx + 2(cy-ay)cy = |c|² - |a|²
	m := mat.NewDense(2, 2, []float64{
		2 * (b.X - a.X), 2 * (b.Y - a.Y),
		2 * (c.X - a.X), 2 * (c.Y - a.Y),
	})
	rhs := mat.NewVecDense(2, []float64{
		b.X*b.X + b.Y*b.Y - a.X*a.X - a.Y*a.Y,
		c.X*c.X + c.Y*c.Y - a.X*a.X - a.Y*a.Y,
	})

	var center mat.VecDense
	if err := center.SolveVec(m, rhs); err != nil {
		return 0, false
	}

	r := math.Hypot(center.AtVec(0)-a.X, center.AtVec(1)-a.Y)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}
