// Package spiral implements the bounded-spiral geometry engine. A mission is
// flown as a set of angular slices; within one slice the aircraft sweeps back
// and forth ("bounces") across the slice angle while the radius grows
// exponentially outward, holds, then decays back inward.
package spiral

import (
	"math"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
)

// Parameter bounds. Out-of-range inputs are clamped, never rejected: a
// mission build must always produce a flyable result.
const (
	MinBounces = 3
	MaxBounces = 12
	MinSlices  = 1
	MaxSlices  = 10

	// ExpansionDamping scales the exponential growth rate so the attained
	// apex radius stays below the nominal hold radius. Empirically chosen;
	// flagged for domain validation rather than re-derived.
	ExpansionDamping = 0.86

	// SamplesPerSlice is the fixed sample resolution of one slice curve.
	// All waypoint coordinates resolve against these samples by nearest
	// lookup, never by re-evaluating the radius law, so exported and
	// previewed paths are bit-identical.
	SamplesPerSlice = 1200
)

// Params describes one spiral mission. Construct with NewParams so the
// derived fields are consistent; treat as immutable afterwards.
type Params struct {
	R0     float64 // start radius, feet
	RHold  float64 // nominal hold radius, feet
	N      int     // bounce count
	Slices int     // battery / slice count

	// Derived.
	DPhi  float64 // slice angular width, 2π/Slices
	Alpha float64 // damped exponential growth rate
}

// NewParams builds Params from raw inputs, clamping every field to its
// documented bounds.
func NewParams(r0, rHold float64, n, slices int) Params {
	if r0 < 1 {
		r0 = 1
	}
	if rHold <= r0 {
		rHold = r0 + 1
	}
	n = clampInt(n, MinBounces, MaxBounces)
	slices = clampInt(slices, MinSlices, MaxSlices)

	dphi := 2 * math.Pi / float64(slices)
	alpha := math.Log(rHold/r0) / (float64(n) * dphi) * ExpansionDamping

	return Params{
		R0:     r0,
		RHold:  rHold,
		N:      n,
		Slices: slices,
		DPhi:   dphi,
		Alpha:  alpha,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TOut returns the curve parameter at the end of the outbound phase.
func (p Params) TOut() float64 { return float64(p.N) * p.DPhi }

// TTotal returns the curve parameter at the end of the inbound phase:
// outbound + hold + inbound.
func (p Params) TTotal() float64 { return 2*p.TOut() + p.DPhi }

// ApexRadius returns the radius actually attained at the end of the outbound
// phase. The expansion damping keeps it below the nominal RHold; the hold
// phase flies at this radius so the radius law is continuous across phase
// boundaries.
func (p Params) ApexRadius() float64 {
	return p.R0 * math.Exp(p.Alpha*p.TOut())
}

// Radius evaluates the three-phase radius law at curve parameter t.
func (p Params) Radius(t float64) float64 {
	tOut := p.TOut()
	switch {
	case t <= tOut:
		return p.R0 * math.Exp(p.Alpha*t)
	case t <= tOut+p.DPhi:
		return p.ApexRadius()
	default:
		return p.R0 * math.Exp(p.Alpha*(p.TTotal()-t))
	}
}

// fold maps t onto the back-and-forth angular sweep: t/dphi folded modulo 2
// and mirrored onto [0, dphi].
func (p Params) fold(t float64) float64 {
	phase := math.Mod(math.Mod(t/p.DPhi, 2)+2, 2)
	if phase <= 1 {
		return phase * p.DPhi
	}
	return (2 - phase) * p.DPhi
}

// SliceOffset returns the fixed rotation applied to slice k so the slices
// tile the full circle, with slice 0 anchored at north.
func (p Params) SliceOffset(k int) float64 {
	return math.Pi/2 + float64(k)*p.DPhi
}

// Path is the dense sample set of one slice curve, in slice-local
// (unrotated) coordinates.
type Path struct {
	Params Params
	Points []geo.PointXY
}

// Sample generates the dense fixed-resolution sample set for one slice.
func Sample(p Params) *Path {
	pts := make([]geo.PointXY, SamplesPerSlice)
	tTotal := p.TTotal()
	for i := range pts {
		t := float64(i) * tTotal / float64(SamplesPerSlice-1)
		r := p.Radius(t)
		phi := p.fold(t)
		pts[i] = geo.PointXY{
			X: r * math.Cos(phi),
			Y: r * math.Sin(phi),
		}
	}
	return &Path{Params: p, Points: pts}
}

// At resolves the sample nearest to curve parameter t. This is the only way
// downstream code obtains coordinates from the curve.
func (sp *Path) At(t float64) geo.PointXY {
	idx := int(math.Round(t * float64(len(sp.Points)-1) / sp.Params.TTotal()))
	if idx < 0 {
		idx = 0
	}
	if idx > len(sp.Points)-1 {
		idx = len(sp.Points) - 1
	}
	return sp.Points[idx]
}

// AtRotated resolves the nearest sample to t and rotates it into the
// orientation of slice k.
func (sp *Path) AtRotated(t float64, k int) geo.PointXY {
	return geo.Rotate(sp.At(t), sp.Params.SliceOffset(k))
}
