package mission

import (
	"context"
	"math"
	"strings"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/spiral"
)

// Terrain supplies ground elevation in feet for a geographic position.
// Implementations never fail: on lookup problems they return a configured
// default so a mission build cannot abort on elevation unavailability.
type Terrain interface {
	ElevationFt(ctx context.Context, pos geo.LatLon) float64
}

// FlatTerrain is a Terrain returning a constant elevation. Useful for tests
// and for planning without an external elevation service.
type FlatTerrain float64

// ElevationFt returns the constant elevation.
func (f FlatTerrain) ElevationFt(context.Context, geo.LatLon) float64 { return float64(f) }

// Builder assembles the ordered per-battery waypoint sequences for a spiral
// mission.
type Builder struct {
	tuning  Tuning
	terrain Terrain
}

// NewBuilder returns a Builder using the given tuning and terrain source.
func NewBuilder(t Tuning, terrain Terrain) *Builder {
	if terrain == nil {
		terrain = FlatTerrain(0)
	}
	return &Builder{tuning: t, terrain: terrain}
}

// scheduled is one planned stop on the slice curve before its position has
// been resolved.
type scheduled struct {
	t     float64
	phase string
	class Class
}

// schedule lays out the linear phase sequence of one slice:
// start → (mid, bounce)×N → hold mid → hold end → inbound mid 0 →
// (bounce, mid)×(N−1) → final inbound bounce.
//
// Every bounce transition emits its midpoint from the same loop body; the
// first one is not a special case.
func schedule(p spiral.Params) []scheduled {
	dphi := p.DPhi
	tOut := p.TOut()
	tEndHold := tOut + dphi

	seq := make([]scheduled, 0, 4*p.N+3)
	seq = append(seq, scheduled{0, PhaseOutboundStart, ClassVertex})

	for bounce := 1; bounce <= p.N; bounce++ {
		seq = append(seq,
			scheduled{(float64(bounce)-0.5)*dphi, phaseOutboundMid(bounce), ClassMidpoint},
			scheduled{float64(bounce) * dphi, phaseOutboundBounce(bounce), ClassVertex},
		)
	}

	seq = append(seq,
		scheduled{tOut + dphi/2, PhaseHoldMid, ClassMidpoint},
		scheduled{tEndHold, PhaseHoldEnd, ClassVertex},
	)

	seq = append(seq, scheduled{tEndHold + 0.5*dphi, phaseInboundMid(0), ClassMidpoint})
	for bounce := 1; bounce <= p.N; bounce++ {
		seq = append(seq, scheduled{tEndHold + float64(bounce)*dphi, phaseInboundBounce(bounce), ClassVertex})
		if bounce < p.N {
			seq = append(seq, scheduled{tEndHold + (float64(bounce)+0.5)*dphi, phaseInboundMid(bounce), ClassMidpoint})
		}
	}

	return seq
}

// BuildSlice produces the complete ordered waypoint sequence for one slice.
// Assembly runs in fixed passes over the materialized sequence: positions,
// smoothing curves, outbound/hold altitudes, inbound altitudes, then absolute
// altitudes from terrain. The inbound altitudes reference the maximum seen
// during the outbound/hold pass, so the passes cannot be fused.
func (b *Builder) BuildSlice(ctx context.Context, path *spiral.Path, sliceIdx int, center geo.LatLon) []Waypoint {
	seq := schedule(path.Params)

	wps := make([]Waypoint, len(seq))
	for i, s := range seq {
		pt := path.AtRotated(s.t, sliceIdx)
		wps[i] = Waypoint{
			Local:            pt,
			RadiusFromCenter: geo.RadiusFromCenter(pt),
			Angle:            s.t,
			Phase:            s.phase,
			Class:            s.class,
			SliceIndex:       sliceIdx,
			SequenceIndex:    i,
		}
	}

	b.assignCurves(wps)
	b.assignAltitudes(ctx, wps, center)
	return wps
}

// assignCurves applies the smoothing-curve policy. Midpoints whose local
// point triple is collinear admit no smoothing circle; their curve is
// omitted (zero) and the export floor takes over.
func (b *Builder) assignCurves(wps []Waypoint) {
	for i := range wps {
		wps[i].CurveRadius = PolicyCurveRadius(wps[i].Class, wps[i].RadiusFromCenter)
		if wps[i].Class != ClassMidpoint || i == 0 || i == len(wps)-1 {
			continue
		}
		if _, ok := FitRadius(wps[i-1].Local, wps[i].Local, wps[i+1].Local); !ok {
			wps[i].CurveRadius = 0
		}
	}
}

// assignAltitudes runs the two altitude passes and then resolves absolute
// altitudes against terrain. Pass 1 (outbound and hold) climbs with radius
// and tracks the running maximum; pass 2 (inbound) descends from that
// maximum, floored at the minimum height. The resulting differential between
// the passes at comparable radii diversifies the viewing perspective.
func (b *Builder) assignAltitudes(ctx context.Context, wps []Waypoint, center geo.LatLon) {
	t := b.tuning

	maxRadius := 0.0
	for i := range wps {
		if wps[i].RadiusFromCenter > maxRadius {
			maxRadius = wps[i].RadiusFromCenter
		}
	}

	runningMax := t.MinHeightFt
	for i := range wps {
		if inboundPhase(wps[i].Phase) {
			continue
		}
		agl := t.MinHeightFt + t.OutboundAltitudeSlope*wps[i].RadiusFromCenter
		agl = b.capHeight(agl)
		wps[i].AltitudeAGL = agl
		if agl > runningMax {
			runningMax = agl
		}
	}

	for i := range wps {
		if !inboundPhase(wps[i].Phase) {
			continue
		}
		agl := runningMax - t.InboundAltitudeSlope*(maxRadius-wps[i].RadiusFromCenter)
		if agl < t.MinHeightFt {
			agl = t.MinHeightFt
		}
		wps[i].AltitudeAGL = b.capHeight(agl)
	}

	for i := range wps {
		pos := geo.XYToLatLon(wps[i].Local, center)
		wps[i].AbsoluteAltitude = b.terrain.ElevationFt(ctx, pos) + wps[i].AltitudeAGL
	}
}

func (b *Builder) capHeight(agl float64) float64 {
	if b.tuning.MaxHeightFt > 0 {
		return math.Min(agl, b.tuning.MaxHeightFt)
	}
	return agl
}

func inboundPhase(phase string) bool {
	return strings.HasPrefix(phase, "inbound")
}

// BuildMission builds every slice of a mission and attaches independent
// flight-time estimates. The dense sample path is generated once and shared
// by all slices.
func (b *Builder) BuildMission(ctx context.Context, p spiral.Params, center geo.LatLon) []BatteryPlan {
	path := spiral.Sample(p)
	est := NewEstimator(b.tuning)

	plans := make([]BatteryPlan, p.Slices)
	for k := 0; k < p.Slices; k++ {
		wps := b.BuildSlice(ctx, path, k, center)
		plans[k] = BatteryPlan{
			SliceIndex:       k,
			Waypoints:        wps,
			EstimatedMinutes: est.MissionMinutes(wps),
		}
	}
	return plans
}
