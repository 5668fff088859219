package mission

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/spiral"
)

func buildTestSlice(t *testing.T, n, slices int) []Waypoint {
	t.Helper()
	p := spiral.NewParams(50, 1000, n, slices)
	path := spiral.Sample(p)
	b := NewBuilder(DefaultTuning(), FlatTerrain(0))
	return b.BuildSlice(context.Background(), path, 0, geo.LatLon{Lat: 44.0, Lon: -121.3})
}

func TestScheduleShape(t *testing.T) {
	for _, n := range []int{3, 5, 8, 12} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			p := spiral.NewParams(50, 1000, n, 3)
			seq := schedule(p)

			if want := 4*n + 3; len(seq) != want {
				t.Fatalf("schedule length = %d, want %d", len(seq), want)
			}

			if seq[0].phase != PhaseOutboundStart {
				t.Errorf("first phase = %q, want %q", seq[0].phase, PhaseOutboundStart)
			}

			// Outbound: every bounce is preceded by its midpoint, the first
			// bounce included.
			if seq[1].phase != phaseOutboundMid(1) {
				t.Errorf("second phase = %q, want %q", seq[1].phase, phaseOutboundMid(1))
			}
			var outMids, outBounces, inMids, inBounces int
			for _, s := range seq {
				switch {
				case strings.HasPrefix(s.phase, "outbound_mid"):
					outMids++
				case strings.HasPrefix(s.phase, "outbound_bounce"):
					outBounces++
				case strings.HasPrefix(s.phase, "inbound_mid"):
					inMids++
				case strings.HasPrefix(s.phase, "inbound_bounce"):
					inBounces++
				}
			}
			if outMids != n || outBounces != n {
				t.Errorf("outbound mids/bounces = %d/%d, want %d/%d", outMids, outBounces, n, n)
			}
			if inMids != n || inBounces != n {
				t.Errorf("inbound mids/bounces = %d/%d, want %d/%d", inMids, inBounces, n, n)
			}

			if last := seq[len(seq)-1]; last.phase != phaseInboundBounce(n) {
				t.Errorf("last phase = %q, want %q", last.phase, phaseInboundBounce(n))
			}

			// Curve parameters strictly increase.
			for i := 1; i < len(seq); i++ {
				if seq[i].t <= seq[i-1].t {
					t.Fatalf("schedule not strictly increasing at %d: %v then %v", i, seq[i-1].t, seq[i].t)
				}
			}

			// Midpoint/vertex classes match their phases.
			for _, s := range seq {
				isMid := strings.Contains(s.phase, "_mid")
				if isMid != (s.class == ClassMidpoint) {
					t.Errorf("phase %q classed as %v", s.phase, s.class)
				}
			}
		})
	}
}

func TestSchedulePhaseSequence(t *testing.T) {
	p := spiral.NewParams(50, 1000, 3, 3)
	seq := schedule(p)

	var phases []string
	for _, s := range seq {
		phases = append(phases, s.phase)
	}

	want := []string{
		"outbound_start",
		"outbound_mid_1", "outbound_bounce_1",
		"outbound_mid_2", "outbound_bounce_2",
		"outbound_mid_3", "outbound_bounce_3",
		"hold_mid", "hold_end",
		"inbound_mid_0", "inbound_bounce_1",
		"inbound_mid_1", "inbound_bounce_2",
		"inbound_mid_2", "inbound_bounce_3",
	}
	if diff := cmp.Diff(want, phases); diff != "" {
		t.Errorf("phase sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSliceWaypointCount(t *testing.T) {
	for _, n := range []int{3, 6, 10} {
		wps := buildTestSlice(t, n, 3)
		if want := 4*n + 3; len(wps) != want {
			t.Errorf("n=%d: %d waypoints, want %d", n, len(wps), want)
		}
		for i, wp := range wps {
			if wp.SequenceIndex != i {
				t.Errorf("waypoint %d has sequence index %d", i, wp.SequenceIndex)
			}
			if wp.SliceIndex != 0 {
				t.Errorf("waypoint %d has slice index %d", i, wp.SliceIndex)
			}
		}
	}
}

func TestBuildSliceAltitudes(t *testing.T) {
	tuning := DefaultTuning()
	wps := buildTestSlice(t, 6, 3)

	outboundMax := 0.0
	for _, wp := range wps {
		if wp.AltitudeAGL < tuning.MinHeightFt {
			t.Errorf("%s: AGL %v below minimum %v", wp.Phase, wp.AltitudeAGL, tuning.MinHeightFt)
		}
		if !inboundPhase(wp.Phase) {
			want := tuning.MinHeightFt + tuning.OutboundAltitudeSlope*wp.RadiusFromCenter
			if math.Abs(wp.AltitudeAGL-want) > 1e-9 {
				t.Errorf("%s: outbound AGL = %v, want %v", wp.Phase, wp.AltitudeAGL, want)
			}
			if wp.AltitudeAGL > outboundMax {
				outboundMax = wp.AltitudeAGL
			}
		}
	}

	// The inbound pass never climbs above the outbound maximum, and sits
	// strictly below it wherever the descent model is not floored.
	for _, wp := range wps {
		if inboundPhase(wp.Phase) && wp.AltitudeAGL > outboundMax+1e-9 {
			t.Errorf("%s: inbound AGL %v exceeds outbound max %v", wp.Phase, wp.AltitudeAGL, outboundMax)
		}
	}
}

func TestBuildSliceAltitudeCeiling(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxHeightFt = 150

	p := spiral.NewParams(50, 1000, 6, 3)
	path := spiral.Sample(p)
	b := NewBuilder(tuning, FlatTerrain(0))
	wps := b.BuildSlice(context.Background(), path, 0, geo.LatLon{})

	for _, wp := range wps {
		if wp.AltitudeAGL > tuning.MaxHeightFt+1e-9 {
			t.Errorf("%s: AGL %v exceeds ceiling %v", wp.Phase, wp.AltitudeAGL, tuning.MaxHeightFt)
		}
	}
}

func TestBuildSliceAbsoluteAltitude(t *testing.T) {
	const groundFt = 4500.0

	p := spiral.NewParams(50, 1000, 6, 3)
	path := spiral.Sample(p)
	b := NewBuilder(DefaultTuning(), FlatTerrain(groundFt))
	wps := b.BuildSlice(context.Background(), path, 0, geo.LatLon{Lat: 44, Lon: -121})

	for _, wp := range wps {
		if want := groundFt + wp.AltitudeAGL; math.Abs(wp.AbsoluteAltitude-want) > 1e-9 {
			t.Errorf("%s: absolute altitude = %v, want %v", wp.Phase, wp.AbsoluteAltitude, want)
		}
	}
}

func TestBuildSliceCurves(t *testing.T) {
	wps := buildTestSlice(t, 6, 3)

	for i, wp := range wps {
		policy := PolicyCurveRadius(wp.Class, wp.RadiusFromCenter)
		if wp.Class == ClassMidpoint && i > 0 && i < len(wps)-1 {
			// A midpoint curve is either the policy value or omitted when the
			// neighbouring triple is collinear.
			if wp.CurveRadius != policy && wp.CurveRadius != 0 {
				t.Errorf("%s: curve %v, want %v or 0", wp.Phase, wp.CurveRadius, policy)
			}
		} else if wp.CurveRadius != policy {
			t.Errorf("%s: curve %v, want policy %v", wp.Phase, wp.CurveRadius, policy)
		}
	}

	// Sanity: the sweep midpoints of a real spiral are not collinear with
	// their neighbours, so the wide curves must actually survive.
	var kept int
	for i, wp := range wps {
		if wp.Class == ClassMidpoint && i > 0 && i < len(wps)-1 && wp.CurveRadius > 0 {
			kept++
		}
	}
	if kept == 0 {
		t.Error("every midpoint curve was dropped as collinear")
	}
}

func TestBuildSliceWaypointsOnSamples(t *testing.T) {
	p := spiral.NewParams(50, 1000, 6, 3)
	path := spiral.Sample(p)
	b := NewBuilder(DefaultTuning(), FlatTerrain(0))
	wps := b.BuildSlice(context.Background(), path, 1, geo.LatLon{})

	// Every waypoint position must be an exact rotated sample, never a
	// re-evaluation of the radius law.
	for _, wp := range wps {
		found := false
		for _, pt := range path.Points {
			if geo.Rotate(pt, p.SliceOffset(1)) == wp.Local {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s: position %+v is not a rotated sample", wp.Phase, wp.Local)
		}
	}
}

func TestBuildMission(t *testing.T) {
	p := spiral.NewParams(50, 1000, 6, 3)
	b := NewBuilder(DefaultTuning(), FlatTerrain(0))
	plans := b.BuildMission(context.Background(), p, geo.LatLon{Lat: 44, Lon: -121})

	if len(plans) != p.Slices {
		t.Fatalf("%d plans, want %d", len(plans), p.Slices)
	}
	for k, plan := range plans {
		if plan.SliceIndex != k {
			t.Errorf("plan %d has slice index %d", k, plan.SliceIndex)
		}
		if len(plan.Waypoints) != 4*p.N+3 {
			t.Errorf("plan %d has %d waypoints, want %d", k, len(plan.Waypoints), 4*p.N+3)
		}
		if plan.EstimatedMinutes <= 0 {
			t.Errorf("plan %d estimate %v, want > 0", k, plan.EstimatedMinutes)
		}
	}

	// Slices are rotations of each other, so their estimates agree.
	for k := 1; k < len(plans); k++ {
		if math.Abs(plans[k].EstimatedMinutes-plans[0].EstimatedMinutes) > 1e-6 {
			t.Errorf("plan %d estimate %v differs from plan 0 estimate %v",
				k, plans[k].EstimatedMinutes, plans[0].EstimatedMinutes)
		}
	}
}
