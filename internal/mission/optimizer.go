package mission

import (
	"context"
	"log"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/spiral"
)

// Fallback parameters used when no search candidate fits the budget even at
// the minimum radius. Infeasibility degrades to a small, safe mission; it is
// never surfaced as a failure.
const (
	fallbackHoldRadiusFt = 200.0
	fallbackBounces      = 3
)

// Result is the outcome of sizing a spiral to a battery budget.
type Result struct {
	N                int     `json:"n"`
	RHoldFt          float64 `json:"rHold"`
	EstimatedMinutes float64 `json:"estimatedMinutes"`
	Utilization      float64 `json:"utilization"`
	TargetMinutes    float64 `json:"targetMinutes"`
	Batteries        int     `json:"batteries"`
	Iterations       int     `json:"iterations"`
	Fallback         bool    `json:"fallback"`
}

// Optimizer sizes the hold radius and bounce count so one battery's slice
// fills the duration budget as closely as possible without exceeding it.
type Optimizer struct {
	tuning  Tuning
	builder *Builder
}

// NewOptimizer returns an Optimizer evaluating candidates against the given
// terrain.
func NewOptimizer(t Tuning, terrain Terrain) *Optimizer {
	return &Optimizer{tuning: t, builder: NewBuilder(t, terrain)}
}

// BounceCountFor selects the fixed bounce count for a battery duration.
// Longer batteries afford more oscillations before the time budget binds.
func BounceCountFor(targetMinutes float64) int {
	switch {
	case targetMinutes <= 12:
		return 5
	case targetMinutes <= 18:
		return 6
	case targetMinutes <= 25:
		return 8
	case targetMinutes <= 35:
		return 10
	default:
		return spiral.MaxBounces
	}
}

// Optimize sizes the spiral for the given battery duration and count. The
// hold radius is binary-searched for a fixed bounce count, relying on flight
// time being non-decreasing in the radius; only candidates inside the margin
// are ever retained, so a locally non-monotonic estimate degrades to a
// smaller feasible result rather than an infeasible one.
func (o *Optimizer) Optimize(ctx context.Context, targetMinutes float64, batteries int, center geo.LatLon) Result {
	n := BounceCountFor(targetMinutes)

	best, iters, ok := o.search(ctx, targetMinutes, batteries, n, center)
	if !ok {
		return o.fallback(ctx, targetMinutes, batteries, center)
	}
	best.Iterations = iters

	// Bonus-bounce pass: a loosely-filled budget can afford one more
	// oscillation, but only if the denser pattern still fits the margin.
	if best.EstimatedMinutes < o.tuning.BonusBounceBelow*targetMinutes && n < spiral.MaxBounces {
		if denser, extra, ok := o.search(ctx, targetMinutes, batteries, n+1, center); ok {
			denser.Iterations = iters + extra
			best = denser
		}
	}

	return best
}

// search binary-searches the hold radius for a fixed bounce count. Returns
// ok=false when even the minimum radius misses the budget.
func (o *Optimizer) search(ctx context.Context, targetMinutes float64, batteries, n int, center geo.LatLon) (Result, int, bool) {
	t := o.tuning
	budget := t.BatteryMargin * targetMinutes

	lo, hi := t.SearchMinRadiusFt, t.SearchMaxRadiusFt

	bestRadius := -1.0
	bestMinutes := 0.0

	if m := o.evaluate(ctx, lo, n, batteries, center); m <= budget {
		bestRadius, bestMinutes = lo, m
	} else {
		return Result{}, 1, false
	}

	iters := 1
	for hi-lo > t.SearchToleranceFt && iters < t.SearchMaxIterations {
		mid := (lo + hi) / 2
		m := o.evaluate(ctx, mid, n, batteries, center)
		iters++
		if m <= budget {
			bestRadius, bestMinutes = mid, m
			lo = mid
		} else {
			hi = mid
		}
	}

	return Result{
		N:                n,
		RHoldFt:          bestRadius,
		EstimatedMinutes: bestMinutes,
		Utilization:      bestMinutes / targetMinutes,
		TargetMinutes:    targetMinutes,
		Batteries:        batteries,
	}, iters, true
}

// evaluate builds one representative slice at the candidate radius and
// estimates its flight time in minutes. One slice suffices: slices differ
// only by rotation, and each battery must fit the budget independently.
func (o *Optimizer) evaluate(ctx context.Context, rHold float64, n, batteries int, center geo.LatLon) float64 {
	p := spiral.NewParams(o.tuning.StartRadiusFt, rHold, n, batteries)
	path := spiral.Sample(p)
	wps := o.builder.BuildSlice(ctx, path, 0, center)
	return NewEstimator(o.tuning).MissionMinutes(wps)
}

func (o *Optimizer) fallback(ctx context.Context, targetMinutes float64, batteries int, center geo.LatLon) Result {
	log.Printf("spiral optimization infeasible for %.1f min budget, using conservative defaults", targetMinutes)
	m := o.evaluate(ctx, fallbackHoldRadiusFt, fallbackBounces, batteries, center)
	return Result{
		N:                fallbackBounces,
		RHoldFt:          fallbackHoldRadiusFt,
		EstimatedMinutes: m,
		Utilization:      m / targetMinutes,
		TargetMinutes:    targetMinutes,
		Batteries:        batteries,
		Iterations:       1,
		Fallback:         true,
	}
}
