package mission

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
)

func TestBounceCountFor(t *testing.T) {
	tests := []struct {
		minutes float64
		want    int
	}{
		{5, 5},
		{12, 5},
		{15, 6},
		{18, 6},
		{20, 8},
		{25, 8},
		{30, 10},
		{35, 10},
		{45, 12},
		{60, 12},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.0fmin", tt.minutes), func(t *testing.T) {
			assert.Equal(t, tt.want, BounceCountFor(tt.minutes))
		})
	}
}

func TestOptimizeStandardBattery(t *testing.T) {
	tuning := DefaultTuning()
	opt := NewOptimizer(tuning, FlatTerrain(0))

	res := opt.Optimize(context.Background(), 20, 3, geo.LatLon{})

	require.False(t, res.Fallback)
	assert.Equal(t, 8, res.N)
	assert.Equal(t, 20.0, res.TargetMinutes)
	assert.Equal(t, 3, res.Batteries)

	// The estimate must fit under the margin but fill most of the budget.
	assert.LessOrEqual(t, res.EstimatedMinutes, tuning.BatteryMargin*20)
	assert.GreaterOrEqual(t, res.Utilization, 0.9)

	// The radius stays inside the search window and converged quickly.
	assert.GreaterOrEqual(t, res.RHoldFt, tuning.SearchMinRadiusFt)
	assert.LessOrEqual(t, res.RHoldFt, tuning.SearchMaxRadiusFt)
	assert.LessOrEqual(t, res.Iterations, 15)
}

func TestOptimizeConvergesToBatteryMargin(t *testing.T) {
	// With a 20 minute battery the feasibility boundary sits inside the
	// radius window, so the search converges to an estimate just under the
	// 19.0 minute margin instead of pinning against the 4000 ft cap.
	tuning := DefaultTuning()
	opt := NewOptimizer(tuning, FlatTerrain(0))

	res := opt.Optimize(context.Background(), 20, 3, geo.LatLon{})

	require.False(t, res.Fallback)
	margin := tuning.BatteryMargin * 20
	assert.LessOrEqual(t, res.EstimatedMinutes, margin)
	assert.InDelta(t, margin, res.EstimatedMinutes, 0.1)
	assert.Less(t, res.RHoldFt, tuning.SearchMaxRadiusFt-tuning.SearchToleranceFt)
}

func TestOptimizeShortBattery(t *testing.T) {
	tuning := DefaultTuning()
	opt := NewOptimizer(tuning, FlatTerrain(0))

	res := opt.Optimize(context.Background(), 10, 2, geo.LatLon{})

	require.False(t, res.Fallback)
	assert.Equal(t, 5, res.N)
	assert.LessOrEqual(t, res.EstimatedMinutes, tuning.BatteryMargin*10)
	assert.GreaterOrEqual(t, res.Utilization, 0.9)
	assert.LessOrEqual(t, res.Iterations, 15)
}

func TestOptimizeFallback(t *testing.T) {
	// A 5 minute budget cannot fit a 5 bounce slice even at the minimum
	// radius; the optimizer must degrade to the conservative defaults
	// rather than fail.
	opt := NewOptimizer(DefaultTuning(), FlatTerrain(0))

	res := opt.Optimize(context.Background(), 5, 1, geo.LatLon{})

	require.True(t, res.Fallback)
	assert.Equal(t, fallbackBounces, res.N)
	assert.Equal(t, fallbackHoldRadiusFt, res.RHoldFt)
	assert.Greater(t, res.EstimatedMinutes, 0.0)
}

func TestOptimizeBonusBounce(t *testing.T) {
	// At 30 minutes the 10 bounce pattern maxes out the radius window well
	// under the budget, so the optimizer spends the slack on an extra bounce.
	opt := NewOptimizer(DefaultTuning(), FlatTerrain(0))

	res := opt.Optimize(context.Background(), 30, 3, geo.LatLon{})

	require.False(t, res.Fallback)
	assert.Equal(t, BounceCountFor(30)+1, res.N)
	assert.LessOrEqual(t, res.EstimatedMinutes, 0.95*30)
}

func TestOptimizeLargerBudgetNeverShrinks(t *testing.T) {
	opt := NewOptimizer(DefaultTuning(), FlatTerrain(0))
	ctx := context.Background()

	short := opt.Optimize(ctx, 10, 3, geo.LatLon{})
	long := opt.Optimize(ctx, 20, 3, geo.LatLon{})

	require.False(t, short.Fallback)
	require.False(t, long.Fallback)
	assert.GreaterOrEqual(t, long.RHoldFt, short.RHoldFt)
	assert.GreaterOrEqual(t, long.EstimatedMinutes, short.EstimatedMinutes)
}
