package mission

// Tuning holds the planner's empirically-chosen constants. Values without a
// derived justification are preserved as configuration rather than re-derived;
// see config/tuning.defaults.json for the override surface.
type Tuning struct {
	// Altitude model. Outbound AGL climbs with distance from center; the
	// inbound pass descends from the outbound maximum so the two passes view
	// the subject from different heights at comparable radii.
	MinHeightFt           float64
	MaxHeightFt           float64 // 0 disables the ceiling
	OutboundAltitudeSlope float64
	InboundAltitudeSlope  float64

	// Flight-time model, all speeds in feet per second.
	HorizontalSpeedFtS float64
	VerticalSpeedFtS   float64
	HoverSecPerArrival float64
	AccelSecPerArrival float64
	AscentSec          float64
	DescentSec         float64

	// Battery search.
	StartRadiusFt       float64
	SearchMinRadiusFt   float64
	SearchMaxRadiusFt   float64
	SearchToleranceFt   float64
	SearchMaxIterations int
	BatteryMargin       float64 // fraction of the target the estimate must fit under
	BonusBounceBelow    float64 // utilization below which one extra bounce is tried

	// Export.
	MinExportCurveFt float64
	ExportSpeedMS    float64
}

// DefaultTuning returns the planner defaults.
func DefaultTuning() Tuning {
	return Tuning{
		MinHeightFt:           100,
		MaxHeightFt:           0,
		OutboundAltitudeSlope: 0.37,
		InboundAltitudeSlope:  0.1,

		HorizontalSpeedFtS: 27.0, // 8.85 m/s commanded, derated for curve slowdown
		VerticalSpeedFtS:   12.0,
		HoverSecPerArrival: 3,
		AccelSecPerArrival: 2,
		AscentSec:          45,
		DescentSec:         40,

		StartRadiusFt:       50,
		SearchMinRadiusFt:   200,
		SearchMaxRadiusFt:   4000,
		SearchToleranceFt:   10,
		SearchMaxIterations: 30,
		BatteryMargin:       0.95,
		BonusBounceBelow:    0.85,

		MinExportCurveFt: 15,
		ExportSpeedMS:    8.85,
	}
}
