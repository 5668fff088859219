// Package main renders a planned spiral mission to a PNG for visual review.
// It draws the dense flight curve for every battery slice plus the waypoint
// positions, all in local feet around the mission centre.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/mission"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/spiral"
)

var (
	slices    = flag.Int("slices", 3, "Number of battery slices")
	bounces   = flag.Int("bounces", 6, "Bounces per slice")
	r0        = flag.Float64("r0", 50, "Start radius in feet")
	rHold     = flag.Float64("r-hold", 1000, "Hold radius in feet")
	minHeight = flag.Float64("min-height", 100, "Minimum height above ground in feet")
	output    = flag.String("o", "mission.png", "Output PNG path")
)

func main() {
	flag.Parse()

	params := spiral.NewParams(*r0, *rHold, *bounces, *slices)
	tuning := mission.DefaultTuning()
	tuning.MinHeightFt = *minHeight

	path := spiral.Sample(params)
	builder := mission.NewBuilder(tuning, mission.FlatTerrain(0))

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Spiral mission: %d slices, %d bounces, hold %.0f ft", params.Slices, params.N, *rHold)
	p.X.Label.Text = "East (ft)"
	p.Y.Label.Text = "North (ft)"

	colors := generateColors(params.Slices)
	est := mission.NewEstimator(tuning)

	for k := 0; k < params.Slices; k++ {
		curve := make(plotter.XYs, 0, spiral.SamplesPerSlice)
		for i := 0; i < spiral.SamplesPerSlice; i++ {
			t := params.TTotal() * float64(i) / float64(spiral.SamplesPerSlice-1)
			pt := path.AtRotated(t, k)
			curve = append(curve, plotter.XY{X: pt.X, Y: pt.Y})
		}

		line, err := plotter.NewLine(curve)
		if err != nil {
			log.Fatalf("slice %d line: %v", k, err)
		}
		line.Color = colors[k]
		line.Width = vg.Points(1)
		p.Add(line)

		wps := builder.BuildSlice(context.Background(), path, k, geo.LatLon{})

		pts := make(plotter.XYs, 0, len(wps))
		for _, wp := range wps {
			pts = append(pts, plotter.XY{X: wp.Local.X, Y: wp.Local.Y})
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			log.Fatalf("slice %d waypoints: %v", k, err)
		}
		scatter.GlyphStyle.Color = colors[k]
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)

		p.Legend.Add(fmt.Sprintf("battery %d (%.1f min)", k+1, est.MissionMinutes(wps)), line)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(10*vg.Inch, 10*vg.Inch, *output); err != nil {
		log.Fatalf("save plot: %v", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", *output)
}

// generateColors creates a palette of distinct colors, one per slice.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.45)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
