package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/httputil"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/mission"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/spiral"
)

// previewMaxPoints caps the rendered sample count per slice to keep the page
// light; the underlying sample set is unchanged.
const previewMaxPoints = 600

// handlePreview renders a quick HTML plot of the spiral pattern with its
// waypoints. Debugging aid for operators without the front end; query params
// mirror the /spiral-data payload (slices, n, r0, rHold).
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	slices := queryInt(q.Get("slices"), 3)
	n := queryInt(q.Get("n"), 6)
	r0 := queryFloat(q.Get("r0"), 50)
	rHold := queryFloat(q.Get("rHold"), 1000)

	p := spiral.NewParams(r0, rHold, n, slices)
	path := spiral.Sample(p)

	stride := 1
	if len(path.Points) > previewMaxPoints {
		stride = int(math.Ceil(float64(len(path.Points)) / float64(previewMaxPoints)))
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Spiral Mission Preview",
			Theme:     "dark",
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Bounded Spiral Pattern",
			Subtitle: fmt.Sprintf("slices=%d N=%d r0=%.0fft rHold=%.0fft apex=%.0fft", p.Slices, p.N, p.R0, p.RHold, p.ApexRadius()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -p.RHold, Max: p.RHold, Name: "X (ft)"}),
		charts.WithYAxisOpts(opts.YAxis{Min: -p.RHold, Max: p.RHold, Name: "Y (ft)"}),
	)

	for k := 0; k < p.Slices; k++ {
		offset := p.SliceOffset(k)
		data := make([]opts.ScatterData, 0, len(path.Points)/stride+1)
		for i := 0; i < len(path.Points); i += stride {
			pt := geo.Rotate(path.Points[i], offset)
			data = append(data, opts.ScatterData{
				Value:      []interface{}{pt.X, pt.Y},
				SymbolSize: 2,
			})
		}
		scatter.AddSeries(fmt.Sprintf("battery %d", k+1), data)
	}

	builder := mission.NewBuilder(s.tuning, s.terrain)
	wpData := make([]opts.ScatterData, 0)
	for k := 0; k < p.Slices; k++ {
		for _, wp := range builder.BuildSlice(r.Context(), path, k, geo.LatLon{}) {
			wpData = append(wpData, opts.ScatterData{
				Value:      []interface{}{wp.Local.X, wp.Local.Y},
				SymbolSize: 6,
			})
		}
	}
	scatter.AddSeries("waypoints", wpData)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := scatter.Render(w); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render preview: %v", err))
	}
}

func queryInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func queryFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
