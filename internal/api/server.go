// Package api exposes the mission planner over HTTP. Handlers parse and
// validate request text, invoke the planner core, and shape responses; no
// planning logic lives here.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/elevation"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/httputil"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/mission"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/spiral"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/store"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/version"
)

// ANSI escape codes for request logging.
const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

// Server holds the planner dependencies shared across handlers. The
// elevation cache is shared by every mission build in the process; the
// archive may be nil when persistence is disabled.
type Server struct {
	tuning  mission.Tuning
	terrain *elevation.Cache
	archive *store.Store
}

// NewServer builds an API server around the given tuning, elevation cache,
// and optional mission archive.
func NewServer(tuning mission.Tuning, terrain *elevation.Cache, archive *store.Store) *Server {
	return &Server{tuning: tuning, terrain: terrain, archive: archive}
}

// ServeMux returns the API route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/validate-center", s.handleValidateCenter)
	mux.HandleFunc("/elevation", s.handleElevation)
	mux.HandleFunc("/spiral-data", s.handleSpiralData)
	mux.HandleFunc("/waypoints", s.handleWaypoints)
	mux.HandleFunc("/optimize-spiral", s.handleOptimize)
	mux.HandleFunc("/csv", s.handleMissionCSV)
	mux.HandleFunc("/csv/battery/", s.handleBatteryCSV)
	mux.HandleFunc("/missions", s.handleMissions)
	mux.HandleFunc("/preview", s.handlePreview)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// spiralRequest carries the raw geometry parameters shared by several
// endpoints. Out-of-bounds values are clamped by the core, not rejected.
type spiralRequest struct {
	Slices int     `json:"slices"`
	N      int     `json:"N"`
	R0     float64 `json:"r0"`
	RHold  float64 `json:"rHold"`
}

func (r spiralRequest) params() spiral.Params {
	return spiral.NewParams(r.R0, r.RHold, r.N, r.Slices)
}

type missionRequest struct {
	spiralRequest
	Center    string   `json:"center"`
	MinHeight *float64 `json:"minHeight"`
	MaxHeight *float64 `json:"maxHeight"`
}

// requestTuning applies the per-request altitude overrides onto the server
// defaults.
func (s *Server) requestTuning(req missionRequest) mission.Tuning {
	t := s.tuning
	if req.MinHeight != nil {
		t.MinHeightFt = *req.MinHeight
	}
	if req.MaxHeight != nil {
		t.MaxHeightFt = *req.MaxHeight
	}
	return t
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON payload: %v", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{
		"status":  "healthy",
		"service": "spiral-mission-planner",
		"version": version.Version,
	})
}

func (s *Server) handleValidateCenter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	var req struct {
		Center string `json:"center"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	center, err := ParseCenter(req.Center)
	if err != nil {
		httputil.WriteJSONOK(w, map[string]interface{}{
			"valid": false,
			"error": "invalid coordinate format",
		})
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"valid":  true,
		"parsed": center,
	})
}

func (s *Server) handleElevation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	var req struct {
		Center string `json:"center"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	center, err := ParseCenter(req.Center)
	if err != nil {
		httputil.BadRequest(w, "invalid coordinate format")
		return
	}

	ft := s.terrain.ElevationFt(r.Context(), center)
	httputil.WriteJSONOK(w, map[string]interface{}{
		"elevation_feet":   round2(ft),
		"elevation_meters": round2(ft * geo.MetersPerFoot),
		"coordinates":      center,
	})
}

// handleSpiralData returns the dense sample traces of every slice for
// front-end rendering. The samples are the same ones waypoints resolve
// against, so the rendered and exported paths agree exactly.
func (s *Server) handleSpiralData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	var req spiralRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	p := req.params()
	path := spiral.Sample(p)

	type trace struct {
		X []float64 `json:"x"`
		Y []float64 `json:"y"`
	}
	traces := make([]trace, p.Slices)
	for k := 0; k < p.Slices; k++ {
		tr := trace{
			X: make([]float64, len(path.Points)),
			Y: make([]float64, len(path.Points)),
		}
		offset := p.SliceOffset(k)
		for i, pt := range path.Points {
			rot := geo.Rotate(pt, offset)
			tr.X[i] = rot.X
			tr.Y[i] = rot.Y
		}
		traces[k] = tr
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"traces":     traces,
		"apexRadius": p.ApexRadius(),
	})
}

func (s *Server) handleWaypoints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	var req missionRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	center := geo.LatLon{}
	if strings.TrimSpace(req.Center) != "" {
		parsed, err := ParseCenter(req.Center)
		if err != nil {
			httputil.BadRequest(w, "invalid center coordinates")
			return
		}
		center = parsed
	}

	builder := mission.NewBuilder(s.requestTuning(req), s.terrain)
	plans := builder.BuildMission(r.Context(), req.params(), center)

	total := 0
	for _, p := range plans {
		total += len(p.Waypoints)
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"batteries":      plans,
		"sliceCount":     len(plans),
		"totalWaypoints": total,
	})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	var req struct {
		BatteryMinutes float64 `json:"batteryMinutes"`
		Batteries      int     `json:"batteries"`
		Center         string  `json:"center"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if req.BatteryMinutes < 5 || req.BatteryMinutes > 60 {
		httputil.BadRequest(w, "battery minutes must be between 5 and 60")
		return
	}
	if req.Batteries < 1 || req.Batteries > 10 {
		httputil.BadRequest(w, "batteries must be between 1 and 10")
		return
	}
	center, err := ParseCenter(req.Center)
	if err != nil {
		httputil.BadRequest(w, "invalid center coordinates")
		return
	}

	opt := mission.NewOptimizer(s.tuning, s.terrain)
	res := opt.Optimize(r.Context(), req.BatteryMinutes, req.Batteries, center)

	var archiveID string
	if s.archive != nil {
		id, err := s.archive.RecordOptimization(center, res)
		if err != nil {
			log.Printf("failed to archive optimization run: %v", err)
		} else {
			archiveID = id
		}
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"result":    res,
		"missionId": archiveID,
	})
}

func (s *Server) handleMissionCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	var req missionRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	center, err := ParseCenter(req.Center)
	if err != nil {
		httputil.BadRequest(w, "invalid center coordinates")
		return
	}

	tuning := s.requestTuning(req)
	builder := mission.NewBuilder(tuning, s.terrain)
	plans := builder.BuildMission(r.Context(), req.params(), center)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="spiral_mission_master.csv"`)
	if err := mission.NewEstimator(tuning).WriteMissionCSV(w, plans, center); err != nil {
		log.Printf("failed to write mission csv: %v", err)
	}
}

func (s *Server) handleBatteryCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	numStr := strings.TrimPrefix(r.URL.Path, "/csv/battery/")
	battery, err := strconv.Atoi(numStr)
	if err != nil {
		httputil.BadRequest(w, "invalid battery number")
		return
	}

	var req missionRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	center, err := ParseCenter(req.Center)
	if err != nil {
		httputil.BadRequest(w, "invalid center coordinates")
		return
	}

	p := req.params()
	if battery < 1 || battery > p.Slices {
		httputil.BadRequest(w, fmt.Sprintf("battery number must be between 1 and %d", p.Slices))
		return
	}

	tuning := s.requestTuning(req)
	builder := mission.NewBuilder(tuning, s.terrain)
	plans := builder.BuildMission(r.Context(), p, center)
	plan := plans[battery-1]

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="spiral_battery_%d.csv"`, battery))
	if err := mission.NewEstimator(tuning).WriteBatteryCSV(w, plan.Waypoints, center); err != nil {
		log.Printf("failed to write battery csv: %v", err)
	}
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.archive == nil {
		httputil.NotFound(w, "mission archive disabled")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	records, err := s.archive.ListMissions(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list missions: %v", err))
		return
	}
	httputil.WriteJSONOK(w, records)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
