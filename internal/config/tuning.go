// Package config loads the planner tuning file. The JSON schema mirrors the
// mission.Tuning fields; omitted fields keep their compiled defaults, so
// partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/mission"
)

// DefaultConfigPath is the canonical tuning defaults file. It is the single
// source of truth for the empirically-chosen planner constants that lack a
// derived justification (expansion damping, altitude slopes, curve policy).
const DefaultConfigPath = "config/tuning.defaults.json"

// maxFileSize bounds config reads (1MB).
const maxFileSize = 1 * 1024 * 1024

// TuningConfig is the on-disk override surface. All fields are optional.
type TuningConfig struct {
	// Altitude model
	MinHeightFt           *float64 `json:"min_height_ft,omitempty"`
	MaxHeightFt           *float64 `json:"max_height_ft,omitempty"`
	OutboundAltitudeSlope *float64 `json:"outbound_altitude_slope,omitempty"`
	InboundAltitudeSlope  *float64 `json:"inbound_altitude_slope,omitempty"`

	// Flight-time model
	HorizontalSpeedFtS *float64 `json:"horizontal_speed_ft_s,omitempty"`
	VerticalSpeedFtS   *float64 `json:"vertical_speed_ft_s,omitempty"`
	HoverSecPerArrival *float64 `json:"hover_sec_per_arrival,omitempty"`
	AccelSecPerArrival *float64 `json:"accel_sec_per_arrival,omitempty"`
	AscentSec          *float64 `json:"ascent_sec,omitempty"`
	DescentSec         *float64 `json:"descent_sec,omitempty"`

	// Battery search
	StartRadiusFt       *float64 `json:"start_radius_ft,omitempty"`
	SearchMinRadiusFt   *float64 `json:"search_min_radius_ft,omitempty"`
	SearchMaxRadiusFt   *float64 `json:"search_max_radius_ft,omitempty"`
	SearchToleranceFt   *float64 `json:"search_tolerance_ft,omitempty"`
	SearchMaxIterations *int     `json:"search_max_iterations,omitempty"`
	BatteryMargin       *float64 `json:"battery_margin,omitempty"`
	BonusBounceBelow    *float64 `json:"bonus_bounce_below,omitempty"`

	// Export
	MinExportCurveFt *float64 `json:"min_export_curve_ft,omitempty"`
	ExportSpeedMS    *float64 `json:"export_speed_m_s,omitempty"`

	// Elevation service
	DefaultElevationFt *float64 `json:"default_elevation_ft,omitempty"`
	ElevationBaseURL   *string  `json:"elevation_base_url,omitempty"`
	ElevationTimeout   *string  `json:"elevation_timeout,omitempty"` // duration string like "5s"
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must have
// a .json extension and be under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg TuningConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Apply overlays the set fields of the config onto a mission.Tuning and
// returns the result.
func (c *TuningConfig) Apply(t mission.Tuning) mission.Tuning {
	if c == nil {
		return t
	}
	setF := func(dst, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&t.MinHeightFt, c.MinHeightFt)
	setF(&t.MaxHeightFt, c.MaxHeightFt)
	setF(&t.OutboundAltitudeSlope, c.OutboundAltitudeSlope)
	setF(&t.InboundAltitudeSlope, c.InboundAltitudeSlope)
	setF(&t.HorizontalSpeedFtS, c.HorizontalSpeedFtS)
	setF(&t.VerticalSpeedFtS, c.VerticalSpeedFtS)
	setF(&t.HoverSecPerArrival, c.HoverSecPerArrival)
	setF(&t.AccelSecPerArrival, c.AccelSecPerArrival)
	setF(&t.AscentSec, c.AscentSec)
	setF(&t.DescentSec, c.DescentSec)
	setF(&t.StartRadiusFt, c.StartRadiusFt)
	setF(&t.SearchMinRadiusFt, c.SearchMinRadiusFt)
	setF(&t.SearchMaxRadiusFt, c.SearchMaxRadiusFt)
	setF(&t.SearchToleranceFt, c.SearchToleranceFt)
	if c.SearchMaxIterations != nil {
		t.SearchMaxIterations = *c.SearchMaxIterations
	}
	setF(&t.BatteryMargin, c.BatteryMargin)
	setF(&t.BonusBounceBelow, c.BonusBounceBelow)
	setF(&t.MinExportCurveFt, c.MinExportCurveFt)
	setF(&t.ExportSpeedMS, c.ExportSpeedMS)
	return t
}

// ElevationTimeoutDuration parses the configured elevation timeout, falling
// back to def when unset or unparseable.
func (c *TuningConfig) ElevationTimeoutDuration(def time.Duration) time.Duration {
	if c == nil || c.ElevationTimeout == nil {
		return def
	}
	d, err := time.ParseDuration(*c.ElevationTimeout)
	if err != nil {
		return def
	}
	return d
}
