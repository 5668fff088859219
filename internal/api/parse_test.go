package api

import (
	"math"
	"testing"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
)

func TestParseCenter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  geo.LatLon
	}{
		{"decimal pair", "41.73218, -111.83979", geo.LatLon{Lat: 41.73218, Lon: -111.83979}},
		{"decimal no space", "41.73218,-111.83979", geo.LatLon{Lat: 41.73218, Lon: -111.83979}},
		{"decimal positive lon", "51.5, 0.12", geo.LatLon{Lat: 51.5, Lon: 0.12}},
		{"degree markers", "41.73218° N, 111.83979° W", geo.LatLon{Lat: 41.73218, Lon: -111.83979}},
		{"degree no symbol", "41.73218 N, 111.83979 W", geo.LatLon{Lat: 41.73218, Lon: -111.83979}},
		{"degree lowercase", "41.73218° n, 111.83979° w", geo.LatLon{Lat: 41.73218, Lon: -111.83979}},
		{"southern eastern", "33.8688° S, 151.2093° E", geo.LatLon{Lat: -33.8688, Lon: 151.2093}},
		{"surrounding whitespace", "  44.0582, -121.3153  ", geo.LatLon{Lat: 44.0582, Lon: -121.3153}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCenter(tt.input)
			if err != nil {
				t.Fatalf("ParseCenter(%q): %v", tt.input, err)
			}
			if math.Abs(got.Lat-tt.want.Lat) > 1e-9 || math.Abs(got.Lon-tt.want.Lon) > 1e-9 {
				t.Errorf("ParseCenter(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCenterErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not a coordinate"},
		{"lone number", "41.73218"},
		{"bad hemisphere", "41.73218° Q, 111.83979° W"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := ParseCenter(tt.input); err == nil {
				t.Errorf("ParseCenter(%q) = %+v, want error", tt.input, got)
			}
		})
	}
}
