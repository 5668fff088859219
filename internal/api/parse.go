package api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
)

// Coordinate parsing happens at the request boundary; the planner core only
// ever sees parsed geo.LatLon values.
var (
	// "41.73218° N, 111.83979° W" and friends
	degreePattern = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*°?\s*([NS])\s*,\s*(\d+\.?\d*)\s*°?\s*([EW])`)
	// "41.73218, -111.83979"
	decimalPattern = regexp.MustCompile(`([-+]?\d+\.?\d*)\s*,\s*([-+]?\d+\.?\d*)`)
)

// ParseCenter parses a mission-center string in decimal-pair or
// degree-with-hemisphere-marker form.
func ParseCenter(txt string) (geo.LatLon, error) {
	txt = strings.TrimSpace(txt)

	if m := degreePattern.FindStringSubmatch(txt); m != nil {
		lat, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return geo.LatLon{}, fmt.Errorf("invalid latitude %q", m[1])
		}
		lon, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return geo.LatLon{}, fmt.Errorf("invalid longitude %q", m[3])
		}
		if strings.EqualFold(m[2], "S") {
			lat = -lat
		}
		if strings.EqualFold(m[4], "W") {
			lon = -lon
		}
		return geo.LatLon{Lat: lat, Lon: lon}, nil
	}

	if m := decimalPattern.FindStringSubmatch(txt); m != nil {
		lat, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return geo.LatLon{}, fmt.Errorf("invalid latitude %q", m[1])
		}
		lon, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return geo.LatLon{}, fmt.Errorf("invalid longitude %q", m[2])
		}
		return geo.LatLon{Lat: lat, Lon: lon}, nil
	}

	return geo.LatLon{}, fmt.Errorf("unrecognized coordinate format %q", txt)
}
