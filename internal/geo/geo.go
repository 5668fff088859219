// Package geo provides shared distance units and the flat-earth coordinate
// transform used throughout the mission planner. All local planar offsets are
// in feet relative to the mission center; geographic positions are WGS84
// decimal degrees.
package geo

import "math"

// Unit constants. Planner math runs in feet; exported mission files carry
// speeds in m/s, so both directions are needed.
const (
	FeetPerMeter  = 3.28084
	MetersPerFoot = 0.3048

	// EarthRadiusM is the spherical earth radius used by the flat-earth
	// approximation, in meters.
	EarthRadiusM = 6378137.0
)

// LatLon is a geographic position in decimal degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PointXY is a local planar offset from the mission center, in feet.
// +X is east, +Y is north.
type PointXY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the planar distance between two local points in feet.
func Distance(a, b PointXY) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Rotate rotates a local point about the origin by angle radians
// (counter-clockwise).
func Rotate(p PointXY, angle float64) PointXY {
	c, s := math.Cos(angle), math.Sin(angle)
	return PointXY{
		X: p.X*c - p.Y*s,
		Y: p.X*s + p.Y*c,
	}
}

// RadiusFromCenter returns the distance of a local point from the mission
// center in feet.
func RadiusFromCenter(p PointXY) float64 {
	return math.Hypot(p.X, p.Y)
}

// XYToLatLon converts a local offset in feet to a geographic position using a
// flat-earth approximation around center. Valid at mission scale (sub-mile);
// the precision loss there is accepted.
func XYToLatLon(p PointXY, center LatLon) LatLon {
	xM := p.X * MetersPerFoot
	yM := p.Y * MetersPerFoot

	dLat := yM / EarthRadiusM
	dLon := xM / (EarthRadiusM * math.Cos(center.Lat*math.Pi/180))

	return LatLon{
		Lat: center.Lat + dLat*180/math.Pi,
		Lon: center.Lon + dLon*180/math.Pi,
	}
}

// LatLonToXY is the inverse of XYToLatLon: geographic position to local feet
// offset from center.
func LatLonToXY(pos, center LatLon) PointXY {
	dLat := (pos.Lat - center.Lat) * math.Pi / 180
	dLon := (pos.Lon - center.Lon) * math.Pi / 180

	yM := dLat * EarthRadiusM
	xM := dLon * EarthRadiusM * math.Cos(center.Lat*math.Pi/180)

	return PointXY{
		X: xM * FeetPerMeter,
		Y: yM * FeetPerMeter,
	}
}

// HeadingDeg returns the compass heading in degrees [0,360) from a to b,
// with 0 = north and 90 = east.
func HeadingDeg(a, b PointXY) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	deg := math.Atan2(dx, dy) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}
