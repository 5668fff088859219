package mission

import (
	"context"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/spiral"
)

func buildExportPlan(t *testing.T) ([]BatteryPlan, geo.LatLon) {
	t.Helper()
	center := geo.LatLon{Lat: 44.0582, Lon: -121.3153}
	p := spiral.NewParams(50, 1000, 6, 2)
	b := NewBuilder(DefaultTuning(), FlatTerrain(4500))
	return b.BuildMission(context.Background(), p, center), center
}

func TestWriteBatteryCSVHeader(t *testing.T) {
	plans, center := buildExportPlan(t)
	est := NewEstimator(DefaultTuning())

	var buf strings.Builder
	if err := est.WriteBatteryCSV(&buf, plans[0].Waypoints, center); err != nil {
		t.Fatalf("WriteBatteryCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := "latitude,longitude,altitude(ft),heading(deg),curvesize(ft)," +
		"rotationdir,gimbalmode,gimbalpitchangle,altitudemode,speed(m/s)," +
		"poi_latitude,poi_longitude,poi_altitude(ft),poi_altitudemode," +
		"photo_timeinterval,photo_distinterval"
	if lines[0] != want {
		t.Errorf("header = %q, want %q", lines[0], want)
	}
	if got, wantRows := len(lines)-1, len(plans[0].Waypoints); got != wantRows {
		t.Errorf("%d data rows, want %d", got, wantRows)
	}
}

func TestWriteBatteryCSVRows(t *testing.T) {
	plans, center := buildExportPlan(t)
	tuning := DefaultTuning()
	est := NewEstimator(tuning)

	var buf strings.Builder
	if err := est.WriteBatteryCSV(&buf, plans[0].Waypoints, center); err != nil {
		t.Fatalf("WriteBatteryCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	rows := lines[1:]

	minCurveM := tuning.MinExportCurveFt * geo.MetersPerFoot

	for i, row := range rows {
		fields := strings.Split(row, ",")
		if len(fields) != 16 {
			t.Fatalf("row %d has %d fields: %q", i, len(fields), row)
		}

		lat, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			t.Fatalf("row %d latitude: %v", i, err)
		}
		if lat < center.Lat-0.05 || lat > center.Lat+0.05 {
			t.Errorf("row %d latitude %v too far from center %v", i, lat, center.Lat)
		}

		// Curve sizes export in meters, floored at the minimum.
		curve, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			t.Fatalf("row %d curvesize: %v", i, err)
		}
		if curve < minCurveM-0.01 {
			t.Errorf("row %d curvesize %v below export floor %v", i, curve, minCurveM)
		}

		if fields[9] != "8.85" {
			t.Errorf("row %d speed = %q, want 8.85", i, fields[9])
		}

		// Every row points its POI at the mission center.
		if fields[10] != "44.05820" || fields[11] != "-121.31530" {
			t.Errorf("row %d POI = %q,%q, want center", i, fields[10], fields[11])
		}

		// First row starts the photo timer disabled; the rest shoot on an
		// interval.
		wantInterval := "2.8"
		if i == 0 {
			wantInterval = "0"
		}
		if fields[14] != wantInterval {
			t.Errorf("row %d photo interval = %q, want %q", i, fields[14], wantInterval)
		}
	}

	// The last waypoint has no successor: its heading freezes at zero.
	last := strings.Split(rows[len(rows)-1], ",")
	if last[3] != "0" {
		t.Errorf("final heading = %q, want 0", last[3])
	}
}

func TestWriteMissionCSVConcatenatesBatteries(t *testing.T) {
	plans, center := buildExportPlan(t)
	est := NewEstimator(DefaultTuning())

	var buf strings.Builder
	if err := est.WriteMissionCSV(&buf, plans, center); err != nil {
		t.Fatalf("WriteMissionCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	wantRows := 0
	for _, plan := range plans {
		wantRows += len(plan.Waypoints)
	}
	if got := len(lines) - 1; got != wantRows {
		t.Errorf("%d data rows, want %d across %d batteries", got, wantRows, len(plans))
	}

	// Single header only.
	for i, line := range lines[1:] {
		if strings.HasPrefix(line, "latitude,") {
			t.Errorf("row %d repeats the header", i)
		}
	}
}

func TestWriteMissionCSVBoundaryHeading(t *testing.T) {
	plans, center := buildExportPlan(t)
	est := NewEstimator(DefaultTuning())

	var buf strings.Builder
	if err := est.WriteMissionCSV(&buf, plans, center); err != nil {
		t.Fatalf("WriteMissionCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	rows := lines[1:]

	// The first battery's last row faces the second battery's first waypoint
	// instead of freezing at zero the way a standalone battery file does.
	lastOut := plans[0].Waypoints[len(plans[0].Waypoints)-1]
	firstIn := plans[1].Waypoints[0]
	want := strconv.FormatFloat(math.Round(geo.HeadingDeg(lastOut.Local, firstIn.Local)), 'f', 0, 64)

	boundary := strings.Split(rows[len(plans[0].Waypoints)-1], ",")
	if boundary[3] != want {
		t.Errorf("boundary heading = %q, want %q", boundary[3], want)
	}

	// Only the final row of the whole file parks at heading 0.
	final := strings.Split(rows[len(rows)-1], ",")
	if final[3] != "0" {
		t.Errorf("final heading = %q, want 0", final[3])
	}
}

func TestGimbalPitchSweep(t *testing.T) {
	plans, center := buildExportPlan(t)
	est := NewEstimator(DefaultTuning())

	var buf strings.Builder
	if err := est.WriteBatteryCSV(&buf, plans[0].Waypoints, center); err != nil {
		t.Fatalf("WriteBatteryCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	rows := lines[1:]

	// Pitch starts and ends at the steep framing angle and relaxes through
	// the middle of the sequence.
	first := strings.Split(rows[0], ",")[7]
	lastFields := strings.Split(rows[len(rows)-1], ",")
	mid := strings.Split(rows[len(rows)/2], ",")[7]

	if first != "-35" || lastFields[7] != "-35" {
		t.Errorf("endpoint pitch = %q / %q, want -35", first, lastFields[7])
	}
	midPitch, err := strconv.ParseFloat(mid, 64)
	if err != nil {
		t.Fatalf("mid pitch: %v", err)
	}
	if midPitch <= -35 || midPitch > -21 {
		t.Errorf("mid-sequence pitch = %v, want in (-35, -21]", midPitch)
	}
}
