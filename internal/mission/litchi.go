package mission

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
)

// litchiHeader is the waypoint-file column set understood by the Litchi
// mission hub. Column order is load-bearing.
const litchiHeader = "latitude,longitude,altitude(ft),heading(deg),curvesize(ft)," +
	"rotationdir,gimbalmode,gimbalpitchangle,altitudemode,speed(m/s)," +
	"poi_latitude,poi_longitude,poi_altitude(ft),poi_altitudemode," +
	"photo_timeinterval,photo_distinterval"

const (
	gimbalModeInterpolate = 2
	photoIntervalSec      = 2.8
)

// WriteBatteryCSV writes one battery's waypoint sequence as a Litchi mission
// file, in exactly the order the builder produced, midpoints included.
func (e Estimator) WriteBatteryCSV(w io.Writer, wps []Waypoint, center geo.LatLon) error {
	if _, err := io.WriteString(w, litchiHeader+"\n"); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	return e.writeRows(w, wps, center, nil)
}

// WriteMissionCSV concatenates every battery of the mission into a single
// master file, batteries in slice order. Headings are computed over the
// concatenated sequence, so each battery's last row faces the next battery's
// first waypoint; only the final row of the file parks at heading 0.
func (e Estimator) WriteMissionCSV(w io.Writer, plans []BatteryPlan, center geo.LatLon) error {
	if _, err := io.WriteString(w, litchiHeader+"\n"); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for k, plan := range plans {
		var next *Waypoint
		if k < len(plans)-1 && len(plans[k+1].Waypoints) > 0 {
			next = &plans[k+1].Waypoints[0]
		}
		if err := e.writeRows(w, plan.Waypoints, center, next); err != nil {
			return err
		}
	}
	return nil
}

// writeRows emits one CSV row per waypoint. next, when non-nil, is the
// waypoint the sequence's last row should face.
func (e Estimator) writeRows(w io.Writer, wps []Waypoint, center geo.LatLon, next *Waypoint) error {
	for i, wp := range wps {
		pos := geo.XYToLatLon(wp.Local, center)

		heading := 0.0
		switch {
		case i < len(wps)-1:
			heading = math.Round(geo.HeadingDeg(wp.Local, wps[i+1].Local))
		case next != nil:
			heading = math.Round(geo.HeadingDeg(wp.Local, next.Local))
		}

		curveFt := math.Max(wp.CurveRadius, e.tuning.MinExportCurveFt)
		curveM := math.Round(curveFt*geo.MetersPerFoot*100) / 100

		progress := 0.0
		if len(wps) > 1 {
			progress = float64(i) / float64(len(wps)-1)
		}
		gimbalPitch := math.Round(-35 + 14*math.Sin(progress*math.Pi))

		photoInterval := photoIntervalSec
		if i == 0 {
			photoInterval = 0.0
		}

		fields := []string{
			fmt.Sprintf("%.5f", pos.Lat),
			fmt.Sprintf("%.5f", pos.Lon),
			fmt.Sprintf("%.2f", wp.AbsoluteAltitude),
			fmt.Sprintf("%.0f", heading),
			fmt.Sprintf("%.2f", curveM),
			"0", // rotationdir
			fmt.Sprintf("%d", gimbalModeInterpolate),
			fmt.Sprintf("%.0f", gimbalPitch),
			"0", // altitudemode
			fmt.Sprintf("%.2f", e.tuning.ExportSpeedMS),
			fmt.Sprintf("%.5f", center.Lat),
			fmt.Sprintf("%.5f", center.Lon),
			"0", // poi_altitude
			"0", // poi_altitudemode
			fmt.Sprintf("%g", photoInterval),
			"0", // photo_distinterval
		}
		if _, err := io.WriteString(w, strings.Join(fields, ",")+"\n"); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	return nil
}
