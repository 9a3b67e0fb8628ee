// Package geo converts GPS coordinates to venue-map pixels and computes
// great-circle distances. It has no dependencies on the rest of the core.
package geo

import (
	"math"

	"github.com/maticef/huddle/go/internal/models"
)

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000

// axisEpsilon is the GPS delta below which a calibration axis is treated
// as degenerate (no displacement along that axis instead of a near-zero
// division).
const axisEpsilon = 1e-6

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the great-circle distance between two GPS coordinates
// in meters. Symmetric; zero for identical points.
func Distance(a, b models.Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// ProjectToMap converts a GPS point to map pixels using a two-point
// calibration. The mapping is an axis-aligned linear approximation:
// longitude scales to X and latitude to Y independently, with no
// correction for rotation or skew between the GPS frame and the map
// frame. Adequate at sub-kilometer venue scale; a full affine solve
// would need a third non-collinear reference point.
func ProjectToMap(p models.Coordinates, cal models.VenueCalibration) models.MapPoint {
	dLat := cal.P2.GPS.Lat - cal.P1.GPS.Lat
	dLng := cal.P2.GPS.Lng - cal.P1.GPS.Lng

	// Coincident calibration points carry no scale information.
	if math.Abs(dLat) < axisEpsilon && math.Abs(dLng) < axisEpsilon {
		return cal.P1.Map
	}

	var scaleX, scaleY float64
	if math.Abs(dLng) > axisEpsilon {
		scaleX = (cal.P2.Map.X - cal.P1.Map.X) / dLng
	}
	if math.Abs(dLat) > axisEpsilon {
		scaleY = (cal.P2.Map.Y - cal.P1.Map.Y) / dLat
	}

	return models.MapPoint{
		X: cal.P1.Map.X + (p.Lng-cal.P1.GPS.Lng)*scaleX,
		Y: cal.P1.Map.Y + (p.Lat-cal.P1.GPS.Lat)*scaleY,
	}
}
