package models

// Coordinates is a GPS position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapPoint is a pixel position on the venue map image.
type MapPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CalibrationPoint pairs a real-world GPS coordinate with its pixel
// position on the venue map.
type CalibrationPoint struct {
	GPS Coordinates `json:"gps"`
	Map MapPoint    `json:"map"`
}

// VenueCalibration is the two-point mapping between GPS coordinates and
// venue-map pixels. Immutable once set on a group.
type VenueCalibration struct {
	P1 CalibrationPoint `json:"p1"`
	P2 CalibrationPoint `json:"p2"`
	// Scale is an estimated meters-per-pixel hint.
	Scale float64 `json:"scale"`
}
