package models

// Group is a short-lived, code-addressed session shared by multiple
// participants. Owned by the registry; mutated only through registry
// operations.
type Group struct {
	// ID is a short human-readable code, e.g. "AE34".
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Members     []string          `json:"members"` // user IDs, join order
	CreatedAt   int64             `json:"createdAt"`
	Calibration *VenueCalibration `json:"calibration,omitempty"`
	MapImage    string            `json:"mapImage,omitempty"`
	Messages    []ChatMessage     `json:"messages"`
	Bets        []Bet             `json:"bets"`
}
