package models

// Prediction is one of the two sides of a fight.
const (
	PredictionA = "A"
	PredictionB = "B"
)

// Bet is a member's predicted outcome for one fight. The registry keeps
// at most one bet per (user, fight); a newer vote supersedes the old one.
type Bet struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	FightID    string `json:"fightId"`
	Prediction string `json:"prediction"`
	Timestamp  int64  `json:"timestamp"`
}
