// Package fights holds the static fight card that betting refers to. The
// card is external display data: the registry never validates bets
// against it, but clients use it to render matchups and the config file
// may override the default card.
package fights

// Fight is one matchup on the card. Prediction "A" backs FighterA and
// "B" backs FighterB.
type Fight struct {
	ID       string `yaml:"id" json:"id"`
	Time     string `yaml:"time" json:"time"`
	FighterA string `yaml:"fighter_a" json:"fighterA"`
	FighterB string `yaml:"fighter_b" json:"fighterB"`
}

// Schedule is an ordered fight card.
type Schedule []Fight

// Lookup returns the fight with the given id.
func (s Schedule) Lookup(id string) (Fight, bool) {
	for _, f := range s {
		if f.ID == id {
			return f, true
		}
	}
	return Fight{}, false
}

// Default returns the built-in card used when the config file does not
// supply one.
func Default() Schedule {
	return Schedule{
		{ID: "f1", Time: "18:00 HS", FighterA: "Monzon", FighterB: "Bonavena"},
		{ID: "f2", Time: "18:30 HS", FighterA: "Vigna", FighterB: "Viciconte"},
		{ID: "f3", Time: "19:20 HS", FighterA: "Perez", FighterB: "Jove"},
		{ID: "f4", Time: "19:50 HS", FighterA: "Dairi", FighterB: "Espe"},
		{ID: "f5", Time: "20:30 HS", FighterA: "Gabino", FighterB: "Banks"},
		{ID: "f6", Time: "21:00 HS", FighterA: "Coty", FighterB: "Carito"},
		{ID: "f7", Time: "21:50 HS", FighterA: "Mernuel", FighterB: "Cosmic Kid"},
		{ID: "f8", Time: "22:20 HS", FighterA: "Grego", FighterB: "Goncho"},
		{ID: "f9", Time: "23:10 HS", FighterA: "Perxitaa", FighterB: "Coker"},
		{ID: "f10", Time: "23:50 HS", FighterA: "Pepi", FighterB: "Maravilla"},
		{ID: "f11", Time: "00:30 HS", FighterA: "Gero", FighterB: "Mazza"},
	}
}
