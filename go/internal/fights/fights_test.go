package fights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLookup(t *testing.T) {
	card := Default()

	f, ok := card.Lookup("f7")
	require.True(t, ok)
	assert.Equal(t, "Mernuel", f.FighterA)

	_, ok = card.Lookup("nope")
	assert.False(t, ok)
}

func TestScheduleFromYAML(t *testing.T) {
	raw := `
- id: m1
  time: "20:00 HS"
  fighter_a: Alpha
  fighter_b: Beta
`
	var card Schedule
	require.NoError(t, yaml.Unmarshal([]byte(raw), &card))
	require.Len(t, card, 1)
	assert.Equal(t, Fight{ID: "m1", Time: "20:00 HS", FighterA: "Alpha", FighterB: "Beta"}, card[0])
}
