package registry

import (
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maticef/huddle/go/internal/models"
)

func newTestRegistry(t *testing.T) (*Registry, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	return New(Config{}, clock), clock
}

func TestCreateGroupGeneratesCode(t *testing.T) {
	r, clock := newTestRegistry(t)

	group := r.CreateGroup("Alice's Group", nil, "")

	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{4}$`), group.ID)
	assert.Equal(t, "Alice's Group", group.Name)
	assert.Equal(t, clock.Now().UnixMilli(), group.CreatedAt)
	assert.Empty(t, group.Members)
	assert.Empty(t, group.Messages)
	assert.Empty(t, group.Bets)
	assert.Equal(t, DefaultMapImage, group.MapImage)
}

func TestCreateGroupHonorsRequestedID(t *testing.T) {
	r, _ := newTestRegistry(t)

	group := r.CreateGroup("Revived", nil, "zzzz")
	assert.Equal(t, "ZZZZ", group.ID)

	// Occupied id falls back to a fresh code; no duplicate under one code.
	other := r.CreateGroup("Racer", nil, "ZZZZ")
	assert.NotEqual(t, "ZZZZ", other.ID)

	got, err := r.GetGroup("zzzz")
	require.NoError(t, err)
	assert.Equal(t, "Revived", got.Name)
}

func TestGetGroupNotFound(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.GetGroup("ZZZZ")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestJoinGroupIdempotentMembership(t *testing.T) {
	r, _ := newTestRegistry(t)
	group := r.CreateGroup("G", nil, "")

	_, err := r.JoinGroup(group.ID, "u1", "Alice")
	require.NoError(t, err)
	user, err := r.JoinGroup(group.ID, "u1", "Alicia")
	require.NoError(t, err)

	// Re-join renames instead of duplicating.
	assert.Equal(t, "Alicia", user.Name)

	got, err := r.GetGroup(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, got.Members)
}

func TestJoinGroupLastJoinWins(t *testing.T) {
	r, _ := newTestRegistry(t)
	g1 := r.CreateGroup("First", nil, "")
	g2 := r.CreateGroup("Second", nil, "")

	_, err := r.JoinGroup(g1.ID, "u1", "Alice")
	require.NoError(t, err)
	user, err := r.JoinGroup(g2.ID, "u1", "Alice")
	require.NoError(t, err)

	assert.Equal(t, g2.ID, user.GroupID)
}

func TestJoinGroupUnknownGroup(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.JoinGroup("NOPE", "u1", "Alice")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestUpdateLocationUnknownUser(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.UpdateLocation("ghost", 1, 2)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListMembersLivenessWindow(t *testing.T) {
	r, clock := newTestRegistry(t)
	group := r.CreateGroup("G", nil, "")
	_, err := r.JoinGroup(group.ID, "u1", "Alice")
	require.NoError(t, err)

	members, err := r.ListMembers(group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.True(t, members[0].IsOnline)

	// One millisecond short of the window: still online.
	clock.Advance(120*time.Second - time.Millisecond)
	members, err = r.ListMembers(group.ID)
	require.NoError(t, err)
	assert.True(t, members[0].IsOnline)

	// At the window: offline.
	clock.Advance(time.Millisecond)
	members, err = r.ListMembers(group.ID)
	require.NoError(t, err)
	assert.False(t, members[0].IsOnline)

	// A fresh location update flips the member back online.
	_, err = r.UpdateLocation("u1", -34.64, -58.39)
	require.NoError(t, err)
	members, err = r.ListMembers(group.ID)
	require.NoError(t, err)
	assert.True(t, members[0].IsOnline)
	require.NotNil(t, members[0].LastLocation)
	assert.Equal(t, -34.64, members[0].LastLocation.Lat)
}

func TestAddMessageRetentionCap(t *testing.T) {
	r, _ := newTestRegistry(t)
	group := r.CreateGroup("G", nil, "")

	for i := 0; i < DefaultMessageCap+5; i++ {
		_, err := r.AddMessage(group.ID, "u1", "Alice", fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}

	got, err := r.GetGroup(group.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, DefaultMessageCap)
	// Oldest dropped, order preserved.
	assert.Equal(t, "msg 5", got.Messages[0].Text)
	assert.Equal(t, fmt.Sprintf("msg %d", DefaultMessageCap+4), got.Messages[len(got.Messages)-1].Text)
}

func TestAddMessageUnknownGroup(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.AddMessage("NOPE", "u1", "Alice", "hi")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestAddBetLastVoteWins(t *testing.T) {
	r, _ := newTestRegistry(t)
	group := r.CreateGroup("G", nil, "")

	_, err := r.AddBet(group.ID, "u1", "Alice", "f1", models.PredictionA)
	require.NoError(t, err)
	_, err = r.AddBet(group.ID, "u1", "Alice", "f1", models.PredictionB)
	require.NoError(t, err)
	_, err = r.AddBet(group.ID, "u1", "Alice", "f2", models.PredictionA)
	require.NoError(t, err)
	_, err = r.AddBet(group.ID, "u2", "Bob", "f1", models.PredictionA)
	require.NoError(t, err)

	got, err := r.GetGroup(group.ID)
	require.NoError(t, err)
	require.Len(t, got.Bets, 3)

	var u1f1 []models.Bet
	for _, b := range got.Bets {
		if b.UserID == "u1" && b.FightID == "f1" {
			u1f1 = append(u1f1, b)
		}
	}
	require.Len(t, u1f1, 1)
	assert.Equal(t, models.PredictionB, u1f1[0].Prediction)
}

func TestAddBetConcurrentSameFight(t *testing.T) {
	r, _ := newTestRegistry(t)
	group := r.CreateGroup("G", nil, "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prediction := models.PredictionA
			if i%2 == 0 {
				prediction = models.PredictionB
			}
			_, err := r.AddBet(group.ID, "u1", "Alice", "f1", prediction)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := r.GetGroup(group.ID)
	require.NoError(t, err)
	assert.Len(t, got.Bets, 1)
}

func TestEndToEnd(t *testing.T) {
	r, _ := newTestRegistry(t)

	cal := &models.VenueCalibration{
		P1: models.CalibrationPoint{GPS: models.Coordinates{Lat: -34.643494, Lng: -58.396511}, Map: models.MapPoint{X: 500, Y: 500}},
		P2: models.CalibrationPoint{GPS: models.Coordinates{Lat: -34.644494, Lng: -58.396511}, Map: models.MapPoint{X: 500, Y: 900}},
	}

	group := r.CreateGroup("Alice's Group", cal, "")
	_, err := r.JoinGroup(group.ID, "u1", "Alice")
	require.NoError(t, err)
	_, err = r.UpdateLocation("u1", -34.6436, -58.3966)
	require.NoError(t, err)

	members, err := r.ListMembers(group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].Name)
	assert.True(t, members[0].IsOnline)
	require.NotNil(t, members[0].LastLocation)
	assert.Equal(t, -34.6436, members[0].LastLocation.Lat)
	assert.Equal(t, -58.3966, members[0].LastLocation.Lng)
}

func TestResurrectionPath(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.GetGroup("ZZZZ")
	require.ErrorIs(t, err, ErrGroupNotFound)

	r.CreateGroup("Revived Group", nil, "ZZZZ")

	got, err := r.GetGroup("ZZZZ")
	require.NoError(t, err)
	assert.Empty(t, got.Members)
	assert.Empty(t, got.Messages)
	assert.Empty(t, got.Bets)
}

func TestSnapshotIsolation(t *testing.T) {
	r, _ := newTestRegistry(t)
	group := r.CreateGroup("G", nil, "")

	got, err := r.GetGroup(group.ID)
	require.NoError(t, err)
	got.Members = append(got.Members, "intruder")
	got.Messages = append(got.Messages, models.ChatMessage{ID: "fake"})

	fresh, err := r.GetGroup(group.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Members)
	assert.Empty(t, fresh.Messages)
}
