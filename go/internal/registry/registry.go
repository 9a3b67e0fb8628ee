// Package registry is the authoritative, process-lifetime store of
// groups, members, chat messages and bets. All state is in memory and is
// gone on restart; clients are expected to repair what they can (see the
// client package's resurrection path).
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/maticef/huddle/go/internal/liveness"
	"github.com/maticef/huddle/go/internal/models"
)

const (
	// DefaultMessageCap is the per-group chat retention limit; the oldest
	// messages are dropped beyond it.
	DefaultMessageCap = 50

	// DefaultCodeLength is the length of generated group codes.
	DefaultCodeLength = 4

	// DefaultMapImage is assigned to groups created without a map.
	DefaultMapImage = "/venue-map.png"
)

// Config tunes a Registry. Zero values fall back to the defaults above.
type Config struct {
	LivenessWindow time.Duration
	MessageCap     int
	CodeLength     int
	MapImage       string
}

func (c Config) withDefaults() Config {
	if c.LivenessWindow <= 0 {
		c.LivenessWindow = liveness.DefaultWindow
	}
	if c.MessageCap <= 0 {
		c.MessageCap = DefaultMessageCap
	}
	if c.CodeLength <= 0 {
		c.CodeLength = DefaultCodeLength
	}
	if c.MapImage == "" {
		c.MapImage = DefaultMapImage
	}
	return c
}

// Registry holds all live groups and users. The top-level mutex guards
// only the two lookup maps; each group and user carries its own lock so
// mutations on unrelated entities never serialize against each other.
type Registry struct {
	cfg    Config
	policy liveness.Policy
	clock  clockwork.Clock

	mu     sync.RWMutex
	groups map[string]*groupEntry
	users  map[string]*userEntry
}

type groupEntry struct {
	mu    sync.Mutex
	group models.Group
}

type userEntry struct {
	mu   sync.Mutex
	user models.User
}

// New creates an empty registry driven by the given clock.
func New(cfg Config, clock clockwork.Clock) *Registry {
	cfg = cfg.withDefaults()
	return &Registry{
		cfg:    cfg,
		policy: liveness.NewPolicy(cfg.LivenessWindow),
		clock:  clock,
		groups: make(map[string]*groupEntry),
		users:  make(map[string]*userEntry),
	}
}

// CreateGroup allocates a new group. A requested id is honored verbatim
// (uppercased) when no live group occupies it, which is what lets a
// client resurrect a lost group under its old code; otherwise a fresh
// code is generated, retried on collision. Message and bet lists always
// start empty.
func (r *Registry) CreateGroup(name string, cal *models.VenueCalibration, requestedID string) models.Group {
	code := NormalizeCode(requestedID)

	r.mu.Lock()
	if code == "" || r.groups[code] != nil {
		for {
			code = randomCode(r.cfg.CodeLength)
			if r.groups[code] == nil {
				break
			}
		}
	}
	entry := &groupEntry{
		group: models.Group{
			ID:          code,
			Name:        name,
			Members:     []string{},
			CreatedAt:   r.clock.Now().UnixMilli(),
			Calibration: cloneCalibration(cal),
			MapImage:    r.cfg.MapImage,
			Messages:    []models.ChatMessage{},
			Bets:        []models.Bet{},
		},
	}
	r.groups[code] = entry
	r.mu.Unlock()

	log.Info().Str("group_id", code).Str("name", name).Msg("group created")

	return cloneGroup(entry.group)
}

// GetGroup returns a snapshot of the group or ErrGroupNotFound.
func (r *Registry) GetGroup(id string) (models.Group, error) {
	entry, ok := r.lookupGroup(id)
	if !ok {
		return models.Group{}, ErrGroupNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneGroup(entry.group), nil
}

// JoinGroup adds a user to a group. Re-joining with a known user id
// overwrites the display name, group assignment and liveness timestamp
// instead of creating a duplicate; membership insertion is idempotent.
func (r *Registry) JoinGroup(groupID, userID, displayName string) (models.User, error) {
	groupID = NormalizeCode(groupID)

	gEntry, ok := r.lookupGroup(groupID)
	if !ok {
		return models.User{}, ErrGroupNotFound
	}

	r.mu.Lock()
	uEntry := r.users[userID]
	if uEntry == nil {
		uEntry = &userEntry{user: models.User{
			ID:   userID,
			Role: models.RoleMember,
		}}
		r.users[userID] = uEntry
	}
	r.mu.Unlock()

	uEntry.mu.Lock()
	uEntry.user.Name = displayName
	uEntry.user.GroupID = groupID
	uEntry.user.LastUpdated = r.clock.Now().UnixMilli()
	user := uEntry.user
	uEntry.mu.Unlock()

	gEntry.mu.Lock()
	if !contains(gEntry.group.Members, userID) {
		gEntry.group.Members = append(gEntry.group.Members, userID)
	}
	gEntry.mu.Unlock()

	log.Debug().Str("group_id", groupID).Str("user_id", userID).Msg("user joined group")

	user.IsOnline = true
	return cloneUser(user), nil
}

// UpdateLocation records a member's latest GPS fix and refreshes their
// liveness timestamp.
func (r *Registry) UpdateLocation(userID string, lat, lng float64) (models.User, error) {
	r.mu.RLock()
	entry := r.users[userID]
	r.mu.RUnlock()
	if entry == nil {
		return models.User{}, ErrUserNotFound
	}

	now := r.clock.Now()

	entry.mu.Lock()
	entry.user.LastLocation = &models.Coordinates{Lat: lat, Lng: lng}
	entry.user.LastUpdated = now.UnixMilli()
	user := entry.user
	entry.mu.Unlock()

	user.IsOnline = true
	return cloneUser(user), nil
}

// AddMessage appends a chat message to the group, dropping the oldest
// entries once the transcript exceeds the retention cap.
func (r *Registry) AddMessage(groupID, senderID, senderName, text string) (models.ChatMessage, error) {
	entry, ok := r.lookupGroup(groupID)
	if !ok {
		return models.ChatMessage{}, ErrGroupNotFound
	}

	msg := models.ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
		Timestamp:  r.clock.Now().UnixMilli(),
	}

	entry.mu.Lock()
	entry.group.Messages = append(entry.group.Messages, msg)
	if over := len(entry.group.Messages) - r.cfg.MessageCap; over > 0 {
		entry.group.Messages = append([]models.ChatMessage(nil), entry.group.Messages[over:]...)
	}
	entry.mu.Unlock()

	return msg, nil
}

// AddBet records a member's predicted outcome for a fight. Any prior bet
// by the same user for the same fight is superseded, which makes the
// redundant re-uploads clients send after a registry restart harmless.
func (r *Registry) AddBet(groupID, userID, userName, fightID, prediction string) (models.Bet, error) {
	entry, ok := r.lookupGroup(groupID)
	if !ok {
		return models.Bet{}, ErrGroupNotFound
	}

	bet := models.Bet{
		ID:         uuid.NewString(),
		UserID:     userID,
		UserName:   userName,
		FightID:    fightID,
		Prediction: prediction,
		Timestamp:  r.clock.Now().UnixMilli(),
	}

	entry.mu.Lock()
	kept := entry.group.Bets[:0]
	for _, b := range entry.group.Bets {
		if b.UserID != userID || b.FightID != fightID {
			kept = append(kept, b)
		}
	}
	entry.group.Bets = append(kept, bet)
	entry.mu.Unlock()

	return bet, nil
}

// ListMembers returns the group's members in join order with the online
// flag derived from the liveness window at call time. Offline members
// are reported, never removed.
func (r *Registry) ListMembers(groupID string) ([]models.User, error) {
	entry, ok := r.lookupGroup(groupID)
	if !ok {
		return nil, ErrGroupNotFound
	}

	entry.mu.Lock()
	ids := append([]string(nil), entry.group.Members...)
	entry.mu.Unlock()

	now := r.clock.Now()
	members := make([]models.User, 0, len(ids))
	for _, id := range ids {
		r.mu.RLock()
		uEntry := r.users[id]
		r.mu.RUnlock()
		if uEntry == nil {
			continue
		}
		uEntry.mu.Lock()
		user := cloneUser(uEntry.user)
		uEntry.mu.Unlock()

		user.IsOnline = r.policy.Online(now, user.LastUpdated)
		members = append(members, user)
	}
	return members, nil
}

func (r *Registry) lookupGroup(id string) (*groupEntry, bool) {
	id = NormalizeCode(id)
	r.mu.RLock()
	entry := r.groups[id]
	r.mu.RUnlock()
	return entry, entry != nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func cloneGroup(g models.Group) models.Group {
	g.Members = append([]string(nil), g.Members...)
	g.Messages = append([]models.ChatMessage(nil), g.Messages...)
	g.Bets = append([]models.Bet(nil), g.Bets...)
	g.Calibration = cloneCalibration(g.Calibration)
	return g
}

func cloneUser(u models.User) models.User {
	if u.LastLocation != nil {
		loc := *u.LastLocation
		u.LastLocation = &loc
	}
	return u
}

func cloneCalibration(cal *models.VenueCalibration) *models.VenueCalibration {
	if cal == nil {
		return nil
	}
	c := *cal
	return &c
}
