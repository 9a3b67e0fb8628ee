// Package client keeps a device-local view of one group consistent
// against a volatile, polling-based registry: it merges server snapshots
// with optimistic local writes, drives the poll and location loops, and
// re-uploads durable local votes after server restarts.
package client

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maticef/huddle/go/internal/geo"
	"github.com/maticef/huddle/go/internal/models"
)

const (
	// confirmWindow is the timestamp slack when matching a pending
	// optimistic message against its server echo.
	confirmWindow = 30 * time.Second

	// messageLimit caps the locally held transcript.
	messageLimit = 100

	// Projected positions beyond these pixel bounds are flagged so a
	// renderer can cull wildly miscalibrated points.
	offMapMin = -2000
	offMapMax = 3000
)

// View is a consistent copy of the engine's state, safe to render.
type View struct {
	Group    models.Group
	Members  []models.User
	Messages []models.ChatMessage
}

// Me returns the view's entry for the given user id, if present.
func (v View) Me(userID string) (models.User, bool) {
	for _, m := range v.Members {
		if m.ID == userID {
			return m, true
		}
	}
	return models.User{}, false
}

// Engine reconciles poll responses with optimistic local state. All
// methods are safe for concurrent use; poll ticks may overlap and apply
// in any order because the merge only ever adds by id, retires pending
// entries by content match, and adopts the member list wholesale.
type Engine struct {
	userID string

	mu       sync.Mutex
	group    models.Group
	members  []models.User
	messages []models.ChatMessage
	pending  map[string]struct{} // local message ids awaiting a server echo
}

// NewEngine creates an engine for the given local user.
func NewEngine(userID string) *Engine {
	return &Engine{
		userID:  userID,
		pending: make(map[string]struct{}),
	}
}

// ApplySnapshot merges one poll response into the local view.
//
// Messages: start from the local list, add unseen server messages by id,
// then retire any pending optimistic message that a server message
// confirms (same sender, same text, timestamps within the confirm
// window). The local transcript never regresses when the server comes
// back empty; the price is a possible duplicate when a confirmation
// match is missed.
//
// Members: the server list is adopted verbatim, even when empty. Holding
// stale members forever is worse than a briefly empty sidebar.
func (e *Engine) ApplySnapshot(snap Snapshot) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.group = snap.Group
	e.members = snap.Members
	e.messages = e.mergeLocked(snap.Group.Messages)

	return e.viewLocked()
}

// AddPending inserts an optimistic local message shown immediately and
// reconciled against the server echo on a later poll.
func (e *Engine) AddPending(senderName, text string, now time.Time) models.ChatMessage {
	msg := models.ChatMessage{
		ID:         "local-" + uuid.NewString(),
		SenderID:   e.userID,
		SenderName: senderName,
		Text:       text,
		Timestamp:  now.UnixMilli(),
	}

	e.mu.Lock()
	e.pending[msg.ID] = struct{}{}
	e.messages = append(e.messages, msg)
	e.mu.Unlock()

	return msg
}

// View returns a copy of the current state.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *Engine) viewLocked() View {
	return View{
		Group:    e.group,
		Members:  append([]models.User(nil), e.members...),
		Messages: append([]models.ChatMessage(nil), e.messages...),
	}
}

func (e *Engine) mergeLocked(server []models.ChatMessage) []models.ChatMessage {
	merged := append([]models.ChatMessage(nil), e.messages...)

	seen := make(map[string]struct{}, len(merged))
	for _, m := range merged {
		seen[m.ID] = struct{}{}
	}
	for _, m := range server {
		if _, ok := seen[m.ID]; !ok {
			merged = append(merged, m)
			seen[m.ID] = struct{}{}
		}
	}

	// Retire pending messages the server has durably recorded.
	if len(e.pending) > 0 {
		kept := merged[:0]
		for _, m := range merged {
			if _, isPending := e.pending[m.ID]; isPending && confirmedBy(m, server) {
				delete(e.pending, m.ID)
				continue
			}
			kept = append(kept, m)
		}
		merged = kept
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	if len(merged) > messageLimit {
		merged = append([]models.ChatMessage(nil), merged[len(merged)-messageLimit:]...)
	}
	return merged
}

func confirmedBy(pending models.ChatMessage, server []models.ChatMessage) bool {
	window := confirmWindow.Milliseconds()
	for _, m := range server {
		if m.SenderID == pending.SenderID && m.Text == pending.Text &&
			abs64(m.Timestamp-pending.Timestamp) <= window {
			return true
		}
	}
	return false
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// RecordBet folds a confirmed bet into the local group view ahead of the
// next poll, superseding any prior bet by the same user for the same
// fight just as the registry does.
func (e *Engine) RecordBet(bet models.Bet) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Build a fresh slice; handed-out Views alias the old one.
	kept := make([]models.Bet, 0, len(e.group.Bets)+1)
	for _, b := range e.group.Bets {
		if b.UserID != bet.UserID || b.FightID != bet.FightID {
			kept = append(kept, b)
		}
	}
	e.group.Bets = append(kept, bet)
}

// MemberPosition is a member projected onto the venue map.
type MemberPosition struct {
	User   models.User
	Point  models.MapPoint
	OffMap bool
}

// Positions projects every located member onto the map using the group's
// calibration. Nil when the group has no calibration.
func (e *Engine) Positions() []MemberPosition {
	e.mu.Lock()
	cal := e.group.Calibration
	members := append([]models.User(nil), e.members...)
	e.mu.Unlock()

	if cal == nil {
		return nil
	}

	positions := make([]MemberPosition, 0, len(members))
	for _, m := range members {
		if m.LastLocation == nil {
			continue
		}
		p := geo.ProjectToMap(*m.LastLocation, *cal)
		positions = append(positions, MemberPosition{
			User:   m,
			Point:  p,
			OffMap: p.X < offMapMin || p.X > offMapMax || p.Y < offMapMin || p.Y > offMapMax,
		})
	}
	return positions
}

// Advisory reports the straight-line distance from the local user to a
// fixed reference point and whether they are inside the given radius.
// Pure presentation; ok is false when we have no position yet.
func (e *Engine) Advisory(ref models.Coordinates, radiusMeters float64) (distance float64, inside, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, m := range e.members {
		if m.ID == e.userID && m.LastLocation != nil {
			d := geo.Distance(*m.LastLocation, ref)
			return d, d <= radiusMeters, true
		}
	}
	return 0, false, false
}
