package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/maticef/huddle/go/internal/models"
)

// DefaultPollInterval is the cadence of group snapshot polls.
const DefaultPollInterval = time.Second

// SessionConfig identifies the session and tunes its loops.
type SessionConfig struct {
	GroupCode   string
	UserID      string
	DisplayName string
	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration
	// DefaultCalibration is used when resurrecting a lost group, since
	// the original calibration died with the registry.
	DefaultCalibration *models.VenueCalibration
}

// Callbacks deliver session events to the embedding UI. Either field may
// be nil. OnUpdate runs on poll goroutines; keep it cheap.
type Callbacks struct {
	OnUpdate func(View)
	// OnSessionExpired fires once when a lost group could not be
	// resurrected. The session is terminal at that point.
	OnSessionExpired func()
}

// Session runs the two device-side loops against one group: the poll
// loop feeding the reconciliation engine and the location reporting
// loop. The loops are independent; a slow location push never delays a
// poll tick and vice versa.
type Session struct {
	api    *API
	engine *Engine
	votes  *VoteCache // optional; nil disables durable vote restoration
	clock  clockwork.Clock
	cfg    SessionConfig
	cb     Callbacks

	cancel       context.CancelFunc
	wg           sync.WaitGroup
	resurrecting atomic.Bool
	expired      atomic.Bool
}

// NewSession wires a session. votes may be nil.
func NewSession(api *API, engine *Engine, votes *VoteCache, clock clockwork.Clock, cfg SessionConfig, cb Callbacks) *Session {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Session{
		api:    api,
		engine: engine,
		votes:  votes,
		clock:  clock,
		cfg:    cfg,
		cb:     cb,
	}
}

// Start launches the poll loop and, when positions is non-nil, the
// location reporting loop. Both stop when ctx is cancelled or Close is
// called.
func (s *Session) Start(ctx context.Context, positions PositionSource) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.pollLoop(ctx)

	if positions != nil {
		s.wg.Add(1)
		go s.locationLoop(ctx, positions)
	}
}

// Close stops both loops and waits until no more writes can happen.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// View returns the engine's current state.
func (s *Session) View() View {
	return s.engine.View()
}

// SendChat applies the message optimistically and pushes it to the
// registry in the background; the server echo retires the optimistic
// copy on a later poll.
func (s *Session) SendChat(ctx context.Context, text string) models.ChatMessage {
	msg := s.engine.AddPending(s.cfg.DisplayName, text, s.clock.Now())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.api.SendMessage(ctx, s.cfg.GroupCode, s.cfg.UserID, s.cfg.DisplayName, text); err != nil {
			log.Debug().Err(err).Msg("chat push failed; message stays pending")
		}
	}()

	return msg
}

// CastVote records a vote with the registry and, once confirmed, in the
// durable local cache so it survives registry restarts.
func (s *Session) CastVote(ctx context.Context, fightID, prediction string) error {
	bet, err := s.api.CastBet(ctx, s.cfg.GroupCode, s.cfg.UserID, s.cfg.DisplayName, fightID, prediction)
	if err != nil {
		return err
	}
	s.engine.RecordBet(bet)
	if s.votes != nil {
		if err := s.votes.Put(s.cfg.UserID, bet); err != nil {
			log.Warn().Err(err).Msg("failed to cache vote locally")
		}
	}
	return nil
}

func (s *Session) pollLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := s.clock.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			// Fire and forget: a slow registry yields overlapping polls,
			// which the engine's merge tolerates in any arrival order.
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.tick(ctx)
			}()
		}
	}
}

func (s *Session) tick(ctx context.Context) {
	snap, err := s.api.FetchGroup(ctx, s.cfg.GroupCode)
	switch {
	case err == nil:
		if ctx.Err() != nil {
			return
		}
		view := s.engine.ApplySnapshot(snap)
		s.restoreVotes(ctx)
		if s.cb.OnUpdate != nil {
			s.cb.OnUpdate(view)
		}
	case errors.Is(err, ErrGroupNotFound):
		s.resurrect(ctx)
	default:
		// Ordinary network jitter; keep showing cached state and let the
		// next tick retry.
		log.Debug().Err(err).Msg("poll tick failed")
	}
}

// restoreVotes re-uploads every locally cached vote. The registry was
// possibly restarted since the last refresh and its last-vote-wins rule
// makes the redundant writes idempotent.
func (s *Session) restoreVotes(ctx context.Context) {
	if s.votes == nil {
		return
	}
	bets, err := s.votes.List(s.cfg.UserID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read vote cache")
		return
	}
	for _, bet := range bets {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.api.CastBet(ctx, s.cfg.GroupCode, s.cfg.UserID, s.cfg.DisplayName, bet.FightID, bet.Prediction); err != nil {
			log.Debug().Err(err).Str("fight_id", bet.FightID).Msg("vote re-upload failed")
		}
	}
}

// resurrect recreates a lost group under its original code. The server
// never repairs itself; the burden is on whichever member notices first.
// Prior chat, bets and members are gone and stay gone. A concurrent
// racer attaches to the recreated group instead of duplicating it.
func (s *Session) resurrect(ctx context.Context) {
	if s.expired.Load() || !s.resurrecting.CompareAndSwap(false, true) {
		return
	}
	defer s.resurrecting.Store(false)

	log.Warn().Str("group_id", s.cfg.GroupCode).Msg("group lost; attempting resurrection")

	_, err := s.api.JoinGroup(ctx, JoinRequest{
		Name:        s.cfg.DisplayName,
		GroupCode:   s.cfg.GroupCode,
		Action:      "create",
		Calibration: s.cfg.DefaultCalibration,
		UserID:      s.cfg.UserID,
	})
	if err != nil {
		log.Error().Err(err).Str("group_id", s.cfg.GroupCode).Msg("resurrection failed; session expired")
		if s.expired.CompareAndSwap(false, true) {
			if s.cb.OnSessionExpired != nil {
				s.cb.OnSessionExpired()
			}
			s.cancel()
		}
		return
	}

	log.Info().Str("group_id", s.cfg.GroupCode).Msg("group resurrected; prior history is gone")
}
