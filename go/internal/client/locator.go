package client

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/maticef/huddle/go/internal/models"
)

// PositionSource is a continuous device-side position watcher. The
// channel closes when the source stops; emitting is expected to be
// sporadic (GPS fixes) rather than on a fixed cadence.
type PositionSource interface {
	Positions(ctx context.Context) (<-chan models.Coordinates, error)
}

// FixedSource re-emits one coordinate on an interval. It stands in for a
// real GPS watcher on devices without one and keeps the member's
// liveness fresh in the meantime.
type FixedSource struct {
	Coord    models.Coordinates
	Interval time.Duration
	Clock    clockwork.Clock
}

// Positions implements PositionSource.
func (f FixedSource) Positions(ctx context.Context) (<-chan models.Coordinates, error) {
	if f.Interval <= 0 {
		return nil, errors.New("interval must be positive")
	}
	clock := f.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	ch := make(chan models.Coordinates)
	go func() {
		defer close(ch)
		ticker := clock.NewTicker(f.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				select {
				case ch <- f.Coord:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

// locationLoop pushes every position fix to the registry. Push failures
// are routine (the user may not have finished joining, or the registry
// was reset) and never surface; the next fix simply retries.
func (s *Session) locationLoop(ctx context.Context, src PositionSource) {
	defer s.wg.Done()

	ch, err := src.Positions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("position source unavailable")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case coord, ok := <-ch:
			if !ok {
				return
			}
			if err := s.api.PushLocation(ctx, s.cfg.UserID, coord); err != nil {
				log.Debug().Err(err).Msg("location push failed")
			}
		}
	}
}
