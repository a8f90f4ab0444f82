package match

import (
	"time"

	"go.uber.org/zap"

	"github.com/rankmatch/server/internal/net"
	"github.com/rankmatch/server/internal/net/packet"
	"github.com/rankmatch/server/internal/world"
)

// Feedback periodically pushes per-player coverage to one session. Each
// connection gets its own Feedback goroutine, started alongside the read
// loop and terminated when the session closes.
type Feedback struct {
	sess  *net.Session
	state *world.State
	log   *zap.Logger
}

func NewFeedback(sess *net.Session, state *world.State, log *zap.Logger) *Feedback {
	return &Feedback{sess: sess, state: state, log: log}
}

// Run consumes period changes from the session and emits ConnectionState
// frames until the session closes. The feedback starts paused; period
// zero pauses it again.
func (f *Feedback) Run() {
	var period time.Duration
	for {
		if period == 0 {
			select {
			case period = <-f.sess.PeriodCh:
			case <-f.sess.Done():
				return
			}
			continue
		}

		f.report()

		timer := time.NewTimer(period)
		select {
		case period = <-f.sess.PeriodCh:
			timer.Stop()
		case <-f.sess.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// report collects coverage across every arena. A player pooled in more
// than one arena keeps whichever arena's row was written last.
func (f *Feedback) report() {
	rows := make(map[string]packet.PlayerState)
	f.state.Arenas(func(name string, e *world.ArenaEntry) {
		for player, cov := range e.Pool.PlayerStates() {
			rows[player] = packet.PlayerState{Player: player, Arena: name, Coverage: cov}
		}
	})

	msg := &packet.ConnectionState{Players: make([]packet.PlayerState, 0, len(rows))}
	for _, ps := range rows {
		msg.Players = append(msg.Players, ps)
	}

	if err := f.sess.Send(packet.Encode(msg)); err != nil {
		f.log.Debug("state feedback dropped",
			zap.Uint64("session", f.sess.ID),
			zap.Error(err),
		)
	}
}
