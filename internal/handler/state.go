package handler

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/rankmatch/server/internal/net"
	"github.com/rankmatch/server/internal/net/packet"
)

// maxPeriodSeconds is the largest period that still fits a
// time.Duration; larger wire values would wrap negative and turn the
// feedback timer into a busy loop.
const maxPeriodSeconds = uint64(math.MaxInt64 / int64(time.Second))

// HandleGetOrSubscribeState processes GetOrSubscribeState (opcode 5).
// Period zero pauses the feedback; any other value restarts it at that
// many seconds. The period channel holds one pending value, so a burst
// of subscribe packets keeps only the first undelivered one and the
// rest are dropped with a log.
func HandleGetOrSubscribeState(sess *net.Session, m *packet.GetOrSubscribeState, deps *Deps) {
	period := time.Duration(m.Period) * time.Second
	if m.Period > maxPeriodSeconds {
		period = time.Duration(math.MaxInt64)
	}

	select {
	case sess.PeriodCh <- period:
		if period > 0 {
			deps.Log.Info("state feedback subscribed",
				zap.Uint64("session", sess.ID),
				zap.Duration("period", period),
			)
		} else {
			deps.Log.Info("state feedback paused",
				zap.Uint64("session", sess.ID),
			)
		}
	default:
		deps.Log.Warn("feedback period change dropped, channel busy",
			zap.Uint64("session", sess.ID),
		)
	}
}
