package handler

import (
	"go.uber.org/zap"

	"github.com/rankmatch/server/internal/net"
	"github.com/rankmatch/server/internal/net/packet"
)

// HandleAddArena processes AddArena (opcode 1). An arena with zero
// seats per match must never exist, so those registrations are rejected
// outright. Re-registering an existing arena leaves it untouched.
func HandleAddArena(sess *net.Session, m *packet.AddArena, deps *Deps) {
	if m.NumPlayers == 0 {
		deps.Log.Warn("arena with zero seats rejected",
			zap.Uint64("session", sess.ID),
			zap.String("arena", m.Arena),
		)
		return
	}

	if deps.State.AddArena(m.Arena, m.NumPlayers) {
		deps.Log.Info("arena registered",
			zap.Uint64("session", sess.ID),
			zap.String("arena", m.Arena),
			zap.Uint64("seats", m.NumPlayers),
		)
	} else {
		deps.Log.Debug("arena already registered",
			zap.Uint64("session", sess.ID),
			zap.String("arena", m.Arena),
		)
	}
}

// HandleRemoveArena processes RemoveArena (opcode 2). Players inside
// the arena are discarded with it.
func HandleRemoveArena(sess *net.Session, m *packet.RemoveArena, deps *Deps) {
	if deps.State.RemoveArena(m.Arena) {
		deps.Log.Info("arena removed",
			zap.Uint64("session", sess.ID),
			zap.String("arena", m.Arena),
		)
	} else {
		deps.Log.Debug("arena already gone",
			zap.Uint64("session", sess.ID),
			zap.String("arena", m.Arena),
		)
	}
}
