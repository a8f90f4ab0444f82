package handler

import (
	"go.uber.org/zap"

	"github.com/rankmatch/server/internal/arena"
	"github.com/rankmatch/server/internal/net"
	"github.com/rankmatch/server/internal/net/packet"
)

// HandleAddPlayer processes AddPlayer (opcode 3). The initial window is
// rank ∓ init_rank_diff with saturating arithmetic; inserting an id that
// is already pooled replaces the old entry atomically.
func HandleAddPlayer(sess *net.Session, m *packet.AddPlayer, deps *Deps) {
	entry, ok := deps.State.Arena(m.Arena)
	if !ok {
		deps.Log.Warn("add player to unknown arena",
			zap.Uint64("session", sess.ID),
			zap.String("arena", m.Arena),
			zap.String("player", m.Player),
		)
		return
	}

	e := arena.NewEntry(m.Rank, m.InitRankDiff, m.Length, m.Speed)
	entry.Pool.Insert(m.Player, e)
	deps.State.SetOwner(m.Player, sess.Addr())

	deps.Log.Info("player pooled",
		zap.Uint64("session", sess.ID),
		zap.String("arena", m.Arena),
		zap.String("player", m.Player),
		zap.Uint64("rank", m.Rank),
		zap.Uint64("window_min", e.RankMin),
		zap.Uint64("window_max", e.RankMax),
		zap.Uint64("length", m.Length),
		zap.Uint64("speed", m.Speed),
	)
}

// HandleRemovePlayer processes RemovePlayer (opcode 4).
func HandleRemovePlayer(sess *net.Session, m *packet.RemovePlayer, deps *Deps) {
	entry, ok := deps.State.Arena(m.Arena)
	if !ok {
		deps.Log.Warn("remove player from unknown arena",
			zap.Uint64("session", sess.ID),
			zap.String("arena", m.Arena),
			zap.String("player", m.Player),
		)
		return
	}

	entry.Pool.Remove(m.Player)
	deps.State.RemoveOwner(m.Player)
	deps.Log.Info("player withdrawn",
		zap.Uint64("session", sess.ID),
		zap.String("arena", m.Arena),
		zap.String("player", m.Player),
	)
}
