// Package handler wires protocol messages to matchmaking state changes
// and owns the per-connection lifecycle.
package handler

import (
	"go.uber.org/zap"

	"github.com/rankmatch/server/internal/match"
	"github.com/rankmatch/server/internal/net"
	"github.com/rankmatch/server/internal/net/packet"
	"github.com/rankmatch/server/internal/world"
)

// Deps bundles everything the message handlers need.
type Deps struct {
	State *world.State
	Log   *zap.Logger
}

// RegisterAll maps every server-bound message type to its handler.
// Client-bound types get no handler; the registry drops them with a log.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.Register(packet.MsgAddArena,
		func(sess any, m packet.Message) {
			HandleAddArena(sess.(*net.Session), m.(*packet.AddArena), deps)
		},
	)
	reg.Register(packet.MsgRemoveArena,
		func(sess any, m packet.Message) {
			HandleRemoveArena(sess.(*net.Session), m.(*packet.RemoveArena), deps)
		},
	)
	reg.Register(packet.MsgAddPlayer,
		func(sess any, m packet.Message) {
			HandleAddPlayer(sess.(*net.Session), m.(*packet.AddPlayer), deps)
		},
	)
	reg.Register(packet.MsgRemovePlayer,
		func(sess any, m packet.Message) {
			HandleRemovePlayer(sess.(*net.Session), m.(*packet.RemovePlayer), deps)
		},
	)
	reg.Register(packet.MsgGetOrSubscribeState,
		func(sess any, m packet.Message) {
			HandleGetOrSubscribeState(sess.(*net.Session), m.(*packet.GetOrSubscribeState), deps)
		},
	)
}

// HandleConnection owns one session from registration to cleanup: it
// registers the peer, starts the feedback timer, then decodes and
// dispatches frames until the transport fails. A frame that fails to
// decode gets a FormatError reply and the session continues; only the
// transport error path tears the session down.
func HandleConnection(sess *net.Session, reg *packet.Registry, deps *Deps) {
	deps.State.AddPeer(sess)

	fb := match.NewFeedback(sess, deps.State, deps.Log)
	go fb.Run()

	for {
		text, err := sess.ReadText()
		if err != nil {
			deps.Log.Debug("read failed",
				zap.Uint64("session", sess.ID),
				zap.Error(err),
			)
			break
		}

		msg, err := packet.Decode(text)
		if err != nil {
			deps.Log.Warn("frame format error",
				zap.Uint64("session", sess.ID),
				zap.Error(err),
			)
			reply := packet.Encode(&packet.FormatError{Error: err.Error()})
			if serr := sess.Send(reply); serr != nil {
				deps.Log.Warn("format error reply dropped", zap.Error(serr))
			}
			continue
		}

		if err := reg.Dispatch(sess, msg); err != nil {
			deps.Log.Error("dispatch failed",
				zap.Uint64("session", sess.ID),
				zap.Error(err),
			)
		}
	}

	sess.Close()
	players := deps.State.CleanupSession(sess.Addr())
	deps.Log.Info("lobby server disconnected",
		zap.Uint64("session", sess.ID),
		zap.String("addr", sess.Addr()),
		zap.Strings("players_removed", players),
	)
}
