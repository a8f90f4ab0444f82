// Package match drives the matchmaking tick, delivers completed matches
// through the room-creation API, and feeds coverage reports back to the
// lobby servers.
package match

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rankmatch/server/internal/arena"
	"github.com/rankmatch/server/internal/net/packet"
	"github.com/rankmatch/server/internal/world"
)

// Sink receives a completed match grouped by owning session address.
// Implementations must not block the caller for long; the engine invokes
// the sink on a detached goroutine.
type Sink interface {
	Dispatch(arenaName string, groups map[string][]packet.PlayerSeat)
}

// Engine runs the matching tick: once per interval it sweeps every
// arena for the best-covered rank point, resolves oversubscription with
// the exact seat solver, hands winners to the sink, and widens every
// remaining window.
type Engine struct {
	state    *world.State
	sink     Sink
	interval time.Duration
	log      *zap.Logger
}

func NewEngine(state *world.State, sink Sink, interval time.Duration, log *zap.Logger) *Engine {
	if interval <= 0 {
		interval = time.Second
	}
	return &Engine{state: state, sink: sink, interval: interval, log: log}
}

// Run blocks ticking until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.log.Info("matching tick loop started", zap.Duration("interval", e.interval))
	for {
		select {
		case <-ticker.C:
			e.TickAll()
		case <-ctx.Done():
			e.log.Info("matching tick loop stopped")
			return
		}
	}
}

// TickAll processes every registered arena once.
func (e *Engine) TickAll() {
	e.state.Arenas(func(name string, entry *world.ArenaEntry) {
		e.tickArena(name, entry)
	})
}

// tickArena attempts one match, then widens the windows of whoever is
// left. The widening runs on every tick, including ticks where the seat
// sum was short or the solver found no exact subset, so a stuck pool
// always makes progress toward feasibility. A panic is contained to the
// arena's tick; only a listener bind failure may take the process down.
func (e *Engine) tickArena(name string, entry *world.ArenaEntry) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error("arena tick panic recovered",
				zap.String("arena", name),
				zap.Any("panic", rec),
			)
		}
	}()
	candidates := entry.Pool.RankMatch()

	var total uint64
	for _, c := range candidates {
		total += c.Length
	}

	target := entry.Seats
	var winners []arena.Candidate
	switch {
	case total < target:
		// Not enough seats at the best point yet.
	case total == target:
		winners = candidates
	default:
		lengths := make([]uint64, len(candidates))
		for i, c := range candidates {
			lengths[i] = c.Length
		}
		picked, ok := arena.PickExact(lengths, target)
		if !ok {
			e.log.Info("no exact seat subset, retrying next tick",
				zap.String("arena", name),
				zap.Uint64("seats", target),
				zap.Int("candidates", len(candidates)),
			)
		} else {
			winners = make([]arena.Candidate, 0, len(picked))
			for _, idx := range picked {
				winners = append(winners, candidates[idx])
			}
		}
	}

	if len(winners) > 0 {
		e.emit(name, entry, winners)
	}

	entry.Pool.RankUpdate()
}

// emit removes the winners from the pool and hands the match to the
// sink on a detached goroutine, so a slow room-creation call never
// stalls the tick.
func (e *Engine) emit(name string, entry *world.ArenaEntry, winners []arena.Candidate) {
	groups := make(map[string][]packet.PlayerSeat)
	for _, w := range winners {
		addr, ok := e.state.Owner(w.Player)
		if !ok {
			e.log.Warn("matched player has no owner session",
				zap.String("arena", name),
				zap.String("player", w.Player),
			)
			continue
		}
		groups[addr] = append(groups[addr], packet.PlayerSeat{Player: w.Player, Length: w.Length})
	}

	e.log.Info("match formed",
		zap.String("arena", name),
		zap.Int("parties", len(winners)),
		zap.Uint64("seats", entry.Seats),
	)

	for _, w := range winners {
		entry.Pool.Remove(w.Player)
		e.state.RemoveOwner(w.Player)
	}

	go e.sink.Dispatch(name, groups)
}
