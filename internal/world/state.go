// Package world holds the process-wide matchmaking indices: registered
// arenas, connected peers, and the player → owner-session mapping.
package world

import (
	"sync"

	"github.com/rankmatch/server/internal/arena"
)

// Peer is the outbound half of a connected lobby server.
type Peer interface {
	Addr() string
	Send(frame string) error
}

// ArenaEntry pairs one pool with its target seat count per match.
type ArenaEntry struct {
	Seats uint64
	Pool  *arena.Arena
}

// State tracks every index for the lifetime of the process. Each index
// carries its own lock and every operation is point-atomic; no composite
// operation spans two indices, so inter-index consistency is weak by
// design and the tick loop tolerates it.
type State struct {
	peersMu sync.RWMutex
	peers   map[string]Peer // peer address → outgoing half

	sendersMu sync.RWMutex
	senders   map[string]string // player id → owner peer address

	arenasMu sync.RWMutex
	arenas   map[string]*ArenaEntry // arena name → seats + pool
}

func NewState() *State {
	return &State{
		peers:   make(map[string]Peer),
		senders: make(map[string]string),
		arenas:  make(map[string]*ArenaEntry),
	}
}

// AddPeer registers a connected lobby server.
func (s *State) AddPeer(p Peer) {
	s.peersMu.Lock()
	s.peers[p.Addr()] = p
	s.peersMu.Unlock()
}

// Peer looks up the outgoing half for a peer address.
func (s *State) Peer(addr string) (Peer, bool) {
	s.peersMu.RLock()
	defer s.peersMu.RUnlock()
	p, ok := s.peers[addr]
	return p, ok
}

// PeerCount returns the number of connected lobby servers.
func (s *State) PeerCount() int {
	s.peersMu.RLock()
	defer s.peersMu.RUnlock()
	return len(s.peers)
}

// SetOwner records which session a player was registered by.
func (s *State) SetOwner(player, addr string) {
	s.sendersMu.Lock()
	s.senders[player] = addr
	s.sendersMu.Unlock()
}

// Owner returns the owning session address for a player id.
func (s *State) Owner(player string) (string, bool) {
	s.sendersMu.RLock()
	defer s.sendersMu.RUnlock()
	addr, ok := s.senders[player]
	return addr, ok
}

// RemoveOwner drops a player from the senders index.
func (s *State) RemoveOwner(player string) {
	s.sendersMu.Lock()
	delete(s.senders, player)
	s.sendersMu.Unlock()
}

// AddArena creates an arena if absent. Creation is idempotent: an
// existing arena keeps its seat count and pool. Returns false when the
// arena already existed.
func (s *State) AddArena(name string, seats uint64) bool {
	s.arenasMu.Lock()
	defer s.arenasMu.Unlock()
	if _, ok := s.arenas[name]; ok {
		return false
	}
	s.arenas[name] = &ArenaEntry{Seats: seats, Pool: arena.New()}
	return true
}

// RemoveArena deletes an arena; the players inside are discarded with it.
func (s *State) RemoveArena(name string) bool {
	s.arenasMu.Lock()
	defer s.arenasMu.Unlock()
	if _, ok := s.arenas[name]; !ok {
		return false
	}
	delete(s.arenas, name)
	return true
}

// Arena looks up an arena by name.
func (s *State) Arena(name string) (*ArenaEntry, bool) {
	s.arenasMu.RLock()
	defer s.arenasMu.RUnlock()
	e, ok := s.arenas[name]
	return e, ok
}

// ArenaCount returns the number of registered arenas.
func (s *State) ArenaCount() int {
	s.arenasMu.RLock()
	defer s.arenasMu.RUnlock()
	return len(s.arenas)
}

// Arenas calls fn for every registered arena. Iteration runs over a
// snapshot of the index, so fn may add or remove arenas freely.
func (s *State) Arenas(fn func(name string, e *ArenaEntry)) {
	s.arenasMu.RLock()
	names := make([]string, 0, len(s.arenas))
	entries := make([]*ArenaEntry, 0, len(s.arenas))
	for name, e := range s.arenas {
		names = append(names, name)
		entries = append(entries, e)
	}
	s.arenasMu.RUnlock()

	for i := range names {
		fn(names[i], entries[i])
	}
}

// CleanupSession tears down everything a disconnected session owned:
// every player it registered is removed from every arena and from the
// senders index, then the peer entry itself is dropped. Arenas the
// session created stay: pools are shared resources and are only deleted
// by an explicit RemoveArena. Returns the removed player ids.
func (s *State) CleanupSession(addr string) []string {
	s.sendersMu.RLock()
	var players []string
	for player, owner := range s.senders {
		if owner == addr {
			players = append(players, player)
		}
	}
	s.sendersMu.RUnlock()

	for _, player := range players {
		s.Arenas(func(_ string, e *ArenaEntry) {
			e.Pool.Remove(player)
		})
	}

	s.sendersMu.Lock()
	for _, player := range players {
		delete(s.senders, player)
	}
	s.sendersMu.Unlock()

	s.peersMu.Lock()
	delete(s.peers, addr)
	s.peersMu.Unlock()

	return players
}
