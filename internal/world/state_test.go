package world

import (
	"sort"
	"testing"

	"github.com/rankmatch/server/internal/arena"
)

type fakePeer struct {
	addr string
}

func (p *fakePeer) Addr() string            { return p.addr }
func (p *fakePeer) Send(frame string) error { return nil }

func TestAddArenaIdempotent(t *testing.T) {
	s := NewState()
	if !s.AddArena("duel", 2) {
		t.Error("first AddArena = false, want true")
	}
	if s.AddArena("duel", 8) {
		t.Error("second AddArena = true, want false")
	}

	e, ok := s.Arena("duel")
	if !ok {
		t.Fatal("arena missing")
	}
	if e.Seats != 2 {
		t.Errorf("Seats = %d, want the first registered value 2", e.Seats)
	}
	if s.ArenaCount() != 1 {
		t.Errorf("ArenaCount() = %d, want 1", s.ArenaCount())
	}
}

func TestRemoveArena(t *testing.T) {
	s := NewState()
	s.AddArena("duel", 2)
	if !s.RemoveArena("duel") {
		t.Error("RemoveArena existing = false, want true")
	}
	if s.RemoveArena("duel") {
		t.Error("RemoveArena absent = true, want false")
	}
	if _, ok := s.Arena("duel"); ok {
		t.Error("arena still present after removal")
	}
}

func TestOwnerLifecycle(t *testing.T) {
	s := NewState()
	s.SetOwner("p1", "addr1")

	addr, ok := s.Owner("p1")
	if !ok || addr != "addr1" {
		t.Errorf("Owner(p1) = %q, %v; want addr1, true", addr, ok)
	}

	s.RemoveOwner("p1")
	if _, ok := s.Owner("p1"); ok {
		t.Error("owner still present after removal")
	}
}

func TestCleanupSessionRemovesOnlyOwnedPlayers(t *testing.T) {
	s := NewState()
	s.AddPeer(&fakePeer{addr: "addr1"})
	s.AddPeer(&fakePeer{addr: "addr2"})
	s.AddArena("duel", 2)
	s.AddArena("ranked", 4)

	duel, _ := s.Arena("duel")
	ranked, _ := s.Arena("ranked")

	duel.Pool.Insert("p1", arena.NewEntry(10, 0, 1, 1))
	ranked.Pool.Insert("p2", arena.NewEntry(20, 0, 1, 1))
	duel.Pool.Insert("p3", arena.NewEntry(30, 0, 1, 1))
	s.SetOwner("p1", "addr1")
	s.SetOwner("p2", "addr1")
	s.SetOwner("p3", "addr2")

	removed := s.CleanupSession("addr1")
	sort.Strings(removed)
	if len(removed) != 2 || removed[0] != "p1" || removed[1] != "p2" {
		t.Errorf("CleanupSession removed = %v, want [p1 p2]", removed)
	}

	if _, ok := duel.Pool.Get("p1"); ok {
		t.Error("p1 still pooled after cleanup")
	}
	if _, ok := ranked.Pool.Get("p2"); ok {
		t.Error("p2 still pooled after cleanup")
	}
	if _, ok := duel.Pool.Get("p3"); !ok {
		t.Error("p3 owned by another session was removed")
	}
	if _, ok := s.Owner("p3"); !ok {
		t.Error("p3 owner mapping was removed")
	}
	if _, ok := s.Peer("addr1"); ok {
		t.Error("peer still registered after cleanup")
	}
	if _, ok := s.Peer("addr2"); !ok {
		t.Error("unrelated peer was removed")
	}

	// Arenas survive their creator's disconnect.
	if s.ArenaCount() != 2 {
		t.Errorf("ArenaCount() = %d, want 2", s.ArenaCount())
	}
}

func TestArenasIterationSnapshot(t *testing.T) {
	s := NewState()
	s.AddArena("a", 2)
	s.AddArena("b", 2)

	// Mutating inside the callback must not deadlock or skip entries.
	visited := 0
	s.Arenas(func(name string, e *ArenaEntry) {
		visited++
		s.AddArena("c"+name, 2)
	})
	if visited != 2 {
		t.Errorf("visited %d arenas, want 2", visited)
	}
}
