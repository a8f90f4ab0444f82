// Package arena implements the rank-window matchmaking pool: a mutable
// set of participants whose acceptance windows slide wider every tick,
// a sweep-line selector for the best-covered rank point, and the
// per-player coverage report.
package arena

import (
	"math"
	"sort"
	"sync"
)

// Entry is one pool participant: the acceptance window [RankMin, RankMax],
// the seat count it occupies, and the per-tick widening speed.
type Entry struct {
	RankMin uint64
	RankMax uint64
	Length  uint64
	Speed   uint64
}

// NewEntry builds an entry whose initial window is rank ∓ diff,
// saturating at the uint64 bounds.
func NewEntry(rank, diff, length, speed uint64) Entry {
	return Entry{
		RankMin: satSub(rank, diff),
		RankMax: satAdd(rank, diff),
		Length:  length,
		Speed:   speed,
	}
}

// Candidate is one selector result: a player whose window covers the
// chosen rank point, with the seats it would fill.
type Candidate struct {
	Player string
	Length uint64
}

// Arena is one matchmaking pool. The players map is internally
// synchronized; the sweep algorithms run on a snapshot, so concurrent
// inserts and removals never tear a sweep in progress.
type Arena struct {
	mu      sync.RWMutex
	players map[string]Entry
}

func New() *Arena {
	return &Arena{players: make(map[string]Entry)}
}

// Insert adds a player entry, atomically replacing any previous entry
// under the same id.
func (a *Arena) Insert(player string, e Entry) {
	a.mu.Lock()
	a.players[player] = e
	a.mu.Unlock()
}

// Remove deletes a player entry. Removing an absent id is a no-op.
func (a *Arena) Remove(player string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.players[player]; !ok {
		return false
	}
	delete(a.players, player)
	return true
}

// Len returns the number of entries in the pool.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.players)
}

// Get returns the entry for a player id.
func (a *Arena) Get(player string) (Entry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.players[player]
	return e, ok
}

func (a *Arena) snapshot() map[string]Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	players := make(map[string]Entry, len(a.players))
	for id, e := range a.players {
		players[id] = e
	}
	return players
}

// RankUpdate widens every window by its speed, saturating at zero and
// at the uint64 maximum so RankMin never crosses RankMax.
func (a *Arena) RankUpdate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, e := range a.players {
		e.RankMin = satSub(e.RankMin, e.Speed)
		e.RankMax = satAdd(e.RankMax, e.Speed)
		a.players[id] = e
	}
}

// sweepKey is one coverage-change coordinate. A window covers
// [RankMin, RankMax], so its weight leaves at RankMax+1; for a window
// saturated at the top of the rank axis that coordinate does not exist
// as a uint64, and beyond marks the ordinal one past it. Sweeping the
// sorted keys visits exactly the points where coverage can change, so
// the cost depends on pool size, never on the rank span.
type sweepKey struct {
	pos    uint64
	beyond bool
}

func keyLess(a, b sweepKey) bool {
	if a.beyond != b.beyond {
		return !a.beyond
	}
	return a.pos < b.pos
}

func leaveKey(rankMax uint64) sweepKey {
	if rankMax == math.MaxUint64 {
		return sweepKey{beyond: true}
	}
	return sweepKey{pos: rankMax + 1}
}

func sortedKeys(deltas map[sweepKey]int64) []sweepKey {
	keys := make([]sweepKey, 0, len(deltas))
	for k := range deltas {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

// RankMatch finds the rank point covered by the maximum total seat
// weight and returns every player whose window contains it. The sweep
// keeps the first maximum it discovers, so ties resolve to the smallest
// rank. An empty pool yields nil.
//
// Counts are int64: the summed seat weight of very wide pools can
// exceed 32 bits.
func (a *Arena) RankMatch() []Candidate {
	players := a.snapshot()
	if len(players) == 0 {
		return nil
	}

	deltas := make(map[sweepKey]int64, 2*len(players))
	for _, e := range players {
		deltas[sweepKey{pos: e.RankMin}] += int64(e.Length)
		deltas[leaveKey(e.RankMax)] -= int64(e.Length)
	}

	// The smallest key is always a window start, and the beyond key only
	// ever loses weight, so the chosen target is a real rank point.
	var sum, maxSum int64
	var target uint64
	first := true
	for _, k := range sortedKeys(deltas) {
		sum += deltas[k]
		if first || sum > maxSum {
			maxSum = sum
			target = k.pos
			first = false
		}
	}

	ans := make([]Candidate, 0, len(players))
	for id, e := range players {
		if e.RankMin <= target && target <= e.RankMax {
			ans = append(ans, Candidate{Player: id, Length: e.Length})
		}
	}
	return ans
}

// PlayerStates reports, for every player in the pool, the maximum total
// seat weight observed at any rank point while that player's window was
// active. Every pool player appears in the result with coverage >= 0.
func (a *Arena) PlayerStates() map[string]uint64 {
	players := a.snapshot()
	if len(players) == 0 {
		return nil
	}

	deltas := make(map[sweepKey]int64, 2*len(players))
	enters := make(map[sweepKey][]string, len(players))
	leaves := make(map[sweepKey][]string, len(players))
	for id, e := range players {
		ek := sweepKey{pos: e.RankMin}
		lk := leaveKey(e.RankMax)
		deltas[ek] += int64(e.Length)
		deltas[lk] -= int64(e.Length)
		enters[ek] = append(enters[ek], id)
		leaves[lk] = append(leaves[lk], id)
	}

	active := make(map[string]struct{})
	res := make(map[string]uint64, len(players))
	var sum int64
	for _, k := range sortedKeys(deltas) {
		sum += deltas[k]
		for _, id := range enters[k] {
			active[id] = struct{}{}
		}
		// Update before dropping leavers: a window's final observation
		// is at the point one past RankMax, where its own weight has
		// already left the sum.
		for id := range active {
			cur := res[id]
			if sum > 0 && uint64(sum) > cur {
				cur = uint64(sum)
			}
			res[id] = cur
		}
		for _, id := range leaves[k] {
			delete(active, id)
		}
	}
	return res
}

func satSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

func satAdd(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint64(0)
}
