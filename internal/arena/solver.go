package arena

import "math"

const inf = math.MaxInt

// PickExact chooses a subset of the candidate seat counts whose sum is
// exactly target, minimizing the number of parties selected (fewer,
// larger parties win). Returns the chosen indices in ascending order,
// or ok=false when no subset of lengths sums to target.
//
// Knapsack by party count, row per candidate. Within a row the
// single-party seed is applied first and a take only displaces a prior
// solution when it is strictly cheaper, which fixes how equal-count
// ties resolve: {3,2,2,1} with target 4 selects indices {0,3}.
func PickExact(lengths []uint64, target uint64) ([]int, bool) {
	if len(lengths) == 0 || target == 0 {
		return nil, false
	}
	t := int(target)

	prev := make([]int, t+1)
	prevSet := make([][]int, t+1)
	for j := range prev {
		prev[j] = inf
	}

	for i, l := range lengths {
		ln := t + 1 // oversized parties can never fit
		if l <= target {
			ln = int(l)
		}

		cur := make([]int, t+1)
		for j := range cur {
			cur[j] = inf
		}
		curSet := make([][]int, t+1)

		if ln >= 1 && ln <= t {
			cur[ln] = 1
			curSet[ln] = []int{i}
		}
		for j := 0; j <= t; j++ {
			if j >= ln && prev[j-ln] != inf && prev[j-ln]+1 < cur[j] {
				cur[j] = prev[j-ln] + 1
				set := make([]int, 0, len(prevSet[j-ln])+1)
				set = append(set, prevSet[j-ln]...)
				set = append(set, i)
				curSet[j] = set
			}
			if prev[j] < cur[j] {
				cur[j] = prev[j]
				curSet[j] = prevSet[j]
			}
		}
		prev, prevSet = cur, curSet
	}

	if prev[t] == inf {
		return nil, false
	}
	return prevSet[t], true
}
