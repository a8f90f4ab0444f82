package arena

import (
	"reflect"
	"testing"
)

func TestPickExact(t *testing.T) {
	tests := []struct {
		name    string
		lengths []uint64
		target  uint64
		want    []int
		wantOK  bool
	}{
		{
			name:    "equal party count tie",
			lengths: []uint64{3, 2, 2, 1},
			target:  4,
			want:    []int{0, 3},
			wantOK:  true,
		},
		{
			name:    "single exact party",
			lengths: []uint64{4},
			target:  4,
			want:    []int{0},
			wantOK:  true,
		},
		{
			name:    "fewer parties beat more",
			lengths: []uint64{2, 1, 1},
			target:  2,
			want:    []int{0},
			wantOK:  true,
		},
		{
			name:    "everyone fits",
			lengths: []uint64{3, 2, 2, 1},
			target:  8,
			want:    []int{0, 1, 2, 3},
			wantOK:  true,
		},
		{
			name:    "oversized party skipped",
			lengths: []uint64{10, 4},
			target:  4,
			want:    []int{1},
			wantOK:  true,
		},
		{
			name:    "no exact sum",
			lengths: []uint64{2, 2},
			target:  3,
			wantOK:  false,
		},
		{
			name:    "all parties too large",
			lengths: []uint64{5, 6},
			target:  4,
			wantOK:  false,
		},
		{
			name:   "empty input",
			target: 4,
			wantOK: false,
		},
		{
			name:    "zero target",
			lengths: []uint64{1, 2},
			target:  0,
			wantOK:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickExact(tt.lengths, tt.target)
			if ok != tt.wantOK {
				t.Fatalf("PickExact() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PickExact() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickExactSumInvariant(t *testing.T) {
	lengths := []uint64{1, 1, 2, 3, 5, 8}
	for target := uint64(1); target <= 20; target++ {
		picked, ok := PickExact(lengths, target)
		if !ok {
			continue
		}
		var sum uint64
		for _, idx := range picked {
			sum += lengths[idx]
		}
		if sum != target {
			t.Errorf("target %d: picked %v sums to %d", target, picked, sum)
		}
	}
}
