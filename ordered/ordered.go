// Package ordered supplies the natural-ordering primitives shared by
// all three tree engines. Spec Non-goals rule out user-supplied
// comparators: keys are totally ordered by their own `<`, so this
// package trims the teacher's pluggable comp.Comparator[T] down to
// a fixed compare function over constraints.Ordered.
package ordered

import "golang.org/x/exp/constraints"

// Ordered is the key-type constraint used by every engine.
type Ordered = constraints.Ordered

// Compare returns a negative value if a < b, zero if a == b, and a
// positive value if a > b.
func Compare[T Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Min returns the smaller of a and b.
func Min[T Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// linearScanMax is the crossover point below which LowerBound uses a
// linear scan instead of binary search (§9 "Lower-bound search").
const linearScanMax = 16

// LowerBound returns the smallest index i such that keys[i] >= target,
// or len(keys) if no such index exists. Nodes with at most
// linearScanMax keys are scanned linearly; larger nodes are searched
// with a binary search. The crossover is a performance knob only, not
// a correctness one (§9).
func LowerBound[K Ordered](keys []K, target K) int {
	if len(keys) <= linearScanMax {
		i := 0
		for i < len(keys) && keys[i] < target {
			i++
		}
		return i
	}
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if keys[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
