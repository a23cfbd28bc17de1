package utils

import (
	"math"
	"sort"
)

// floorEpsilon absorbs float error from sums such as 0.1+0.2 before flooring.
const floorEpsilon = 1e-9

// Min returns the minimum of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// FloorDiv returns floor(a/b) as an int, treating tiny float error as exact.
// b must be positive; a negative a yields 0.
func FloorDiv(a, b float64) int {
	if a <= 0 {
		return 0
	}
	return int(math.Floor(a/b + floorEpsilon))
}

// SortedKeys returns the keys of a string-keyed map in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
