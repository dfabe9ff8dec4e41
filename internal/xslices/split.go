// Package xslices holds slice helpers shared by the converter workers.
package xslices

import (
	"iter"
	"math"
)

// Split yields at most n consecutive parts of s of nearly equal length.
// The last part takes the remainder. Parts share the backing array of s
// but have their capacity clipped. Split panics if n is less than 1.
func Split[Slice ~[]E, E any](s Slice, n int) iter.Seq[Slice] {
	if n < 1 {
		panic("cannot be less than 1")
	}

	return func(yield func(Slice) bool) {
		k := max(1, int(math.Round(float64(len(s))/float64(n))))

		for i := range n {
			start := min(i*k, len(s))
			end := min((i+1)*k, len(s))

			if i == n-1 {
				end = len(s)
			}

			if start >= end {
				return
			}

			if !yield(s[start:end:end]) {
				return
			}
		}
	}
}
