// Package baseaddr assigns non-overlapping integer base ranges to GPIO
// chips so that exported line numbers (base+offset) are globally unique
// and stable for a chip's lifetime.
package baseaddr

import "sort"

// MinBase is the lowest base the allocator ever hands out. It leaves
// room below for any kernel-assigned sysfs numbers that could coexist
// (classical sysfs used low numbers for the kernel's own assignments).
const MinBase = 512

type interval struct {
	base, size int
}

func (iv interval) end() int { return iv.base + iv.size }

// Allocator hands out and reclaims disjoint [base, base+size) integer
// ranges, all bases >= MinBase.
type Allocator struct {
	intervals []interval // kept sorted by base
}

// New returns an empty allocator.
func New() *Allocator {
	return &Allocator{}
}

// Allocate reserves a range of the given size and returns its base.
// It scans the sorted list of existing intervals and returns the
// lowest base >= MinBase at which [base, base+size) does not overlap
// any existing interval.
func (a *Allocator) Allocate(size int) int {
	candidate := MinBase
	idx := 0
	for ; idx < len(a.intervals); idx++ {
		iv := a.intervals[idx]
		if candidate+size <= iv.base {
			break
		}
		candidate = iv.end()
	}
	a.intervals = append(a.intervals, interval{})
	copy(a.intervals[idx+1:], a.intervals[idx:])
	a.intervals[idx] = interval{base: candidate, size: size}
	return candidate
}

// Free releases the interval that starts at base. It panics if no
// such interval exists: freeing an unknown base is a programmer
// error, not a runtime condition callers should need to check for.
func (a *Allocator) Free(base int) {
	for i, iv := range a.intervals {
		if iv.base == base {
			a.intervals = append(a.intervals[:i], a.intervals[i+1:]...)
			return
		}
	}
	panic("baseaddr: Free of unknown base")
}

// Bases returns the currently allocated bases in ascending order,
// primarily for tests and diagnostics.
func (a *Allocator) Bases() []int {
	bases := make([]int, len(a.intervals))
	for i, iv := range a.intervals {
		bases[i] = iv.base
	}
	sort.Ints(bases)
	return bases
}
