package baseaddr

import (
	"reflect"
	"testing"
)

func TestAllocateFirstIsMinBase(t *testing.T) {
	a := New()
	if got := a.Allocate(32); got != MinBase {
		t.Errorf("Allocate(32) = %d, want %d", got, MinBase)
	}
}

func TestAllocateSequential(t *testing.T) {
	a := New()
	b1 := a.Allocate(32)
	b2 := a.Allocate(16)
	if b1 != 512 || b2 != 544 {
		t.Fatalf("got bases %d, %d, want 512, 544", b1, b2)
	}
	if got, want := a.Bases(), []int{512, 544}; !reflect.DeepEqual(got, want) {
		t.Errorf("Bases() = %v, want %v", got, want)
	}
}

func TestFreeAndReuse(t *testing.T) {
	a := New()
	b1 := a.Allocate(32)
	a.Allocate(16)
	a.Free(b1)
	if got := a.Allocate(8); got != 512 {
		t.Errorf("Allocate(8) after Free = %d, want 512 (lowest fitting base)", got)
	}
}

func TestAllocateDisjoint(t *testing.T) {
	a := New()
	sizes := []int{32, 16, 8, 64, 4}
	var bases []int
	for _, s := range sizes {
		bases = append(bases, a.Allocate(s))
	}
	for _, b := range bases {
		if b < MinBase {
			t.Errorf("base %d < MinBase %d", b, MinBase)
		}
	}
	for i := range bases {
		for j := range bases {
			if i == j {
				continue
			}
			lo1, hi1 := bases[i], bases[i]+sizes[i]
			lo2, hi2 := bases[j], bases[j]+sizes[j]
			if lo1 < hi2 && lo2 < hi1 {
				t.Errorf("intervals [%d,%d) and [%d,%d) overlap", lo1, hi1, lo2, hi2)
			}
		}
	}
}

func TestFreeUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Free of unknown base did not panic")
		}
	}()
	New().Free(512)
}

func TestAllocateFillsGapBeforeAppending(t *testing.T) {
	a := New()
	b1 := a.Allocate(32) // 512..544
	b2 := a.Allocate(32) // 544..576
	a.Free(b1)
	// A size that exactly fills the freed gap: it must land there
	// rather than after b2.
	if got := a.Allocate(32); got != 512 {
		t.Errorf("Allocate(32) = %d, want 512 (reuse freed gap)", got)
	}
	_ = b2
}
