package gpiodomain

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// Direction and Edge are the textual vocabularies the sysfs
// direction/edge attributes render and parse.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

type Edge string

const (
	EdgeNone    Edge = "none"
	EdgeRising  Edge = "rising"
	EdgeFalling Edge = "falling"
	EdgeBoth    Edge = "both"
)

// EventFunc is invoked, off the gpiocdev event-handler goroutine,
// whenever the kernel reports an edge event on a line configured for
// edge detection. pkg/pollwatch supplies this to fan events from
// every exported line into a single channel, since gpiocdev.Line does
// not expose its underlying event fd for direct multiplexing.
type EventFunc func(*Line)

// Line models one exported gpio<N>.
type Line struct {
	chip    *Chip
	offset  int
	Number  int // chip.Base + offset
	request *gpiocdev.Line

	mu        sync.Mutex
	direction Direction
	edge      Edge
	activeLow bool
	onEvent   EventFunc
}

// ChipName returns the owning chip's device name, used by the
// hotplug cascade to match lines during a chip unbind.
func (l *Line) ChipName() string {
	return l.chip.Name
}

// SetEventFunc installs the callback the Event Watcher uses to learn
// about edge events on this line. It must be set before Reconfigure
// first enables edge detection.
func (l *Line) SetEventFunc(f EventFunc) {
	l.mu.Lock()
	l.onEvent = f
	l.mu.Unlock()
}

func (l *Line) handleKernelEvent(gpiocdev.LineEvent) {
	l.mu.Lock()
	f := l.onEvent
	l.mu.Unlock()
	if f != nil {
		f(l)
	}
}

// Direction, EdgeSetting and ActiveLow return the cached
// configuration without touching the kernel.
func (l *Line) Direction() Direction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *Line) EdgeSetting() Edge {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.edge
}

func (l *Line) ActiveLow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeLow
}

// Value reads the line's current logical level from the kernel.
func (l *Line) Value() (int, error) {
	return l.request.Value()
}

// SetValue drives the line to the given logical level. Only valid
// while Direction is "out"; the caller (pkg/proxyfs) is responsible
// for rejecting writes while the line is configured as input, per
// classical sysfs semantics.
func (l *Line) SetValue(v int) error {
	return l.request.SetValue(v)
}

// Reconfigure applies (direction, edge, activeLow) to the line handle
// as a unit: either all three take effect, or none do, and the cached
// fields are only updated once the kernel call succeeds.
func (l *Line) Reconfigure(direction Direction, edge Edge, activeLow bool) error {
	opts := []gpiocdev.LineConfigOption{}
	switch direction {
	case DirectionIn:
		opts = append(opts, gpiocdev.AsInput)
	case DirectionOut:
		opts = append(opts, gpiocdev.AsOutput(0))
	default:
		return fmt.Errorf("gpiodomain: unknown direction %q", direction)
	}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	} else {
		opts = append(opts, gpiocdev.AsActiveHigh)
	}
	switch edge {
	case EdgeNone:
		opts = append(opts, gpiocdev.WithoutEdges)
	case EdgeRising:
		opts = append(opts, gpiocdev.WithRisingEdge)
	case EdgeFalling:
		opts = append(opts, gpiocdev.WithFallingEdge)
	case EdgeBoth:
		opts = append(opts, gpiocdev.WithBothEdges)
	default:
		return fmt.Errorf("gpiodomain: unknown edge %q", edge)
	}

	if err := l.request.Reconfigure(opts...); err != nil {
		return err
	}

	l.mu.Lock()
	l.direction = direction
	l.edge = edge
	l.activeLow = activeLow
	l.mu.Unlock()
	return nil
}

// Release closes the underlying line request. The event watcher must
// have already been told to unwatch this line (pkg/proxyfs enforces
// the ordering) so it never touches a closed request.
func (l *Line) Release() error {
	return l.request.Close()
}
