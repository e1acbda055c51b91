// Package gpiodomain models GPIO chips and exported lines on top of
// the Linux GPIO character-device uAPI, wrapping
// github.com/warthog618/go-gpiocdev so the rest of the proxy never
// touches uAPI ioctls directly.
package gpiodomain

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// Chip models one GPIO controller: its device name, label, line
// count, allocated base and the underlying character-device handle.
type Chip struct {
	Name      string // e.g. "gpiochip0"
	Label     string
	NumLines  int
	Base      int
	SysfsPath string // original sysfs path of the kernel device

	mu     sync.Mutex
	handle *gpiocdev.Chip
	lines  map[int]*Line // offset -> exported line
}

// Open opens the chip character device at path (e.g.
// "/dev/gpiochip0") and reads its label/line count, without
// requesting any lines yet.
func Open(path string) (*Chip, error) {
	c, err := gpiocdev.NewChip(path)
	if err != nil {
		return nil, err
	}
	return &Chip{
		Name:     chipNameFromPath(path),
		Label:    c.Label,
		NumLines: c.Lines(),
		handle:   c,
		lines:    make(map[int]*Line),
	}, nil
}

// Enumerate lists the device-node paths of every GPIO chip currently
// present, for the hotplug integrator's startup snapshot of chips that
// were already bound before the proxy started.
func Enumerate() []string {
	names := gpiocdev.Chips()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = "/dev/" + name
	}
	return paths
}

func chipNameFromPath(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// Close releases the chip handle and every line still exported on it.
// Callers must have already removed the chip's tree entries; Close
// only tears down the domain-level handles.
func (c *Chip) Close() error {
	c.mu.Lock()
	lines := make([]*Line, 0, len(c.lines))
	for _, l := range c.lines {
		lines = append(lines, l)
	}
	c.lines = nil
	c.mu.Unlock()

	for _, l := range lines {
		l.Release()
	}
	return c.handle.Close()
}

// Contains reports whether global line number n falls within this
// chip's [Base, Base+NumLines) interval.
func (c *Chip) Contains(n int) bool {
	return n >= c.Base && n < c.Base+c.NumLines
}

// ExportLine requests offset (global number Base+offset) with the
// "sysfs" consumer label and default (as-is) direction, registers it
// under the chip, and returns the new Line. It fails if the offset is
// already exported.
func (c *Chip) ExportLine(offset int) (*Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.lines[offset]; exists {
		return nil, fmt.Errorf("gpiodomain: offset %d already exported", offset)
	}

	l := &Line{
		chip:      c,
		offset:    offset,
		Number:    c.Base + offset,
		direction: DirectionIn,
		edge:      EdgeNone,
	}
	req, err := c.handle.RequestLine(offset,
		gpiocdev.AsIs,
		gpiocdev.WithConsumer("sysfs"),
		gpiocdev.WithEventHandler(l.handleKernelEvent),
	)
	if err != nil {
		return nil, err
	}
	l.request = req
	c.lines[offset] = l
	return l, nil
}

// UnexportLine releases and forgets the line at offset.
func (c *Chip) UnexportLine(offset int) {
	c.mu.Lock()
	l := c.lines[offset]
	delete(c.lines, offset)
	c.mu.Unlock()
	if l != nil {
		l.Release()
	}
}

// Lines returns the currently exported lines, for cascade removal
// during chip unbind.
func (c *Chip) Lines() []*Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, l)
	}
	return out
}
