package proxyfs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brgl/gpiod-sysfs-proxy/pkg/gpiodomain"
	"github.com/brgl/gpiod-sysfs-proxy/pkg/vfsnode"
)

func parseDirection(payload string) (gpiodomain.Direction, error) {
	switch payload {
	case string(gpiodomain.DirectionIn):
		return gpiodomain.DirectionIn, nil
	case string(gpiodomain.DirectionOut):
		return gpiodomain.DirectionOut, nil
	default:
		return "", fmt.Errorf("proxyfs: invalid direction %q", payload)
	}
}

func parseEdge(payload string) (gpiodomain.Edge, error) {
	switch payload {
	case string(gpiodomain.EdgeNone), string(gpiodomain.EdgeRising),
		string(gpiodomain.EdgeFalling), string(gpiodomain.EdgeBoth):
		return gpiodomain.Edge(payload), nil
	default:
		return "", fmt.Errorf("proxyfs: invalid edge %q", payload)
	}
}

func parseActiveLow(payload string) (bool, error) {
	switch payload {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("proxyfs: invalid active_low %q", payload)
	}
}

// parseLineNumber accepts only a base-10, non-negative integer: export
// and unexport reject anything else with EINVAL rather than attempting
// a lenient parse.
func parseLineNumber(payload string) (int, error) {
	if payload == "" {
		return 0, fmt.Errorf("proxyfs: empty line number")
	}
	for _, r := range payload {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("proxyfs: invalid line number %q", payload)
		}
	}
	n, err := strconv.Atoi(payload)
	if err != nil {
		return 0, fmt.Errorf("proxyfs: invalid line number %q", payload)
	}
	return n, nil
}

// chipForNumber finds the chip whose [Base, Base+NumLines) interval
// contains the global line number n. Callers must hold p.mu.
func (p *Proxy) chipForNumber(n int) *gpiodomain.Chip {
	for _, c := range p.chips {
		if c.Contains(n) {
			return c
		}
	}
	return nil
}

// handleExport implements a write to the top-level "export" control
// file: it resolves the global line number to its owning chip,
// requests the line, and inserts a /gpio<N>/ directory.
func (p *Proxy) handleExport(payload string) error {
	n, err := parseLineNumber(strings.TrimSpace(payload))
	if err != nil {
		return vfsnode.ErrInvalidArgument
	}

	p.mu.Lock()
	if p.chips == nil {
		p.mu.Unlock()
		return vfsnode.ErrInvalidArgument
	}
	chip := p.chipForNumber(n)
	if chip == nil {
		p.mu.Unlock()
		return vfsnode.ErrInvalidArgument
	}
	if _, exported := p.exported[n]; exported {
		p.mu.Unlock()
		return vfsnode.ErrInvalidArgument
	}
	p.mu.Unlock()

	line, err := chip.ExportLine(n - chip.Base)
	if err != nil {
		return vfsnode.ErrInvalidArgument
	}

	value := vfsnode.NewValueAttr(p.currentConn(),
		func() string { return renderValue(line) },
		func(payload string) error { return parseValueWrite(line, payload) },
	)

	p.mu.Lock()
	if p.chips == nil {
		p.mu.Unlock()
		line.Release()
		return vfsnode.ErrInvalidArgument
	}
	p.exported[n] = &exportedLine{chipName: chip.Name, line: line, value: value}
	p.mu.Unlock()

	p.watcher.Watch(line, value)
	p.root.Set(gpioDirName(n), p.newGpioDir(chip, line, value))
	return nil
}

// handleUnexport implements a write to the top-level "unexport"
// control file: the reverse of handleExport.
func (p *Proxy) handleUnexport(payload string) error {
	n, err := parseLineNumber(strings.TrimSpace(payload))
	if err != nil {
		return vfsnode.ErrInvalidArgument
	}

	p.mu.Lock()
	if p.chips == nil {
		p.mu.Unlock()
		return vfsnode.ErrInvalidArgument
	}
	entry, ok := p.exported[n]
	if !ok {
		p.mu.Unlock()
		return vfsnode.ErrInvalidArgument
	}
	delete(p.exported, n)
	chip := p.chips[entry.chipName]
	p.mu.Unlock()

	p.root.Delete(gpioDirName(n))
	p.watcher.Unwatch(entry.line)
	entry.value.ClearPending()
	if chip != nil {
		chip.UnexportLine(entry.line.Offset())
	} else {
		entry.line.Release()
	}
	return nil
}

// renderValue reads the line's current value, rendering an error as
// "0" since ValueAttr has no way to surface a read failure through
// Render's string-only signature; the line's liveness is instead
// reflected by its presence in the tree.
func renderValue(line *gpiodomain.Line) string {
	v, err := line.Value()
	if err != nil {
		return "0"
	}
	return strconv.Itoa(v)
}

// parseValueWrite rejects writes to input lines: writing value on an
// input line fails with EPERM.
func parseValueWrite(line *gpiodomain.Line, payload string) error {
	if line.Direction() != gpiodomain.DirectionOut {
		return vfsnode.ErrPermissionDenied
	}
	switch payload {
	case "0":
		return line.SetValue(0)
	case "1":
		return line.SetValue(1)
	default:
		return vfsnode.ErrInvalidArgument
	}
}
