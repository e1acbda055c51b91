package proxyfs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/brgl/gpiod-sysfs-proxy/pkg/gpiodomain"
)

// isTransientDeviceGone classifies an open/read failure during
// hotplug handling as the device having vanished between notification
// and open — swallowed rather than treated as fatal, since any other
// error during hotplug handling is unrecoverable.
func isTransientDeviceGone(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ENODEV)
}

func (p *Proxy) fatalHotplug(err error) {
	log.Printf("proxyfs: fatal hotplug error: %v\n%s", err, debug.Stack())
	os.Exit(1)
}

// bindChip opens the chip at devNode, allocates it a base sized to
// its line count, and inserts a gpiochip<base> directory.
func (p *Proxy) bindChip(devNode string) {
	chip, err := gpiodomain.Open(devNode)
	if err != nil {
		if isTransientDeviceGone(err) {
			log.Printf("proxyfs: bind %s: device vanished: %v", devNode, err)
			return
		}
		p.fatalHotplug(fmt.Errorf("opening %s: %w", devNode, err))
		return
	}

	chip.SysfsPath = filepath.Join("/sys/bus/gpio/devices", chip.Name)

	p.mu.Lock()
	if p.chips == nil {
		// Close was called concurrently; drop the chip we just opened.
		p.mu.Unlock()
		chip.Close()
		return
	}
	base := p.alloc.Allocate(chip.NumLines)
	chip.Base = base
	p.chips[chip.Name] = chip
	p.mu.Unlock()

	p.root.Set(gpiochipDirName(base), newGpiochipDir(chip))
}

// unbindChip finds the chip by its sysfs device name, cascades
// removal of its exported lines, closes its handle, and frees its
// base range. The cascade must complete before the base is freed, or
// a racing bind could reuse the base while a stale gpio<N> entry
// still references the old chip.
func (p *Proxy) unbindChip(chipName string) {
	p.mu.Lock()
	if p.chips == nil {
		p.mu.Unlock()
		return
	}
	chip, ok := p.chips[chipName]
	if !ok {
		p.mu.Unlock()
		return
	}
	delete(p.chips, chipName)

	var numbers []int
	for n, entry := range p.exported {
		if entry.chipName == chipName {
			numbers = append(numbers, n)
		}
	}
	for _, n := range numbers {
		delete(p.exported, n)
	}
	p.mu.Unlock()

	for _, n := range numbers {
		p.root.Delete(gpioDirName(n))
	}
	for _, line := range chip.Lines() {
		p.watcher.Unwatch(line)
	}

	p.root.Delete(gpiochipDirName(chip.Base))

	if err := chip.Close(); err != nil {
		log.Printf("proxyfs: closing %s: %v", chipName, err)
	}

	p.mu.Lock()
	if p.alloc != nil {
		p.alloc.Free(chip.Base)
	}
	p.mu.Unlock()
}
