// Package proxyfs is the glue layer: it builds the VFS node tree
// (pkg/vfsnode) over the Chip/Line domain (pkg/gpiodomain), wires the
// Base Allocator (pkg/baseaddr), the Event Watcher (pkg/pollwatch)
// and the Hotplug Integrator (pkg/hotplug) together, and implements
// bazil.org/fuse's fs.FS so the result can be served directly.
package proxyfs

import (
	"fmt"
	"log"
	"sync"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/brgl/gpiod-sysfs-proxy/pkg/baseaddr"
	"github.com/brgl/gpiod-sysfs-proxy/pkg/gpiodomain"
	"github.com/brgl/gpiod-sysfs-proxy/pkg/hotplug"
	"github.com/brgl/gpiod-sysfs-proxy/pkg/pollwatch"
	"github.com/brgl/gpiod-sysfs-proxy/pkg/vfsnode"
)

// Proxy is the top-level bazil.org/fuse filesystem: a single struct
// implementing fs.FS that holds the mutexes and caches the GPIO sysfs
// tree needs.
type Proxy struct {
	root  *vfsnode.Dir
	alloc *baseaddr.Allocator

	watcher    *pollwatch.Watcher
	integrator *hotplug.Integrator

	connMu sync.Mutex
	conn   *fuse.Conn

	mu       sync.Mutex // guards chips and exported
	chips    map[string]*gpiodomain.Chip // chip name -> chip
	exported map[int]*exportedLine       // global line number -> exported state
}

type exportedLine struct {
	chipName string
	line     *gpiodomain.Line
	value    *vfsnode.ValueAttr
}

var _ fs.FS = (*Proxy)(nil)

// New constructs a Proxy with an empty tree save for the always-present
// export/unexport control files.
func New() (*Proxy, error) {
	watcher, err := pollwatch.New()
	if err != nil {
		return nil, fmt.Errorf("proxyfs: start event watcher: %w", err)
	}

	p := &Proxy{
		root:     vfsnode.NewDir(0755),
		alloc:    baseaddr.New(),
		watcher:  watcher,
		chips:    make(map[string]*gpiodomain.Chip),
		exported: make(map[int]*exportedLine),
	}

	p.root.Set("export", vfsnode.NewWriteOnly(0200, p.handleExport))
	p.root.Set("unexport", vfsnode.NewWriteOnly(0200, p.handleUnexport))

	integrator, err := hotplug.New(p.bindChip, p.unbindChip)
	if err != nil {
		watcher.Stop()
		return nil, fmt.Errorf("proxyfs: start hotplug integrator: %w", err)
	}
	p.integrator = integrator

	return p, nil
}

// Root implements fs.FS.
func (p *Proxy) Root() (fs.Node, error) {
	return p.root, nil
}

// SetConn records the live FUSE connection so ValueAttr nodes created
// after this call can wake armed polls via conn.NotifyPollWakeup. Call this
// once, right after fuse.Mount, before Serve.
func (p *Proxy) SetConn(conn *fuse.Conn) {
	p.connMu.Lock()
	p.conn = conn
	p.connMu.Unlock()
}

func (p *Proxy) currentConn() *fuse.Conn {
	p.connMu.Lock()
	defer p.connMu.Unlock()
	return p.conn
}

// Start snapshots currently present chips and begins consuming
// hotplug uevents in the background. Fatal hotplug errors (anything
// other than a device that vanished) are logged with a stack and
// terminate the process.
func (p *Proxy) Start() {
	p.integrator.Snapshot()
	go func() {
		if err := p.integrator.Run(); err != nil {
			p.fatalHotplug(err)
		}
	}()
}

// Close tears down the watcher and hotplug observer and releases
// every remaining line/chip handle.
func (p *Proxy) Close() {
	p.integrator.Stop()
	p.watcher.Stop()

	p.mu.Lock()
	chips := make([]*gpiodomain.Chip, 0, len(p.chips))
	for _, c := range p.chips {
		chips = append(chips, c)
	}
	p.chips = nil
	p.exported = nil
	p.mu.Unlock()

	for _, c := range chips {
		if err := c.Close(); err != nil {
			log.Printf("proxyfs: closing %s: %v", c.Name, err)
		}
	}
}
