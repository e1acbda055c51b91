// Package hotplug consumes kernel GPIO add/remove uevents over
// NETLINK_KOBJECT_UEVENT, translates them into chip bind/unbind
// actions, and snapshots existing chips at startup.
package hotplug

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/brgl/gpiod-sysfs-proxy/pkg/gpiodomain"
)

// Integrator listens for GPIO subsystem uevents and invokes onBind /
// onUnbind for add / remove actions.
type Integrator struct {
	sock *ueventSocket

	onBind   func(devNode string)
	onUnbind func(chipName string)

	closeOnce sync.Once
	stopped   chan struct{}
}

// New opens the netlink uevent socket and returns an Integrator ready
// to Run. onBind is called with a chip's device-node path (e.g.
// "/dev/gpiochip0"); onUnbind is called with the chip's sysfs device
// name (e.g. "gpiochip0").
func New(onBind func(devNode string), onUnbind func(chipName string)) (*Integrator, error) {
	sock, err := newUeventSocket()
	if err != nil {
		return nil, err
	}
	return &Integrator{
		sock:     sock,
		onBind:   onBind,
		onUnbind: onUnbind,
		stopped:  make(chan struct{}),
	}, nil
}

// Snapshot synthesizes bind actions for every GPIO chip present right
// now, so chips that were already bound before the proxy started show
// up in the tree without waiting for a hotplug event.
func (in *Integrator) Snapshot() {
	for _, devNode := range gpiodomain.Enumerate() {
		in.onBind(devNode)
	}
}

// Run blocks consuming uevents until Stop is called, at which point
// it returns nil. Any other socket error is returned to the caller,
// which is expected to treat it as fatal and exit after logging.
func (in *Integrator) Run() error {
	buf := make([]byte, 8192)
	for {
		n, err := in.sock.recv(buf)
		if err != nil {
			select {
			case <-in.stopped:
				return nil
			default:
				return err
			}
		}

		ev := parseUevent(buf[:n])
		if ev == nil || ev.Subsystem != "gpio" {
			continue
		}
		devNode := deviceNodePath(ev)
		if devNode == "" {
			// Devices without a device-node are ignored.
			continue
		}
		switch ev.Action {
		case "add":
			in.onBind(devNode)
		case "remove":
			in.onUnbind(chipNameFromDevNode(devNode))
		}
	}
}

// Stop interrupts a blocked Run by closing the netlink socket.
func (in *Integrator) Stop() {
	in.closeOnce.Do(func() {
		close(in.stopped)
		in.sock.close()
	})
}

func deviceNodePath(ev *Event) string {
	if ev.DevName != "" {
		return "/dev/" + ev.DevName
	}
	name := filepath.Base(ev.DevPath)
	if name == "" || name == "." || name == "/" {
		return ""
	}
	if !strings.HasPrefix(name, "gpiochip") {
		return ""
	}
	return "/dev/" + name
}

func chipNameFromDevNode(devNode string) string {
	return filepath.Base(devNode)
}
