// Package pollwatch implements the event watcher: a dedicated
// background worker that fans edge events in from every currently
// exported line and wakes the FUSE poll clients blocked on a line's
// "value" attribute.
//
// gpiocdev.Line does not expose its underlying event-request file
// descriptor, so rather than multiplexing raw fds with epoll directly,
// the watcher here multiplexes over Go channels: one fed by per-line
// gpiocdev.WithEventHandler callbacks, one fed by a self-pipe for the
// watched-set-mutation/shutdown wakeup path. The self-pipe is kept
// (rather than replaced outright by a plain Go channel) because it is
// the cleanest way to interrupt a goroutine blocked in select without
// data races on the channel set itself.
package pollwatch

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/brgl/gpiod-sysfs-proxy/pkg/gpiodomain"
	"github.com/brgl/gpiod-sysfs-proxy/pkg/vfsnode"
)

// multiplexTimeout bounds the watcher's wait between wakeups.
const multiplexTimeout = 60 * time.Second

// Watcher multiplexes edge events for every exported line and
// delivers notify_poll to the owning ValueAttr node.
type Watcher struct {
	mu      sync.Mutex
	watched map[int]*vfsnode.ValueAttr // line number -> value attribute

	events chan *gpiodomain.Line
	wake   chan struct{}
	stopCh chan struct{}

	pipeR, pipeW int

	stopOnce sync.Once
}

// New creates and starts an Event Watcher. Callers must call Stop to
// release the self-pipe and stop the background goroutines.
func New() (*Watcher, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}
	w := &Watcher{
		watched: make(map[int]*vfsnode.ValueAttr),
		events:  make(chan *gpiodomain.Line, 64),
		wake:    make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		pipeR:   fds[0],
		pipeW:   fds[1],
	}
	go w.pumpSelfPipe()
	go w.loop()
	return w, nil
}

// pumpSelfPipe blocks reading the self-pipe's read end and forwards a
// wakeup signal for every read that returns the bytes mutation or Stop
// calls wrote; wakeups that arrive while one is already queued are
// coalesced. It exits once the write end is closed by Stop.
func (w *Watcher) pumpSelfPipe() {
	buf := make([]byte, 1024)
	for {
		n, err := unix.Read(w.pipeR, buf)
		if err != nil || n == 0 {
			return
		}
		select {
		case w.wake <- struct{}{}:
		default:
		}
	}
}

func (w *Watcher) signal() {
	unix.Write(w.pipeW, []byte{0})
}

// Watch registers line's edge events to be delivered as a poll
// notification on value. It installs the per-line event callback and
// wakes the loop so the new registration is live before the next
// wait.
func (w *Watcher) Watch(line *gpiodomain.Line, value *vfsnode.ValueAttr) {
	w.mu.Lock()
	w.watched[line.Number] = value
	w.mu.Unlock()

	line.SetEventFunc(func(l *gpiodomain.Line) {
		select {
		case w.events <- l:
		default:
			// Events channel full: drop rather than block the
			// gpiocdev event-handler goroutine. A dropped edge
			// still leaves the line's pending flag clear, which
			// is conservative (a missed POLLPRI), not incorrect
			// (a phantom one).
		}
	})

	w.signal()
}

// Unwatch removes line from the watched set and clears its event
// callback. The watcher must not touch the line again once this
// returns, which the caller (pkg/proxyfs) relies on before releasing
// the line handle.
func (w *Watcher) Unwatch(line *gpiodomain.Line) {
	line.SetEventFunc(nil)
	w.mu.Lock()
	delete(w.watched, line.Number)
	w.mu.Unlock()
	w.signal()
}

// Stop signals the loop to exit, closes the self-pipe, and returns
// once the background goroutines have been asked to stop. It is safe
// to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.signal()
		unix.Close(w.pipeW)
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.stopCh:
			unix.Close(w.pipeR)
			return
		case <-w.wake:
			// Watched-set mutation or a stop request; stopCh is
			// checked again at the top of the loop.
		case l := <-w.events:
			w.mu.Lock()
			v := w.watched[l.Number]
			w.mu.Unlock()
			if v != nil {
				v.NotifyPending()
			}
		case <-time.After(multiplexTimeout):
			// Periodic wakeup; nothing to do.
		}
	}
}
