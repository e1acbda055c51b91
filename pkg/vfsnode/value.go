package vfsnode

import (
	"context"
	"sync"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// ValueAttr is the "value" line attribute: an ordinary read/write
// RegularAttr that additionally supports poll. Classical sysfs GPIO
// never blocks on normal read/write of value; edge events surface
// out-of-band as POLLPRI, which is what Poll/NotifyPending implement
// here.
type ValueAttr struct {
	RegularAttr

	conn *fuse.Conn

	pollMu  sync.Mutex
	pending bool
	armed   bool
	wakeup  fuse.PollWakeup
}

var _ fs.HandlePoller = (*ValueAttr)(nil)

// NewValueAttr returns a value attribute bound to the FUSE connection
// that will carry its poll wakeups. conn may be nil in tests that
// don't exercise poll.
func NewValueAttr(conn *fuse.Conn, render Render, parse Parse) *ValueAttr {
	return &ValueAttr{
		RegularAttr: RegularAttr{
			Stat:   NewStat(0644, NextInode()),
			render: render,
			parse:  parse,
		},
		conn: conn,
	}
}

// Poll implements fs.HandlePoller: consume-and-clear the pending-event
// flag, record the current poll wakeup, and report readiness. A
// client must re-poll to rearm after a POLLPRI has been delivered.
func (v *ValueAttr) Poll(ctx context.Context, req *fuse.PollRequest, resp *fuse.PollResponse) error {
	v.pollMu.Lock()
	defer v.pollMu.Unlock()

	pending := v.pending
	v.pending = false

	if w, ok := req.Wakeup(); ok {
		v.wakeup = w
		v.armed = true
	}

	resp.REvents = fuse.PollIn | fuse.PollOut
	if pending {
		resp.REvents |= fuse.PollPri
	}
	return nil
}

// NotifyPending marks an edge event as pending and, if a poll wakeup
// is currently armed, wakes it and clears the stored wakeup so a
// client must re-poll to rearm it. Called by the event watcher, never
// by the filesystem dispatcher itself.
func (v *ValueAttr) NotifyPending() {
	v.pollMu.Lock()
	v.pending = true
	armed := v.armed
	w := v.wakeup
	v.armed = false
	v.pollMu.Unlock()

	if armed && v.conn != nil {
		v.conn.NotifyPollWakeup(w)
	}
}

// ClearPending resets the pending-event flag without touching the
// armed poll handle. Used when a line is unexported so a subsequent
// export of the same gpio number starts with no stale pending event.
func (v *ValueAttr) ClearPending() {
	v.pollMu.Lock()
	v.pending = false
	v.pollMu.Unlock()
}
