package vfsnode

import (
	"context"
	"os"
	"strings"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// attrSize is the advisory stat size every RegularAttr reports,
// regardless of actual rendered content length, matching classical
// sysfs attribute files.
const attrSize = 4096

// Render produces the current textual content of an attribute. It is
// called fresh on every read, since the underlying chip/line state
// can change between reads (a hotplug reconfiguration, a concurrent
// write).
type Render func() string

// Parse validates and applies a write payload (already trimmed of
// surrounding whitespace). A non-nil error fails the write — a
// fuse.Errno is returned as is, any other error as invalid-argument —
// and leaves whatever backing state unchanged: the
// parser is responsible for only applying once validation succeeds, so
// a failed write never partially applies.
type Parse func(payload string) error

// RegularAttr is a generic attribute file: mode bits plus an optional
// Render/Parse pair. With only Render set it behaves as
// ConstReadOnly/ReadWrite's read side; with Parse unset, writes fail
// with permission-denied; with Render unset (export/unexport/uevent's
// write-only case), reads return empty.
type RegularAttr struct {
	Stat

	render Render
	parse  Parse
}

var (
	_ fs.Node         = (*RegularAttr)(nil)
	_ fs.NodeOpener   = (*RegularAttr)(nil)
	_ fs.HandleReader = (*RegularAttr)(nil)
	_ fs.HandleWriter = (*RegularAttr)(nil)
)

// NewConstReadOnly returns an attribute that always renders value+"\n"
// and rejects writes.
func NewConstReadOnly(value string) *RegularAttr {
	return &RegularAttr{
		Stat:   NewStat(0444, NextInode()),
		render: func() string { return value },
	}
}

// NewReadWrite returns an attribute backed by a render/parse pair.
func NewReadWrite(render Render, parse Parse) *RegularAttr {
	return &RegularAttr{
		Stat:   NewStat(0644, NextInode()),
		render: render,
		parse:  parse,
	}
}

// NewWriteOnly returns an attribute that reads as empty and only
// accepts writes via parse — the shape export/unexport and uevent
// attributes need.
func NewWriteOnly(mode os.FileMode, parse Parse) *RegularAttr {
	return &RegularAttr{
		Stat:  NewStat(mode, NextInode()),
		parse: parse,
	}
}

func (a *RegularAttr) Attr(ctx context.Context, attr *fuse.Attr) error {
	a.Stat.attr(attr)
	attr.Size = attrSize
	return nil
}

// Setattr overrides Stat.Setattr so a chmod/chown reply reports the
// same advisory 4096 size Attr does, rather than Stat's internal zero
// value for a RegularAttr that never calls setSize.
func (a *RegularAttr) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	if err := a.Stat.Setattr(ctx, req, resp); err != nil {
		return err
	}
	resp.Attr.Size = attrSize
	return nil
}

// Open returns the node itself as the handle: attributes are
// stateless, so there's nothing to allocate per-open.
func (a *RegularAttr) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fs.Handle, error) {
	resp.Flags |= fuse.OpenDirectIO
	return a, nil
}

func (a *RegularAttr) content() []byte {
	if a.render == nil {
		return nil
	}
	return []byte(a.render() + "\n")
}

func (a *RegularAttr) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	c := a.content()
	if req.Offset > int64(len(c)) {
		return nil
	}
	c = c[req.Offset:]
	size := req.Size
	if size > len(c) {
		size = len(c)
	}
	resp.Data = make([]byte, size)
	copy(resp.Data, c)
	return nil
}

func (a *RegularAttr) Write(ctx context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	if a.parse == nil {
		return ErrPermissionDenied
	}
	payload := strings.TrimSpace(string(req.Data))
	if err := a.parse(payload); err != nil {
		if errno, ok := err.(fuse.Errno); ok {
			return errno
		}
		return ErrInvalidArgument
	}
	resp.Size = len(req.Data)
	return nil
}

// Readlink reports permission-denied: RegularAttr is not a symlink.
// Poll is not implemented here; only ValueAttr supports poll.
func (a *RegularAttr) Readlink(ctx context.Context, req *fuse.ReadlinkRequest) (string, error) {
	return "", ErrPermissionDenied
}
