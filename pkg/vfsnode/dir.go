package vfsnode

import (
	"context"
	"os"
	"sync"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// Dir is a directory node: an ordered mapping from child name to
// child node. Root, Gpiochip and Gpio directories are all plain *Dir
// values, configured with different fixed children by pkg/proxyfs;
// the type itself carries no domain knowledge.
type Dir struct {
	Stat

	mu       sync.Mutex
	order    []string
	children map[string]fs.Node
}

var (
	_ fs.Node               = (*Dir)(nil)
	_ fs.HandleReadDirAller = (*Dir)(nil)
	_ fs.NodeStringLookuper = (*Dir)(nil)
	_ fs.NodeMkdirer        = (*Dir)(nil)
	_ fs.NodeCreater        = (*Dir)(nil)
	_ fs.NodeMknoder        = (*Dir)(nil)
	_ fs.NodeRemover        = (*Dir)(nil)
)

// NewDir returns an empty directory with the given permission bits
// (the ModeDir bit is added automatically).
func NewDir(perm os.FileMode) *Dir {
	return &Dir{
		Stat:     NewStat(os.ModeDir|perm, NextInode()),
		children: make(map[string]fs.Node),
	}
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	d.Stat.attr(a)
	return nil
}

// Set inserts or replaces a named child, appending it to the
// insertion-order list the first time it's seen. Root, Gpiochip and
// Gpio directories are inserted/removed this way by pkg/proxyfs in
// response to export/unexport and hotplug bind/unbind.
func (d *Dir) Set(name string, n fs.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.children[name]; !exists {
		d.order = append(d.order, name)
	}
	d.children[name] = n
}

// Delete removes a named child if present; it reports whether a child
// was actually removed. This is the internal tree-mutation primitive
// used by export/unexport and hotplug bind/unbind, distinct from the
// Remove method below that answers the filesystem's unlink/rmdir.
func (d *Dir) Delete(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.children[name]; !exists {
		return false
	}
	delete(d.children, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a named child, or nil if absent.
func (d *Dir) Get(name string) fs.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.children[name]
}

// Names returns the current children in insertion order.
func (d *Dir) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	d.mu.Lock()
	n, ok := d.children[name]
	d.mu.Unlock()
	if !ok {
		return nil, fuse.ENOENT
	}
	return n, nil
}

// ReadDirAll yields ".", ".." then each child in insertion order.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ents := make([]fuse.Dirent, 0, len(d.order)+2)
	ents = append(ents,
		fuse.Dirent{Name: ".", Type: fuse.DT_Dir},
		fuse.Dirent{Name: "..", Type: fuse.DT_Dir},
	)
	for _, name := range d.order {
		typ := fuse.DT_File
		switch d.children[name].(type) {
		case *Dir:
			typ = fuse.DT_Dir
		case *Symlink:
			typ = fuse.DT_Link
		}
		ents = append(ents, fuse.Dirent{Name: name, Type: typ})
	}
	return ents, nil
}

// Mkdir and Create on the filesystem surface are always
// permission-denied (Remove is described below): the tree's directory structure is driven
// entirely by export/unexport and hotplug, never by a filesystem
// client creating entries.
func (d *Dir) Mkdir(ctx context.Context, req *fuse.MkdirRequest) (fs.Node, error) {
	return nil, fuse.EPERM
}

func (d *Dir) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fs.Node, fs.Handle, error) {
	return nil, nil, fuse.EPERM
}

// Mknod always reports access-denied: device/fifo/socket node creation
// has no place in the sysfs tree and is distinguished from the
// permission-denied replies above by errno, matching the error-kind
// table's mknod -> EACCES mapping.
func (d *Dir) Mknod(ctx context.Context, req *fuse.MknodRequest) (fs.Node, error) {
	return nil, ErrAccessDenied
}

// Remove implements unlink/rmdir. rmdir on a directory child reports
// not-a-directory (sysfs directories aren't removable this way);
// unlink on a file child reports permission-denied.
func (d *Dir) Remove(ctx context.Context, req *fuse.RemoveRequest) error {
	d.mu.Lock()
	child, ok := d.children[req.Name]
	d.mu.Unlock()
	if !ok {
		return fuse.ENOENT
	}
	if req.Dir {
		if _, isDir := child.(*Dir); isDir {
			return ErrNotADirectory
		}
	}
	return fuse.EPERM
}
