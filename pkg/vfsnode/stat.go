// Package vfsnode implements the in-memory virtual filesystem tree
// the proxy presents over FUSE: directories, attribute files and
// symlinks, each carrying their own stat metadata and dispatching
// path-addressed operations to themselves.
//
// Shared behavior (stat storage, chmod/chown) lives in the Stat type,
// composed into each node variant, rather than through inheritance.
package vfsnode

import (
	"context"
	"os"
	"sync"
	"time"

	"bazil.org/fuse"
)

// Stat holds the POSIX metadata every node variant carries. It is
// embedded, not inherited, per the tagged-variant design: each node
// variant composes a Stat and supplies its own Attr/read/write logic.
type Stat struct {
	mu   sync.Mutex
	mode os.FileMode
	size uint64
	uid  uint32
	gid  uint32
	ino  uint64

	atime, ctime, mtime time.Time
}

// NewStat returns a Stat initialized with the given mode and inode
// number, owned by the current process, with all times set to now.
func NewStat(mode os.FileMode, ino uint64) Stat {
	now := time.Now()
	return Stat{
		mode:  mode,
		uid:   uint32(os.Getuid()),
		gid:   uint32(os.Getgid()),
		ino:   ino,
		atime: now,
		ctime: now,
		mtime: now,
	}
}

func (s *Stat) attr(a *fuse.Attr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Inode = s.ino
	a.Mode = s.mode
	a.Size = s.size
	a.Uid = s.uid
	a.Gid = s.gid
	a.Atime = s.atime
	a.Ctime = s.ctime
	a.Mtime = s.mtime
	a.Nlink = 1
	if s.mode.IsDir() {
		a.Nlink = 2
	}
}

// chmod applies the mode-bit part of Setattr. Mode changes
// always succeed; the proxy has no ACL model beyond the bits
// themselves.
func (s *Stat) chmod(mode os.FileMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Preserve the file-type bits (dir, symlink, ...); only permission
	// bits are caller-settable.
	s.mode = (s.mode &^ os.ModePerm) | (mode & os.ModePerm)
	s.ctime = time.Now()
}

func (s *Stat) chown(uid, gid uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uid = uid
	s.gid = gid
	s.ctime = time.Now()
}

func (s *Stat) setSize(size uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = size
	s.mtime = time.Now()
}

// Setattr applies the subset of a SetattrRequest the proxy honors
// (mode, uid/gid); every node variant gets this for free by embedding
// Stat and forwarding to it.
func (s *Stat) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	if req.Valid&fuse.SetattrMode != 0 {
		s.chmod(req.Mode)
	}
	if req.Valid&(fuse.SetattrUid|fuse.SetattrGid) != 0 {
		s.chown(req.Uid, req.Gid)
	}
	s.attr(&resp.Attr)
	return nil
}
