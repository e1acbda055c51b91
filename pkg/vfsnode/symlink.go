package vfsnode

import (
	"context"
	"os"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// Symlink is a by-value string target node: the tree holds the target
// as a plain string, not a pointer to another node, so there is no
// way for a symlink to participate in a cycle.
type Symlink struct {
	Stat
	target string
}

var (
	_ fs.Node           = (*Symlink)(nil)
	_ fs.NodeReadlinker = (*Symlink)(nil)
)

// NewSymlink returns a symlink node pointing at target.
func NewSymlink(target string) *Symlink {
	return &Symlink{
		Stat:   NewStat(os.ModeSymlink|0777, NextInode()),
		target: target,
	}
}

func (s *Symlink) Attr(ctx context.Context, a *fuse.Attr) error {
	s.Stat.attr(a)
	a.Size = 0
	return nil
}

func (s *Symlink) Readlink(ctx context.Context, req *fuse.ReadlinkRequest) (string, error) {
	return s.target, nil
}
