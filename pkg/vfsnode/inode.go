package vfsnode

import "sync/atomic"

var inodeCounter uint64

// NextInode returns a process-unique inode number for a newly created
// node. The tree has no on-disk identity to derive inodes from, so a
// monotonic counter stands in, same role a content hash plays in a
// content-addressed tree.
func NextInode() uint64 {
	return atomic.AddUint64(&inodeCounter, 1)
}
