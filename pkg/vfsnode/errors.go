package vfsnode

import (
	"syscall"

	"bazil.org/fuse"
)

// fuse.Errno is itself a syscall.Errno in the modern bazil.org/fuse
// API, so these are interchangeable with plain fuse.ENOENT etc.; named
// here so callers across packages spell out intent ("invalid
// argument", not "EINVAL").
const (
	ErrInvalidArgument  = fuse.Errno(syscall.EINVAL)
	ErrPermissionDenied = fuse.Errno(syscall.EPERM)
	ErrAccessDenied     = fuse.Errno(syscall.EACCES)
	ErrNoSuchEntry      = fuse.Errno(syscall.ENOENT)
	ErrNotADirectory    = fuse.Errno(syscall.ENOTDIR)
)
