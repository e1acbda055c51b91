package hotplug

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ueventSocket is a thin wrapper around a NETLINK_KOBJECT_UEVENT
// socket, the multicast kernel uevent feed bind/unbind notifications
// arrive on.
type ueventSocket struct {
	fd int
}

func newUeventSocket() (*ueventSocket, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_DGRAM, unix.NETLINK_KOBJECT_UEVENT)
	if err != nil {
		return nil, fmt.Errorf("hotplug: open netlink socket: %w", err)
	}
	sa := &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: 1}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("hotplug: bind netlink socket: %w", err)
	}
	return &ueventSocket{fd: fd}, nil
}

func (s *ueventSocket) recv(buf []byte) (int, error) {
	n, _, err := unix.Recvfrom(s.fd, buf, 0)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *ueventSocket) close() error {
	fd := s.fd
	s.fd = -1
	if fd < 0 {
		return nil
	}
	return unix.Close(fd)
}
