/*
gpiodsysfsproxy mounts a FUSE filesystem that re-creates the
legacy Linux GPIO sysfs ABI (/sys/class/gpio) on top of
the current GPIO character-device uAPI, for userspace tools that still
expect export/unexport/value/direction/edge files and never migrated
to gpiod.

# Mounting

	mkdir /tmp/gpio
	gpiodsysfsproxy /tmp/gpio
	echo 517 > /tmp/gpio/export
	cat /tmp/gpio/gpio517/direction
	echo out > /tmp/gpio/gpio517/direction
	echo 1 > /tmp/gpio/gpio517/value

# Tree Layout

At startup the proxy enumerates every present /dev/gpiochip* device
and populates one gpiochip<base>/ directory per chip, where base is
allocated per spec so that a chip's lines never collide with another
chip's global numbers. Writing a line's global number to export (or
unexport) adds (or removes) the corresponding gpio<N>/ directory,
exactly like the kernel's own sysfs interface did.

Chips that appear or disappear after mount (USB GPIO adapters, loaded
gpio-mockup modules, and the like) are picked up via netlink uevent
notifications; their exported lines are cascade-removed on unbind.

Full Command Line Usage

	gpiodsysfsproxy [opts] <mountpoint>
	-debug
	      print FUSE protocol debugging messages.
	-help
	      print usage
	-mount-options string
	      comma-separated FUSE mount options (allow_other, ro)
	-verbose
	      extra debug logging
	-version
	      show version
*/
package main
