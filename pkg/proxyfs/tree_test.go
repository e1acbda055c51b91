package proxyfs

import (
	"testing"

	"github.com/brgl/gpiod-sysfs-proxy/pkg/gpiodomain"
	"github.com/brgl/gpiod-sysfs-proxy/pkg/vfsnode"
)

func TestDirNameFormatting(t *testing.T) {
	if got := gpiochipDirName(512); got != "gpiochip512" {
		t.Errorf("gpiochipDirName(512) = %q, want gpiochip512", got)
	}
	if got := gpioDirName(517); got != "gpio517" {
		t.Errorf("gpioDirName(517) = %q, want gpio517", got)
	}
}

func TestNewGpiochipDirChildren(t *testing.T) {
	chip := &gpiodomain.Chip{
		Name:      "gpiochip0",
		Label:     "test-chip",
		NumLines:  8,
		Base:      512,
		SysfsPath: "/sys/bus/gpio/devices/gpiochip0",
	}
	d := newGpiochipDir(chip)

	want := map[string]bool{
		"base": true, "label": true, "ngpio": true,
		"uevent": true, "device": true, "power": true, "subsystem": true,
	}
	names := d.Names()
	if len(names) != len(want) {
		t.Fatalf("newGpiochipDir children = %v, want keys of %v", names, want)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected child %q", n)
		}
	}

	if _, ok := d.Get("device").(*vfsnode.Symlink); !ok {
		t.Error("device should be a symlink")
	}
	if _, ok := d.Get("base").(*vfsnode.RegularAttr); !ok {
		t.Error("base should be a RegularAttr")
	}
}

func TestNewGpioDirChildren(t *testing.T) {
	p := &Proxy{}
	chip := &gpiodomain.Chip{Name: "gpiochip0", Base: 512, NumLines: 8}
	line := &gpiodomain.Line{Number: 517}
	value := vfsnode.NewValueAttr(nil, func() string { return "0" }, func(string) error { return nil })

	d := p.newGpioDir(chip, line, value)

	want := map[string]bool{
		"direction": true, "edge": true, "active_low": true, "value": true,
		"device": true, "power": true, "subsystem": true, "uevent": true,
	}
	names := d.Names()
	if len(names) != len(want) {
		t.Fatalf("newGpioDir children = %v, want keys of %v", names, want)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected child %q", n)
		}
	}

	if got := d.Get("value"); got != value {
		t.Error("value child should be the exact ValueAttr instance passed in")
	}
}
