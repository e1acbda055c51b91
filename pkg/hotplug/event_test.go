package hotplug

import "testing"

func rawUevent(header string, kv ...string) []byte {
	parts := []string{header}
	parts = append(parts, kv...)
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "\x00"
		}
		s += p
	}
	return []byte(s)
}

func TestParseUeventAdd(t *testing.T) {
	buf := rawUevent(
		"add@/devices/platform/gpio-sim/gpiochip0",
		"ACTION=add",
		"SUBSYSTEM=gpio",
		"DEVNAME=gpiochip0",
		"SEQNUM=123",
	)
	ev := parseUevent(buf)
	if ev == nil {
		t.Fatal("parseUevent returned nil")
	}
	if ev.Action != "add" || ev.Subsystem != "gpio" || ev.DevName != "gpiochip0" {
		t.Errorf("got %+v", ev)
	}
}

func TestParseUeventMalformedHeader(t *testing.T) {
	if ev := parseUevent([]byte("not-a-valid-header")); ev != nil {
		t.Errorf("expected nil for malformed header, got %+v", ev)
	}
}

func TestDeviceNodePathPrefersDevName(t *testing.T) {
	ev := &Event{DevName: "gpiochip3", DevPath: "/devices/.../gpiochip9"}
	if got, want := deviceNodePath(ev), "/dev/gpiochip3"; got != want {
		t.Errorf("deviceNodePath = %q, want %q", got, want)
	}
}

func TestDeviceNodePathFallsBackToDevPath(t *testing.T) {
	ev := &Event{DevPath: "/devices/platform/gpio-sim/gpiochip1"}
	if got, want := deviceNodePath(ev), "/dev/gpiochip1"; got != want {
		t.Errorf("deviceNodePath = %q, want %q", got, want)
	}
}

func TestDeviceNodePathIgnoresNonChipDevices(t *testing.T) {
	ev := &Event{DevPath: "/devices/platform/some-other-device"}
	if got := deviceNodePath(ev); got != "" {
		t.Errorf("deviceNodePath = %q, want empty for non-chip device", got)
	}
}

func TestChipNameFromDevNode(t *testing.T) {
	if got, want := chipNameFromDevNode("/dev/gpiochip0"), "gpiochip0"; got != want {
		t.Errorf("chipNameFromDevNode = %q, want %q", got, want)
	}
}
