package vfsnode

import (
	"context"
	"testing"

	"bazil.org/fuse"
)

func TestDirReadDirAllOrder(t *testing.T) {
	d := NewDir(0755)
	d.Set("export", NewWriteOnly(0200, nil))
	d.Set("unexport", NewWriteOnly(0200, nil))
	d.Set("gpiochip512", NewDir(0755))

	ents, err := d.ReadDirAll(context.Background())
	if err != nil {
		t.Fatalf("ReadDirAll: %v", err)
	}
	want := []string{".", "..", "export", "unexport", "gpiochip512"}
	if len(ents) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(ents), len(want), ents)
	}
	for i, name := range want {
		if ents[i].Name != name {
			t.Errorf("entry %d = %q, want %q", i, ents[i].Name, name)
		}
	}
}

func TestDirLookupMissing(t *testing.T) {
	d := NewDir(0755)
	if _, err := d.Lookup(context.Background(), "nope"); err != fuse.ENOENT {
		t.Errorf("Lookup(missing) = %v, want ENOENT", err)
	}
}

func TestDirMutationHelpers(t *testing.T) {
	d := NewDir(0755)
	child := NewDir(0755)
	d.Set("gpio520", child)
	if got := d.Get("gpio520"); got != child {
		t.Errorf("Get after Set mismatch")
	}
	if !d.Delete("gpio520") {
		t.Error("Delete returned false for present child")
	}
	if d.Delete("gpio520") {
		t.Error("Delete returned true for absent child")
	}
}

func TestConstReadOnlyRendersNewline(t *testing.T) {
	a := NewConstReadOnly("32")
	resp := &fuse.ReadResponse{}
	if err := a.Read(context.Background(), &fuse.ReadRequest{Size: 4096}, resp); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(resp.Data) != "32\n" {
		t.Errorf("Read = %q, want %q", resp.Data, "32\n")
	}
}

func TestConstReadOnlyRejectsWrite(t *testing.T) {
	a := NewConstReadOnly("32")
	err := a.Write(context.Background(), &fuse.WriteRequest{Data: []byte("33")}, &fuse.WriteResponse{})
	if err != ErrPermissionDenied {
		t.Errorf("Write = %v, want ErrPermissionDenied", err)
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	value := "in"
	a := NewReadWrite(
		func() string { return value },
		func(payload string) error {
			if payload != "in" && payload != "out" {
				return errInvalidUevent
			}
			value = payload
			return nil
		},
	)
	resp := &fuse.WriteResponse{}
	if err := a.Write(context.Background(), &fuse.WriteRequest{Data: []byte("out\n")}, resp); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if value != "out" {
		t.Errorf("value = %q, want %q", value, "out")
	}

	readResp := &fuse.ReadResponse{}
	if err := a.Read(context.Background(), &fuse.ReadRequest{Size: 4096}, readResp); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(readResp.Data) != "out\n" {
		t.Errorf("Read = %q, want %q", readResp.Data, "out\n")
	}
}

func TestReadWriteInvalidLeavesStateUnchanged(t *testing.T) {
	value := "in"
	a := NewReadWrite(
		func() string { return value },
		func(payload string) error {
			if payload != "in" && payload != "out" {
				return errInvalidUevent
			}
			value = payload
			return nil
		},
	)
	err := a.Write(context.Background(), &fuse.WriteRequest{Data: []byte("sideways")}, &fuse.WriteResponse{})
	if err != ErrInvalidArgument {
		t.Errorf("Write(invalid) = %v, want ErrInvalidArgument", err)
	}
	if value != "in" {
		t.Errorf("value changed to %q despite invalid write", value)
	}
}

func TestUeventAttrValidation(t *testing.T) {
	a := NewUeventAttr()
	good := "add 12345678-1234-1234-1234-123456789abc KEY=VAL"
	if err := a.Write(context.Background(), &fuse.WriteRequest{Data: []byte(good)}, &fuse.WriteResponse{}); err != nil {
		t.Errorf("Write(valid uevent) = %v, want nil", err)
	}
	if err := a.Write(context.Background(), &fuse.WriteRequest{Data: []byte("junk")}, &fuse.WriteResponse{}); err != ErrInvalidArgument {
		t.Errorf("Write(junk) = %v, want ErrInvalidArgument", err)
	}
}

func TestSymlinkReadlink(t *testing.T) {
	s := NewSymlink("../gpiochip512")
	target, err := s.Readlink(context.Background(), &fuse.ReadlinkRequest{})
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if target != "../gpiochip512" {
		t.Errorf("Readlink = %q, want %q", target, "../gpiochip512")
	}
}

func TestRegularAttrReadlinkDenied(t *testing.T) {
	a := NewConstReadOnly("x")
	if _, err := a.Readlink(context.Background(), &fuse.ReadlinkRequest{}); err != ErrPermissionDenied {
		t.Errorf("Readlink on non-symlink = %v, want ErrPermissionDenied", err)
	}
}

func TestValueAttrPollDeliversOnceThenRearms(t *testing.T) {
	v := NewValueAttr(nil, func() string { return "0" }, func(string) error { return nil })

	resp := &fuse.PollResponse{}
	if err := v.Poll(context.Background(), &fuse.PollRequest{}, resp); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if resp.REvents&fuse.PollPri != 0 {
		t.Errorf("initial Poll reported PollPri before any event")
	}

	v.NotifyPending()

	resp2 := &fuse.PollResponse{}
	if err := v.Poll(context.Background(), &fuse.PollRequest{}, resp2); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if resp2.REvents&fuse.PollPri == 0 {
		t.Errorf("Poll after NotifyPending did not report PollPri")
	}

	resp3 := &fuse.PollResponse{}
	if err := v.Poll(context.Background(), &fuse.PollRequest{}, resp3); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if resp3.REvents&fuse.PollPri != 0 {
		t.Errorf("Poll after consuming the event still reported PollPri")
	}
}
