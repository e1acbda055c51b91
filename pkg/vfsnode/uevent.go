package vfsnode

import "regexp"

// ueventPattern matches "<cmd> <uuid>( KEY=VAL)*": cmd is one of the
// classical kobject actions, uuid is a canonical 8-4-4-4-12 hex UUID.
var ueventPattern = regexp.MustCompile(
	`^(add|remove|change|move|online|offline|bind|unbind)` +
		`\s+[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}` +
		`(\s+[^=\s]+=[^=\s]*)*$`,
)

// NewUeventAttr returns the write-only, pattern-validated uevent
// attribute every Gpiochip and Gpio directory carries. Reads yield
// empty; only a well-formed uevent payload is accepted on write.
func NewUeventAttr() *RegularAttr {
	return &RegularAttr{
		Stat: NewStat(0644, NextInode()),
		parse: func(payload string) error {
			if !ueventPattern.MatchString(payload) {
				return errInvalidUevent
			}
			return nil
		},
	}
}

type ueventError string

func (e ueventError) Error() string { return string(e) }

const errInvalidUevent = ueventError("uevent: payload does not match the expected cmd/uuid grammar")
