package proxyfs

import (
	"fmt"
	"strconv"

	"github.com/brgl/gpiod-sysfs-proxy/pkg/gpiodomain"
	"github.com/brgl/gpiod-sysfs-proxy/pkg/vfsnode"
)

func gpiochipDirName(base int) string {
	return fmt.Sprintf("gpiochip%d", base)
}

func gpioDirName(n int) string {
	return fmt.Sprintf("gpio%d", n)
}

// newGpiochipDir builds a /gpiochip<base>/ directory for chip.
func newGpiochipDir(chip *gpiodomain.Chip) *vfsnode.Dir {
	d := vfsnode.NewDir(0755)
	d.Set("base", vfsnode.NewConstReadOnly(strconv.Itoa(chip.Base)))
	d.Set("label", vfsnode.NewConstReadOnly(chip.Label))
	d.Set("ngpio", vfsnode.NewConstReadOnly(strconv.Itoa(chip.NumLines)))
	d.Set("uevent", vfsnode.NewUeventAttr())
	d.Set("device", vfsnode.NewSymlink(chip.SysfsPath))
	d.Set("power", vfsnode.NewSymlink(chip.SysfsPath+"/power"))
	d.Set("subsystem", vfsnode.NewSymlink(".."))
	return d
}

// newGpioDir builds a /gpio<N>/ directory for an exported line.
func (p *Proxy) newGpioDir(chip *gpiodomain.Chip, line *gpiodomain.Line, value *vfsnode.ValueAttr) *vfsnode.Dir {
	d := vfsnode.NewDir(0755)

	d.Set("direction", vfsnode.NewReadWrite(
		func() string { return string(line.Direction()) },
		func(payload string) error {
			dir, err := parseDirection(payload)
			if err != nil {
				return err
			}
			return line.Reconfigure(dir, line.EdgeSetting(), line.ActiveLow())
		},
	))

	d.Set("edge", vfsnode.NewReadWrite(
		func() string { return string(line.EdgeSetting()) },
		func(payload string) error {
			edge, err := parseEdge(payload)
			if err != nil {
				return err
			}
			return line.Reconfigure(line.Direction(), edge, line.ActiveLow())
		},
	))

	d.Set("active_low", vfsnode.NewReadWrite(
		func() string {
			if line.ActiveLow() {
				return "1"
			}
			return "0"
		},
		func(payload string) error {
			activeLow, err := parseActiveLow(payload)
			if err != nil {
				return err
			}
			return line.Reconfigure(line.Direction(), line.EdgeSetting(), activeLow)
		},
	))

	d.Set("value", value)

	chipDir := gpiochipDirName(chip.Base)
	d.Set("device", vfsnode.NewSymlink(chipDir))
	d.Set("power", vfsnode.NewSymlink(chipDir+"/power"))
	d.Set("subsystem", vfsnode.NewSymlink(".."))
	d.Set("uevent", vfsnode.NewUeventAttr())

	return d
}
