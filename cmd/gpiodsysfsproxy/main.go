//go:build linux
// +build linux

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/brgl/gpiod-sysfs-proxy/pkg/buildinfo"
	"github.com/brgl/gpiod-sysfs-proxy/pkg/cmdmain"
	"github.com/brgl/gpiod-sysfs-proxy/pkg/proxyfs"
)

var (
	debug        = flag.Bool("debug", false, "print FUSE protocol debugging messages.")
	mountOptions = flag.String("mount-options", "", "comma-separated FUSE mount options (allow_other, ro)")
)

// parseMountOptions translates a comma-separated option list into
// bazil.org/fuse mount options, the same "allow_other"/"ro" vocabulary
// most FUSE mount helpers accept. Unknown tokens are rejected rather
// than silently ignored.
func parseMountOptions(csv string) ([]fuse.MountOption, error) {
	var opts []fuse.MountOption
	if csv == "" {
		return opts, nil
	}
	for _, tok := range strings.Split(csv, ",") {
		switch tok {
		case "allow_other":
			opts = append(opts, fuse.AllowOther())
		case "ro":
			opts = append(opts, fuse.ReadOnly())
		default:
			return nil, fmt.Errorf("unknown mount option %q", tok)
		}
	}
	return opts, nil
}

func usage() {
	fmt.Fprint(os.Stderr, "usage: gpiodsysfsproxy [opts] <mountpoint>\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func init() {
	log.SetOutput(cmdmain.Stderr)
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *cmdmain.FlagVersion {
		fmt.Fprintf(cmdmain.Stderr, "%s version: %s\n", os.Args[0], buildinfo.Summary())
		return
	}
	if *cmdmain.FlagHelp || flag.NArg() != 1 {
		usage()
	}
	mountPoint := flag.Arg(0)

	if *debug {
		fuse.Debug = func(msg interface{}) { log.Print(msg) }
	}

	extraOpts, err := parseMountOptions(*mountOptions)
	if err != nil {
		log.Fatalf("gpiodsysfsproxy: %v", err)
	}

	px, err := proxyfs.New()
	if err != nil {
		log.Fatalf("gpiodsysfsproxy: %v", err)
	}

	opts := append([]fuse.MountOption{
		fuse.FSName("gpiodsysfsproxy"),
		fuse.Subtype("gpiodsysfsproxy"),
		fuse.VolumeName(filepath.Base(mountPoint)),
	}, extraOpts...)
	cmdmain.Logf("gpiodsysfsproxy: mounting %s with options %v\n", mountPoint, extraOpts)
	conn, err := fuse.Mount(mountPoint, opts...)
	if err != nil {
		log.Fatalf("Mount: %v", err)
	}
	px.SetConn(conn)
	px.Start()
	cmdmain.Logf("gpiodsysfsproxy: mounted, watching for GPIO chips\n")

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	doneServe := make(chan error, 1)
	go func() {
		doneServe <- fusefs.Serve(conn, px)
	}()

	select {
	case err := <-doneServe:
		log.Printf("conn.Serve returned %v", err)
		<-conn.Ready
		if err := conn.MountError; err != nil {
			log.Printf("conn.MountError: %v", err)
		}
	case sig := <-sigc:
		log.Printf("Signal %s received, shutting down.", sig)
	}

	cmdmain.Logf("gpiodsysfsproxy: tearing down watcher and hotplug integrator\n")
	px.Close()

	time.AfterFunc(2*time.Second, func() {
		os.Exit(1)
	})
	log.Printf("Unmounting...")
	if err := fuse.Unmount(mountPoint); err != nil {
		log.Printf("Unmount = %v", err)
	}
	conn.Close()
	log.Printf("gpiodsysfsproxy FUSE process ending.")
}
