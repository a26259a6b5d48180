package main

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

var (
	monOpts = struct {
		port string
		baud int
		list bool
	}{}

	monitorCmd = &cobra.Command{
		Use:   "monitor",
		Short: "Follow the firmware log over a serial port",
		RunE:  runMonitor,
	}
)

func init() {
	f := monitorCmd.Flags()
	f.StringVar(&monOpts.port, "port", "", "Serial port, e.g. /dev/ttyACM0")
	f.IntVarP(&monOpts.baud, "baud", "b", 115200, "Baud rate")
	f.BoolVarP(&monOpts.list, "list", "l", false, "List serial ports and exit")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if monOpts.list {
		ports, err := serial.GetPortsList()
		if err != nil {
			return err
		}
		for _, p := range ports {
			out.row("port", p)
		}
		return nil
	}
	if monOpts.port == "" {
		return errors.New("no port given; use --port or --list")
	}
	lock := flock.New(filepath.Join(os.TempDir(), "seedcheck-"+filepath.Base(monOpts.port)+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(monOpts.port + " is already being monitored")
	}
	defer lock.Unlock()

	p, err := serial.Open(monOpts.port, &serial.Mode{BaudRate: monOpts.baud})
	if err != nil {
		return err
	}
	defer p.Close()

	out.head("monitoring " + monOpts.port)
	sc := bufio.NewScanner(p)
	for sc.Scan() {
		out.line(sc.Text())
	}
	return sc.Err()
}
