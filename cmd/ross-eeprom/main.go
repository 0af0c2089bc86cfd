// Command ross-eeprom provisions and inspects the EEPROM of a ROSS node.
//
// The device is simulated by an image file, so records can be prepared on a
// host and flashed later, or a dump taken from a node can be inspected.
//
// Usage:
//
//	ross-eeprom <command> [flags] [args]
//
// Commands:
//
//	init        Create an erased image and write its device info
//	info        Show the device info
//	set-info    Write the device info
//	rules       Print the stored event processors as YAML
//	load-rules  Store event processors from a YAML rule file
//	export      Save the device to a verified image file
//	import      Restore the device from an image file
//	events      Print a storage event log
//	shell       Start the interactive shell
//
// Examples:
//
//	# Provision a node with bus address 0x0123 and rules at 0x40
//	ross-eeprom init -device-address 0x0123 -firmware 0x00010000 -list-address 0x40
//
//	# Store rules and trace every page write
//	ross-eeprom load-rules -trace rules.yaml
//
//	# Use a profile for a 24C256 part and keep an event log
//	ross-eeprom info -config 24c256.yaml -event-log node.elog
//
//	# Show only retries from the event log
//	ross-eeprom events -category retry node.elog
//
//	# Trace every access to the rule list area
//	ross-eeprom events -from 0x40 -to 0x100 node.elog
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ross-protocol/ross-go/cmd/ross-eeprom/commands"
	"github.com/ross-protocol/ross-go/cmd/ross-eeprom/interactive"
)

const usage = `ross-eeprom - ROSS node EEPROM tool

Usage:
  ross-eeprom <command> [flags] [args]

Commands:
  init        Create an erased image and write its device info
  info        Show the device info
  set-info    Write the device info
  rules       Print the stored event processors as YAML
  load-rules  Store event processors from a YAML rule file
  export      Save the device to a verified image file
  import      Restore the device from an image file
  events      Print a storage event log
  shell       Start the interactive shell

Use "ross-eeprom <command> -help" for more information about a command.
`

// deviceFlags are shared by every command that opens the device.
type deviceFlags struct {
	config   string
	image    string
	eventLog string
	logLevel string
	trace    bool
}

func (f *deviceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "Device profile (YAML)")
	fs.StringVar(&f.image, "image", "", "Image file (overrides the profile)")
	fs.StringVar(&f.eventLog, "event-log", "", "Append storage events to this file (overrides the profile)")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&f.trace, "trace", false, "Print storage events to stderr")
}

func (f *deviceFlags) profile() commands.Profile {
	setupLogging(f.logLevel)

	p := commands.DefaultProfile()
	if f.config != "" {
		var err error
		if p, err = commands.LoadProfile(f.config); err != nil {
			fatal(err)
		}
	}
	if f.image != "" {
		p.Image = f.image
	}
	if f.eventLog != "" {
		p.EventLog = f.eventLog
	}
	return p
}

func (f *deviceFlags) open() *commands.Session {
	p := f.profile()

	var opts commands.SessionOptions
	if f.trace {
		opts.Trace = os.Stderr
	}

	s, err := commands.OpenSession(p, opts)
	if err != nil {
		fatal(err)
	}
	log.Printf("Opened %s (%d bytes, %d-byte pages)", p.Image, p.Size, p.PageSize)
	return s
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "init":
		runInit(ctx, args)
	case "info":
		runInfo(ctx, args)
	case "set-info":
		runSetInfo(ctx, args)
	case "rules":
		runRules(ctx, args)
	case "load-rules":
		runLoadRules(ctx, args)
	case "export":
		runExport(ctx, args)
	case "import":
		runImport(ctx, args)
	case "events":
		runEvents(args)
	case "shell":
		runShell(ctx, args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func newFlagSet(name, synopsis, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ross-eeprom %s - %s

Usage:
  ross-eeprom %s [flags] %s

Flags:
`, name, synopsis, name, args)
		fs.PrintDefaults()
	}
	return fs
}

func infoFlags(fs *flag.FlagSet) (deviceAddress, firmware, listAddress *string) {
	deviceAddress = fs.String("device-address", "0", "Node bus address (u16)")
	firmware = fs.String("firmware", "0", "Firmware version (u32)")
	listAddress = fs.String("list-address", "0x40", "Event processor list address (u32)")
	return
}

func runInit(ctx context.Context, args []string) {
	fs := newFlagSet("init", "Create an erased image and write its device info", "")
	var df deviceFlags
	df.register(fs)
	deviceAddress, firmware, listAddress := infoFlags(fs)
	force := fs.Bool("force", false, "Overwrite an existing image")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	info, err := commands.ParseDeviceInfo(*deviceAddress, *firmware, *listAddress)
	if err != nil {
		fatal(err)
	}
	if err := commands.RunInit(ctx, df.profile(), info, *force, os.Stdout); err != nil {
		fatal(err)
	}
}

func runInfo(ctx context.Context, args []string) {
	fs := newFlagSet("info", "Show the device info", "")
	var df deviceFlags
	df.register(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s := df.open()
	defer s.Close()
	if err := commands.RunInfo(ctx, s, os.Stdout); err != nil {
		fatal(err)
	}
}

func runSetInfo(ctx context.Context, args []string) {
	fs := newFlagSet("set-info", "Write the device info", "")
	var df deviceFlags
	df.register(fs)
	deviceAddress, firmware, listAddress := infoFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	info, err := commands.ParseDeviceInfo(*deviceAddress, *firmware, *listAddress)
	if err != nil {
		fatal(err)
	}

	s := df.open()
	defer s.Close()
	if err := commands.RunSetInfo(ctx, s, info, os.Stdout); err != nil {
		fatal(err)
	}
}

func runRules(ctx context.Context, args []string) {
	fs := newFlagSet("rules", "Print the stored event processors as YAML", "")
	var df deviceFlags
	df.register(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s := df.open()
	defer s.Close()
	if err := commands.RunRules(ctx, s, os.Stdout); err != nil {
		fatal(err)
	}
}

func runLoadRules(ctx context.Context, args []string) {
	fs := newFlagSet("load-rules", "Store event processors from a YAML rule file", "<rules.yaml>")
	var df deviceFlags
	df.register(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireArg(fs, "rule file path required")

	s := df.open()
	defer s.Close()
	if err := commands.RunLoadRules(ctx, s, path, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(ctx context.Context, args []string) {
	fs := newFlagSet("export", "Save the device to a verified image file", "<file>")
	var df deviceFlags
	df.register(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireArg(fs, "output file path required")

	s := df.open()
	defer s.Close()
	if err := commands.RunExport(ctx, s, path, os.Stdout); err != nil {
		fatal(err)
	}
}

func runImport(ctx context.Context, args []string) {
	fs := newFlagSet("import", "Restore the device from an image file", "<file>")
	var df deviceFlags
	df.register(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireArg(fs, "image file path required")

	s := df.open()
	defer s.Close()
	if err := commands.RunImport(ctx, s, path, os.Stdout); err != nil {
		fatal(err)
	}
}

func runEvents(args []string) {
	fs := newFlagSet("events", "Print a storage event log", "<file.elog>")
	var opts commands.EventOptions
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (transport, codec, store)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (access, retry, record, error)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Device, "device", "", "Filter by node bus address")
	fs.StringVar(&opts.Record, "record", "", "Filter by record (device-info, event-processors)")
	fs.StringVar(&opts.From, "from", "", "Filter by events touching addresses from this one")
	fs.StringVar(&opts.To, "to", "", "Filter by events touching addresses below this one")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireArg(fs, "event log path required")

	if err := commands.RunEvents(path, opts, os.Stdout); err != nil {
		fatal(err)
	}
}

func runShell(ctx context.Context, args []string) {
	fs := newFlagSet("shell", "Start the interactive shell", "")
	var df deviceFlags
	df.register(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s := df.open()
	defer s.Close()

	sh, err := interactive.New(s)
	if err != nil {
		fatal(err)
	}
	// Redirect log output through readline to avoid interfering with input
	log.SetOutput(sh.Stdout())
	sh.Run(ctx)
}

func requireArg(fs *flag.FlagSet, msg string) string {
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
		log.SetOutput(io.Discard)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
