// Package interactive provides the interactive shell of ross-eeprom.
package interactive

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ross-protocol/ross-go/cmd/ross-eeprom/commands"
)

// Shell runs commands against an open session.
type Shell struct {
	session *commands.Session
	out     io.Writer
	rl      *readline.Instance
}

// New creates a shell with line editing on the terminal.
func New(session *commands.Session) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "eeprom> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("info"),
			readline.PcItem("set-info"),
			readline.PcItem("rules"),
			readline.PcItem("load-rules"),
			readline.PcItem("dump"),
			readline.PcItem("write"),
			readline.PcItem("export"),
			readline.PcItem("import"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{session: session, out: rl.Stdout(), rl: rl}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Run reads commands until quit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return
		}

		if !s.Execute(ctx, line) {
			return
		}
	}
}

// Execute runs one command line. It returns false when the shell should
// exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()

	case "info", "i":
		err = commands.RunInfo(ctx, s.session, s.out)

	case "set-info":
		err = s.cmdSetInfo(ctx, args)

	case "rules", "r":
		err = commands.RunRules(ctx, s.session, s.out)

	case "load-rules", "load":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "Usage: load-rules <rules.yaml>")
			return true
		}
		err = commands.RunLoadRules(ctx, s.session, args[0], s.out)

	case "dump", "d":
		err = s.cmdDump(ctx, args)

	case "write", "w":
		err = s.cmdWrite(ctx, args)

	case "export":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "Usage: export <file>")
			return true
		}
		err = commands.RunExport(ctx, s.session, args[0], s.out)

	case "import":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "Usage: import <file>")
			return true
		}
		err = commands.RunImport(ctx, s.session, args[0], s.out)

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
EEPROM Commands:
  Records:
    info                              - Show device info
    set-info <addr> <fw> <list-addr>  - Write device info
    rules                             - Show event processors as YAML
    load-rules <file>                 - Store event processors from YAML

  Raw access:
    dump <addr> [len]                 - Hex dump (default 64 bytes)
    write <addr> <hex>                - Write bytes, e.g. write 0x40 deadbeef

  Images:
    export <file>                     - Save the whole device to an image
    import <file>                     - Restore the device from an image

  General:
    help                              - Show this help
    quit                              - Exit shell

  Numbers accept decimal or 0x-prefixed hex.`)
}

func (s *Shell) cmdSetInfo(ctx context.Context, args []string) error {
	if len(args) != 3 {
		fmt.Fprintln(s.out, "Usage: set-info <device-address> <firmware-version> <event-processor-address>")
		return nil
	}
	info, err := commands.ParseDeviceInfo(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	return commands.RunSetInfo(ctx, s.session, info, s.out)
}

func (s *Shell) cmdDump(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(s.out, "Usage: dump <addr> [len]")
		return nil
	}
	address, err := commands.ParseUint(args[0], 32)
	if err != nil {
		return err
	}
	n := uint64(64)
	if len(args) == 2 {
		if n, err = commands.ParseUint(args[1], 16); err != nil {
			return err
		}
	}
	return commands.RunDump(ctx, s.session, uint32(address), int(n), s.out)
}

func (s *Shell) cmdWrite(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: write <addr> <hex>")
		return nil
	}
	address, err := commands.ParseUint(args[0], 32)
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(strings.TrimPrefix(args[1], "0x"))
	if err != nil {
		return fmt.Errorf("invalid data: %w", err)
	}
	return commands.RunWrite(ctx, s.session, uint32(address), data, s.out)
}
