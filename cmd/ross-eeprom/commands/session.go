package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ross-protocol/ross-go/pkg/eeprom"
	"github.com/ross-protocol/ross-go/pkg/log"
	"github.com/ross-protocol/ross-go/pkg/transport"
)

// ErrImageExists indicates init would overwrite an existing image.
var ErrImageExists = errors.New("image already exists")

// SessionOptions selects the event sinks of a session.
type SessionOptions struct {
	// Trace receives storage events as text. Optional.
	Trace io.Writer
}

// Session is an open simulated device with a store on top.
type Session struct {
	Profile Profile
	Bus     *transport.FileBus
	Store   *eeprom.Store

	fileLogger *log.FileLogger
}

// OpenSession opens the device image described by p.
func OpenSession(p Profile, opts SessionOptions) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	bus, err := transport.OpenFile(p.Image, p.Size, p.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	bus.SetBusyCycles(p.BusyCycles)

	s := &Session{Profile: p, Bus: bus}

	var loggers []log.Logger
	if p.EventLog != "" {
		fl, err := log.NewFileLogger(p.EventLog)
		if err != nil {
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
		s.fileLogger = fl
		loggers = append(loggers, fl)
	}
	if opts.Trace != nil {
		handler := slog.NewTextHandler(opts.Trace, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(handler)))
	}

	cfg := p.StoreConfig()
	if len(loggers) > 0 {
		cfg.Logger = log.NewMultiLogger(loggers...)
	}

	store, err := eeprom.New(bus, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Store = store
	return s, nil
}

// Close releases the event log.
func (s *Session) Close() error {
	if s.fileLogger != nil {
		return s.fileLogger.Close()
	}
	return nil
}

// CreateImage writes an erased image file for p.
func CreateImage(p Profile, force bool) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(p.Image); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrImageExists, p.Image)
	}
	if err := os.Remove(p.Image); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image: %w", err)
	}

	bus, err := transport.OpenFile(p.Image, p.Size, p.PageSize)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return bus.Sync()
}
