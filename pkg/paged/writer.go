package paged

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ross-protocol/ross-go/pkg/log"
	"github.com/ross-protocol/ross-go/pkg/retry"
	"github.com/ross-protocol/ross-go/pkg/transport"
)

// Defaults for the 24x-series parts with a 32-byte page.
const (
	DefaultPageSize   = 32
	DefaultSettleTime = 5 * time.Millisecond
)

// MaxLoggedData caps the bytes copied into access events.
const MaxLoggedData = 64

var (
	// ErrInvalidPageSize indicates a page size that is zero or negative.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrAddressOverflow indicates a range that runs past the top of the
	// 32-bit address space.
	ErrAddressOverflow = errors.New("address range overflows 32 bits")
)

// Config configures a Writer.
type Config struct {
	// PageSize is the device page size in bytes.
	PageSize int

	// SettleTime is the delay after every page write.
	SettleTime time.Duration

	// Retry decides how long a busy device is polled.
	Retry retry.Policy

	// Sleeper implements the settle delay and retry backoff.
	// Defaults to transport.SystemSleeper.
	Sleeper transport.Sleeper

	// Logger receives access, retry and error events. Optional.
	Logger log.Logger

	// SessionID is stamped on every event.
	SessionID string
}

// DefaultConfig returns the configuration for a 32-byte page part with an
// unbounded busy-poll.
func DefaultConfig() Config {
	return Config{
		PageSize:   DefaultPageSize,
		SettleTime: DefaultSettleTime,
		Retry:      retry.Unbounded,
	}
}

// WriteError reports a failed chunk write.
type WriteError struct {
	// Address is the device address of the failed chunk.
	Address uint32

	// Offset is the index of the first source byte that is not known to
	// be persisted.
	Offset int

	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write page at 0x%08x (offset %d): %v", e.Address, e.Offset, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer issues page-bounded writes and reads on a bus.
type Writer struct {
	bus    transport.Bus
	config Config
}

// New creates a Writer.
func New(bus transport.Bus, config Config) (*Writer, error) {
	if config.PageSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, config.PageSize)
	}
	if config.Sleeper == nil {
		config.Sleeper = transport.SystemSleeper
	}
	return &Writer{bus: bus, config: config}, nil
}

// PageSize returns the configured page size.
func (w *Writer) PageSize() int {
	return w.config.PageSize
}

// Write stores data starting at address. Nothing is written when the range
// overflows the address space.
func (w *Writer) Write(ctx context.Context, address uint32, data []byte) error {
	if !Fits(address, len(data)) {
		err := fmt.Errorf("%w: %d bytes at 0x%08x", ErrAddressOverflow, len(data), address)
		w.logError(address, err, "write")
		return err
	}

	for i, chunk := range Chunks(address, len(data), w.config.PageSize) {
		page := data[chunk.Offset : chunk.Offset+chunk.Len]

		err := w.retrier(chunk.Address).Do(ctx, func() error {
			return w.bus.WritePage(chunk.Address, page)
		})
		if err != nil {
			w.logError(chunk.Address, err, "write page")
			return &WriteError{Address: chunk.Address, Offset: chunk.Offset, Err: err}
		}

		w.logAccess(log.DirectionOut, chunk.Address, page, i)

		if w.config.SettleTime > 0 {
			w.config.Sleeper.Sleep(w.config.SettleTime)
		}
	}
	return nil
}

// Read fills buf with the bytes starting at address.
func (w *Writer) Read(ctx context.Context, address uint32, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if !Fits(address, len(buf)) {
		err := fmt.Errorf("%w: %d bytes at 0x%08x", ErrAddressOverflow, len(buf), address)
		w.logError(address, err, "read")
		return err
	}

	err := w.retrier(address).Do(ctx, func() error {
		return w.bus.Read(address, buf)
	})
	if err != nil {
		w.logError(address, err, "read")
		return fmt.Errorf("read %d bytes at 0x%08x: %w", len(buf), address, err)
	}

	w.logAccess(log.DirectionIn, address, buf, 0)
	return nil
}

func (w *Writer) retrier(address uint32) *retry.Retrier {
	return &retry.Retrier{
		Policy: w.config.Retry,
		Transient: func(err error) bool {
			return errors.Is(err, transport.ErrWouldBlock)
		},
		Sleep: w.config.Sleeper.Sleep,
		OnRetry: func(attempt int, _ error) {
			w.log(log.Event{
				Category: log.CategoryRetry,
				Retry:    &log.RetryEvent{Address: address, Attempt: attempt},
			})
		},
	}
}

func (w *Writer) logAccess(dir log.Direction, address uint32, data []byte, chunk int) {
	if w.config.Logger == nil {
		return
	}

	logged := data
	truncated := false
	if len(logged) > MaxLoggedData {
		logged = logged[:MaxLoggedData]
		truncated = true
	}

	w.log(log.Event{
		Direction: dir,
		Category:  log.CategoryAccess,
		Access: &log.AccessEvent{
			Address:   address,
			Size:      len(data),
			Data:      append([]byte(nil), logged...),
			Truncated: truncated,
			Chunk:     chunk,
		},
	})
}

func (w *Writer) logError(address uint32, err error, op string) {
	w.log(log.Event{
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Address: &address,
			Context: op,
		},
	})
}

func (w *Writer) log(event log.Event) {
	if w.config.Logger == nil {
		return
	}
	event.Timestamp = time.Now()
	event.SessionID = w.config.SessionID
	event.Layer = log.LayerTransport
	w.config.Logger.Log(event)
}
