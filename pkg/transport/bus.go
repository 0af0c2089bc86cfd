package transport

import (
	"errors"
	"time"
)

// Bus errors.
var (
	// ErrWouldBlock indicates the device is busy and the command should be
	// retried. Drivers may wrap it; callers match it with errors.Is.
	ErrWouldBlock = errors.New("bus would block")

	// ErrOutOfRange indicates an access beyond the end of the device.
	ErrOutOfRange = errors.New("address out of range")
)

// Bus is the raw access primitive of a page-oriented serial memory.
type Bus interface {
	// Read fills buf with the bytes starting at address.
	Read(address uint32, buf []byte) error

	// WritePage writes data starting at address. The caller guarantees data
	// does not extend past the page containing address.
	WritePage(address uint32, data []byte) error
}

// Sleeper blocks the calling goroutine for a duration.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(d time.Duration)

// Sleep calls f(d).
func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// SystemSleeper sleeps using the runtime timer.
var SystemSleeper Sleeper = SleeperFunc(time.Sleep)
