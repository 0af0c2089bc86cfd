package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects events. Nil or empty fields match everything.
type Filter struct {
	SessionID string
	Direction *Direction
	Layer     *Layer
	Category  *Category

	// DeviceAddress matches events stamped with this node address.
	DeviceAddress *uint16

	// Record matches record events of this kind.
	Record *RecordKind

	// AddressFrom and AddressTo select events touching the half-open
	// device address range [AddressFrom, AddressTo). Events without an
	// address never match a range.
	AddressFrom *uint32
	AddressTo   *uint32

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time
}

// Matches reports whether the event matches all filter criteria.
func (f *Filter) Matches(event Event) bool {
	switch {
	case f.SessionID != "" && event.SessionID != f.SessionID:
		return false
	case f.Direction != nil && event.Direction != *f.Direction:
		return false
	case f.Layer != nil && event.Layer != *f.Layer:
		return false
	case f.Category != nil && event.Category != *f.Category:
		return false
	case f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart):
		return false
	case f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	}

	if f.DeviceAddress != nil && (event.DeviceAddress == nil || *event.DeviceAddress != *f.DeviceAddress) {
		return false
	}
	if f.Record != nil && (event.Record == nil || event.Record.Kind != *f.Record) {
		return false
	}
	if f.AddressFrom != nil || f.AddressTo != nil {
		return f.touches(event)
	}
	return true
}

// touches reports whether the bytes an event refers to overlap the
// filter's address range.
func (f *Filter) touches(event Event) bool {
	start, size, ok := event.Span()
	if !ok {
		return false
	}
	end := uint64(start) + uint64(max(size, 1))

	if f.AddressFrom != nil && end <= uint64(*f.AddressFrom) {
		return false
	}
	if f.AddressTo != nil && uint64(start) >= uint64(*f.AddressTo) {
		return false
	}
	return true
}

// Span returns the device address and byte count an event refers to.
func (e Event) Span() (address uint32, size int, ok bool) {
	switch {
	case e.Access != nil:
		return e.Access.Address, e.Access.Size, true
	case e.Retry != nil:
		return e.Retry.Address, 0, true
	case e.Record != nil:
		return e.Record.Address, e.Record.Size, true
	case e.Error != nil && e.Error.Address != nil:
		return *e.Error.Address, 0, true
	}
	return 0, 0, false
}

// Reader streams events from an event log.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
	filter  Filter
	index   int
}

// NewReader opens an event log and reads all events.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens an event log and reads the events matching
// filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewStreamReader(f, filter)
	r.closer = f
	return r, nil
}

// NewStreamReader reads events from r. Close does not close r.
func NewStreamReader(r io.Reader, filter Filter) *Reader {
	return &Reader{decoder: NewDecoder(r), filter: filter}
}

// Next returns the next matching event, or io.EOF at the end of the log.
// A log cut short mid-event yields an error naming the event index.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, fmt.Errorf("event %d: %w", r.index, err)
		}
		r.index++

		if err := event.Validate(); err != nil {
			return Event{}, fmt.Errorf("event %d: %w", r.index-1, err)
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close closes the log file.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
