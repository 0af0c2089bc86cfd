package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ErrInvalidEvent indicates a decoded event with an out-of-range enum or
// more than one payload.
var ErrInvalidEvent = errors.New("invalid event")

// Event files may come back from the field, so decoding is strict: no
// duplicate keys, no indefinite lengths, valid UTF-8 only.
var (
	eventEncMode cbor.EncMode
	eventDecMode cbor.DecMode
)

func init() {
	var err error

	eventEncMode, err = cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create event CBOR encoder mode: %v", err))
	}

	eventDecMode, err = cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		IndefLength:     cbor.IndefLengthForbidden,
		UTF8:            cbor.UTF8RejectInvalid,
		MaxNestedLevels: 8,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create event CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR using integer keys.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEncMode.Marshal(event)
}

// DecodeEvent decodes and validates a single CBOR event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := eventDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	if err := event.Validate(); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder creates a CBOR encoder for an event stream.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return eventEncMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for an event stream. Events read from
// it are not validated; Reader does that.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return eventDecMode.NewDecoder(r)
}

// Validate checks the enums and that at most one payload is set.
func (e Event) Validate() error {
	if e.Direction > DirectionOut || e.Layer > LayerStore || e.Category > CategoryError {
		return fmt.Errorf("%w: direction=%d layer=%d category=%d",
			ErrInvalidEvent, e.Direction, e.Layer, e.Category)
	}

	payloads := 0
	for _, set := range []bool{e.Access != nil, e.Retry != nil, e.Record != nil, e.Error != nil} {
		if set {
			payloads++
		}
	}
	if payloads > 1 {
		return fmt.Errorf("%w: %d payloads", ErrInvalidEvent, payloads)
	}

	if e.Record != nil && e.Record.Kind > RecordEventProcessors {
		return fmt.Errorf("%w: record kind %d", ErrInvalidEvent, e.Record.Kind)
	}
	return nil
}
