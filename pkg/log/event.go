package log

import "time"

// Event represents a storage event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the store instance that produced the event (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates data flow relative to the device.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// DeviceAddress is the node's bus address, once the device info is known.
	DeviceAddress *uint16 `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Access *AccessEvent    `cbor:"10,keyasint,omitempty"` // Transport layer
	Retry  *RetryEvent     `cbor:"11,keyasint,omitempty"` // Transport layer
	Record *RecordEvent    `cbor:"12,keyasint,omitempty"` // Codec and store layers
	Error  *ErrorEventData `cbor:"13,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data read from the device.
	DirectionIn Direction = 0
	// DirectionOut indicates data written to the device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which storage layer captured the event.
type Layer uint8

const (
	// LayerTransport is the raw bus layer (page writes, reads).
	LayerTransport Layer = 0
	// LayerCodec is the record encoding layer.
	LayerCodec Layer = 1
	// LayerStore is the device info / event processor store.
	LayerStore Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerCodec:
		return "CODEC"
	case LayerStore:
		return "STORE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryAccess indicates a bus read or page write.
	CategoryAccess Category = 0
	// CategoryRetry indicates a command rejected by a busy device.
	CategoryRetry Category = 1
	// CategoryRecord indicates a record was loaded or persisted.
	CategoryRecord Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryAccess:
		return "ACCESS"
	case CategoryRetry:
		return "RETRY"
	case CategoryRecord:
		return "RECORD"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// AccessEvent captures a single bus transaction.
type AccessEvent struct {
	// Address is the first byte address of the transaction.
	Address uint32 `cbor:"1,keyasint"`

	// Size is the number of bytes transferred.
	Size int `cbor:"2,keyasint"`

	// Data is the transferred bytes (may be truncated for large reads).
	Data []byte `cbor:"3,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"4,keyasint,omitempty"`

	// Chunk is the zero-based chunk index within a paged write.
	Chunk int `cbor:"5,keyasint,omitempty"`
}

// RetryEvent captures a command rejected because the device was busy.
type RetryEvent struct {
	// Address of the rejected command.
	Address uint32 `cbor:"1,keyasint"`

	// Attempt is the number of the attempt that was rejected (1-based).
	Attempt int `cbor:"2,keyasint"`
}

// RecordEvent captures a record loaded from or persisted to the device.
type RecordEvent struct {
	// Kind of record.
	Kind RecordKind `cbor:"1,keyasint"`

	// Address where the record starts.
	Address uint32 `cbor:"2,keyasint"`

	// Size is the encoded size in bytes (without the length prefix).
	Size int `cbor:"3,keyasint"`

	// Count is the number of event processors (event processor records only).
	Count int `cbor:"4,keyasint,omitempty"`
}

// RecordKind indicates which persisted record an event refers to.
type RecordKind uint8

const (
	// RecordDeviceInfo is the fixed-layout device info block.
	RecordDeviceInfo RecordKind = 0
	// RecordEventProcessors is the length-prefixed event processor list.
	RecordEventProcessors RecordKind = 1
)

// String returns the record kind name.
func (k RecordKind) String() string {
	switch k {
	case RecordDeviceInfo:
		return "DEVICE_INFO"
	case RecordEventProcessors:
		return "EVENT_PROCESSORS"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Address is the device address involved, if any.
	Address *uint32 `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
