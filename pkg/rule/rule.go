package rule

// Component is the common behaviour of extractors, filters and producers:
// a fixed-size payload that can be written to and read from bytes.
type Component interface {
	// PayloadSize returns the encoded payload size in bytes. It is constant
	// for a given kind.
	PayloadSize() int

	// MarshalPayload writes the payload into b, which is exactly
	// PayloadSize bytes long.
	MarshalPayload(b []byte)

	// UnmarshalPayload reads the payload from b, which is exactly
	// PayloadSize bytes long.
	UnmarshalPayload(b []byte)
}

// Extractor selects a value from an incoming event.
type Extractor interface {
	Component

	// ExtractorCode returns the stable code of the extractor kind.
	ExtractorCode() uint16
}

// Filter decides whether an extracted value passes.
type Filter interface {
	Component

	// FilterCode returns the stable code of the filter kind.
	FilterCode() uint16
}

// Producer emits the action of a processor that fired.
type Producer interface {
	Component

	// ProducerCode returns the stable code of the producer kind.
	ProducerCode() uint16
}

// Matcher pairs an extractor with the filter its value is checked against.
type Matcher struct {
	Extractor Extractor
	Filter    Filter
}

// EventProcessor is a single rule. A nil and an empty Matchers slice are
// the same rule and encode identically.
type EventProcessor struct {
	Matchers  []Matcher
	Extractor Extractor
	Producer  Producer
}

// List is an ordered rule set.
type List []EventProcessor
