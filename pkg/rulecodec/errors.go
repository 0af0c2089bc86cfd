package rulecodec

import (
	"errors"
	"fmt"
)

// Codec errors.
var (
	// ErrWrongSize indicates the payload ended before a complete record.
	ErrWrongSize = errors.New("wrong event processor data size")

	// ErrUnknownExtractor indicates an extractor code or type outside the registry.
	ErrUnknownExtractor = errors.New("unknown extractor")

	// ErrUnknownFilter indicates a filter code or type outside the registry.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrUnknownProducer indicates a producer code or type outside the registry.
	ErrUnknownProducer = errors.New("unknown producer")
)

// DecodeError locates a decoding failure within the payload.
type DecodeError struct {
	// Offset is the payload offset of the field that could not be decoded.
	Offset int

	// Code is the offending kind code for unknown-kind errors.
	Code uint16

	// Err is one of the package sentinel errors.
	Err error
}

func (e *DecodeError) Error() string {
	if errors.Is(e.Err, ErrWrongSize) {
		return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("%v 0x%04x at offset %d", e.Err, e.Code, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
