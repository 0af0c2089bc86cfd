package rulecodec

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/ross-protocol/ross-go/pkg/rule"
)

type kind[T rule.Component] struct {
	size   int
	newFor func() T
}

// Registry maps kind codes to payload sizes and constructors for one
// component family.
type Registry[T rule.Component] struct {
	unknown error
	codeOf  func(T) uint16
	byCode  map[uint16]kind[T]
	byType  map[reflect.Type]uint16
}

// NewRegistry creates an empty registry. unknown is the error reported for
// codes and types that were never registered; codeOf reads a kind's code.
func NewRegistry[T rule.Component](unknown error, codeOf func(T) uint16) *Registry[T] {
	return &Registry[T]{
		unknown: unknown,
		codeOf:  codeOf,
		byCode:  make(map[uint16]kind[T]),
		byType:  make(map[reflect.Type]uint16),
	}
}

// Register adds the kind produced by newFor. The code and payload size are
// read from a fresh instance. Registering a code or type twice fails.
func (r *Registry[T]) Register(newFor func() T) error {
	v := newFor()
	typ := reflect.TypeOf(v)
	if typ == nil {
		return fmt.Errorf("register: constructor returned nil")
	}
	code := r.codeOf(v)

	if _, ok := r.byCode[code]; ok {
		return fmt.Errorf("register %v: code 0x%04x already registered", typ, code)
	}
	if _, ok := r.byType[typ]; ok {
		return fmt.Errorf("register %v: type already registered", typ)
	}

	r.byCode[code] = kind[T]{size: v.PayloadSize(), newFor: newFor}
	r.byType[typ] = code
	return nil
}

// MustRegister is like Register but panics on error. Intended for package
// initialisation.
func (r *Registry[T]) MustRegister(newFor func() T) {
	if err := r.Register(newFor); err != nil {
		panic(err)
	}
}

// Codes returns the registered codes in ascending order.
func (r *Registry[T]) Codes() []uint16 {
	codes := make([]uint16, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// PayloadSize returns the payload size registered for code.
func (r *Registry[T]) PayloadSize(code uint16) (int, bool) {
	k, ok := r.byCode[code]
	return k.size, ok
}

// New returns a zero-valued instance of the kind registered for code.
func (r *Registry[T]) New(code uint16) (T, error) {
	k, ok := r.byCode[code]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: code 0x%04x", r.unknown, code)
	}
	return k.newFor(), nil
}

// Code returns the code registered for the concrete type of v.
func (r *Registry[T]) Code(v T) (uint16, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, fmt.Errorf("%w: nil", r.unknown)
	}
	code, ok := r.byType[rv.Type()]
	if !ok {
		return 0, fmt.Errorf("%w: %T", r.unknown, v)
	}
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return 0, fmt.Errorf("%w: nil %T", r.unknown, v)
	}
	return code, nil
}

// DefaultExtractors returns a registry of the built-in extractor kinds.
func DefaultExtractors() *Registry[rule.Extractor] {
	r := NewRegistry(ErrUnknownExtractor, rule.Extractor.ExtractorCode)
	r.MustRegister(func() rule.Extractor { return &rule.NoneExtractor{} })
	r.MustRegister(func() rule.Extractor { return &rule.EventCodeExtractor{} })
	return r
}

// DefaultFilters returns a registry of the built-in filter kinds.
func DefaultFilters() *Registry[rule.Filter] {
	r := NewRegistry(ErrUnknownFilter, rule.Filter.FilterCode)
	r.MustRegister(func() rule.Filter { return &rule.U8IncrementStateFilter{} })
	r.MustRegister(func() rule.Filter { return &rule.U16IsEqualFilter{} })
	r.MustRegister(func() rule.Filter { return &rule.U32IsEqualStateFilter{} })
	r.MustRegister(func() rule.Filter { return &rule.U32IncrementStateFilter{} })
	r.MustRegister(func() rule.Filter { return &rule.U32SetStateFilter{} })
	r.MustRegister(func() rule.Filter { return &rule.FlipFlopFilter{} })
	r.MustRegister(func() rule.Filter { return &rule.CountFilter{} })
	r.MustRegister(func() rule.Filter { return &rule.CountStateFilter{} })
	return r
}

// DefaultProducers returns a registry of the built-in producer kinds.
func DefaultProducers() *Registry[rule.Producer] {
	r := NewRegistry(ErrUnknownProducer, rule.Producer.ProducerCode)
	r.MustRegister(func() rule.Producer { return &rule.NoneProducer{} })
	r.MustRegister(func() rule.Producer { return &rule.BcmChangeBrightnessProducer{} })
	r.MustRegister(func() rule.Producer { return &rule.BcmChangeBrightnessStateProducer{} })
	return r
}
