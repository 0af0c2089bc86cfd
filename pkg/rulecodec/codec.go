package rulecodec

import (
	"encoding/binary"
	"fmt"

	"github.com/ross-protocol/ross-go/pkg/rule"
)

// Minimum encoded sizes, used to bound up-front allocations.
const (
	minItemSize    = 4 + 2 + 2 // matcher count, extractor code, producer code
	minMatcherSize = 2 + 2     // extractor code, filter code
)

// Codec encodes and decodes event processor lists against a set of
// registries. The zero value is not usable; use NewCodec.
type Codec struct {
	Extractors *Registry[rule.Extractor]
	Filters    *Registry[rule.Filter]
	Producers  *Registry[rule.Producer]
}

// NewCodec returns a codec for the built-in kinds.
func NewCodec() *Codec {
	return &Codec{
		Extractors: DefaultExtractors(),
		Filters:    DefaultFilters(),
		Producers:  DefaultProducers(),
	}
}

var defaultCodec = NewCodec()

// Decode decodes a payload using the built-in kinds.
func Decode(data []byte) (rule.List, error) {
	return defaultCodec.Decode(data)
}

// Encode encodes a list using the built-in kinds.
func Encode(list rule.List) ([]byte, error) {
	return defaultCodec.Encode(list)
}

// Decode decodes a payload. Bytes after the last item are ignored. Matchers
// always decode to a non-nil slice, empty when the count is zero.
func (c *Codec) Decode(data []byte) (rule.List, error) {
	d := &decoder{data: data}

	count, err := d.readUint32()
	if err != nil {
		return nil, err
	}

	list := make(rule.List, 0, d.capacity(count, minItemSize))
	for i := uint32(0); i < count; i++ {
		processor, err := c.decodeProcessor(d)
		if err != nil {
			return nil, err
		}
		list = append(list, processor)
	}

	return list, nil
}

func (c *Codec) decodeProcessor(d *decoder) (rule.EventProcessor, error) {
	var processor rule.EventProcessor

	count, err := d.readUint32()
	if err != nil {
		return processor, err
	}

	processor.Matchers = make([]rule.Matcher, 0, d.capacity(count, minMatcherSize))
	for i := uint32(0); i < count; i++ {
		extractor, err := decodeTagged(d, c.Extractors)
		if err != nil {
			return processor, err
		}
		filter, err := decodeTagged(d, c.Filters)
		if err != nil {
			return processor, err
		}
		processor.Matchers = append(processor.Matchers, rule.Matcher{
			Extractor: extractor,
			Filter:    filter,
		})
	}

	if processor.Extractor, err = decodeTagged(d, c.Extractors); err != nil {
		return processor, err
	}
	if processor.Producer, err = decodeTagged(d, c.Producers); err != nil {
		return processor, err
	}

	return processor, nil
}

func decodeTagged[T rule.Component](d *decoder, reg *Registry[T]) (T, error) {
	var zero T

	start := d.off
	code, err := d.readUint16()
	if err != nil {
		return zero, err
	}

	k, ok := reg.byCode[code]
	if !ok {
		return zero, &DecodeError{Offset: start, Code: code, Err: reg.unknown}
	}

	payload, err := d.take(k.size)
	if err != nil {
		return zero, err
	}

	v := k.newFor()
	v.UnmarshalPayload(payload)
	return v, nil
}

// Encode encodes list into a new buffer.
func (c *Codec) Encode(list rule.List) ([]byte, error) {
	return c.AppendEncode(nil, list)
}

// AppendEncode appends the encoding of list to dst. On error dst is
// returned unchanged.
func (c *Codec) AppendEncode(dst []byte, list rule.List) ([]byte, error) {
	out := binary.BigEndian.AppendUint32(dst, uint32(len(list)))

	for i, processor := range list {
		var err error
		if out, err = c.appendProcessor(out, processor); err != nil {
			return dst, fmt.Errorf("event processor %d: %w", i, err)
		}
	}

	return out, nil
}

func (c *Codec) appendProcessor(out []byte, processor rule.EventProcessor) ([]byte, error) {
	out = binary.BigEndian.AppendUint32(out, uint32(len(processor.Matchers)))

	var err error
	for i, matcher := range processor.Matchers {
		if out, err = appendTagged(out, c.Extractors, matcher.Extractor); err != nil {
			return nil, fmt.Errorf("matcher %d: %w", i, err)
		}
		if out, err = appendTagged(out, c.Filters, matcher.Filter); err != nil {
			return nil, fmt.Errorf("matcher %d: %w", i, err)
		}
	}

	if out, err = appendTagged(out, c.Extractors, processor.Extractor); err != nil {
		return nil, err
	}
	return appendTagged(out, c.Producers, processor.Producer)
}

func appendTagged[T rule.Component](out []byte, reg *Registry[T], v T) ([]byte, error) {
	code, err := reg.Code(v)
	if err != nil {
		return nil, err
	}

	size := reg.byCode[code].size
	out = binary.BigEndian.AppendUint16(out, code)
	start := len(out)
	out = append(out, make([]byte, size)...)
	v.MarshalPayload(out[start:])
	return out, nil
}

// decoder reads big-endian fields with bounds checks.
type decoder struct {
	data []byte
	off  int
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) take(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, &DecodeError{Offset: d.off, Err: ErrWrongSize}
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) readUint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) readUint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// capacity bounds a declared element count by what the rest of the buffer
// could possibly hold.
func (d *decoder) capacity(count uint32, minSize int) int {
	limit := d.remaining() / minSize
	if uint64(count) < uint64(limit) {
		return int(count)
	}
	return limit
}
