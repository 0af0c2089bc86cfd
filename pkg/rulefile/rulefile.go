package rulefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ross-protocol/ross-go/pkg/rule"
)

// Rule file errors.
var (
	// ErrUnknownKind indicates a kind name or component type with no mapping.
	ErrUnknownKind = errors.New("unknown kind")

	// ErrUnexpectedField indicates a field the kind does not use.
	ErrUnexpectedField = errors.New("unexpected field")

	// ErrOutOfRange indicates a value that does not fit the kind's field.
	ErrOutOfRange = errors.New("value out of range")

	// ErrMissingComponent indicates an event processor or matcher without
	// a required component.
	ErrMissingComponent = errors.New("missing component")
)

// RawFile is the YAML document layout.
type RawFile struct {
	EventProcessors []RawEventProcessor `yaml:"event_processors"`
}

// RawEventProcessor is one event processor.
type RawEventProcessor struct {
	Matchers  []RawMatcher  `yaml:"matchers,omitempty"`
	Extractor *RawComponent `yaml:"extractor"`
	Producer  *RawComponent `yaml:"producer"`
}

// RawMatcher pairs an extractor with a filter.
type RawMatcher struct {
	Extractor *RawComponent `yaml:"extractor"`
	Filter    *RawComponent `yaml:"filter"`
}

// RawComponent is any extractor, filter or producer.
type RawComponent struct {
	Kind       string  `yaml:"kind"`
	StateIndex *uint64 `yaml:"state_index,omitempty"`
	Value      *uint64 `yaml:"value,omitempty"`
	Required   *uint64 `yaml:"required,omitempty"`
	State      *bool   `yaml:"state,omitempty"`
	BcmAddress *uint64 `yaml:"bcm_address,omitempty"`
	Channel    *uint64 `yaml:"channel,omitempty"`
	Brightness *uint64 `yaml:"brightness,omitempty"`

	// Line is the source line, zero for components built in memory.
	Line int `yaml:"-"`
}

var componentKeys = []string{
	"kind", "state_index", "value", "required", "state", "bcm_address", "channel", "brightness",
}

// UnmarshalYAML records the source line of the component and rejects keys
// no kind uses.
func (c *RawComponent) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if !slices.Contains(componentKeys, key.Value) {
				return fmt.Errorf("line %d: %w %q", key.Line, ErrUnexpectedField, key.Value)
			}
		}
	}

	type plain RawComponent
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = RawComponent(p)
	c.Line = node.Line
	return nil
}

// Load reads a rule file.
func Load(path string) (rule.List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	list, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// Save writes list to a rule file.
func Save(path string, list rule.List) error {
	data, err := Marshal(list)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rule file: %w", err)
	}
	return nil
}

// Parse converts YAML into an event processor list. Unknown keys are
// rejected.
func Parse(data []byte) (rule.List, error) {
	var raw RawFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse rule file: %w", err)
	}

	list := make(rule.List, 0, len(raw.EventProcessors))
	for i, rp := range raw.EventProcessors {
		p, err := buildProcessor(rp)
		if err != nil {
			return nil, fmt.Errorf("event processor %d: %w", i, err)
		}
		list = append(list, p)
	}
	return list, nil
}

// Marshal converts an event processor list into YAML.
func Marshal(list rule.List) ([]byte, error) {
	raw := RawFile{EventProcessors: make([]RawEventProcessor, 0, len(list))}
	for i, p := range list {
		rp, err := rawProcessor(p)
		if err != nil {
			return nil, fmt.Errorf("event processor %d: %w", i, err)
		}
		raw.EventProcessors = append(raw.EventProcessors, rp)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(raw); err != nil {
		return nil, fmt.Errorf("encode rule file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode rule file: %w", err)
	}
	return buf.Bytes(), nil
}

func buildProcessor(rp RawEventProcessor) (rule.EventProcessor, error) {
	p := rule.EventProcessor{Matchers: make([]rule.Matcher, 0, len(rp.Matchers))}

	for i, rm := range rp.Matchers {
		extractor, err := build(rm.Extractor, extractors, "extractor")
		if err != nil {
			return p, fmt.Errorf("matcher %d: %w", i, err)
		}
		filter, err := build(rm.Filter, filters, "filter")
		if err != nil {
			return p, fmt.Errorf("matcher %d: %w", i, err)
		}
		p.Matchers = append(p.Matchers, rule.Matcher{Extractor: extractor, Filter: filter})
	}

	var err error
	if p.Extractor, err = build(rp.Extractor, extractors, "extractor"); err != nil {
		return p, err
	}
	if p.Producer, err = build(rp.Producer, producers, "producer"); err != nil {
		return p, err
	}
	return p, nil
}

func rawProcessor(p rule.EventProcessor) (RawEventProcessor, error) {
	rp := RawEventProcessor{Matchers: make([]RawMatcher, 0, len(p.Matchers))}

	for i, m := range p.Matchers {
		extractor, err := toRaw(m.Extractor, extractors)
		if err != nil {
			return rp, fmt.Errorf("matcher %d: %w", i, err)
		}
		filter, err := toRaw(m.Filter, filters)
		if err != nil {
			return rp, fmt.Errorf("matcher %d: %w", i, err)
		}
		rp.Matchers = append(rp.Matchers, RawMatcher{Extractor: extractor, Filter: filter})
	}

	var err error
	if rp.Extractor, err = toRaw(p.Extractor, extractors); err != nil {
		return rp, err
	}
	if rp.Producer, err = toRaw(p.Producer, producers); err != nil {
		return rp, err
	}
	return rp, nil
}

func build[T rule.Component](rc *RawComponent, table []kind[T], family string) (T, error) {
	var zero T
	if rc == nil {
		return zero, fmt.Errorf("%w: %s", ErrMissingComponent, family)
	}

	for _, k := range table {
		if k.name != rc.Kind {
			continue
		}
		if field, ok := unexpectedField(rc, k.fields); ok {
			return zero, fmt.Errorf("line %d: %w %q for %s %q", rc.Line, ErrUnexpectedField, field, family, rc.Kind)
		}
		v, err := k.build(rc)
		if err != nil {
			return zero, fmt.Errorf("line %d: %s %q: %w", rc.Line, family, rc.Kind, err)
		}
		return v, nil
	}

	return zero, fmt.Errorf("line %d: %w %s %q", rc.Line, ErrUnknownKind, family, rc.Kind)
}

func toRaw[T rule.Component](v T, table []kind[T]) (*RawComponent, error) {
	for _, k := range table {
		if rc, ok := k.raw(v); ok {
			rc.Kind = k.name
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownKind, v)
}

func unexpectedField(rc *RawComponent, allowed []string) (string, bool) {
	set := map[string]bool{
		"state_index": rc.StateIndex != nil,
		"value":       rc.Value != nil,
		"required":    rc.Required != nil,
		"state":       rc.State != nil,
		"bcm_address": rc.BcmAddress != nil,
		"channel":     rc.Channel != nil,
		"brightness":  rc.Brightness != nil,
	}
	for _, name := range componentKeys[1:] {
		if set[name] && !slices.Contains(allowed, name) {
			return name, true
		}
	}
	return "", false
}

func u8(name string, p *uint64) (uint8, error) {
	v, err := bounded(name, p, math.MaxUint8)
	return uint8(v), err
}

func u16(name string, p *uint64) (uint16, error) {
	v, err := bounded(name, p, math.MaxUint16)
	return uint16(v), err
}

func u32(name string, p *uint64) (uint32, error) {
	v, err := bounded(name, p, math.MaxUint32)
	return uint32(v), err
}

func bounded(name string, p *uint64, max uint64) (uint64, error) {
	if p == nil {
		return 0, nil
	}
	if *p > max {
		return 0, fmt.Errorf("%w: %s %d > %d", ErrOutOfRange, name, *p, max)
	}
	return *p, nil
}

func ptr[T any](v T) *T {
	return &v
}
