package rulefile

import "github.com/ross-protocol/ross-go/pkg/rule"

// kind maps one component kind to its YAML name and fields.
type kind[T rule.Component] struct {
	name   string
	fields []string
	build  func(rc *RawComponent) (T, error)
	raw    func(v T) (*RawComponent, bool)
}

var extractors = []kind[rule.Extractor]{
	{
		name:  "none",
		build: func(*RawComponent) (rule.Extractor, error) { return &rule.NoneExtractor{}, nil },
		raw: func(v rule.Extractor) (*RawComponent, bool) {
			x, ok := v.(*rule.NoneExtractor)
			return &RawComponent{}, ok && x != nil
		},
	},
	{
		name:  "event_code",
		build: func(*RawComponent) (rule.Extractor, error) { return &rule.EventCodeExtractor{}, nil },
		raw: func(v rule.Extractor) (*RawComponent, bool) {
			x, ok := v.(*rule.EventCodeExtractor)
			return &RawComponent{}, ok && x != nil
		},
	},
}

var filters = []kind[rule.Filter]{
	{
		name:   "u8_increment_state",
		fields: []string{"state_index"},
		build: func(rc *RawComponent) (rule.Filter, error) {
			idx, err := u32("state_index", rc.StateIndex)
			return &rule.U8IncrementStateFilter{StateIndex: idx}, err
		},
		raw: func(v rule.Filter) (*RawComponent, bool) {
			x, ok := v.(*rule.U8IncrementStateFilter)
			if !ok || x == nil {
				return nil, false
			}
			return &RawComponent{StateIndex: ptr(uint64(x.StateIndex))}, true
		},
	},
	{
		name:   "u16_is_equal",
		fields: []string{"value"},
		build: func(rc *RawComponent) (rule.Filter, error) {
			value, err := u16("value", rc.Value)
			return &rule.U16IsEqualFilter{Value: value}, err
		},
		raw: func(v rule.Filter) (*RawComponent, bool) {
			x, ok := v.(*rule.U16IsEqualFilter)
			if !ok || x == nil {
				return nil, false
			}
			return &RawComponent{Value: ptr(uint64(x.Value))}, true
		},
	},
	{
		name:   "u32_is_equal_state",
		fields: []string{"state_index", "value"},
		build: func(rc *RawComponent) (rule.Filter, error) {
			idx, err := u32("state_index", rc.StateIndex)
			if err != nil {
				return nil, err
			}
			value, err := u32("value", rc.Value)
			return &rule.U32IsEqualStateFilter{StateIndex: idx, Value: value}, err
		},
		raw: func(v rule.Filter) (*RawComponent, bool) {
			x, ok := v.(*rule.U32IsEqualStateFilter)
			if !ok || x == nil {
				return nil, false
			}
			return &RawComponent{StateIndex: ptr(uint64(x.StateIndex)), Value: ptr(uint64(x.Value))}, true
		},
	},
	{
		name:   "u32_increment_state",
		fields: []string{"state_index"},
		build: func(rc *RawComponent) (rule.Filter, error) {
			idx, err := u32("state_index", rc.StateIndex)
			return &rule.U32IncrementStateFilter{StateIndex: idx}, err
		},
		raw: func(v rule.Filter) (*RawComponent, bool) {
			x, ok := v.(*rule.U32IncrementStateFilter)
			if !ok || x == nil {
				return nil, false
			}
			return &RawComponent{StateIndex: ptr(uint64(x.StateIndex))}, true
		},
	},
	{
		name:   "u32_set_state",
		fields: []string{"state_index", "value"},
		build: func(rc *RawComponent) (rule.Filter, error) {
			idx, err := u32("state_index", rc.StateIndex)
			if err != nil {
				return nil, err
			}
			value, err := u32("value", rc.Value)
			return &rule.U32SetStateFilter{StateIndex: idx, Value: value}, err
		},
		raw: func(v rule.Filter) (*RawComponent, bool) {
			x, ok := v.(*rule.U32SetStateFilter)
			if !ok || x == nil {
				return nil, false
			}
			return &RawComponent{StateIndex: ptr(uint64(x.StateIndex)), Value: ptr(uint64(x.Value))}, true
		},
	},
	{
		name:   "flip_flop",
		fields: []string{"state"},
		build: func(rc *RawComponent) (rule.Filter, error) {
			f := &rule.FlipFlopFilter{}
			if rc.State != nil {
				f.State = *rc.State
			}
			return f, nil
		},
		raw: func(v rule.Filter) (*RawComponent, bool) {
			x, ok := v.(*rule.FlipFlopFilter)
			if !ok || x == nil {
				return nil, false
			}
			return &RawComponent{State: ptr(x.State)}, true
		},
	},
	{
		name:   "count",
		fields: []string{"value", "required"},
		build: func(rc *RawComponent) (rule.Filter, error) {
			value, err := u32("value", rc.Value)
			if err != nil {
				return nil, err
			}
			required, err := u32("required", rc.Required)
			return &rule.CountFilter{Value: value, Required: required}, err
		},
		raw: func(v rule.Filter) (*RawComponent, bool) {
			x, ok := v.(*rule.CountFilter)
			if !ok || x == nil {
				return nil, false
			}
			return &RawComponent{Value: ptr(uint64(x.Value)), Required: ptr(uint64(x.Required))}, true
		},
	},
	{
		name:   "count_state",
		fields: []string{"state_index", "required"},
		build: func(rc *RawComponent) (rule.Filter, error) {
			idx, err := u32("state_index", rc.StateIndex)
			if err != nil {
				return nil, err
			}
			required, err := u32("required", rc.Required)
			return &rule.CountStateFilter{StateIndex: idx, Required: required}, err
		},
		raw: func(v rule.Filter) (*RawComponent, bool) {
			x, ok := v.(*rule.CountStateFilter)
			if !ok || x == nil {
				return nil, false
			}
			return &RawComponent{StateIndex: ptr(uint64(x.StateIndex)), Required: ptr(uint64(x.Required))}, true
		},
	},
}

var producers = []kind[rule.Producer]{
	{
		name:  "none",
		build: func(*RawComponent) (rule.Producer, error) { return &rule.NoneProducer{}, nil },
		raw: func(v rule.Producer) (*RawComponent, bool) {
			x, ok := v.(*rule.NoneProducer)
			return &RawComponent{}, ok && x != nil
		},
	},
	{
		name:   "bcm_change_brightness",
		fields: []string{"bcm_address", "channel", "brightness"},
		build: func(rc *RawComponent) (rule.Producer, error) {
			addr, err := u16("bcm_address", rc.BcmAddress)
			if err != nil {
				return nil, err
			}
			channel, err := u8("channel", rc.Channel)
			if err != nil {
				return nil, err
			}
			brightness, err := u8("brightness", rc.Brightness)
			return &rule.BcmChangeBrightnessProducer{BcmAddress: addr, Channel: channel, Brightness: brightness}, err
		},
		raw: func(v rule.Producer) (*RawComponent, bool) {
			x, ok := v.(*rule.BcmChangeBrightnessProducer)
			if !ok || x == nil {
				return nil, false
			}
			return &RawComponent{
				BcmAddress: ptr(uint64(x.BcmAddress)),
				Channel:    ptr(uint64(x.Channel)),
				Brightness: ptr(uint64(x.Brightness)),
			}, true
		},
	},
	{
		name:   "bcm_change_brightness_state",
		fields: []string{"bcm_address", "channel", "state_index"},
		build: func(rc *RawComponent) (rule.Producer, error) {
			addr, err := u16("bcm_address", rc.BcmAddress)
			if err != nil {
				return nil, err
			}
			channel, err := u8("channel", rc.Channel)
			if err != nil {
				return nil, err
			}
			idx, err := u32("state_index", rc.StateIndex)
			return &rule.BcmChangeBrightnessStateProducer{BcmAddress: addr, Channel: channel, StateIndex: idx}, err
		},
		raw: func(v rule.Producer) (*RawComponent, bool) {
			x, ok := v.(*rule.BcmChangeBrightnessStateProducer)
			if !ok || x == nil {
				return nil, false
			}
			return &RawComponent{
				BcmAddress: ptr(uint64(x.BcmAddress)),
				Channel:    ptr(uint64(x.Channel)),
				StateIndex: ptr(uint64(x.StateIndex)),
			}, true
		},
	},
}
