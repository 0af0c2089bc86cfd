package rule

import "encoding/binary"

// Filter codes.
const (
	U8IncrementStateFilterCode  uint16 = 0x0000
	U16IsEqualFilterCode        uint16 = 0x0001
	U32IsEqualStateFilterCode   uint16 = 0x0002
	U32IncrementStateFilterCode uint16 = 0x0003
	U32SetStateFilterCode       uint16 = 0x0004
	FlipFlopFilterCode          uint16 = 0x0005
	CountFilterCode             uint16 = 0x0006
	CountStateFilterCode        uint16 = 0x0007
)

// U8IncrementStateFilter increments a u8 state slot and always passes.
type U8IncrementStateFilter struct {
	StateIndex uint32
}

func (*U8IncrementStateFilter) FilterCode() uint16 { return U8IncrementStateFilterCode }
func (*U8IncrementStateFilter) PayloadSize() int   { return 4 }

func (f *U8IncrementStateFilter) MarshalPayload(b []byte) {
	binary.BigEndian.PutUint32(b, f.StateIndex)
}

func (f *U8IncrementStateFilter) UnmarshalPayload(b []byte) {
	f.StateIndex = binary.BigEndian.Uint32(b)
}

// U16IsEqualFilter passes when the extracted u16 equals Value.
type U16IsEqualFilter struct {
	Value uint16
}

func (*U16IsEqualFilter) FilterCode() uint16 { return U16IsEqualFilterCode }
func (*U16IsEqualFilter) PayloadSize() int   { return 2 }

func (f *U16IsEqualFilter) MarshalPayload(b []byte) {
	binary.BigEndian.PutUint16(b, f.Value)
}

func (f *U16IsEqualFilter) UnmarshalPayload(b []byte) {
	f.Value = binary.BigEndian.Uint16(b)
}

// U32IsEqualStateFilter passes when state slot StateIndex equals Value.
type U32IsEqualStateFilter struct {
	StateIndex uint32
	Value      uint32
}

func (*U32IsEqualStateFilter) FilterCode() uint16 { return U32IsEqualStateFilterCode }
func (*U32IsEqualStateFilter) PayloadSize() int   { return 8 }

func (f *U32IsEqualStateFilter) MarshalPayload(b []byte) {
	binary.BigEndian.PutUint32(b[0:4], f.StateIndex)
	binary.BigEndian.PutUint32(b[4:8], f.Value)
}

func (f *U32IsEqualStateFilter) UnmarshalPayload(b []byte) {
	f.StateIndex = binary.BigEndian.Uint32(b[0:4])
	f.Value = binary.BigEndian.Uint32(b[4:8])
}

// U32IncrementStateFilter increments a u32 state slot and always passes.
type U32IncrementStateFilter struct {
	StateIndex uint32
}

func (*U32IncrementStateFilter) FilterCode() uint16 { return U32IncrementStateFilterCode }
func (*U32IncrementStateFilter) PayloadSize() int   { return 4 }

func (f *U32IncrementStateFilter) MarshalPayload(b []byte) {
	binary.BigEndian.PutUint32(b, f.StateIndex)
}

func (f *U32IncrementStateFilter) UnmarshalPayload(b []byte) {
	f.StateIndex = binary.BigEndian.Uint32(b)
}

// U32SetStateFilter stores Value into state slot StateIndex and always passes.
type U32SetStateFilter struct {
	StateIndex uint32
	Value      uint32
}

func (*U32SetStateFilter) FilterCode() uint16 { return U32SetStateFilterCode }
func (*U32SetStateFilter) PayloadSize() int   { return 8 }

func (f *U32SetStateFilter) MarshalPayload(b []byte) {
	binary.BigEndian.PutUint32(b[0:4], f.StateIndex)
	binary.BigEndian.PutUint32(b[4:8], f.Value)
}

func (f *U32SetStateFilter) UnmarshalPayload(b []byte) {
	f.StateIndex = binary.BigEndian.Uint32(b[0:4])
	f.Value = binary.BigEndian.Uint32(b[4:8])
}

// FlipFlopFilter toggles State on every evaluation and passes when it
// becomes true.
type FlipFlopFilter struct {
	State bool
}

func (*FlipFlopFilter) FilterCode() uint16 { return FlipFlopFilterCode }
func (*FlipFlopFilter) PayloadSize() int   { return 1 }

func (f *FlipFlopFilter) MarshalPayload(b []byte) {
	b[0] = 0
	if f.State {
		b[0] = 1
	}
}

// UnmarshalPayload treats any non-zero byte as true.
func (f *FlipFlopFilter) UnmarshalPayload(b []byte) {
	f.State = b[0] != 0
}

// CountFilter counts evaluations in Value and passes when it reaches Required.
type CountFilter struct {
	Value    uint32
	Required uint32
}

func (*CountFilter) FilterCode() uint16 { return CountFilterCode }
func (*CountFilter) PayloadSize() int   { return 8 }

func (f *CountFilter) MarshalPayload(b []byte) {
	binary.BigEndian.PutUint32(b[0:4], f.Value)
	binary.BigEndian.PutUint32(b[4:8], f.Required)
}

func (f *CountFilter) UnmarshalPayload(b []byte) {
	f.Value = binary.BigEndian.Uint32(b[0:4])
	f.Required = binary.BigEndian.Uint32(b[4:8])
}

// CountStateFilter is a CountFilter whose counter lives in state slot
// StateIndex.
type CountStateFilter struct {
	StateIndex uint32
	Required   uint32
}

func (*CountStateFilter) FilterCode() uint16 { return CountStateFilterCode }
func (*CountStateFilter) PayloadSize() int   { return 8 }

func (f *CountStateFilter) MarshalPayload(b []byte) {
	binary.BigEndian.PutUint32(b[0:4], f.StateIndex)
	binary.BigEndian.PutUint32(b[4:8], f.Required)
}

func (f *CountStateFilter) UnmarshalPayload(b []byte) {
	f.StateIndex = binary.BigEndian.Uint32(b[0:4])
	f.Required = binary.BigEndian.Uint32(b[4:8])
}
